package types

import "github.com/m-mizutani/goerr/v2"

var (
	// TagInvalidUsage marks caller mistakes detected before any I/O
	TagInvalidUsage = goerr.NewTag("invalid_usage")

	// TagEmptyPasscode marks an empty interactive passcode
	TagEmptyPasscode = goerr.NewTag("empty_passcode")

	// TagAPIError marks a non-success response from the package API
	TagAPIError = goerr.NewTag("api_error")

	// TagTransport marks DNS, connection and TLS failures
	TagTransport = goerr.NewTag("transport")

	// TagDecode marks malformed gzip or JSON payloads
	TagDecode = goerr.NewTag("decode")
)
