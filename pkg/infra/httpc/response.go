package httpc

import (
	"bytes"
	"maps"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
)

// Request describes the request that produced a Response
type Request struct {
	Method  string
	URL     string
	Headers map[string]string // Lower-case keys
	Body    []byte
}

// Response is the result of Do. It is never modified after Do returns.
type Response struct {
	request Request
	content []byte
	json    any
	isJSON  bool
	status  int
	url     string
	headers map[string]string
}

// Request returns the request descriptor
func (r *Response) Request() Request {
	req := r.request
	req.Headers = maps.Clone(r.request.Headers)
	req.Body = bytes.Clone(r.request.Body)
	return req
}

// Content returns the response body, decompressed if it was gzip encoded
func (r *Response) Content() []byte {
	return bytes.Clone(r.content)
}

// JSON returns the parsed body. ok is false when the response did not
// declare a JSON content type.
func (r *Response) JSON() (v any, ok bool) {
	return r.json, r.isJSON
}

// Status returns the HTTP status code
func (r *Response) Status() int {
	return r.status
}

// OK reports whether the status is 2xx
func (r *Response) OK() bool {
	return r.status >= 200 && r.status < 300
}

// URL returns the final URL after redirects
func (r *Response) URL() string {
	return r.url
}

// Headers returns a copy of the response headers with lower-case keys
func (r *Response) Headers() map[string]string {
	return maps.Clone(r.headers)
}

// Header returns a response header value. name is case-insensitive.
func (r *Response) Header(name string) string {
	return r.headers[strings.ToLower(name)]
}

// Decode unmarshals the body into v regardless of content type
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.content, v); err != nil {
		return goerr.Wrap(err, "failed to decode response body",
			goerr.T(types.TagDecode),
			goerr.V("url", r.url),
			goerr.V("status", r.status),
		)
	}
	return nil
}
