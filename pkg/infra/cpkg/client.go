package cpkg

import (
	"context"
	"net/http"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/swanpkg/pkg/domain/model"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
	"github.com/m-mizutani/swanpkg/pkg/infra/httpc"
)

// DefaultBaseURL is the package API endpoint
const DefaultBaseURL = "https://cpkg.c70.dev/pkg"

// PasscodeHeader carries the passcode on manifest requests
const PasscodeHeader = "x-code"

// Client fetches manifests from the package API
type Client struct {
	baseURL  string
	httpOpts []httpc.Option
}

// Option is a functional option for Client
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPOptions adds options to every request made by the client
func WithHTTPOptions(opts ...httpc.Option) Option {
	return func(c *Client) {
		c.httpOpts = append(c.httpOpts, opts...)
	}
}

// NewClient creates a new package API client
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchManifest fetches the manifest of mode. A non-200 status is returned as
// an error tagged TagAPIError.
func (c *Client) FetchManifest(ctx context.Context, mode model.Mode, passcode types.Passcode) (model.Manifest, error) {
	logger := ctxlog.From(ctx)
	url := c.baseURL + "/" + mode.String()

	logger.Debug("Requesting manifest", "url", url, "mode", mode, "passcode", passcode)

	opts := append([]httpc.Option{
		httpc.WithHeaders(map[string]string{PasscodeHeader: passcode.String()}),
	}, c.httpOpts...)

	resp, err := httpc.Do(ctx, url, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to request manifest", goerr.V("mode", mode))
	}

	if resp.Status() != http.StatusOK {
		return nil, goerr.New("package API returned an error",
			goerr.T(types.TagAPIError),
			goerr.V("status", resp.Status()),
			goerr.V("mode", mode),
			goerr.V("url", url),
		)
	}

	var manifest model.Manifest
	if err := resp.Decode(&manifest); err != nil {
		return nil, goerr.Wrap(err, "invalid manifest", goerr.V("mode", mode))
	}

	logger.Debug("Received manifest", "entries", len(manifest), "mode", mode)
	return manifest, nil
}
