package httpc

import (
	"net/http"
	"net/url"
)

type basicAuth struct {
	username string
	password string
}

// config holds the parameters of a single request
type config struct {
	method     string
	params     url.Values
	jsonBody   any
	form       url.Values
	headers    map[string]string
	insecure   bool
	noRedirect bool
	basicAuth  *basicAuth
	client     *http.Client
}

// Option is a functional option for Do
type Option func(*config)

// WithMethod sets the HTTP method. It is upper-cased before use.
func WithMethod(method string) Option {
	return func(c *config) {
		c.method = method
	}
}

// WithParams appends query parameters to the URL
func WithParams(params url.Values) Option {
	return func(c *config) {
		c.params = params
	}
}

// WithJSON sets a body that is encoded as JSON
func WithJSON(v any) Option {
	return func(c *config) {
		c.jsonBody = v
	}
}

// WithForm sets a body that is URL-encoded
func WithForm(form url.Values) Option {
	return func(c *config) {
		c.form = form
	}
}

// WithHeaders adds request headers. Keys are lower-cased.
func WithHeaders(headers map[string]string) Option {
	return func(c *config) {
		if c.headers == nil {
			c.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithInsecureSkipVerify disables certificate and hostname verification
func WithInsecureSkipVerify() Option {
	return func(c *config) {
		c.insecure = true
	}
}

// WithoutRedirect returns the first redirect response instead of following it
func WithoutRedirect() Option {
	return func(c *config) {
		c.noRedirect = true
	}
}

// WithBasicAuth sets an authorization header unless one is given explicitly
func WithBasicAuth(username, password string) Option {
	return func(c *config) {
		c.basicAuth = &basicAuth{username: username, password: password}
	}
}

// WithHTTPClient sets the base client. Its transport is cloned, never modified.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.client = client
	}
}
