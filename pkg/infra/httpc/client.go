package httpc

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"encoding/base64"
	"io"
	"net/http"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
)

// DefaultUserAgent is sent when the caller does not set a user-agent header
const DefaultUserAgent = "curl/7.64.1"

// bodyMethods are the methods allowed to carry a request body
var bodyMethods = map[string]bool{
	http.MethodPost:  true,
	http.MethodPatch: true,
	http.MethodPut:   true,
}

// Do performs exactly one HTTP exchange and returns its result.
//
// Error statuses (4xx, 5xx) are returned as a normal Response. An error is
// returned only for invalid usage (tagged TagInvalidUsage, raised before any
// network activity), transport failures (TagTransport) and malformed gzip or
// JSON bodies (TagDecode).
func Do(ctx context.Context, rawURL string, opts ...Option) (*Response, error) {
	cfg := &config{method: http.MethodGet}
	for _, opt := range opts {
		opt(cfg)
	}

	method := strings.ToUpper(cfg.method)

	headers := make(map[string]string, len(cfg.headers)+2)
	for k, v := range cfg.headers {
		headers[strings.ToLower(k)] = v
	}
	if _, ok := headers["user-agent"]; !ok {
		headers["user-agent"] = DefaultUserAgent
	}

	if len(cfg.params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + cfg.params.Encode()
	}

	hasJSON := !isEmptyJSON(cfg.jsonBody)
	hasForm := len(cfg.form) > 0
	if hasJSON && hasForm {
		return nil, goerr.New("cannot provide both JSON and form body",
			goerr.T(types.TagInvalidUsage),
			goerr.V("url", rawURL),
		)
	}
	if (hasJSON || hasForm) && !bodyMethods[method] {
		return nil, goerr.New("request method must be POST, PATCH or PUT when a body is provided",
			goerr.T(types.TagInvalidUsage),
			goerr.V("method", method),
			goerr.V("url", rawURL),
		)
	}

	var body []byte
	switch {
	case hasJSON:
		data, err := json.Marshal(cfg.jsonBody)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode JSON body", goerr.T(types.TagInvalidUsage))
		}
		headers["content-type"] = "application/json"
		body = data
	case hasForm:
		if _, ok := headers["content-type"]; !ok {
			headers["content-type"] = "application/x-www-form-urlencoded"
		}
		body = []byte(cfg.form.Encode())
	}

	if cfg.basicAuth != nil {
		if _, ok := headers["authorization"]; !ok {
			cred := cfg.basicAuth.username + ":" + cfg.basicAuth.password
			headers["authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(cred))
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request",
			goerr.T(types.TagInvalidUsage),
			goerr.V("method", method),
			goerr.V("url", rawURL),
		)
	}
	for k, v := range headers {
		if k == "host" {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}

	client := newClient(cfg)
	defer client.CloseIdleConnections()
	resp, err := client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "HTTP request failed",
			goerr.T(types.TagTransport),
			goerr.V("method", method),
			goerr.V("url", rawURL),
		)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response body",
			goerr.T(types.TagTransport),
			goerr.V("url", rawURL),
		)
	}

	respHeaders := make(map[string]string, len(resp.Header))
	for k, vs := range resp.Header {
		respHeaders[strings.ToLower(k)] = strings.Join(vs, ", ")
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	content := raw
	if strings.Contains(strings.ToLower(respHeaders["content-encoding"]), "gzip") {
		content, err = gunzip(raw)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decompress gzip body",
				goerr.T(types.TagDecode),
				goerr.V("url", finalURL),
			)
		}
	}

	result := &Response{
		request: Request{
			Method:  method,
			URL:     rawURL,
			Headers: headers,
			Body:    body,
		},
		content: content,
		status:  resp.StatusCode,
		url:     finalURL,
		headers: respHeaders,
	}

	if strings.Contains(strings.ToLower(respHeaders["content-type"]), "application/json") {
		var v any
		if err := json.Unmarshal(content, &v); err != nil {
			return nil, goerr.Wrap(err, "failed to parse JSON body",
				goerr.T(types.TagDecode),
				goerr.V("url", finalURL),
				goerr.V("status", resp.StatusCode),
			)
		}
		result.json = v
		result.isJSON = true
	}

	return result, nil
}

// newClient builds a client for one request from the base client in cfg
func newClient(cfg *config) *http.Client {
	client := &http.Client{}
	if cfg.client != nil {
		*client = *cfg.client
	}

	switch t := client.Transport.(type) {
	case nil:
		client.Transport = configureTransport(http.DefaultTransport.(*http.Transport).Clone(), cfg)
	case *http.Transport:
		client.Transport = configureTransport(t.Clone(), cfg)
	}

	if cfg.noRedirect {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return client
}

func configureTransport(t *http.Transport, cfg *config) *http.Transport {
	// gzip is decoded in Do so the content-encoding header stays visible
	t.DisableCompression = true

	if cfg.insecure {
		tlsCfg := &tls.Config{}
		if t.TLSClientConfig != nil {
			tlsCfg = t.TLSClientConfig.Clone()
		}
		tlsCfg.InsecureSkipVerify = true
		t.TLSClientConfig = tlsCfg
	}
	return t
}

// isEmptyJSON reports whether v carries no body: nil, false, zero numbers,
// and zero-length strings, maps, slices and arrays
func isEmptyJSON(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isEmptyJSON(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
