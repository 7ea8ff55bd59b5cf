package httpc_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
	"github.com/m-mizutani/swanpkg/pkg/infra/httpc"
)

func newCountingServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestDo_HeadersAreLowercased(t *testing.T) {
	var gotCode, gotUA string
	server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotCode = r.Header.Get("X-Code")
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	})

	resp, err := httpc.Do(context.Background(), server.URL, httpc.WithHeaders(map[string]string{
		"X-Code":           "secret",
		"CONTENT-LANGUAGE": "en",
		"accept":           "*/*",
	}))
	gt.NoError(t, err)

	headers := resp.Request().Headers
	for k := range headers {
		gt.Value(t, k).Equal(strings.ToLower(k))
	}
	gt.Value(t, headers["x-code"]).Equal("secret")
	gt.Value(t, headers["content-language"]).Equal("en")
	gt.Value(t, headers["accept"]).Equal("*/*")
	gt.Value(t, headers["user-agent"]).Equal(httpc.DefaultUserAgent)

	gt.Value(t, gotCode).Equal("secret")
	gt.Value(t, gotUA).Equal(httpc.DefaultUserAgent)
}

func TestDo_CustomUserAgentIsKept(t *testing.T) {
	var gotUA string
	server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	})

	resp, err := httpc.Do(context.Background(), server.URL, httpc.WithHeaders(map[string]string{
		"User-Agent": "swanpkg-test",
	}))
	gt.NoError(t, err)
	gt.Value(t, gotUA).Equal("swanpkg-test")
	gt.Value(t, resp.Request().Headers["user-agent"]).Equal("swanpkg-test")
}

func TestDo_InvalidUsage(t *testing.T) {
	tests := []struct {
		name string
		opts []httpc.Option
	}{
		{
			name: "JSON and form together",
			opts: []httpc.Option{
				httpc.WithMethod(http.MethodPost),
				httpc.WithJSON(map[string]string{"a": "b"}),
				httpc.WithForm(url.Values{"c": {"d"}}),
			},
		},
		{
			name: "JSON body with GET",
			opts: []httpc.Option{
				httpc.WithJSON(map[string]string{"a": "b"}),
			},
		},
		{
			name: "form body with DELETE",
			opts: []httpc.Option{
				httpc.WithMethod(http.MethodDelete),
				httpc.WithForm(url.Values{"c": {"d"}}),
			},
		},
		{
			name: "JSON body with lower-case head",
			opts: []httpc.Option{
				httpc.WithMethod("head"),
				httpc.WithJSON([]int{1}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {})

			resp, err := httpc.Do(context.Background(), server.URL, tt.opts...)
			gt.Error(t, err)
			gt.Value(t, resp).Nil()
			gt.True(t, goerr.HasTag(err, types.TagInvalidUsage))
			gt.Value(t, hits.Load()).Equal(int32(0))
		})
	}
}

func TestDo_BodyMethods(t *testing.T) {
	for _, method := range []string{"post", "PATCH", "Put"} {
		t.Run(method, func(t *testing.T) {
			var gotMethod, gotType string
			var gotBody []byte
			server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotType = r.Header.Get("Content-Type")
				gotBody, _ = io.ReadAll(r.Body)
			})

			resp, err := httpc.Do(context.Background(), server.URL,
				httpc.WithMethod(method),
				httpc.WithJSON(map[string]int{"n": 1}),
			)
			gt.NoError(t, err)
			gt.Value(t, gotMethod).Equal(strings.ToUpper(method))
			gt.Value(t, gotType).Equal("application/json")
			gt.Value(t, string(gotBody)).Equal(`{"n":1}`)
			gt.Value(t, resp.Request().Method).Equal(strings.ToUpper(method))
		})
	}
}

func TestDo_EmptyJSONIsNoBody(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   any
	}{
		{name: "empty map with GET", method: http.MethodGet, body: map[string]any{}},
		{name: "empty slice with GET", method: http.MethodGet, body: []string{}},
		{name: "empty string with DELETE", method: http.MethodDelete, body: ""},
		{name: "zero with GET", method: http.MethodGet, body: 0},
		{name: "false with HEAD", method: http.MethodHead, body: false},
		{name: "nil map pointer with GET", method: http.MethodGet, body: (*map[string]any)(nil)},
		{name: "empty map with POST", method: http.MethodPost, body: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody []byte
			var gotType string
			server, hits := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
				gotType = r.Header.Get("Content-Type")
				gotBody, _ = io.ReadAll(r.Body)
			})

			resp, err := httpc.Do(context.Background(), server.URL,
				httpc.WithMethod(tt.method),
				httpc.WithJSON(tt.body),
			)
			gt.NoError(t, err)
			gt.Value(t, hits.Load()).Equal(int32(1))
			gt.A(t, gotBody).Length(0)
			gt.Value(t, gotType).Equal("")
			gt.A(t, resp.Request().Body).Length(0)

			_, ok := resp.Request().Headers["content-type"]
			gt.False(t, ok)
		})
	}
}

func TestDo_EmptyJSONWithForm(t *testing.T) {
	var gotValue, gotType string
	server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err == nil {
			gotValue = r.PostForm.Get("name")
		}
	})

	_, err := httpc.Do(context.Background(), server.URL,
		httpc.WithMethod(http.MethodPost),
		httpc.WithJSON(map[string]any{}),
		httpc.WithForm(url.Values{"name": {"charon"}}),
	)
	gt.NoError(t, err)
	gt.Value(t, gotType).Equal("application/x-www-form-urlencoded")
	gt.Value(t, gotValue).Equal("charon")
}

func TestDo_ReleasesConnections(t *testing.T) {
	var closed atomic.Int32
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("deb"))
	}))
	server.Config.ConnState = func(c net.Conn, state http.ConnState) {
		if state == http.StateClosed {
			closed.Add(1)
		}
	}
	server.Start()
	defer server.Close()

	for i := 0; i < 3; i++ {
		_, err := httpc.Do(context.Background(), server.URL)
		gt.NoError(t, err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for closed.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	gt.Value(t, closed.Load()).Equal(int32(3))
}

func TestDo_FormBody(t *testing.T) {
	var gotValue, gotType string
	server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err == nil {
			gotValue = r.PostForm.Get("name")
		}
	})

	_, err := httpc.Do(context.Background(), server.URL,
		httpc.WithMethod(http.MethodPost),
		httpc.WithForm(url.Values{"name": {"strongswan charon"}}),
	)
	gt.NoError(t, err)
	gt.Value(t, gotType).Equal("application/x-www-form-urlencoded")
	gt.Value(t, gotValue).Equal("strongswan charon")
}

func TestDo_Params(t *testing.T) {
	var gotQuery url.Values
	server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
	})

	_, err := httpc.Do(context.Background(), server.URL+"/pkg?fixed=1",
		httpc.WithParams(url.Values{"arch": {"amd64"}}),
	)
	gt.NoError(t, err)
	gt.Value(t, gotQuery.Get("fixed")).Equal("1")
	gt.Value(t, gotQuery.Get("arch")).Equal("amd64")
}

func TestDo_GzipContent(t *testing.T) {
	plain := []byte("Package: strongswan\nVersion: 5.7.2\n")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(plain)
	gt.NoError(t, err)
	gt.NoError(t, zw.Close())
	wire := buf.Bytes()

	server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write(wire)
	})

	resp, err := httpc.Do(context.Background(), server.URL)
	gt.NoError(t, err)
	gt.Value(t, resp.Content()).Equal(plain)
	gt.Value(t, resp.Header("Content-Encoding")).Equal("gzip")
}

func TestDo_BrokenGzip(t *testing.T) {
	server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write([]byte("not gzip"))
	})

	_, err := httpc.Do(context.Background(), server.URL)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.TagDecode))
}

func TestDo_JSONContentType(t *testing.T) {
	body := `[{"type":"file","name":"a.deb"}]`

	tests := []struct {
		name        string
		contentType string
		wantJSON    bool
	}{
		{name: "application/json", contentType: "application/json", wantJSON: true},
		{name: "with charset", contentType: "Application/JSON; charset=utf-8", wantJSON: true},
		{name: "plain text", contentType: "text/plain", wantJSON: false},
		{name: "octet stream", contentType: "application/octet-stream", wantJSON: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = w.Write([]byte(body))
			})

			resp, err := httpc.Do(context.Background(), server.URL)
			gt.NoError(t, err)

			v, ok := resp.JSON()
			gt.Value(t, ok).Equal(tt.wantJSON)
			if tt.wantJSON {
				gt.Value(t, v).Equal(any([]any{
					map[string]any{"type": "file", "name": "a.deb"},
				}))
			} else {
				gt.Value(t, v).Nil()
			}
			gt.Value(t, string(resp.Content())).Equal(body)
		})
	}
}

func TestDo_MalformedJSON(t *testing.T) {
	server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"broken":`))
	})

	resp, err := httpc.Do(context.Background(), server.URL)
	gt.Error(t, err)
	gt.Value(t, resp).Nil()
	gt.True(t, goerr.HasTag(err, types.TagDecode))
}

func TestDo_ErrorStatusIsResponse(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Reason", "denied")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			})

			resp, err := httpc.Do(context.Background(), server.URL)
			gt.NoError(t, err)
			gt.Value(t, resp.Status()).Equal(status)
			gt.False(t, resp.OK())
			gt.Value(t, resp.Header("x-reason")).Equal("denied")
			gt.Value(t, string(resp.Content())).Equal(`{"message":"nope"}`)

			v, ok := resp.JSON()
			gt.True(t, ok)
			gt.Value(t, v).Equal(any(map[string]any{"message": "nope"}))
		})
	}
}

func TestDo_Redirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Hop", "old")
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("moved here"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	t.Run("followed by default", func(t *testing.T) {
		resp, err := httpc.Do(context.Background(), server.URL+"/old")
		gt.NoError(t, err)
		gt.Value(t, resp.Status()).Equal(http.StatusOK)
		gt.Value(t, resp.URL()).Equal(server.URL + "/new")
		gt.Value(t, string(resp.Content())).Equal("moved here")
		gt.Value(t, resp.Request().URL).Equal(server.URL + "/old")
	})

	t.Run("returned as-is when disabled", func(t *testing.T) {
		resp, err := httpc.Do(context.Background(), server.URL+"/old", httpc.WithoutRedirect())
		gt.NoError(t, err)
		gt.Value(t, resp.Status()).Equal(http.StatusFound)
		gt.Value(t, resp.Header("location")).Equal("/new")
		gt.Value(t, resp.Header("x-hop")).Equal("old")
		gt.Value(t, resp.URL()).Equal(server.URL + "/old")
	})
}

func TestDo_BasicAuth(t *testing.T) {
	var gotUser, gotPass, gotAuth string
	var gotOK bool
	server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		gotAuth = r.Header.Get("Authorization")
	})

	t.Run("synthesized from credentials", func(t *testing.T) {
		_, err := httpc.Do(context.Background(), server.URL, httpc.WithBasicAuth("alice", "s3cret"))
		gt.NoError(t, err)
		gt.True(t, gotOK)
		gt.Value(t, gotUser).Equal("alice")
		gt.Value(t, gotPass).Equal("s3cret")
	})

	t.Run("explicit header wins", func(t *testing.T) {
		_, err := httpc.Do(context.Background(), server.URL,
			httpc.WithBasicAuth("alice", "s3cret"),
			httpc.WithHeaders(map[string]string{"Authorization": "Bearer token"}),
		)
		gt.NoError(t, err)
		gt.Value(t, gotAuth).Equal("Bearer token")
	})
}

func TestDo_TLSVerification(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tls ok"))
	}))
	defer server.Close()

	t.Run("self-signed certificate is rejected", func(t *testing.T) {
		_, err := httpc.Do(context.Background(), server.URL)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, types.TagTransport))
	})

	t.Run("accepted when verification is disabled", func(t *testing.T) {
		resp, err := httpc.Do(context.Background(), server.URL, httpc.WithInsecureSkipVerify())
		gt.NoError(t, err)
		gt.Value(t, string(resp.Content())).Equal("tls ok")
	})
}

func TestDo_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	resp, err := httpc.Do(context.Background(), addr)
	gt.Error(t, err)
	gt.Value(t, resp).Nil()
	gt.True(t, goerr.HasTag(err, types.TagTransport))
}

func TestResponse_Decode(t *testing.T) {
	server, _ := newCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"a.deb"}`))
	})

	resp, err := httpc.Do(context.Background(), server.URL)
	gt.NoError(t, err)

	var v struct {
		Name string `json:"name"`
	}
	gt.NoError(t, resp.Decode(&v))
	gt.Value(t, v.Name).Equal("a.deb")

	var bad []int
	gt.Error(t, resp.Decode(&bad))
}
