package fetcher

import (
	"context"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/swanpkg/pkg/infra/httpc"
	"github.com/spf13/afero"
)

// Fetcher downloads URLs into files
type Fetcher struct {
	fs       afero.Fs
	httpOpts []httpc.Option
}

// Option is a functional option for Fetcher
type Option func(*Fetcher)

// WithFs sets the destination filesystem. Default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(f *Fetcher) {
		f.fs = fs
	}
}

// WithHTTPOptions adds options to every download request
func WithHTTPOptions(opts ...httpc.Option) Option {
	return func(f *Fetcher) {
		f.httpOpts = append(f.httpOpts, opts...)
	}
}

// New creates a new Fetcher
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		fs: afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Download writes the response body of url to path byte for byte.
// The status code is not checked; error statuses are only logged.
func (f *Fetcher) Download(ctx context.Context, url, path string) error {
	logger := ctxlog.From(ctx)

	resp, err := httpc.Do(ctx, url, f.httpOpts...)
	if err != nil {
		return goerr.Wrap(err, "failed to download file", goerr.V("url", url))
	}

	if !resp.OK() {
		logger.Warn("Download returned non-success status",
			"url", url,
			"status", resp.Status(),
			"path", path,
		)
	}

	content := resp.Content()
	if err := afero.WriteFile(f.fs, path, content, 0644); err != nil {
		return goerr.Wrap(err, "failed to write downloaded file",
			goerr.V("path", path),
			goerr.V("url", url),
		)
	}

	logger.Info("Downloaded",
		"file", filepath.Base(path),
		"size_bytes", len(content),
	)
	return nil
}
