package usecase_test

import (
	"context"
	"errors"

	"github.com/m-mizutani/swanpkg/pkg/domain/model"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
)

// MockManifestClient is a mock implementation of ManifestClient
type MockManifestClient struct {
	fetchFunc func(ctx context.Context, mode model.Mode, passcode types.Passcode) (model.Manifest, error)
	calls     []MockManifestCall
}

type MockManifestCall struct {
	Mode     model.Mode
	Passcode types.Passcode
}

func (m *MockManifestClient) FetchManifest(ctx context.Context, mode model.Mode, passcode types.Passcode) (model.Manifest, error) {
	m.calls = append(m.calls, MockManifestCall{Mode: mode, Passcode: passcode})
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, mode, passcode)
	}
	return nil, errors.New("mock not configured")
}

// MockDownloader records download requests
type MockDownloader struct {
	downloadFunc func(ctx context.Context, url, path string) error
	calls        []MockDownloadCall
}

type MockDownloadCall struct {
	URL  string
	Path string
}

func (m *MockDownloader) Download(ctx context.Context, url, path string) error {
	m.calls = append(m.calls, MockDownloadCall{URL: url, Path: path})
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, url, path)
	}
	return nil
}

// MockInstaller records install requests
type MockInstaller struct {
	err  error
	dirs []string
}

func (m *MockInstaller) Install(ctx context.Context, dir string) error {
	m.dirs = append(m.dirs, dir)
	return m.err
}

// MockPasscodeReader returns a fixed passcode
type MockPasscodeReader struct {
	passcode types.Passcode
	err      error
	calls    int
}

func (m *MockPasscodeReader) ReadPasscode(ctx context.Context) (types.Passcode, error) {
	m.calls++
	return m.passcode, m.err
}
