package interfaces

import (
	"context"

	"github.com/m-mizutani/swanpkg/pkg/domain/model"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
)

// ManifestClient fetches package manifests from the package API
type ManifestClient interface {
	// FetchManifest returns the manifest for mode, authorized by passcode
	FetchManifest(ctx context.Context, mode model.Mode, passcode types.Passcode) (model.Manifest, error)
}

// Downloader stores the body of a URL at a local path
type Downloader interface {
	Download(ctx context.Context, url, path string) error
}

// PackageInstaller installs every package found in a directory
type PackageInstaller interface {
	Install(ctx context.Context, dir string) error
}

// PasscodeReader asks the user for a passcode
type PasscodeReader interface {
	ReadPasscode(ctx context.Context) (types.Passcode, error)
}
