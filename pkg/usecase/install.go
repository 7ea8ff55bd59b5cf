package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/swanpkg/pkg/domain/interfaces"
	"github.com/m-mizutani/swanpkg/pkg/domain/model"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
	"github.com/spf13/afero"
)

// DefaultExtraBaseURL hosts the iptables libraries missing from the SWAN57 manifest
const DefaultExtraBaseURL = "http://ftp.us.debian.org/debian/pool/main/i/iptables"

// DefaultExtraFiles returns the packages fetched from DefaultExtraBaseURL
func DefaultExtraFiles() []string {
	return []string{
		"libip4tc0_1.8.2-4_amd64.deb",
		"libip6tc0_1.8.2-4_amd64.deb",
	}
}

type installUseCase struct {
	manifestClient interfaces.ManifestClient
	downloader     interfaces.Downloader
	installer      interfaces.PackageInstaller
	passcodeReader interfaces.PasscodeReader
	fs             afero.Fs
	extras         model.ExtraPackages
}

// InstallOption is a functional option for the install use case
type InstallOption func(*installUseCase)

// WithFs sets the filesystem holding the destination directory
func WithFs(fs afero.Fs) InstallOption {
	return func(uc *installUseCase) {
		uc.fs = fs
	}
}

// WithExtraPackages replaces the packages added to modes that need extras
func WithExtraPackages(extras model.ExtraPackages) InstallOption {
	return func(uc *installUseCase) {
		uc.extras = extras
	}
}

// NewInstall creates a new instance of InstallUseCase
func NewInstall(
	manifestClient interfaces.ManifestClient,
	downloader interfaces.Downloader,
	installer interfaces.PackageInstaller,
	passcodeReader interfaces.PasscodeReader,
	opts ...InstallOption,
) interfaces.InstallUseCase {
	uc := &installUseCase{
		manifestClient: manifestClient,
		downloader:     downloader,
		installer:      installer,
		passcodeReader: passcodeReader,
		fs:             afero.NewOsFs(),
		extras: model.ExtraPackages{
			BaseURL: DefaultExtraBaseURL,
			Files:   DefaultExtraFiles(),
		},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run fetches the manifest of input.Mode, downloads every package into
// input.DestDir and installs them. Nothing is cleaned up on failure.
func (uc *installUseCase) Run(ctx context.Context, input *model.InstallInput) (*model.InstallResult, error) {
	logger := ctxlog.From(ctx)
	logger.Info("Install version", "mode", input.Mode)

	passcode := input.Passcode
	if passcode == "" {
		code, err := uc.passcodeReader.ReadPasscode(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read passcode")
		}
		if code == "" {
			return nil, goerr.New("passcode cannot be empty", goerr.T(types.TagEmptyPasscode))
		}
		passcode = code
	}

	logger.Info("Requesting data from package API", "mode", input.Mode)
	manifest, err := uc.manifestClient.FetchManifest(ctx, input.Mode, passcode)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch manifest", goerr.V("mode", input.Mode))
	}

	if err := uc.fs.MkdirAll(input.DestDir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create destination directory", goerr.V("dir", input.DestDir))
	}

	entries := manifest.Files()
	if skipped := len(manifest) - len(entries); skipped > 0 {
		logger.Debug("Skipped non-file manifest entries", "count", skipped)
	}
	if input.Mode.NeedsExtras() {
		entries = append(entries, uc.extras.Entries()...)
	}

	result := &model.InstallResult{
		Mode:    input.Mode,
		DestDir: input.DestDir,
	}

	logger.Info("Downloading packages", "count", len(entries), "dest", input.DestDir)
	for _, entry := range entries {
		if err := validateFileName(entry.Name); err != nil {
			return nil, err
		}

		path := filepath.Join(input.DestDir, entry.Name)
		if err := uc.downloader.Download(ctx, entry.DownloadURL, path); err != nil {
			return nil, goerr.Wrap(err, "failed to download package",
				goerr.V("name", entry.Name),
				goerr.V("url", entry.DownloadURL),
			)
		}
		result.Files = append(result.Files, entry.Name)
	}

	if input.SkipInstall {
		logger.Info("Skipping installation", "dest", input.DestDir)
		return result, nil
	}

	logger.Info("Installing packages", "dest", input.DestDir)
	if err := uc.installer.Install(ctx, input.DestDir); err != nil {
		return nil, goerr.Wrap(err, "failed to install packages")
	}
	result.Installed = true

	return result, nil
}

// validateFileName keeps downloads flat inside the destination directory
func validateFileName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return goerr.New("invalid package file name", goerr.V("name", name))
	}
	return nil
}
