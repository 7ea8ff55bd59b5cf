package model

import "github.com/m-mizutani/swanpkg/pkg/domain/types"

// InstallInput holds the parameters of an installer run
type InstallInput struct {
	Mode        Mode
	Passcode    types.Passcode // Empty means ask interactively
	DestDir     string
	SkipInstall bool
}

// InstallResult summarizes an installer run
type InstallResult struct {
	Mode      Mode
	DestDir   string
	Files     []string // Downloaded file names in download order
	Installed bool     // False when the install command was skipped
}
