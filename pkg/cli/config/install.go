package config

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/swanpkg/pkg/domain/model"
	"github.com/m-mizutani/swanpkg/pkg/infra/dpkg"
	"github.com/urfave/cli/v3"
)

// DefaultDestName is the directory created beside the executable
const DefaultDestName = "deb"

// Install holds installer configuration
type Install struct {
	V59         bool
	Dest        string
	Command     string
	SkipInstall bool
	Profile     string
}

// Flags returns CLI flags for installer configuration
func (c *Install) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "v59",
			Usage:       "Install the SWAN59 package set instead of SWAN57",
			Destination: &c.V59,
			Sources:     cli.EnvVars("SWANPKG_V59"),
		},
		&cli.StringFlag{
			Name:        "dest",
			Usage:       "Download directory (default: deb/ beside the executable)",
			Destination: &c.Dest,
			Sources:     cli.EnvVars("SWANPKG_DEST"),
		},
		&cli.StringFlag{
			Name:        "install-command",
			Usage:       "Shell command run in the download directory",
			Value:       dpkg.DefaultCommand,
			Destination: &c.Command,
			Sources:     cli.EnvVars("SWANPKG_INSTALL_COMMAND"),
		},
		&cli.BoolFlag{
			Name:        "skip-install",
			Usage:       "Download packages without installing them",
			Destination: &c.SkipInstall,
			Sources:     cli.EnvVars("SWANPKG_SKIP_INSTALL"),
		},
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "TOML profile overriding built-in locations",
			Destination: &c.Profile,
			Sources:     cli.EnvVars("SWANPKG_PROFILE"),
		},
	}
}

// Mode returns the selected manifest variant
func (c *Install) Mode() model.Mode {
	return model.ModeFromFlag(c.V59)
}

// DestDir returns Dest, or the deb directory beside the running executable
func (c *Install) DestDir() (string, error) {
	if c.Dest != "" {
		return filepath.Abs(c.Dest)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve executable path")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Join(filepath.Dir(exe), DefaultDestName), nil
}
