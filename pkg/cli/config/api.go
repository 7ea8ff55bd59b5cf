package config

import (
	"github.com/m-mizutani/swanpkg/pkg/infra/cpkg"
	"github.com/urfave/cli/v3"
)

// API holds package API configuration
type API struct {
	URL      string
	Code     string
	Insecure bool
}

// Flags returns CLI flags for package API configuration
func (c *API) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "Package API base URL",
			Value:       cpkg.DefaultBaseURL,
			Destination: &c.URL,
			Sources:     cli.EnvVars("SWANPKG_API_URL"),
		},
		&cli.StringFlag{
			Name:        "code",
			Usage:       "Passcode for the package API (prompted when omitted)",
			Destination: &c.Code,
			Sources:     cli.EnvVars("SWANPKG_CODE"),
		},
		&cli.BoolFlag{
			Name:        "insecure",
			Usage:       "Skip TLS certificate verification",
			Destination: &c.Insecure,
			Sources:     cli.EnvVars("SWANPKG_INSECURE"),
		},
	}
}
