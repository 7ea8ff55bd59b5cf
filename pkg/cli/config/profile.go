package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Profile overrides built-in locations. Empty fields keep the defaults.
type Profile struct {
	API struct {
		URL string `toml:"url"`
	} `toml:"api"`
	Extras struct {
		BaseURL string   `toml:"base_url"`
		Files   []string `toml:"files"`
	} `toml:"extras"`
	Install struct {
		Command string `toml:"command"`
	} `toml:"install"`
}

// LoadProfile reads a TOML profile. Unknown keys are rejected.
func LoadProfile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open profile", goerr.V("path", path))
	}
	defer f.Close()

	var p Profile
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, goerr.Wrap(err, "failed to parse profile", goerr.V("path", path))
	}
	return &p, nil
}
