package model

// Mode selects which manifest variant is installed
type Mode string

const (
	ModeSwan57 Mode = "SWAN57"
	ModeSwan59 Mode = "SWAN59"
)

// ModeFromFlag returns SWAN59 when v59 is set, SWAN57 otherwise
func ModeFromFlag(v59 bool) Mode {
	if v59 {
		return ModeSwan59
	}
	return ModeSwan57
}

// NeedsExtras reports whether the mode requires packages that are missing
// from its manifest
func (m Mode) NeedsExtras() bool {
	return m == ModeSwan57
}

// String returns the path segment used by the package API
func (m Mode) String() string {
	return string(m)
}
