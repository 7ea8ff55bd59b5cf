package types

// Version is the application version
const Version = "0.1.0"

// Passcode is the shared secret sent to the package API. Values of this type
// are redacted by the logger.
type Passcode string

// String returns the raw passcode
func (p Passcode) String() string {
	return string(p)
}
