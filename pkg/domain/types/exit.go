package types

// Process exit codes. The install command's own status is propagated as-is,
// so the codes below stay out of the range dpkg uses.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitEmptyPasscode = 255
	ExitAPIError      = 254
)
