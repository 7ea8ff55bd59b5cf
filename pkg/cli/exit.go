package cli

import (
	"errors"
	"os/exec"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
)

// ExitCode maps an error returned by Run to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return types.ExitOK
	}

	switch {
	case goerr.HasTag(err, types.TagEmptyPasscode):
		return types.ExitEmptyPasscode
	case goerr.HasTag(err, types.TagAPIError):
		return types.ExitAPIError
	}

	// The install command's own status becomes ours
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}

	return types.ExitFailure
}
