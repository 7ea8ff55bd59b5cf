package dpkg

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultCommand installs every Debian package in the working directory
const DefaultCommand = "dpkg -i *.deb"

// Installer runs a shell command inside the package directory
type Installer struct {
	shell   string
	command string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// Option is a functional option for Installer
type Option func(*Installer)

// WithCommand replaces DefaultCommand
func WithCommand(command string) Option {
	return func(i *Installer) {
		i.command = command
	}
}

// WithIO replaces the command's stdin, stdout and stderr
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(i *Installer) {
		i.stdin = stdin
		i.stdout = stdout
		i.stderr = stderr
	}
}

// New creates a new Installer
func New(opts ...Option) *Installer {
	i := &Installer{
		shell:   "bash",
		command: DefaultCommand,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install runs the command with dir as working directory. A non-zero exit is
// returned as an error wrapping *exec.ExitError.
func (i *Installer) Install(ctx context.Context, dir string) error {
	logger := ctxlog.From(ctx)
	logger.Debug("Running install command", "command", i.command, "dir", dir)

	cmd := exec.CommandContext(ctx, i.shell, "-c", i.command)
	cmd.Dir = dir
	cmd.Stdin = i.stdin
	cmd.Stdout = i.stdout
	cmd.Stderr = i.stderr

	if err := cmd.Run(); err != nil {
		return goerr.Wrap(err, "install command failed",
			goerr.V("command", i.command),
			goerr.V("dir", dir),
		)
	}
	return nil
}
