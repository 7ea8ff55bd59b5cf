package prompt

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
	"golang.org/x/term"
)

// DefaultLabel is printed before reading the passcode
const DefaultLabel = "Please enter passcode: "

// Prompt reads a passcode from the terminal without echoing it. When the
// input is not a terminal, one line is read as-is.
type Prompt struct {
	in    io.Reader
	out   io.Writer
	label string
}

// Option is a functional option for Prompt
type Option func(*Prompt)

// WithIO replaces stdin and stderr
func WithIO(in io.Reader, out io.Writer) Option {
	return func(p *Prompt) {
		p.in = in
		p.out = out
	}
}

// New creates a new Prompt
func New(opts ...Option) *Prompt {
	p := &Prompt{
		in:    os.Stdin,
		out:   os.Stderr,
		label: DefaultLabel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReadPasscode prints the label and returns the trimmed input
func (p *Prompt) ReadPasscode(ctx context.Context) (types.Passcode, error) {
	if _, err := color.New(color.FgCyan).Fprint(p.out, p.label); err != nil {
		return "", goerr.Wrap(err, "failed to write prompt")
	}

	var line string
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		// ReadPassword swallows the newline typed by the user
		_, _ = io.WriteString(p.out, "\n")
		if err != nil {
			return "", goerr.Wrap(err, "failed to read passcode")
		}
		line = string(raw)
	} else {
		s, err := bufio.NewReader(p.in).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", goerr.Wrap(err, "failed to read passcode")
		}
		line = s
	}

	return types.Passcode(strings.TrimSpace(line)), nil
}
