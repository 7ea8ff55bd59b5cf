package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/swanpkg/pkg/cli/config"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// runtime holds the process streams used by the CLI
type runtime struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option is a functional option for Run
type Option func(*runtime)

// WithStdio replaces the process streams
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *runtime) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	rt := &runtime{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(rt)
	}

	// .env only feeds the SWANPKG_* flag sources, so it must be loaded before parsing
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "failed to load .env")
	}

	loggerCfg := config.Logger{Output: rt.stderr}
	var (
		apiCfg     config.API
		installCfg config.Install
		logger     *slog.Logger
	)

	flags := append(loggerCfg.Flags(), apiCfg.Flags()...)
	flags = append(flags, installCfg.Flags()...)

	app := &cli.Command{
		Name:      "swanpkg",
		Usage:     "Download and install strongSwan Debian packages",
		Version:   types.Version,
		Flags:     flags,
		Writer:    rt.stdout,
		ErrWriter: rt.stderr,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			logger = logger.With(slog.String("run_id", uuid.NewString()))

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runInstall(ctx, c, rt, &apiCfg, &installCfg)
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(rt.stderr, nil))
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
