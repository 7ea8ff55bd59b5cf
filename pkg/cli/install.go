package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/swanpkg/pkg/cli/config"
	"github.com/m-mizutani/swanpkg/pkg/domain/model"
	"github.com/m-mizutani/swanpkg/pkg/domain/types"
	"github.com/m-mizutani/swanpkg/pkg/infra/cpkg"
	"github.com/m-mizutani/swanpkg/pkg/infra/dpkg"
	"github.com/m-mizutani/swanpkg/pkg/infra/fetcher"
	"github.com/m-mizutani/swanpkg/pkg/infra/httpc"
	"github.com/m-mizutani/swanpkg/pkg/infra/prompt"
	"github.com/m-mizutani/swanpkg/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func runInstall(ctx context.Context, c *cli.Command, rt *runtime, apiCfg *config.API, installCfg *config.Install) error {
	logger := ctxlog.From(ctx)

	extras := model.ExtraPackages{
		BaseURL: usecase.DefaultExtraBaseURL,
		Files:   usecase.DefaultExtraFiles(),
	}

	// Explicit flags win over the profile
	if installCfg.Profile != "" {
		profile, err := config.LoadProfile(installCfg.Profile)
		if err != nil {
			return err
		}
		if profile.API.URL != "" && !c.IsSet("api-url") {
			apiCfg.URL = profile.API.URL
		}
		if profile.Install.Command != "" && !c.IsSet("install-command") {
			installCfg.Command = profile.Install.Command
		}
		if profile.Extras.BaseURL != "" {
			extras.BaseURL = profile.Extras.BaseURL
		}
		if len(profile.Extras.Files) > 0 {
			extras.Files = profile.Extras.Files
		}
		logger.Debug("Loaded profile", "path", installCfg.Profile)
	}

	destDir, err := installCfg.DestDir()
	if err != nil {
		return err
	}

	var httpOpts []httpc.Option
	if apiCfg.Insecure {
		logger.Warn("TLS certificate verification is disabled")
		httpOpts = append(httpOpts, httpc.WithInsecureSkipVerify())
	}

	uc := usecase.NewInstall(
		cpkg.NewClient(
			cpkg.WithBaseURL(apiCfg.URL),
			cpkg.WithHTTPOptions(httpOpts...),
		),
		fetcher.New(fetcher.WithHTTPOptions(httpOpts...)),
		dpkg.New(
			dpkg.WithCommand(installCfg.Command),
			dpkg.WithIO(rt.stdin, rt.stdout, rt.stderr),
		),
		prompt.New(prompt.WithIO(rt.stdin, rt.stderr)),
		usecase.WithExtraPackages(extras),
	)

	result, err := uc.Run(ctx, &model.InstallInput{
		Mode:        installCfg.Mode(),
		Passcode:    types.Passcode(apiCfg.Code),
		DestDir:     destDir,
		SkipInstall: installCfg.SkipInstall,
	})
	if err != nil {
		return err
	}

	logger.Info("Completed",
		"mode", result.Mode,
		"dest", result.DestDir,
		"files", len(result.Files),
		"installed", result.Installed,
	)
	return nil
}
