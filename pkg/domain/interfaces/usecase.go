package interfaces

import (
	"context"

	"github.com/m-mizutani/swanpkg/pkg/domain/model"
)

// InstallUseCase downloads and installs the packages of a mode
type InstallUseCase interface {
	Run(ctx context.Context, input *model.InstallInput) (*model.InstallResult, error)
}
