package interfaces

import (
	"context"

	"github.com/m-mizutani/langaudit/pkg/domain/model"
)

type UseCase interface {
	ScanLocal(ctx context.Context, input *model.ScanLocalInput) (*model.RepoReport, error)
	ScanRemote(ctx context.Context, input *model.ScanRemoteInput) (*model.RepoReport, error)
	ScanFleet(ctx context.Context, input *model.ScanFleetInput) (*model.FleetReport, error)
}
