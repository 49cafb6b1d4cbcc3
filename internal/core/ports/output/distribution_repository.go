package ports

import (
	"context"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

type DistributionRepository interface {
	// Save inserts or replaces the status for its distribution id.
	Save(ctx context.Context, status *domain.DistributionStatus) error
	Get(ctx context.Context, distributionID string) (*domain.DistributionStatus, error)
}
