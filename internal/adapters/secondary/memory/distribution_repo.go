// Package memory holds in-process adapters used when no database is
// configured.
package memory

import (
	"context"
	"sync"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	output "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
)

type distributionRepo struct {
	mu       sync.RWMutex
	statuses map[string]domain.DistributionStatus
}

func NewDistributionRepository() output.DistributionRepository {
	return &distributionRepo{statuses: make(map[string]domain.DistributionStatus)}
}

func (r *distributionRepo) Save(_ context.Context, s *domain.DistributionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[s.DistributionID] = *s
	return nil
}

func (r *distributionRepo) Get(_ context.Context, distributionID string) (*domain.DistributionStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.statuses[distributionID]
	if !ok {
		return nil, domain.ErrDistributionNotFound
	}
	return &s, nil
}
