package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

// MockDistributionRepo is a mock of DistributionRepository.
type MockDistributionRepo struct {
	mock.Mock
}

func (m *MockDistributionRepo) Save(ctx context.Context, status *domain.DistributionStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockDistributionRepo) Get(ctx context.Context, distributionID string) (*domain.DistributionStatus, error) {
	args := m.Called(ctx, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DistributionStatus), args.Error(1)
}
