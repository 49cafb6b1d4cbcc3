package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	ports "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
)

// MockRemoteStore is a mock of RemoteStore.
type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) Read(ctx context.Context, address string) (*ports.Resource, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Resource), args.Error(1)
}

func (m *MockRemoteStore) Create(ctx context.Context, address string, payload []byte, contentType ports.ContentType) error {
	args := m.Called(ctx, address, payload, contentType)
	return args.Error(0)
}

func (m *MockRemoteStore) Delete(ctx context.Context, address, concurrencyToken string) error {
	args := m.Called(ctx, address, concurrencyToken)
	return args.Error(0)
}

// MockConversionClient is a mock of ConversionClient.
type MockConversionClient struct {
	mock.Mock
}

func (m *MockConversionClient) Convert(ctx context.Context, name, version string, payload []byte) ([]byte, error) {
	args := m.Called(ctx, name, version, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockArtifactHandler is a mock of the services ArtifactHandler.
type MockArtifactHandler struct {
	mock.Mock
}

func (m *MockArtifactHandler) Push(ctx context.Context, distributionID string, artifacts []domain.Artifact, ledger *domain.Ledger) error {
	args := m.Called(ctx, distributionID, artifacts, ledger)
	return args.Error(0)
}

func (m *MockArtifactHandler) Rollback(ctx context.Context, distributionID string, ledger *domain.Ledger) {
	m.Called(ctx, distributionID, ledger)
}

// MockDeployer is a mock of the services Deployer.
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Deploy(ctx context.Context, distributionID string, models, catalog []domain.Artifact) error {
	args := m.Called(ctx, distributionID, models, catalog)
	return args.Error(0)
}
