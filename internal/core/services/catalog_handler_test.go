package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	output "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
	"github.com/onap/aai-model-loader-sub000/internal/testutil"
)

func catalogImage(t *testing.T, id string) *domain.CatalogArtifact {
	t.Helper()
	img, err := domain.NewCatalogArtifact(id, []byte(`{"att-uuid":"`+id+`"}`))
	require.NoError(t, err)
	return img
}

func TestCatalogHandler_Push(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewCatalogArtifactHandler(store, testPaths, RollbackDelete)
	existing, fresh := catalogImage(t, "img-1"), catalogImage(t, "img-2")

	store.On("Read", mock.Anything, testPaths.VnfImageAddress("img-1")).Return(found("img-1", "1"), nil)
	store.On("Read", mock.Anything, testPaths.VnfImageAddress("img-2")).Return(nil, domain.ErrResourceNotFound)
	store.On("Create", mock.Anything, testPaths.VnfImageAddress("img-2"), fresh.Body, output.ContentTypeJSON).Return(nil)

	var ledger domain.Ledger
	err := h.Push(context.Background(), "dist-1", []domain.Artifact{existing, fresh}, &ledger)

	require.NoError(t, err)
	assert.Equal(t, []string{"img-2"}, ledger.UniqueIDs())
	store.AssertExpectations(t)
}

func TestCatalogHandler_Push_Failure(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewCatalogArtifactHandler(store, testPaths, RollbackDelete)
	a, b := catalogImage(t, "img-1"), catalogImage(t, "img-2")

	store.On("Read", mock.Anything, mock.Anything).Return(nil, domain.ErrResourceNotFound)
	store.On("Create", mock.Anything, testPaths.VnfImageAddress("img-1"), mock.Anything, output.ContentTypeJSON).Return(nil)
	store.On("Create", mock.Anything, testPaths.VnfImageAddress("img-2"), mock.Anything, output.ContentTypeJSON).
		Return(errors.New("503 service unavailable"))

	var ledger domain.Ledger
	err := h.Push(context.Background(), "dist-1", []domain.Artifact{a, b}, &ledger)

	assert.ErrorIs(t, err, domain.ErrPushFailed)
	assert.Equal(t, []string{"img-1"}, ledger.UniqueIDs())
}

func TestCatalogHandler_Push_RejectsModels(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewCatalogArtifactHandler(store, testPaths, "")

	var ledger domain.Ledger
	err := h.Push(context.Background(), "dist-1", []domain.Artifact{compositeModel(t, "a")}, &ledger)

	assert.ErrorIs(t, err, domain.ErrUnsupportedArtifactType)
	store.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
}

func TestCatalogHandler_Rollback(t *testing.T) {
	tests := []struct {
		name    string
		policy  RollbackPolicy
		deletes int
	}{
		{name: "delete policy removes created images", policy: RollbackDelete, deletes: 2},
		{name: "default policy is delete", policy: "", deletes: 2},
		{name: "none policy leaves the store untouched", policy: RollbackNone, deletes: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(testutil.MockRemoteStore)
			h := NewCatalogArtifactHandler(store, testPaths, tt.policy)

			var ledger domain.Ledger
			ledger.Record(catalogImage(t, "img-1"), domain.PushCreatedNew)
			ledger.Record(catalogImage(t, "img-2"), domain.PushCreatedNew)

			store.On("Read", mock.Anything, mock.Anything).Return(found("img", "rv"), nil).Maybe()
			store.On("Delete", mock.Anything, mock.Anything, "rv").Return(nil).Maybe()

			h.Rollback(context.Background(), "dist-1", &ledger)

			deletes := methodCalls(store, "Delete")
			require.Len(t, deletes, tt.deletes)
			if tt.deletes > 0 {
				assert.Equal(t, testPaths.VnfImageAddress("img-1"), deletes[0].Arguments.String(1))
				assert.Equal(t, testPaths.VnfImageAddress("img-2"), deletes[1].Arguments.String(1))
			}
		})
	}
}
