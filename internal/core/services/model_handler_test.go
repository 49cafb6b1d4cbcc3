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

const (
	testBaseURL   = "https://aai.onap:8443"
	testNamespace = "http://org.onap/aai.inventory/v11"
	modelRoot     = testBaseURL + "/aai/v11/service-design-and-creation/models/model/"
)

var testPaths = DefaultPaths(testBaseURL)

func compositeModel(t *testing.T, invariantID string) *domain.ModelArtifact {
	t.Helper()
	m, err := domain.NewModelArtifact(invariantID, invariantID+"-ver", testNamespace, []byte("<model>"+invariantID+"</model>"))
	require.NoError(t, err)
	m.VersionBody = []byte("<model-ver>" + invariantID + "</model-ver>")
	return m
}

func parentAddress(invariantID string) string {
	return modelRoot + invariantID
}

func versionAddress(invariantID string) string {
	return modelRoot + invariantID + "/model-vers/model-ver/" + invariantID + "-ver"
}

func found(address, token string) *output.Resource {
	return &output.Resource{Address: address, ConcurrencyToken: token}
}

func methodCalls(store *testutil.MockRemoteStore, method string) []mock.Call {
	var calls []mock.Call
	for _, c := range store.Calls {
		if c.Method == method {
			calls = append(calls, c)
		}
	}
	return calls
}

func TestPaths(t *testing.T) {
	assert.Equal(t, modelRoot+"inv", testPaths.ModelAddress("v11", "inv"))
	assert.Equal(t, modelRoot+"inv/model-vers/model-ver/ver", testPaths.ModelVersionAddress("v11", "inv", "ver"))
	assert.Equal(t, testBaseURL+"/aai/v11/service-design-and-creation/named-queries/named-query/q", testPaths.NamedQueryAddress("", "q"))
	assert.Equal(t, testBaseURL+"/aai/v8/service-design-and-creation/models/model/nv", testPaths.LegacyModelAddress("v8", "nv"))
	assert.Equal(t, testBaseURL+"/aai/v11/service-design-and-creation/vnf-images/vnf-image/img", testPaths.VnfImageAddress("img"))
}

func TestModelHandler_Push_EverythingExists(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)

	a, b := compositeModel(t, "a"), compositeModel(t, "b")
	for _, inv := range []string{"a", "b"} {
		store.On("Read", mock.Anything, parentAddress(inv)).Return(found(parentAddress(inv), "1"), nil)
		store.On("Read", mock.Anything, versionAddress(inv)).Return(found(versionAddress(inv), "1"), nil)
	}

	var ledger domain.Ledger
	err := h.Push(context.Background(), "dist-1", []domain.Artifact{a, b}, &ledger)

	assert.NoError(t, err)
	assert.Equal(t, 0, ledger.Len())
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestModelHandler_Push_CreatesNewParent(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)
	m := compositeModel(t, "a")

	store.On("Read", mock.Anything, parentAddress("a")).Return(nil, domain.ErrResourceNotFound)
	store.On("Create", mock.Anything, parentAddress("a"), m.Body, output.ContentTypeXML).Return(nil)
	store.On("Read", mock.Anything, versionAddress("a")).Return(found(versionAddress("a"), "7"), nil)

	var ledger domain.Ledger
	err := h.Push(context.Background(), "dist-1", []domain.Artifact{m}, &ledger)

	require.NoError(t, err)
	require.Equal(t, 1, ledger.Len())
	assert.Equal(t, domain.PushCreatedNew, ledger.Entries()[0].Result)
	store.AssertExpectations(t)
}

func TestModelHandler_Push_CreatesVersionOnly(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)
	m := compositeModel(t, "a")

	store.On("Read", mock.Anything, parentAddress("a")).Return(found(parentAddress("a"), "3"), nil)
	store.On("Read", mock.Anything, versionAddress("a")).Return(nil, domain.ErrResourceNotFound)
	store.On("Create", mock.Anything, versionAddress("a"), m.VersionBody, output.ContentTypeXML).Return(nil)

	var ledger domain.Ledger
	err := h.Push(context.Background(), "dist-1", []domain.Artifact{m}, &ledger)

	require.NoError(t, err)
	require.Equal(t, 1, ledger.Len())
	assert.Equal(t, domain.PushCreatedVersionOnly, ledger.Entries()[0].Result)
	store.AssertExpectations(t)
}

func TestModelHandler_Push_ReadErrorCountsAsAbsent(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)
	q, err := domain.NewNamedQueryArtifact("0f3c2e7a-8f1e-4b8a-9d3c-2b6a1f0e4d55", testNamespace, []byte("<named-query/>"))
	require.NoError(t, err)
	address := testPaths.NamedQueryAddress("v11", q.UUID)

	store.On("Read", mock.Anything, address).Return(nil, errors.New("connection refused"))
	store.On("Create", mock.Anything, address, q.Body, output.ContentTypeXML).Return(nil)

	var ledger domain.Ledger
	err = h.Push(context.Background(), "dist-1", []domain.Artifact{q}, &ledger)

	require.NoError(t, err)
	assert.Equal(t, []string{q.UUID}, ledger.UniqueIDs())
	store.AssertExpectations(t)
}

func TestModelHandler_Push_StopsAtFirstFailure(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)
	a, b, c, d := compositeModel(t, "a"), compositeModel(t, "b"), compositeModel(t, "c"), compositeModel(t, "d")

	for _, inv := range []string{"a", "b"} {
		store.On("Read", mock.Anything, parentAddress(inv)).Return(nil, domain.ErrResourceNotFound)
		store.On("Create", mock.Anything, parentAddress(inv), mock.Anything, output.ContentTypeXML).Return(nil)
		store.On("Read", mock.Anything, versionAddress(inv)).Return(found(versionAddress(inv), "1"), nil)
	}
	store.On("Read", mock.Anything, parentAddress("c")).Return(nil, domain.ErrResourceNotFound)
	store.On("Create", mock.Anything, parentAddress("c"), mock.Anything, output.ContentTypeXML).
		Return(errors.New("500 internal server error"))

	var ledger domain.Ledger
	err := h.Push(context.Background(), "dist-1", []domain.Artifact{a, b, c, d}, &ledger)

	assert.ErrorIs(t, err, domain.ErrPushFailed)
	assert.Equal(t, []string{a.UniqueID(), b.UniqueID()}, ledger.UniqueIDs())
	store.AssertNotCalled(t, "Read", mock.Anything, parentAddress("d"))
	store.AssertExpectations(t)
}

func TestModelHandler_Push_ParentCreatedThenVersionFails(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)
	m := compositeModel(t, "a")

	store.On("Read", mock.Anything, parentAddress("a")).Return(nil, domain.ErrResourceNotFound)
	store.On("Create", mock.Anything, parentAddress("a"), m.Body, output.ContentTypeXML).Return(nil)
	store.On("Read", mock.Anything, versionAddress("a")).Return(nil, domain.ErrResourceNotFound)
	store.On("Create", mock.Anything, versionAddress("a"), m.VersionBody, output.ContentTypeXML).Return(domain.ErrResourceConflict)

	var ledger domain.Ledger
	err := h.Push(context.Background(), "dist-1", []domain.Artifact{m}, &ledger)

	assert.ErrorIs(t, err, domain.ErrPushFailed)
	assert.ErrorIs(t, err, domain.ErrResourceConflict)
	require.Equal(t, 1, ledger.Len())
	assert.Equal(t, domain.PushCreatedNew, ledger.Entries()[0].Result)
}

func TestModelHandler_Push_LegacyModelIsConverted(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	converter := new(testutil.MockConversionClient)
	h := NewModelArtifactHandler(store, converter, testPaths)

	m, err := domain.NewModelArtifact("legacy", "legacy-nv", "http://org.openecomp.aai.inventory/v8", []byte("<model/>"))
	require.NoError(t, err)
	address := testPaths.LegacyModelAddress("v8", "legacy-nv")
	translated := []byte("<model>translated</model>")

	store.On("Read", mock.Anything, address).Return(nil, domain.ErrResourceNotFound)
	converter.On("Convert", mock.Anything, "legacy", "legacy-nv", m.Body).Return(translated, nil)
	store.On("Create", mock.Anything, address, translated, output.ContentTypeXML).Return(nil)

	var ledger domain.Ledger
	err = h.Push(context.Background(), "dist-1", []domain.Artifact{m}, &ledger)

	require.NoError(t, err)
	assert.Equal(t, 1, ledger.Len())
	store.AssertExpectations(t)
	converter.AssertExpectations(t)
}

func TestModelHandler_Push_ConversionFailureIsPushFailure(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	converter := new(testutil.MockConversionClient)
	h := NewModelArtifactHandler(store, converter, testPaths)

	m, err := domain.NewModelArtifact("legacy", "legacy-nv", "http://org.openecomp.aai.inventory/v8", []byte("<model/>"))
	require.NoError(t, err)
	address := testPaths.LegacyModelAddress("v8", "legacy-nv")

	store.On("Read", mock.Anything, address).Return(nil, domain.ErrResourceNotFound)
	converter.On("Convert", mock.Anything, "legacy", "legacy-nv", m.Body).Return(nil, domain.ErrConversionFailed)

	var ledger domain.Ledger
	err = h.Push(context.Background(), "dist-1", []domain.Artifact{m}, &ledger)

	assert.ErrorIs(t, err, domain.ErrPushFailed)
	assert.ErrorIs(t, err, domain.ErrConversionFailed)
	assert.Equal(t, 0, ledger.Len())
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestModelHandler_Push_LegacyWithoutConverter(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)

	m, err := domain.NewModelArtifact("legacy", "legacy-nv", "http://org.openecomp.aai.inventory/v8", nil)
	require.NoError(t, err)
	store.On("Read", mock.Anything, testPaths.LegacyModelAddress("v8", "legacy-nv")).Return(nil, domain.ErrResourceNotFound)

	var ledger domain.Ledger
	err = h.Push(context.Background(), "dist-1", []domain.Artifact{m}, &ledger)

	assert.ErrorIs(t, err, domain.ErrConversionFailed)
}

func TestModelHandler_Push_RejectsCatalogArtifacts(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)
	img, _ := domain.NewCatalogArtifact("img", nil)

	var ledger domain.Ledger
	err := h.Push(context.Background(), "dist-1", []domain.Artifact{img}, &ledger)

	assert.ErrorIs(t, err, domain.ErrUnsupportedArtifactType)
	assert.Equal(t, 0, ledger.Len())
}

func TestModelHandler_Rollback_Scope(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)
	fresh, versioned := compositeModel(t, "fresh"), compositeModel(t, "versioned")

	var ledger domain.Ledger
	ledger.Record(fresh, domain.PushCreatedNew)
	ledger.Record(versioned, domain.PushCreatedVersionOnly)

	store.On("Read", mock.Anything, parentAddress("fresh")).Return(found(parentAddress("fresh"), "rv-1"), nil)
	store.On("Delete", mock.Anything, parentAddress("fresh"), "rv-1").Return(nil)
	store.On("Read", mock.Anything, versionAddress("versioned")).Return(found(versionAddress("versioned"), "rv-2"), nil)
	store.On("Delete", mock.Anything, versionAddress("versioned"), "rv-2").Return(nil)

	h.Rollback(context.Background(), "dist-1", &ledger)

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Delete", mock.Anything, versionAddress("fresh"), mock.Anything)
	store.AssertNotCalled(t, "Delete", mock.Anything, parentAddress("versioned"), mock.Anything)

	deletes := methodCalls(store, "Delete")
	require.Len(t, deletes, 2)
	assert.Equal(t, parentAddress("fresh"), deletes[0].Arguments.String(1))
	assert.Equal(t, versionAddress("versioned"), deletes[1].Arguments.String(1))
}

func TestModelHandler_Rollback_IsBestEffort(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)
	a, b, c := compositeModel(t, "a"), compositeModel(t, "b"), compositeModel(t, "c")

	var ledger domain.Ledger
	ledger.Record(a, domain.PushCreatedNew)
	ledger.Record(b, domain.PushCreatedNew)
	ledger.Record(c, domain.PushCreatedNew)

	store.On("Read", mock.Anything, parentAddress("a")).Return(nil, errors.New("timeout"))
	store.On("Read", mock.Anything, parentAddress("b")).Return(found(parentAddress("b"), "rv-b"), nil)
	store.On("Delete", mock.Anything, parentAddress("b"), "rv-b").Return(errors.New("412 precondition failed"))
	store.On("Read", mock.Anything, parentAddress("c")).Return(found(parentAddress("c"), "rv-c"), nil)
	store.On("Delete", mock.Anything, parentAddress("c"), "rv-c").Return(nil)

	assert.NotPanics(t, func() {
		h.Rollback(context.Background(), "dist-1", &ledger)
	})

	store.AssertNotCalled(t, "Delete", mock.Anything, parentAddress("a"), mock.Anything)
	store.AssertExpectations(t)
}

func TestModelHandler_PushThenRollbackRemovesOnlyWhatItCreated(t *testing.T) {
	store := new(testutil.MockRemoteStore)
	h := NewModelArtifactHandler(store, nil, testPaths)
	existing, created := compositeModel(t, "existing"), compositeModel(t, "created")

	store.On("Read", mock.Anything, parentAddress("existing")).Return(found(parentAddress("existing"), "1"), nil)
	store.On("Read", mock.Anything, versionAddress("existing")).Return(found(versionAddress("existing"), "1"), nil)
	store.On("Read", mock.Anything, parentAddress("created")).Return(nil, domain.ErrResourceNotFound).Once()
	store.On("Create", mock.Anything, parentAddress("created"), mock.Anything, output.ContentTypeXML).Return(nil)
	store.On("Read", mock.Anything, versionAddress("created")).Return(found(versionAddress("created"), "1"), nil)

	var ledger domain.Ledger
	require.NoError(t, h.Push(context.Background(), "dist-1", []domain.Artifact{existing, created}, &ledger))
	assert.Equal(t, []string{created.UniqueID()}, ledger.UniqueIDs())

	store.On("Read", mock.Anything, parentAddress("created")).Return(found(parentAddress("created"), "rv"), nil)
	store.On("Delete", mock.Anything, parentAddress("created"), "rv").Return(nil)

	h.Rollback(context.Background(), "dist-1", &ledger)

	deletes := methodCalls(store, "Delete")
	require.Len(t, deletes, 1)
	assert.Equal(t, parentAddress("created"), deletes[0].Arguments.String(1))
}
