package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	output "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
	"github.com/onap/aai-model-loader-sub000/internal/metrics"
)

const modelClass = "model"

// ModelArtifactHandler pushes models and named queries.
type ModelArtifactHandler struct {
	store     output.RemoteStore
	converter output.ConversionClient
	paths     Paths
}

// NewModelArtifactHandler creates a handler. converter may be nil, in which
// case legacy models cannot be pushed.
func NewModelArtifactHandler(store output.RemoteStore, converter output.ConversionClient, paths Paths) *ModelArtifactHandler {
	return &ModelArtifactHandler{
		store:     store,
		converter: converter,
		paths:     paths,
	}
}

func (h *ModelArtifactHandler) Push(
	ctx context.Context,
	distributionID string,
	artifacts []domain.Artifact,
	ledger *domain.Ledger,
) error {
	ctx = output.WithTransactionID(ctx, distributionID)

	for _, a := range artifacts {
		logger := log.WithFields(log.Fields{
			"distribution_id": distributionID,
			"artifact":        a.UniqueID(),
			"kind":            a.Kind(),
		})

		result, err := h.push(ctx, a)
		// A composite model can fail after creating its parent; the parent
		// still belongs in the ledger.
		ledger.Record(a, result)
		if err != nil {
			metrics.RecordPush(modelClass, "failure")
			logger.WithError(err).Error("model artifact push failed")
			return fmt.Errorf("push %s: %w", a.UniqueID(), err)
		}

		metrics.RecordPush(modelClass, result.String())
		logger.WithField("result", result.String()).Info("model artifact pushed")
	}

	return nil
}

func (h *ModelArtifactHandler) push(ctx context.Context, a domain.Artifact) (domain.PushResult, error) {
	switch art := a.(type) {
	case *domain.ModelArtifact:
		if art.RequiresConversion() {
			return h.pushLegacyModel(ctx, art)
		}
		return h.pushCompositeModel(ctx, art)
	case *domain.NamedQueryArtifact:
		address := h.paths.NamedQueryAddress(art.NamespaceVersion(), art.UUID)
		created, err := ensureResource(ctx, h.store, address, art.Body, output.ContentTypeXML)
		return resultOf(created), err
	default:
		return domain.PushAlreadyExisted, fmt.Errorf("%w: %w: %s", domain.ErrPushFailed, domain.ErrUnsupportedArtifactType, a.Kind())
	}
}

// pushCompositeModel ensures the parent model exists and then that the
// model-ver child exists.
func (h *ModelArtifactHandler) pushCompositeModel(ctx context.Context, m *domain.ModelArtifact) (domain.PushResult, error) {
	version := m.NamespaceVersion()
	parentAddress := h.paths.ModelAddress(version, m.InvariantID)
	versionAddress := h.paths.ModelVersionAddress(version, m.InvariantID, m.VersionID)

	createdParent, err := ensureResource(ctx, h.store, parentAddress, m.Body, output.ContentTypeXML)
	if err != nil {
		return domain.PushAlreadyExisted, err
	}

	versionBody := m.VersionBody
	if len(versionBody) == 0 {
		versionBody = m.Body
	}
	createdVersion, err := ensureResource(ctx, h.store, versionAddress, versionBody, output.ContentTypeXML)

	switch {
	case createdParent:
		return domain.PushCreatedNew, err
	case createdVersion:
		return domain.PushCreatedVersionOnly, err
	default:
		return domain.PushAlreadyExisted, err
	}
}

// pushLegacyModel converts a flat pre-composite model and pushes the
// translated payload. Conversion is skipped when the model already exists.
func (h *ModelArtifactHandler) pushLegacyModel(ctx context.Context, m *domain.ModelArtifact) (domain.PushResult, error) {
	address := h.paths.LegacyModelAddress(m.NamespaceVersion(), m.VersionID)
	if exists(ctx, h.store, address) {
		return domain.PushAlreadyExisted, nil
	}

	if h.converter == nil {
		return domain.PushAlreadyExisted, fmt.Errorf("%w: %w: no conversion service configured", domain.ErrPushFailed, domain.ErrConversionFailed)
	}
	converted, err := h.converter.Convert(ctx, m.InvariantID, m.VersionID, m.Body)
	if err != nil {
		return domain.PushAlreadyExisted, fmt.Errorf("%w: convert %s: %w", domain.ErrPushFailed, m.UniqueID(), err)
	}

	if err := h.store.Create(ctx, address, converted, output.ContentTypeXML); err != nil {
		return domain.PushAlreadyExisted, fmt.Errorf("%w: create %s: %w", domain.ErrPushFailed, address, err)
	}
	return domain.PushCreatedNew, nil
}

func (h *ModelArtifactHandler) Rollback(ctx context.Context, distributionID string, ledger *domain.Ledger) {
	ctx = output.WithTransactionID(ctx, distributionID)

	for _, entry := range ledger.Entries() {
		address, ok := h.rollbackAddress(entry)
		if !ok {
			log.WithFields(log.Fields{
				"distribution_id": distributionID,
				"artifact":        entry.Artifact.UniqueID(),
			}).Warn("rollback: no address for artifact")
			continue
		}
		deleteResource(ctx, h.store, modelClass, address)
	}
}

// rollbackAddress returns the resource a ledger entry is responsible for.
// A composite model that created its parent removes the parent (and with
// it the version); one that only added a version removes just the version.
func (h *ModelArtifactHandler) rollbackAddress(entry domain.LedgerEntry) (string, bool) {
	switch art := entry.Artifact.(type) {
	case *domain.ModelArtifact:
		version := art.NamespaceVersion()
		if art.RequiresConversion() {
			return h.paths.LegacyModelAddress(version, art.VersionID), true
		}
		switch entry.Result {
		case domain.PushCreatedNew:
			return h.paths.ModelAddress(version, art.InvariantID), true
		case domain.PushCreatedVersionOnly:
			return h.paths.ModelVersionAddress(version, art.InvariantID, art.VersionID), true
		}
		return "", false
	case *domain.NamedQueryArtifact:
		return h.paths.NamedQueryAddress(art.NamespaceVersion(), art.UUID), true
	default:
		return "", false
	}
}

func resultOf(created bool) domain.PushResult {
	if created {
		return domain.PushCreatedNew
	}
	return domain.PushAlreadyExisted
}
