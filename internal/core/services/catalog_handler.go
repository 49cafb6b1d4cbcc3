package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	output "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
	"github.com/onap/aai-model-loader-sub000/internal/metrics"
)

const catalogClass = "catalog"

// CatalogArtifactHandler pushes VNF catalog images. Catalog artifacts have
// no ordering among themselves and are pushed in input order.
type CatalogArtifactHandler struct {
	store  output.RemoteStore
	paths  Paths
	policy RollbackPolicy
}

func NewCatalogArtifactHandler(store output.RemoteStore, paths Paths, policy RollbackPolicy) *CatalogArtifactHandler {
	if policy == "" {
		policy = RollbackDelete
	}
	return &CatalogArtifactHandler{
		store:  store,
		paths:  paths,
		policy: policy,
	}
}

func (h *CatalogArtifactHandler) Push(
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
		})

		img, ok := a.(*domain.CatalogArtifact)
		if !ok {
			metrics.RecordPush(catalogClass, "failure")
			return fmt.Errorf("%w: %w: %s", domain.ErrPushFailed, domain.ErrUnsupportedArtifactType, a.Kind())
		}

		created, err := ensureResource(ctx, h.store, h.paths.VnfImageAddress(img.UUID), img.Body, output.ContentTypeJSON)
		if err != nil {
			metrics.RecordPush(catalogClass, "failure")
			logger.WithError(err).Error("catalog artifact push failed")
			return fmt.Errorf("push %s: %w", img.UUID, err)
		}

		result := resultOf(created)
		ledger.Record(img, result)
		metrics.RecordPush(catalogClass, result.String())
		logger.WithField("result", result.String()).Info("catalog artifact pushed")
	}

	return nil
}

func (h *CatalogArtifactHandler) Rollback(ctx context.Context, distributionID string, ledger *domain.Ledger) {
	if h.policy == RollbackNone {
		log.WithFields(log.Fields{
			"distribution_id": distributionID,
			"entries":         ledger.Len(),
		}).Info("rollback: catalog store is idempotent, nothing to compensate")
		return
	}

	ctx = output.WithTransactionID(ctx, distributionID)
	for _, entry := range ledger.Entries() {
		deleteResource(ctx, h.store, catalogClass, h.paths.VnfImageAddress(entry.Artifact.UniqueID()))
	}
}
