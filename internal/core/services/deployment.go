package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/onap/aai-model-loader-sub000/internal/core/depgraph"
	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	"github.com/onap/aai-model-loader-sub000/internal/metrics"
)

// DeploymentCoordinator commits one batch: model-class artifacts in
// dependency order, then catalog artifacts, compensating on failure.
type DeploymentCoordinator struct {
	models  ArtifactHandler
	catalog ArtifactHandler
}

func NewDeploymentCoordinator(models, catalog ArtifactHandler) *DeploymentCoordinator {
	return &DeploymentCoordinator{
		models:  models,
		catalog: catalog,
	}
}

// Deploy returns nil when every artifact is present on the remote store.
// A cyclic model batch fails with *domain.CircularDependencyError before
// anything is written; any other failure wraps domain.ErrDeploymentFailed
// after the written resources have been rolled back. Rollback ignores
// cancellation of ctx so a dropped caller cannot orphan written resources.
func (c *DeploymentCoordinator) Deploy(
	ctx context.Context,
	distributionID string,
	modelArtifacts []domain.Artifact,
	catalogArtifacts []domain.Artifact,
) error {
	start := time.Now()
	logger := log.WithField("distribution_id", distributionID)

	sorted, err := depgraph.Sort(modelArtifacts)
	if err != nil {
		metrics.RecordDeploy(deployOutcome(err), time.Since(start).Seconds())
		logger.WithError(err).Error("cannot order model artifacts, nothing deployed")
		return fmt.Errorf("sort model artifacts: %w", err)
	}

	rollbackCtx := context.WithoutCancel(ctx)

	var modelLedger domain.Ledger
	if err := c.models.Push(ctx, distributionID, sorted, &modelLedger); err != nil {
		logger.WithField("phase", modelClass).WithField("ledger", modelLedger.Len()).Warn("rolling back")
		c.models.Rollback(rollbackCtx, distributionID, &modelLedger)
		metrics.RecordDeploy(deployOutcome(err), time.Since(start).Seconds())
		return fmt.Errorf("%w: %s phase: %w", domain.ErrDeploymentFailed, modelClass, err)
	}

	var catalogLedger domain.Ledger
	if err := c.catalog.Push(ctx, distributionID, catalogArtifacts, &catalogLedger); err != nil {
		logger.WithFields(log.Fields{
			"phase":          catalogClass,
			"model_ledger":   modelLedger.Len(),
			"catalog_ledger": catalogLedger.Len(),
		}).Warn("rolling back")
		c.models.Rollback(rollbackCtx, distributionID, &modelLedger)
		c.catalog.Rollback(rollbackCtx, distributionID, &catalogLedger)
		metrics.RecordDeploy(deployOutcome(err), time.Since(start).Seconds())
		return fmt.Errorf("%w: %s phase: %w", domain.ErrDeploymentFailed, catalogClass, err)
	}

	metrics.RecordDeploy(deployOutcome(nil), time.Since(start).Seconds())
	logger.WithFields(log.Fields{
		"models":  len(sorted),
		"catalog": len(catalogArtifacts),
	}).Info("distribution deployed")
	return nil
}

func deployOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrCircularDependency):
		return "cycle"
	default:
		return "failure"
	}
}
