package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	output "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
	"github.com/onap/aai-model-loader-sub000/internal/metrics"
)

// ArtifactHandler pushes one class of artifacts and compensates for them.
type ArtifactHandler interface {
	// Push writes artifacts strictly in the order given and records every
	// resource it creates in ledger. It stops at the first failure; the
	// ledger then holds what must be rolled back.
	Push(ctx context.Context, distributionID string, artifacts []domain.Artifact, ledger *domain.Ledger) error
	// Rollback deletes what the ledger records, in ledger order. It is best
	// effort and never fails.
	Rollback(ctx context.Context, distributionID string, ledger *domain.Ledger)
}

// RollbackPolicy selects how a handler compensates.
type RollbackPolicy string

const (
	// RollbackDelete deletes every created resource.
	RollbackDelete RollbackPolicy = "delete"
	// RollbackNone skips compensation. Used for idempotent stores where
	// redistribution is always safe.
	RollbackNone RollbackPolicy = "none"
)

// exists reports whether a resource is present at address. A failed read
// counts as absent.
func exists(ctx context.Context, store output.RemoteStore, address string) bool {
	_, err := store.Read(ctx, address)
	if err == nil {
		return true
	}
	if !errors.Is(err, domain.ErrResourceNotFound) {
		log.WithError(err).WithField("address", address).Warn("existence check failed, treating resource as absent")
	}
	return false
}

// ensureResource creates the resource at address unless it already exists.
// It reports whether it created anything.
func ensureResource(
	ctx context.Context,
	store output.RemoteStore,
	address string,
	payload []byte,
	contentType output.ContentType,
) (bool, error) {
	if exists(ctx, store, address) {
		log.WithField("address", address).Debug("resource already exists, skipping create")
		return false, nil
	}
	if err := store.Create(ctx, address, payload, contentType); err != nil {
		return false, fmt.Errorf("%w: create %s: %w", domain.ErrPushFailed, address, err)
	}
	log.WithField("address", address).Debug("resource created")
	return true, nil
}

// deleteResource re-reads the resource for its concurrency token and
// deletes it. Failures are logged only.
func deleteResource(ctx context.Context, store output.RemoteStore, class, address string) {
	logger := log.WithFields(log.Fields{
		"class":          class,
		"address":        address,
		"transaction_id": output.TransactionID(ctx),
	})

	res, err := store.Read(ctx, address)
	if err != nil {
		logger.WithError(err).Warn("rollback: cannot read resource, skipping delete")
		metrics.RecordRollback(class, "skipped")
		return
	}

	if err := store.Delete(ctx, address, res.ConcurrencyToken); err != nil {
		logger.WithError(err).Error("rollback: delete failed, resource may be orphaned")
		metrics.RecordRollback(class, "failure")
		return
	}

	logger.Info("rollback: resource deleted")
	metrics.RecordRollback(class, "deleted")
}
