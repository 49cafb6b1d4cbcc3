package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	output "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
	"github.com/onap/aai-model-loader-sub000/internal/parser"
)

// Deployer commits one parsed batch to the remote stores.
type Deployer interface {
	Deploy(ctx context.Context, distributionID string, models, catalog []domain.Artifact) error
}

type DistributionService struct {
	deployer Deployer
	repo     output.DistributionRepository
}

func NewDistributionService(deployer Deployer, repo output.DistributionRepository) *DistributionService {
	return &DistributionService{
		deployer: deployer,
		repo:     repo,
	}
}

// Process deploys every artifact of a notification as one batch and
// returns the final status record. The status is persisted before and
// after the deployment.
func (s *DistributionService) Process(ctx context.Context, n *domain.Notification) (*domain.DistributionStatus, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{
		"distribution_id": n.DistributionID,
		"service":         n.ServiceName,
	})

	// 1. Record start
	status := domain.NewDistributionStatus(n)
	if err := s.repo.Save(ctx, status); err != nil {
		return nil, fmt.Errorf("save distribution status: %w", err)
	}

	// 2. Parse
	parsed, err := parser.Parse(n.Artifacts)
	if err == nil && parsed.Empty() {
		err = domain.ErrEmptyDistribution
	}
	if err != nil {
		logger.WithError(err).Error("distribution rejected")
		return s.finish(ctx, status, err)
	}
	status.ModelCount = len(parsed.Models)
	status.CatalogCount = len(parsed.Catalog)

	// 3. Deploy
	logger.WithFields(log.Fields{
		"models":  status.ModelCount,
		"catalog": status.CatalogCount,
		"skipped": len(parsed.Skipped),
	}).Info("deploying distribution")

	err = s.deployer.Deploy(ctx, n.DistributionID, parsed.Models, parsed.Catalog)
	if err != nil {
		logger.WithError(err).Error("distribution deployment failed")
	}

	// 4. Record outcome
	return s.finish(ctx, status, err)
}

func (s *DistributionService) finish(ctx context.Context, status *domain.DistributionStatus, cause error) (*domain.DistributionStatus, error) {
	if cause != nil {
		status.MarkFailed(cause.Error())
	} else {
		status.MarkDeployed()
	}

	// The outcome is recorded even when the caller has gone away.
	if err := s.repo.Save(context.WithoutCancel(ctx), status); err != nil {
		return status, errors.Join(cause, fmt.Errorf("save distribution status: %w", err))
	}
	return status, cause
}

func (s *DistributionService) Status(ctx context.Context, distributionID string) (*domain.DistributionStatus, error) {
	if distributionID == "" {
		return nil, domain.ErrInvalidDistributionID
	}
	return s.repo.Get(ctx, distributionID)
}

// Dispatcher processes notifications in the background. Batches run
// concurrently and share no mutable state. Submissions wait in a bounded
// queue; Submit never blocks.
type Dispatcher struct {
	service *DistributionService
	pool    *pool.ContextPool

	mu      sync.Mutex
	closed  bool
	queue   chan *domain.Notification
	drained chan struct{}
	once    sync.Once
}

// NewDispatcher creates a dispatcher running at most maxConcurrent
// batches at a time with up to queueSize more waiting. Canceling ctx
// cancels batches that have not finished.
func NewDispatcher(ctx context.Context, service *DistributionService, maxConcurrent, queueSize int) *Dispatcher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	d := &Dispatcher{
		service: service,
		pool:    pool.New().WithMaxGoroutines(maxConcurrent).WithContext(ctx),
		queue:   make(chan *domain.Notification, queueSize),
		drained: make(chan struct{}),
	}
	go d.feed()
	return d
}

func (d *Dispatcher) feed() {
	defer close(d.drained)
	for n := range d.queue {
		d.pool.Go(func(ctx context.Context) error {
			if _, err := d.service.Process(ctx, n); err != nil {
				log.WithError(err).WithField("distribution_id", n.DistributionID).Warn("background distribution finished with error")
			}
			// The failure is on the status record.
			return nil
		})
	}
}

// Submit queues a notification. It returns domain.ErrDispatcherBusy when
// the queue is full and domain.ErrDispatcherClosed after Wait.
func (d *Dispatcher) Submit(n *domain.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return domain.ErrDispatcherClosed
	}
	select {
	case d.queue <- n:
		return nil
	default:
		return domain.ErrDispatcherBusy
	}
}

// Wait stops accepting notifications and blocks until every queued one has
// been processed.
func (d *Dispatcher) Wait() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()

		<-d.drained
		_ = d.pool.Wait()
	})
}
