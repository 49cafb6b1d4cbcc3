// Package notification keeps the registration with the distribution
// source alive.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/onap/aai-model-loader-sub000/internal/metrics"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateBackoff
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateBackoff:
		return "backoff"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Connector performs the registration handshake. On success it returns a
// channel that receives (or is closed) when the session ends.
type Connector interface {
	Connect(ctx context.Context) (<-chan error, error)
}

// Scheduler delays retries.
type Scheduler interface {
	After(d time.Duration) <-chan time.Time
}

type realScheduler struct{}

func (realScheduler) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealScheduler waits on the wall clock.
func RealScheduler() Scheduler { return realScheduler{} }

type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	// Jitter is the randomization factor, 0 for fixed delays.
	Jitter float64
}

// Reconnector drives Disconnected -> Connecting -> Connected and retries
// failed attempts through Backoff. It runs until its context is canceled.
type Reconnector struct {
	connector Connector
	scheduler Scheduler
	backoff   *backoff.ExponentialBackOff

	mu       sync.RWMutex
	state    State
	observer func(from, to State)
}

func NewReconnector(connector Connector, scheduler Scheduler, cfg BackoffConfig) *Reconnector {
	b := backoff.NewExponentialBackOff()
	if cfg.Initial > 0 {
		b.InitialInterval = cfg.Initial
	}
	if cfg.Max > 0 {
		b.MaxInterval = cfg.Max
	}
	if cfg.Multiplier > 1 {
		b.Multiplier = cfg.Multiplier
	}
	b.RandomizationFactor = cfg.Jitter
	// Never give up.
	b.MaxElapsedTime = 0
	b.Reset()

	return &Reconnector{
		connector: connector,
		scheduler: scheduler,
		backoff:   b,
		state:     StateDisconnected,
	}
}

// OnTransition registers a callback invoked on every state change. It
// must be set before Run.
func (r *Reconnector) OnTransition(fn func(from, to State)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = fn
}

func (r *Reconnector) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Reconnector) setState(to State) {
	r.mu.Lock()
	from := r.state
	r.state = to
	observer := r.observer
	r.mu.Unlock()

	if from == to {
		return
	}
	metrics.SetSourceConnected(to == StateConnected)
	log.WithFields(log.Fields{
		"from": from.String(),
		"to":   to.String(),
	}).Debug("distribution source state changed")
	if observer != nil {
		observer(from, to)
	}
}

// Run blocks until ctx is canceled and returns ctx.Err().
func (r *Reconnector) Run(ctx context.Context) error {
	defer r.setState(StateStopped)

	for {
		r.setState(StateConnecting)
		session, err := r.connector.Connect(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			delay := r.backoff.NextBackOff()
			r.setState(StateBackoff)
			log.WithError(err).WithField("retry_in", delay.String()).Warn("distribution source registration failed")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.scheduler.After(delay):
			}
			continue
		}

		r.backoff.Reset()
		r.setState(StateConnected)
		log.Info("registered with distribution source")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-session:
			r.setState(StateDisconnected)
			log.WithError(err).Warn("distribution source session ended")
		}
	}
}
