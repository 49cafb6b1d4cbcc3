package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// Deployment Errors
// ============================================================================

var (
	ErrCircularDependency = errors.New("circular dependency")
	ErrDeploymentFailed   = errors.New("deployment failed")
	ErrPushFailed         = errors.New("artifact push failed")
	ErrConversionFailed   = errors.New("model conversion failed")
)

// ============================================================================
// Remote Store Errors
// ============================================================================

var (
	ErrResourceNotFound  = errors.New("remote resource not found")
	ErrResourceConflict  = errors.New("remote resource conflict")
	ErrStoreNotAvailable = errors.New("remote store not available")
)

// ============================================================================
// Distribution Errors
// ============================================================================

// Not found errors
var (
	ErrDistributionNotFound = errors.New("distribution not found")
)

// Validation errors
var (
	ErrInvalidArtifact         = errors.New("invalid artifact")
	ErrUnsupportedArtifactType = errors.New("unsupported artifact type")
	ErrEmptyDistribution       = errors.New("distribution contains no deployable artifacts")
	ErrInvalidDistributionID   = errors.New("distribution ID is required")
)

// Upstream errors
var (
	ErrSourceUnavailable = errors.New("distribution source unavailable")
)

// Capacity errors
var (
	ErrDispatcherBusy   = errors.New("distribution queue is full")
	ErrDispatcherClosed = errors.New("distribution dispatcher is shut down")
)

// CircularDependencyError reports a batch whose dependency graph has no
// valid application order. Nothing is written to the remote store when it
// is returned.
type CircularDependencyError struct {
	// Unresolved holds the identifiers still waiting on a dependency when
	// the sort stalled. It includes every cycle member, plus anything
	// downstream of one.
	Unresolved []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Unresolved) == 0 {
		return "circular dependency detected, topological sort not possible"
	}
	return fmt.Sprintf("circular dependency detected, topological sort not possible: unresolved %s",
		strings.Join(e.Unresolved, ", "))
}

func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}
