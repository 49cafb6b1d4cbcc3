package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

func errorStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrDistributionNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrResourceConflict):
		return http.StatusConflict

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidDistributionID),
		errors.Is(err, domain.ErrInvalidArtifact),
		errors.Is(err, domain.ErrEmptyDistribution):
		return http.StatusBadRequest

	// Batches that can never be applied
	case errors.Is(err, domain.ErrCircularDependency),
		errors.Is(err, domain.ErrUnsupportedArtifactType):
		return http.StatusUnprocessableEntity

	// Upstream errors
	case errors.Is(err, domain.ErrDeploymentFailed),
		errors.Is(err, domain.ErrStoreNotAvailable),
		errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusBadGateway

	// Capacity errors
	case errors.Is(err, domain.ErrDispatcherBusy),
		errors.Is(err, domain.ErrDispatcherClosed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

func mapDomainError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
