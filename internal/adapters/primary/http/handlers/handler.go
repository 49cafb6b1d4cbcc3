package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/onap/aai-model-loader-sub000/internal/core/services"
)

type Handler struct {
	distributionSvc *services.DistributionService
	dispatcher      *services.Dispatcher
}

func New(
	distributionSvc *services.DistributionService,
	dispatcher *services.Dispatcher,
) *Handler {
	return &Handler{
		distributionSvc: distributionSvc,
		dispatcher:      dispatcher,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Distributions
	r.POST("/distributions", h.SubmitDistribution)
	r.GET("/distributions/:id", h.GetDistribution)
}
