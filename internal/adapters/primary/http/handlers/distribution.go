package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/onap/aai-model-loader-sub000/internal/adapters/primary/http/dto"
	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

func (h *Handler) SubmitDistribution(c *gin.Context) {
	var req dto.SubmitDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DistributionID == "" {
		req.DistributionID = uuid.New().String()
	}
	n := req.ToNotification()

	async, _ := strconv.ParseBool(c.DefaultQuery("async", "false"))
	if async {
		if err := n.Validate(); err != nil {
			mapDomainError(c, err)
			return
		}
		if err := h.dispatcher.Submit(n); err != nil {
			log.WithError(err).WithField("distribution_id", n.DistributionID).Warn("distribution not queued")
			mapDomainError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, dto.DistributionResponse{
			DistributionID: n.DistributionID,
			ServiceName:    n.ServiceName,
			State:          string(domain.DistributionStateStarted),
		})
		return
	}

	// A batch that has started writing runs to completion even if the
	// client disconnects.
	status, err := h.distributionSvc.Process(context.WithoutCancel(c.Request.Context()), n)
	if err != nil {
		log.WithError(err).WithField("distribution_id", n.DistributionID).Error("process distribution failed")
		if status == nil {
			mapDomainError(c, err)
			return
		}
		c.JSON(errorStatus(err), dto.ToDistributionResponse(status))
		return
	}

	c.JSON(http.StatusOK, dto.ToDistributionResponse(status))
}

func (h *Handler) GetDistribution(c *gin.Context) {
	status, err := h.distributionSvc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDistributionResponse(status))
}
