package dto

import (
	"time"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

// ============================================================================
// Distribution DTOs
// ============================================================================

type ArtifactRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required"`
	Version string `json:"version"`
	// Payload is base64 encoded on the wire.
	Payload []byte `json:"payload" binding:"required"`
}

type SubmitDistributionRequest struct {
	DistributionID string            `json:"distribution_id"`
	ServiceName    string            `json:"service_name"`
	Artifacts      []ArtifactRequest `json:"artifacts" binding:"required,min=1,dive"`
}

type DistributionResponse struct {
	DistributionID string    `json:"distribution_id"`
	ServiceName    string    `json:"service_name,omitempty"`
	State          string    `json:"state"`
	Message        string    `json:"message,omitempty"`
	ModelCount     int       `json:"model_count"`
	CatalogCount   int       `json:"catalog_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r *SubmitDistributionRequest) ToNotification() *domain.Notification {
	artifacts := make([]domain.RawArtifact, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		artifacts = append(artifacts, domain.RawArtifact{
			Name:    a.Name,
			Type:    domain.RawArtifactType(a.Type),
			Version: a.Version,
			Payload: a.Payload,
		})
	}
	return &domain.Notification{
		DistributionID: r.DistributionID,
		ServiceName:    r.ServiceName,
		Artifacts:      artifacts,
	}
}

func ToDistributionResponse(s *domain.DistributionStatus) DistributionResponse {
	return DistributionResponse{
		DistributionID: s.DistributionID,
		ServiceName:    s.ServiceName,
		State:          string(s.State),
		Message:        s.Message,
		ModelCount:     s.ModelCount,
		CatalogCount:   s.CatalogCount,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
