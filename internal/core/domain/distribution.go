package domain

import (
	"strings"
	"time"
)

type RawArtifactType string

const (
	RawArtifactModelInventoryProfile RawArtifactType = "MODEL_INVENTORY_PROFILE"
	RawArtifactModelQuerySpec        RawArtifactType = "MODEL_QUERY_SPEC"
	RawArtifactVnfCatalog            RawArtifactType = "VNF_CATALOG"
)

// RawArtifact is an artifact as delivered by the distribution source,
// before parsing.
type RawArtifact struct {
	Name    string          `json:"name"`
	Type    RawArtifactType `json:"type"`
	Version string          `json:"version"`
	Payload []byte          `json:"payload"`
}

// Notification announces one distribution: a batch of artifacts deployed
// all-or-nothing.
type Notification struct {
	DistributionID string        `json:"distribution_id"`
	ServiceName    string        `json:"service_name"`
	Artifacts      []RawArtifact `json:"artifacts"`
}

func (n *Notification) Validate() error {
	if strings.TrimSpace(n.DistributionID) == "" {
		return ErrInvalidDistributionID
	}
	if len(n.Artifacts) == 0 {
		return ErrEmptyDistribution
	}
	return nil
}

type DistributionState string

const (
	DistributionStateStarted DistributionState = "DEPLOY_STARTED"
	DistributionStateOK      DistributionState = "DEPLOY_OK"
	DistributionStateError   DistributionState = "DEPLOY_ERROR"
)

type DistributionStatus struct {
	DistributionID string            `json:"distribution_id"`
	ServiceName    string            `json:"service_name"`
	State          DistributionState `json:"state"`
	Message        string            `json:"message"`
	ModelCount     int               `json:"model_count"`
	CatalogCount   int               `json:"catalog_count"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func NewDistributionStatus(n *Notification) *DistributionStatus {
	now := time.Now()
	return &DistributionStatus{
		DistributionID: n.DistributionID,
		ServiceName:    n.ServiceName,
		State:          DistributionStateStarted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *DistributionStatus) MarkDeployed() {
	s.State = DistributionStateOK
	s.Message = ""
	s.UpdatedAt = time.Now()
}

func (s *DistributionStatus) MarkFailed(message string) {
	s.State = DistributionStateError
	s.Message = message
	s.UpdatedAt = time.Now()
}

func (s *DistributionStatus) IsFinal() bool {
	return s.State == DistributionStateOK || s.State == DistributionStateError
}
