package babel

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/onap/aai-model-loader-sub000/internal/config"
	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	ports "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
)

type client struct {
	url    string
	client *http.Client
}

// NewClient creates a ConversionClient for the Babel artifact generator.
// It returns nil when conversion is disabled.
func NewClient(cfg *config.BabelConfig) ports.ConversionClient {
	if !cfg.Enabled {
		return nil
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &client{
		url: cfg.URL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	ArtifactName    string `json:"artifactName"`
	ArtifactVersion string `json:"artifactVersion"`
	CSAR            string `json:"csar"`
}

type generatedArtifact struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

func (c *client) Convert(ctx context.Context, name, version string, payload []byte) ([]byte, error) {
	reqBody, err := json.Marshal(generateRequest{
		ArtifactName:    name,
		ArtifactVersion: version,
		CSAR:            base64.StdEncoding.EncodeToString(payload),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal conversion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create conversion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if txID := ports.TransactionID(ctx); txID != "" {
		req.Header.Set("X-TransactionId", txID)
	}

	log.WithFields(log.Fields{
		"artifact": name,
		"version":  version,
	}).Debug("requesting model conversion")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConversionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrConversionFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrConversionFailed, resp.StatusCode, bytes.TrimSpace(body))
	}

	var generated []generatedArtifact
	if err := json.Unmarshal(body, &generated); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrConversionFailed, err)
	}
	if len(generated) == 0 || generated[0].Payload == "" {
		return nil, fmt.Errorf("%w: no artifacts generated for %s", domain.ErrConversionFailed, name)
	}

	return []byte(generated[0].Payload), nil
}
