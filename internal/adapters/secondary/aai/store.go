package aai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/onap/aai-model-loader-sub000/internal/config"
	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
	ports "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
)

const (
	headerFromAppID     = "X-FromAppId"
	headerTransactionID = "X-TransactionId"

	maxErrorBody = 4096
)

type store struct {
	client    *http.Client
	fromAppID string
	username  string
	password  string
}

// NewStore creates a RemoteStore backed by the A&AI REST API. Addresses
// are absolute resource URLs.
func NewStore(cfg *config.AAIConfig) ports.RemoteStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &store{
		client: &http.Client{
			Timeout: timeout,
		},
		fromAppID: cfg.FromAppID,
		username:  cfg.Username,
		password:  cfg.Password,
	}
}

// resourceVersion is the optimistic concurrency field carried by every
// A&AI object.
type resourceVersion struct {
	ResourceVersion string `json:"resource-version"`
}

func (s *store) Read(ctx context.Context, address string) (*ports.Resource, error) {
	resp, err := s.do(ctx, http.MethodGet, address, nil, ports.ContentTypeJSON)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", address, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrResourceNotFound
	default:
		return nil, statusError(http.MethodGet, address, resp.StatusCode, body)
	}

	var rv resourceVersion
	if err := json.Unmarshal(body, &rv); err != nil {
		log.WithError(err).WithField("address", address).Debug("response carries no resource-version")
	}

	return &ports.Resource{
		Address:          address,
		Payload:          body,
		ConcurrencyToken: rv.ResourceVersion,
	}, nil
}

func (s *store) Create(ctx context.Context, address string, payload []byte, contentType ports.ContentType) error {
	resp, err := s.do(ctx, http.MethodPut, address, payload, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(http.MethodPut, address, resp.StatusCode, body)
	}
}

func (s *store) Delete(ctx context.Context, address, concurrencyToken string) error {
	target, err := url.Parse(address)
	if err != nil {
		return fmt.Errorf("parse address %s: %w", address, err)
	}
	q := target.Query()
	q.Set("resource-version", concurrencyToken)
	target.RawQuery = q.Encode()

	resp, err := s.do(ctx, http.MethodDelete, target.String(), nil, ports.ContentTypeJSON)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(http.MethodDelete, address, resp.StatusCode, body)
	}
}

func (s *store) do(ctx context.Context, method, address string, payload []byte, contentType ports.ContentType) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, address, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}

	txID := ports.TransactionID(ctx)
	if txID == "" {
		txID = uuid.NewString()
	}
	req.Header.Set(headerFromAppID, s.fromAppID)
	req.Header.Set(headerTransactionID, txID)
	req.Header.Set("Accept", string(ports.ContentTypeJSON))
	if payload != nil {
		req.Header.Set("Content-Type", string(contentType))
	}
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}

	log.WithFields(log.Fields{
		"method":         method,
		"url":            address,
		"transaction_id": txID,
	}).Debug("a&ai request")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrStoreNotAvailable, method, address, err)
	}
	return resp, nil
}

func statusError(method, address string, status int, body []byte) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, address, domain.ErrResourceNotFound)
	case http.StatusConflict, http.StatusPreconditionFailed:
		return fmt.Errorf("%s %s: %w: %s", method, address, domain.ErrResourceConflict, bytes.TrimSpace(body))
	default:
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, address, status, bytes.TrimSpace(body))
	}
}
