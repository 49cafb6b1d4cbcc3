package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

// HTTPConnector registers a consumer with the distribution source over
// HTTP. When Heartbeat is set the session is probed periodically and ends
// on the first failed probe.
type HTTPConnector struct {
	SourceURL  string
	ConsumerID string
	Heartbeat  time.Duration

	client    *http.Client
	scheduler Scheduler
}

func NewHTTPConnector(sourceURL, consumerID string, timeout, heartbeat time.Duration, scheduler Scheduler) *HTTPConnector {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPConnector{
		SourceURL:  strings.TrimRight(sourceURL, "/"),
		ConsumerID: consumerID,
		Heartbeat:  heartbeat,
		client:     &http.Client{Timeout: timeout},
		scheduler:  scheduler,
	}
}

type registration struct {
	ConsumerID string `json:"consumerId"`
}

func (c *HTTPConnector) Connect(ctx context.Context) (<-chan error, error) {
	body, err := json.Marshal(registration{ConsumerID: c.ConsumerID})
	if err != nil {
		return nil, fmt.Errorf("marshal registration: %w", err)
	}

	if err := c.call(ctx, http.MethodPost, c.SourceURL+"/register", body); err != nil {
		return nil, err
	}

	session := make(chan error, 1)
	if c.Heartbeat > 0 {
		go c.probe(ctx, session)
	}
	return session, nil
}

func (c *HTTPConnector) probe(ctx context.Context, session chan<- error) {
	defer close(session)
	target := c.SourceURL + "/register/" + c.ConsumerID

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.scheduler.After(c.Heartbeat):
		}
		if err := c.call(ctx, http.MethodGet, target, nil); err != nil {
			session <- err
			return
		}
	}
}

func (c *HTTPConnector) call(ctx context.Context, method, target string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s: status %d", domain.ErrSourceUnavailable, method, target, resp.StatusCode)
	}
	return nil
}
