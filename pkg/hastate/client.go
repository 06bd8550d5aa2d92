// Package hastate talks to a running Home Assistant instance: entity
// state snapshots over the REST API and registry counters over the
// WebSocket API.
package hastate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vibecoden/homeassistant-stats-bridge/pkg/config"
	"github.com/vibecoden/homeassistant-stats-bridge/pkg/stats"
)

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	token      string
	logger     *logrus.Logger
	httpClient *http.Client
}

func NewClient(cfg *config.HomeAssistantConfig, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// stateWire mirrors one element of the GET /api/states response.
type stateWire struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastChanged string         `json:"last_changed"`
}

// FetchStates captures a full snapshot of all entity states. This is
// the single consistent read every refresh cycle starts from.
func (c *Client) FetchStates(ctx context.Context) (stats.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/states", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create states request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("states request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("states request returned %d: %s", resp.StatusCode, string(body))
	}

	var wire []stateWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode states response: %w", err)
	}

	snap := make(stats.Snapshot, 0, len(wire))
	for _, w := range wire {
		record := stats.EntityRecord{
			EntityID:   w.EntityID,
			State:      w.State,
			Attributes: w.Attributes,
		}
		if w.LastChanged != "" {
			if ts, err := time.Parse(time.RFC3339Nano, w.LastChanged); err == nil {
				record.LastChanged = &ts
			} else {
				c.logger.WithField("entity_id", w.EntityID).Debugf("Unparseable last_changed: %s", w.LastChanged)
			}
		}
		snap = append(snap, record)
	}

	return snap, nil
}

// Ping verifies the REST API is reachable with the configured token.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("Home Assistant rejected the access token")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}
