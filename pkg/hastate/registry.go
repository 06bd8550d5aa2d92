package hastate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vibecoden/homeassistant-stats-bridge/pkg/stats"
)

const wsReadTimeout = 10 * time.Second

// wsEnvelope covers every message shape the handshake and result flow
// need: auth frames, command frames and result frames.
type wsEnvelope struct {
	ID          int             `json:"id,omitempty"`
	Type        string          `json:"type"`
	AccessToken string          `json:"access_token,omitempty"`
	Success     *bool           `json:"success,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// RegistryCounts reads the device, entity and config-entry registries
// over the WebSocket API. It implements stats.RegistrySource and is
// fail-safe: any failure logs at debug level and leaves the affected
// count at zero, matching the behavior when a registry is absent.
func (c *Client) RegistryCounts(ctx context.Context) stats.RegistryCounts {
	var counts stats.RegistryCounts

	conn, err := c.dialWebsocket(ctx)
	if err != nil {
		c.logger.WithError(err).Debug("Registry websocket unavailable, counts default to 0")
		return counts
	}
	defer func() { _ = conn.Close() }()

	if err := c.authenticate(conn); err != nil {
		c.logger.WithError(err).Debug("Registry websocket auth failed, counts default to 0")
		return counts
	}

	if result, err := c.command(conn, 1, "config/device_registry/list"); err != nil {
		c.logger.WithError(err).Debug("Could not list device registry")
	} else {
		var devices []json.RawMessage
		if err := json.Unmarshal(result, &devices); err == nil {
			counts.Devices = len(devices)
		}
	}

	if result, err := c.command(conn, 2, "config/entity_registry/list"); err != nil {
		c.logger.WithError(err).Debug("Could not list entity registry")
	} else {
		var entries []struct {
			DisabledBy *string `json:"disabled_by"`
		}
		if err := json.Unmarshal(result, &entries); err == nil {
			for _, e := range entries {
				if e.DisabledBy != nil {
					counts.DisabledEntities++
				}
			}
		}
	}

	if result, err := c.command(conn, 3, "config_entries/get"); err != nil {
		c.logger.WithError(err).Debug("Could not list config entries")
	} else {
		var entries []json.RawMessage
		if err := json.Unmarshal(result, &entries); err == nil {
			counts.Integrations = len(entries)
		}
	}

	return counts
}

func (c *Client) dialWebsocket(ctx context.Context) (*websocket.Conn, error) {
	wsURL := c.baseURL + "/api/websocket"
	switch {
	case strings.HasPrefix(wsURL, "https://"):
		wsURL = "wss://" + strings.TrimPrefix(wsURL, "https://")
	case strings.HasPrefix(wsURL, "http://"):
		wsURL = "ws://" + strings.TrimPrefix(wsURL, "http://")
	}

	dialer := websocket.Dialer{HandshakeTimeout: wsReadTimeout}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// authenticate performs the auth_required/auth/auth_ok handshake.
func (c *Client) authenticate(conn *websocket.Conn) error {
	var hello wsEnvelope
	if err := c.readEnvelope(conn, &hello); err != nil {
		return err
	}
	if hello.Type != "auth_required" {
		return fmt.Errorf("unexpected handshake message type %q", hello.Type)
	}

	if err := conn.WriteJSON(wsEnvelope{Type: "auth", AccessToken: c.token}); err != nil {
		return fmt.Errorf("failed to send auth: %w", err)
	}

	var reply wsEnvelope
	if err := c.readEnvelope(conn, &reply); err != nil {
		return err
	}
	if reply.Type != "auth_ok" {
		return fmt.Errorf("authentication rejected (%s)", reply.Type)
	}
	return nil
}

// command sends one typed command and waits for its matching result.
func (c *Client) command(conn *websocket.Conn, id int, commandType string) (json.RawMessage, error) {
	if err := conn.WriteJSON(wsEnvelope{ID: id, Type: commandType}); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", commandType, err)
	}

	for {
		var reply wsEnvelope
		if err := c.readEnvelope(conn, &reply); err != nil {
			return nil, err
		}
		if reply.Type != "result" || reply.ID != id {
			continue
		}
		if reply.Success == nil || !*reply.Success {
			return nil, fmt.Errorf("%s returned failure", commandType)
		}
		return reply.Result, nil
	}
}

func (c *Client) readEnvelope(conn *websocket.Conn, target *wsEnvelope) error {
	if err := conn.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
		return err
	}
	if err := conn.ReadJSON(target); err != nil {
		return fmt.Errorf("websocket read failed: %w", err)
	}
	return nil
}
