// Package dashboard serves the companion single-page stats view. It is
// presentation glue only: every value shown is read live from Home
// Assistant, not from the aggregation engine.
package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/vibecoden/homeassistant-stats-bridge/pkg/config"
	"github.com/vibecoden/homeassistant-stats-bridge/pkg/stats"
)

//go:embed index.html
var templateFS embed.FS

// Entity is one dashboard tile: which HA entity it shows and how.
type Entity struct {
	EntityID string `json:"entity_id"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Section  string `json:"section"`
}

// Entities lists every tile in display order.
var Entities = []Entity{
	// Core — overview
	{"sensor.total_devices", "Total Devices", "mdi:devices", "core"},
	{"sensor.total_entities", "Total Entities", "mdi:format-list-bulleted", "core"},
	{"sensor.integrations_count", "Integrations", "mdi:puzzle", "core"},
	{"sensor.unique_domains_count", "Unique Domains", "mdi:tag-multiple", "core"},
	{"sensor.automation_count", "Automations", "mdi:robot", "core"},
	{"sensor.script_count", "Scripts", "mdi:script-text", "core"},
	{"sensor.scene_count", "Scenes", "mdi:palette", "core"},
	{"sensor.active_devices_24h", "Active (24 h)", "mdi:pulse", "core"},
	// Core — health
	{"sensor.lights_on", "Lights On", "mdi:lightbulb-on", "health"},
	{"sensor.unavailable_count", "Unavailable", "mdi:alert-circle-outline", "health"},
	{"sensor.unknown_count", "Unknown State", "mdi:help-circle-outline", "health"},
	{"sensor.disabled_entities", "Disabled Entities", "mdi:eye-off-outline", "health"},
	// Core — system
	{"sensor.host_cpu_pct", "CPU %", "mdi:cpu-64-bit", "system"},
	{"sensor.host_ram_pct", "RAM %", "mdi:memory", "system"},
	{"sensor.host_disk_pct", "Disk %", "mdi:harddisk", "system"},
	{"sensor.uptime_hours", "Uptime (h)", "mdi:clock-outline", "system"},
	{"sensor.uptime_days", "Uptime (days)", "mdi:timer-outline", "system"},
	{"sensor.energy_24h_kwh", "Energy 24 h (kWh)", "mdi:lightning-bolt", "system"},
	// Fun
	{"sensor.most_used_emoji", "Most Used Emoji", "mdi:emoticon-outline", "fun"},
	{"sensor.devices_named_after_pokemon", "Pokémon Devices", "mdi:pokeball", "fun"},
	{"sensor.emoji_density", "Emoji Density %", "mdi:percent", "fun"},
	{"sensor.avg_entity_id_length", "Avg Entity ID Len", "mdi:ruler", "fun"},
	{"sensor.most_redundant_name", "Most Redundant Name", "mdi:content-duplicate", "fun"},
	{"sensor.names_with_numbers", "Names w/ Numbers", "mdi:numeric", "fun"},
	{"sensor.house_mascot", "Today's Mascot", "mdi:home-heart", "fun"},
	{"sensor.random_daily_device_quote", "Daily Quote", "mdi:comment-quote", "fun"},
	{"binary_sensor.everything_off_party_mode", "Party Mode 🎉", "mdi:party-popper", "fun"},
}

// entityStats is the GET /api/stats value for one entity.
type entityStats struct {
	Label      string         `json:"label"`
	Icon       string         `json:"icon"`
	Section    string         `json:"section"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

type Server struct {
	cfg        *config.DashboardConfig
	states     stats.StateSource
	logger     *logrus.Logger
	template   *template.Template
	httpServer *http.Server
}

func NewServer(cfg *config.DashboardConfig, states stats.StateSource, logger *logrus.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		states:   states,
		logger:   logger,
		template: tmpl,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/", s.handleIndex)
	router.Get("/api/stats", s.handleStats)

	s.httpServer = &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

// Start implements the Service interface.
func (s *Server) Start() error {
	s.logger.Infof("Dashboard listening on %s", s.cfg.Listen)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Dashboard server failed")
		}
	}()

	return nil
}

// Stop implements the Service interface.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		RefreshInterval int
		Entities        []Entity
	}{
		RefreshInterval: s.cfg.RefreshInterval,
		Entities:        Entities,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.template.Execute(w, data); err != nil {
		s.logger.WithError(err).Error("Failed to render dashboard")
	}
}

// handleStats returns a JSON snapshot keyed by entity id. Entities the
// remote query does not know about are reported as unavailable rather
// than omitted, so the page layout stays stable.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	byID := make(map[string]stats.EntityRecord)

	snap, err := s.states.FetchStates(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch states for dashboard")
	} else {
		for _, record := range snap {
			byID[record.EntityID] = record
		}
	}

	result := make(map[string]entityStats, len(Entities))
	for _, entity := range Entities {
		state := "unavailable"
		attributes := map[string]any{}
		if record, ok := byID[entity.EntityID]; ok {
			state = record.State
			if record.Attributes != nil {
				attributes = record.Attributes
			}
		}
		result[entity.EntityID] = entityStats{
			Label:      entity.Label,
			Icon:       entity.Icon,
			Section:    entity.Section,
			State:      state,
			Attributes: attributes,
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.WithError(err).Error("Failed to encode dashboard stats")
	}
}
