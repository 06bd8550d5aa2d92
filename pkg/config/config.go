package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/gofrs/uuid/v5"
	"gopkg.in/yaml.v3"
)

const (
	// Poll interval bounds in seconds.
	MinPollInterval = 30
	MaxPollInterval = 86400

	DefaultPollInterval     = 300
	DefaultDashboardListen  = ":8099"
	DefaultDashboardRefresh = 30
)

type Config struct {
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	MQTT          MQTTConfig          `yaml:"mqtt"`
	Stats         StatsConfig         `yaml:"stats"`
	Dashboard     DashboardConfig     `yaml:"dashboard"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type HomeAssistantConfig struct {
	URL             string `yaml:"url"`
	Token           string `yaml:"token"`
	DiscoveryPrefix string `yaml:"discovery_prefix"`
	InstanceID      string `yaml:"instance_id,omitempty"` // Unique identifier for this instance
}

type MQTTConfig struct {
	BrokerURL          string `yaml:"broker_url"`
	Username           string `yaml:"username,omitempty"`
	Password           string `yaml:"password,omitempty"`
	ClientID           string `yaml:"client_id"`
	QoS                byte   `yaml:"qos"`
	KeepAlive          int    `yaml:"keep_alive"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

type StatsConfig struct {
	PollInterval        int   `yaml:"poll_interval"` // seconds
	EnableFunStats      *bool `yaml:"enable_fun_stats,omitempty"`
	EnableHostTelemetry *bool `yaml:"enable_host_telemetry,omitempty"`
}

type DashboardConfig struct {
	Enabled         *bool  `yaml:"enabled,omitempty"`
	Listen          string `yaml:"listen"`
	RefreshInterval int    `yaml:"refresh_interval"` // seconds, page auto-refresh
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (m *MQTTConfig) IsSecure() bool {
	return strings.HasPrefix(m.BrokerURL, "mqtts://") || strings.HasPrefix(m.BrokerURL, "wss://")
}

func (s *StatsConfig) FunStatsEnabled() bool {
	return s.EnableFunStats == nil || *s.EnableFunStats
}

func (s *StatsConfig) HostTelemetryEnabled() bool {
	return s.EnableHostTelemetry == nil || *s.EnableHostTelemetry
}

func (d *DashboardConfig) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.setDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) setDefaults() {
	c.setHomeAssistantDefaults()
	c.setMQTTDefaults()
	c.setStatsDefaults()
	c.setDashboardDefaults()
	c.setLoggingDefaults()
}

func (c *Config) setHomeAssistantDefaults() {
	if c.HomeAssistant.DiscoveryPrefix == "" {
		c.HomeAssistant.DiscoveryPrefix = "homeassistant"
	}
	if c.HomeAssistant.InstanceID == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			// Last resort so topics stay unique across instances
			id, _ := uuid.NewV4()
			hostname = id.String()
		}
		c.HomeAssistant.InstanceID = hostname
	}
}

func (c *Config) setMQTTDefaults() {
	if c.MQTT.BrokerURL == "" {
		c.MQTT.BrokerURL = "mqtt://localhost:1883"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "ha-stats-bridge"
	}
	if c.MQTT.QoS == 0 {
		c.MQTT.QoS = 1
	}
	if c.MQTT.KeepAlive == 0 {
		c.MQTT.KeepAlive = 60
	}
}

func (c *Config) setStatsDefaults() {
	if c.Stats.PollInterval == 0 {
		c.Stats.PollInterval = DefaultPollInterval
	}
}

func (c *Config) setDashboardDefaults() {
	if c.Dashboard.Listen == "" {
		c.Dashboard.Listen = DefaultDashboardListen
	}
	if c.Dashboard.RefreshInterval == 0 {
		c.Dashboard.RefreshInterval = DefaultDashboardRefresh
	}
}

func (c *Config) setLoggingDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func (c *Config) validate() error {
	if err := c.validateHomeAssistant(); err != nil {
		return err
	}
	if err := c.validateMQTT(); err != nil {
		return err
	}
	if err := c.validateStats(); err != nil {
		return err
	}
	if err := c.validateDashboard(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateHomeAssistant() error {
	if c.HomeAssistant.URL == "" {
		return fmt.Errorf("homeassistant.url is required")
	}

	parsed, err := url.Parse(c.HomeAssistant.URL)
	if err != nil {
		return fmt.Errorf("invalid homeassistant.url '%s': %w", c.HomeAssistant.URL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("homeassistant.url '%s' must use http:// or https://", c.HomeAssistant.URL)
	}

	if c.HomeAssistant.Token == "" {
		return fmt.Errorf("homeassistant.token is required (create a long-lived access token in your HA profile)")
	}

	if c.HomeAssistant.DiscoveryPrefix == "" {
		return fmt.Errorf("homeassistant.discovery_prefix is required")
	}

	return nil
}

func (c *Config) validateMQTT() error {
	if c.MQTT.BrokerURL == "" {
		return fmt.Errorf("mqtt.broker_url is required")
	}

	if _, err := url.Parse(c.MQTT.BrokerURL); err != nil {
		return fmt.Errorf("invalid mqtt.broker_url '%s': %w", c.MQTT.BrokerURL, err)
	}

	validSchemes := []string{"mqtt://", "mqtts://", "ws://", "wss://"}
	for _, scheme := range validSchemes {
		if strings.HasPrefix(c.MQTT.BrokerURL, scheme) {
			return c.validateMQTTParams()
		}
	}

	return fmt.Errorf("mqtt.broker_url '%s' must use one of: %s", c.MQTT.BrokerURL, strings.Join(validSchemes, ", "))
}

func (c *Config) validateMQTTParams() error {
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1, or 2 (got %d)", c.MQTT.QoS)
	}
	if c.MQTT.KeepAlive < 10 {
		return fmt.Errorf("mqtt.keep_alive must be at least 10 seconds (got %d)", c.MQTT.KeepAlive)
	}
	return nil
}

func (c *Config) validateStats() error {
	if c.Stats.PollInterval < MinPollInterval || c.Stats.PollInterval > MaxPollInterval {
		return fmt.Errorf("stats.poll_interval must be between %d and %d seconds (got %d)",
			MinPollInterval, MaxPollInterval, c.Stats.PollInterval)
	}
	return nil
}

func (c *Config) validateDashboard() error {
	if !c.Dashboard.IsEnabled() {
		return nil
	}
	if c.Dashboard.RefreshInterval < 1 {
		return fmt.Errorf("dashboard.refresh_interval must be at least 1 second (got %d)", c.Dashboard.RefreshInterval)
	}
	return nil
}

func (c *Config) validateLogging() error {
	validLogLevels := []string{"debug", "info", "warn", "warning", "error", "fatal", "panic"}
	logLevel := strings.ToLower(c.Logging.Level)
	if !slices.Contains(validLogLevels, logLevel) {
		return fmt.Errorf("logging.level '%s' must be one of: %s",
			c.Logging.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"text", "json"}
	logFormat := strings.ToLower(c.Logging.Format)
	if !slices.Contains(validLogFormats, logFormat) {
		return fmt.Errorf("logging.format '%s' must be one of: %s",
			c.Logging.Format, strings.Join(validLogFormats, ", "))
	}

	return nil
}
