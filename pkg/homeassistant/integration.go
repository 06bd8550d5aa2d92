// Package homeassistant exposes the aggregated stats back to Home
// Assistant as MQTT-discovery sensor and binary-sensor entities.
package homeassistant

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vibecoden/homeassistant-stats-bridge/pkg/config"
	"github.com/vibecoden/homeassistant-stats-bridge/pkg/mqtt"
	"github.com/vibecoden/homeassistant-stats-bridge/pkg/stats"
)

const (
	payloadOnline  = "online"
	payloadOffline = "offline"

	// State published when a stat is absent or null. Callers must not
	// see a missing value as zero.
	stateUnknown = "unknown"
)

type DeviceInfo struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	SWVersion    string   `json:"sw_version,omitempty"`
}

type AvailabilityConfig struct {
	Topic string `json:"topic"`
}

// DiscoveryConfig is the MQTT discovery payload for a single entity.
type DiscoveryConfig struct {
	Name              string               `json:"name"`
	ObjectID          string               `json:"object_id,omitempty"`
	UniqueID          string               `json:"unique_id"`
	TildeTopic        string               `json:"~,omitempty"`
	StateTopic        string               `json:"state_topic"`
	AttributesTopic   string               `json:"json_attributes_topic,omitempty"`
	Availability      []AvailabilityConfig `json:"availability,omitempty"`
	Device            *DeviceInfo          `json:"device,omitempty"`
	Icon              string               `json:"icon,omitempty"`
	UnitOfMeasurement string               `json:"unit_of_measurement,omitempty"`
	DeviceClass       string               `json:"device_class,omitempty"`
	StateClass        string               `json:"state_class,omitempty"`
	EntityCategory    string               `json:"entity_category,omitempty"`
}

type entityTopics struct {
	ConfigTopic     string
	StateTopic      string
	AttributesTopic string
}

// Integration owns the bridge device and all its stat entities. It
// republishes discovery configs and the cached result whenever the
// broker connection comes (back) up.
type Integration struct {
	mqtt       *mqtt.Client
	config     *config.HomeAssistantConfig
	logger     *logrus.Logger
	version    string
	includeFun bool

	bridgeDeviceInfo *DeviceInfo

	mu         sync.Mutex
	lastResult *stats.Result
	lastOK     bool
}

func NewIntegration(
	mqttClient *mqtt.Client,
	haConfig *config.HomeAssistantConfig,
	version string,
	includeFun bool,
	logger *logrus.Logger,
) *Integration {
	integration := &Integration{
		mqtt:       mqttClient,
		config:     haConfig,
		logger:     logger,
		version:    version,
		includeFun: includeFun,
	}

	integration.bridgeDeviceInfo = &DeviceInfo{
		Identifiers:  []string{integration.bridgeDeviceID()},
		Name:         "HA Stats Bridge",
		Model:        "HA Stats",
		Manufacturer: "Vibecoden",
		SWVersion:    version,
	}

	return integration
}

// Start implements the Service interface.
func (integration *Integration) Start() error {
	integration.logger.Info("Starting Home Assistant integration")

	integration.mqtt.SetOnConnectCallback(integration.handleConnect)
	integration.mqtt.SetOnDisconnectCallback(integration.handleDisconnect)

	if integration.mqtt.IsConnected() {
		integration.handleConnect()
	}

	return nil
}

// Stop implements the Service interface.
func (integration *Integration) Stop() error {
	integration.logger.Info("Stopping Home Assistant integration")

	if integration.mqtt.IsConnected() {
		if err := integration.publishBridgeAvailability(payloadOffline); err != nil {
			integration.logger.WithError(err).Error("Failed to publish bridge offline status")
		}
	}

	return nil
}

// PublishStats pushes a refresh result to every exposed entity. It is
// wired as the coordinator's update callback, so it also runs after
// failed refreshes: the retained previous result stays readable and
// only the update flag changes.
func (integration *Integration) PublishStats(result *stats.Result, ok bool) {
	integration.mu.Lock()
	integration.lastResult = result
	integration.lastOK = ok
	integration.mu.Unlock()

	if !integration.mqtt.IsConnected() {
		integration.logger.Debug("MQTT not connected, stats will be published on reconnect")
		return
	}

	integration.publishAllStates(result, ok)
}

func (integration *Integration) publishAllStates(result *stats.Result, ok bool) {
	for _, desc := range integration.sensors() {
		if err := integration.publishSensorState(desc, result); err != nil {
			integration.logger.WithField("sensor", desc.Key).WithError(err).Error("Failed to publish sensor state")
		}
	}

	if integration.includeFun {
		for _, desc := range FunBinarySensors {
			if err := integration.publishBinarySensorState(desc, result); err != nil {
				integration.logger.WithField("binary_sensor", desc.Key).WithError(err).Error("Failed to publish binary sensor state")
			}
		}
	}

	if err := integration.publishDiagnostics(result, ok); err != nil {
		integration.logger.WithError(err).Error("Failed to publish diagnostics")
	}
}

func (integration *Integration) publishSensorState(desc SensorDescription, result *stats.Result) error {
	topics := integration.sensorTopics("sensor", desc.Key)

	value := lookupValue(result, desc.Section, desc.DataKey)
	if err := integration.mqtt.Publish(topics.StateTopic, formatStateValue(value), false); err != nil {
		return err
	}

	if len(desc.ExtraAttrs) == 0 {
		return nil
	}

	attributes := make(map[string]any, len(desc.ExtraAttrs))
	for attrName, dataKey := range desc.ExtraAttrs {
		attributes[attrName] = lookupValue(result, desc.Section, dataKey)
	}
	attributesJSON, err := json.Marshal(attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal %s attributes: %w", desc.Key, err)
	}

	return integration.mqtt.Publish(topics.AttributesTopic, string(attributesJSON), false)
}

func (integration *Integration) publishBinarySensorState(desc BinarySensorDescription, result *stats.Result) error {
	topics := integration.sensorTopics("binary_sensor", desc.Key)

	payload := stateUnknown
	if value, ok := lookupValue(result, desc.Section, desc.DataKey).(bool); ok {
		if value {
			payload = "ON"
		} else {
			payload = "OFF"
		}
	}

	return integration.mqtt.Publish(topics.StateTopic, payload, false)
}

// publishDiagnostics reports refresh health on a diagnostic entity:
// "ok" after a successful refresh, "stale" while serving a retained
// result after a failure.
func (integration *Integration) publishDiagnostics(result *stats.Result, ok bool) error {
	topics := integration.sensorTopics("sensor", "diagnostics")

	state := stateUnknown
	switch {
	case result == nil:
		state = stateUnknown
	case ok:
		state = "ok"
	default:
		state = "stale"
	}

	if err := integration.mqtt.Publish(topics.StateTopic, state, false); err != nil {
		return err
	}

	attributes := map[string]any{
		"last_update_success": ok,
	}
	if result != nil {
		attributes["last_updated"] = result.UpdatedAt.UTC().Format(time.RFC3339)
	}
	attributesJSON, err := json.Marshal(attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics attributes: %w", err)
	}

	return integration.mqtt.Publish(topics.AttributesTopic, string(attributesJSON), false)
}

func (integration *Integration) handleConnect() {
	integration.logger.Info("MQTT connected, publishing discovery configs and availability")

	if err := integration.publishAllDiscoveryConfigs(); err != nil {
		integration.logger.WithError(err).Error("Failed to publish discovery configs")
	}

	if err := integration.publishBridgeAvailability(payloadOnline); err != nil {
		integration.logger.WithError(err).Error("Failed to publish bridge availability")
	}

	integration.mu.Lock()
	result, ok := integration.lastResult, integration.lastOK
	integration.mu.Unlock()

	if result != nil {
		integration.publishAllStates(result, ok)
	}
}

func (integration *Integration) handleDisconnect() {
	integration.logger.Warn("MQTT disconnected")
}

func (integration *Integration) publishAllDiscoveryConfigs() error {
	for _, desc := range integration.sensors() {
		if err := integration.publishSensorDiscoveryConfig(desc); err != nil {
			return err
		}
	}

	if integration.includeFun {
		for _, desc := range FunBinarySensors {
			if err := integration.publishBinarySensorDiscoveryConfig(desc); err != nil {
				return err
			}
		}
	}

	return integration.publishDiagnosticsDiscoveryConfig()
}

func (integration *Integration) publishSensorDiscoveryConfig(desc SensorDescription) error {
	topics := integration.sensorTopics("sensor", desc.Key)
	baseTopic := integration.baseTopic("sensor", desc.Key)

	cfg := DiscoveryConfig{
		Name:              desc.Name,
		ObjectID:          desc.Key,
		UniqueID:          fmt.Sprintf("%s-%s", integration.bridgeDeviceID(), desc.Key),
		TildeTopic:        baseTopic,
		StateTopic:        "~/state",
		Availability:      integration.availability(),
		Device:            integration.bridgeDeviceInfo,
		Icon:              desc.Icon,
		UnitOfMeasurement: desc.Unit,
		DeviceClass:       desc.DeviceClass,
		StateClass:        desc.StateClass,
	}
	if len(desc.ExtraAttrs) > 0 {
		cfg.AttributesTopic = "~/attributes"
	}

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s discovery config: %w", desc.Key, err)
	}

	return integration.mqtt.Publish(topics.ConfigTopic, string(configJSON), true)
}

func (integration *Integration) publishBinarySensorDiscoveryConfig(desc BinarySensorDescription) error {
	topics := integration.sensorTopics("binary_sensor", desc.Key)
	baseTopic := integration.baseTopic("binary_sensor", desc.Key)

	cfg := DiscoveryConfig{
		Name:         desc.Name,
		ObjectID:     desc.Key,
		UniqueID:     fmt.Sprintf("%s-%s", integration.bridgeDeviceID(), desc.Key),
		TildeTopic:   baseTopic,
		StateTopic:   "~/state",
		Availability: integration.availability(),
		Device:       integration.bridgeDeviceInfo,
		Icon:         desc.Icon,
	}

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s discovery config: %w", desc.Key, err)
	}

	return integration.mqtt.Publish(topics.ConfigTopic, string(configJSON), true)
}

func (integration *Integration) publishDiagnosticsDiscoveryConfig() error {
	topics := integration.sensorTopics("sensor", "diagnostics")
	baseTopic := integration.baseTopic("sensor", "diagnostics")

	cfg := DiscoveryConfig{
		Name:            "Diagnostics",
		ObjectID:        "stats_bridge_diagnostics",
		UniqueID:        fmt.Sprintf("%s-diagnostics", integration.bridgeDeviceID()),
		TildeTopic:      baseTopic,
		StateTopic:      "~/state",
		AttributesTopic: "~/attributes",
		Availability:    integration.availability(),
		Device:          integration.bridgeDeviceInfo,
		Icon:            "mdi:stethoscope",
		EntityCategory:  "diagnostic",
	}

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics discovery config: %w", err)
	}

	return integration.mqtt.Publish(topics.ConfigTopic, string(configJSON), true)
}

func (integration *Integration) publishBridgeAvailability(status string) error {
	return integration.mqtt.Publish(integration.BridgeAvailabilityTopic(), status, true)
}

func (integration *Integration) sensors() []SensorDescription {
	if !integration.includeFun {
		return CoreSensors
	}
	sensors := make([]SensorDescription, 0, len(CoreSensors)+len(FunSensors))
	sensors = append(sensors, CoreSensors...)
	sensors = append(sensors, FunSensors...)
	return sensors
}

func (integration *Integration) bridgeDeviceID() string {
	return fmt.Sprintf("ha-stats-bridge-%s", integration.config.InstanceID)
}

func (integration *Integration) BridgeAvailabilityTopic() string {
	return GenerateBridgeAvailabilityTopic(integration.config)
}

// GenerateBridgeAvailabilityTopic is exposed at package level because
// the MQTT client needs the will topic before the integration exists.
func GenerateBridgeAvailabilityTopic(haConfig *config.HomeAssistantConfig) string {
	return fmt.Sprintf("%s/sensor/ha-stats-bridge-%s/availability", haConfig.DiscoveryPrefix, haConfig.InstanceID)
}

func (integration *Integration) baseTopic(component, key string) string {
	return fmt.Sprintf("%s/%s/%s-%s", integration.config.DiscoveryPrefix, component, integration.bridgeDeviceID(), key)
}

func (integration *Integration) sensorTopics(component, key string) entityTopics {
	base := integration.baseTopic(component, key)
	return entityTopics{
		ConfigTopic:     base + "/config",
		StateTopic:      base + "/state",
		AttributesTopic: base + "/attributes",
	}
}

func (integration *Integration) availability() []AvailabilityConfig {
	return []AvailabilityConfig{
		{Topic: integration.BridgeAvailabilityTopic()},
	}
}

func lookupValue(result *stats.Result, section, key string) any {
	if result == nil {
		return nil
	}
	var data map[string]any
	switch section {
	case SectionCore:
		data = result.Core
	case SectionFun:
		data = result.Fun
	}
	if data == nil {
		return nil
	}
	value, ok := data[key]
	if !ok {
		return nil
	}
	return value
}

// formatStateValue renders a stat value as an MQTT state payload.
// Absent and null values become "unknown" so consumers never mistake
// missing data for zero.
func formatStateValue(value any) string {
	switch v := value.(type) {
	case nil:
		return stateUnknown
	case string:
		if v == "" {
			return stateUnknown
		}
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
