package homeassistant

// SensorDescription declares one exposed stat entity: where its value
// lives in the aggregation result ({section, data key}) and how Home
// Assistant should present it.
type SensorDescription struct {
	Key         string
	Name        string
	Icon        string
	Unit        string
	DeviceClass string
	StateClass  string
	Section     string // "core" or "fun"
	DataKey     string
	// ExtraAttrs maps published attribute names to data keys within the
	// same section.
	ExtraAttrs map[string]string
}

const (
	SectionCore = "core"
	SectionFun  = "fun"

	stateClassMeasurement = "measurement"
)

// CoreSensors is the catalogue of registry-derived and host-telemetry
// sensors, always created.
var CoreSensors = []SensorDescription{
	{
		Key:        "total_devices",
		Name:       "Total Devices",
		Icon:       "mdi:devices",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "total_devices",
	},
	{
		Key:        "total_entities",
		Name:       "Total Entities",
		Icon:       "mdi:format-list-bulleted",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "total_entities",
		ExtraAttrs: map[string]string{"domain_breakdown": "domain_counts"},
	},
	{
		Key:        "integrations_count",
		Name:       "Integrations Count",
		Icon:       "mdi:puzzle",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "integrations_count",
	},
	{
		Key:        "automation_count",
		Name:       "Automation Count",
		Icon:       "mdi:robot",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "automation_count",
	},
	{
		Key:        "script_count",
		Name:       "Script Count",
		Icon:       "mdi:script-text",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "script_count",
	},
	{
		Key:        "scene_count",
		Name:       "Scene Count",
		Icon:       "mdi:palette",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "scene_count",
	},
	{
		Key:        "light_count",
		Name:       "Light Count",
		Icon:       "mdi:lightbulb-multiple",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "light_count",
	},
	{
		Key:        "switch_count",
		Name:       "Switch Count",
		Icon:       "mdi:toggle-switch",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "switch_count",
	},
	{
		Key:        "binary_sensor_count",
		Name:       "Binary Sensor Count",
		Icon:       "mdi:radiobox-marked",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "binary_sensor_count",
	},
	{
		Key:        "sensor_count",
		Name:       "Sensor Count",
		Icon:       "mdi:thermometer",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "sensor_count",
	},
	{
		Key:        "person_count",
		Name:       "Person Count",
		Icon:       "mdi:account-group",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "person_count",
	},
	{
		Key:        "camera_count",
		Name:       "Camera Count",
		Icon:       "mdi:cctv",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "camera_count",
	},
	{
		Key:        "media_player_count",
		Name:       "Media Player Count",
		Icon:       "mdi:speaker",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "media_player_count",
	},
	{
		Key:        "cover_count",
		Name:       "Cover Count",
		Icon:       "mdi:window-shutter",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "cover_count",
	},
	{
		Key:        "climate_count",
		Name:       "Climate Count",
		Icon:       "mdi:thermostat",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "climate_count",
	},
	{
		Key:        "unique_domains_count",
		Name:       "Unique Domains",
		Icon:       "mdi:tag-multiple",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "unique_domains_count",
	},
	{
		Key:        "unavailable_count",
		Name:       "Unavailable Entities",
		Icon:       "mdi:alert-circle-outline",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "unavailable_count",
	},
	{
		Key:        "unknown_count",
		Name:       "Unknown State Entities",
		Icon:       "mdi:help-circle-outline",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "unknown_count",
	},
	{
		Key:        "disabled_entities",
		Name:       "Disabled Entities",
		Icon:       "mdi:eye-off-outline",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "disabled_entities",
	},
	{
		Key:        "lights_on",
		Name:       "Lights Currently On",
		Icon:       "mdi:lightbulb-on",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "lights_on",
	},
	{
		Key:        "uptime_days",
		Name:       "Uptime (Days)",
		Icon:       "mdi:timer-outline",
		Unit:       "d",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "uptime_days",
	},
	{
		Key:        "uptime_hours",
		Name:       "Uptime (Hours)",
		Icon:       "mdi:clock-outline",
		Unit:       "h",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "uptime_hours",
	},
	{
		Key:        "active_devices_24h",
		Name:       "Active Entities (24 h)",
		Icon:       "mdi:pulse",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "active_entities_24h",
	},
	{
		Key:        "host_cpu_pct",
		Name:       "Host CPU Usage",
		Icon:       "mdi:cpu-64-bit",
		Unit:       "%",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "host_cpu_pct",
	},
	{
		Key:        "host_ram_pct",
		Name:       "Host RAM Usage",
		Icon:       "mdi:memory",
		Unit:       "%",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "host_ram_pct",
	},
	{
		Key:        "host_disk_pct",
		Name:       "Host Disk Usage",
		Icon:       "mdi:harddisk",
		Unit:       "%",
		StateClass: stateClassMeasurement,
		Section:    SectionCore,
		DataKey:    "host_disk_pct",
	},
	{
		Key:         "energy_24h_kwh",
		Name:        "Energy Total (kWh)",
		Icon:        "mdi:lightning-bolt",
		Unit:        "kWh",
		DeviceClass: "energy",
		StateClass:  stateClassMeasurement,
		Section:     SectionCore,
		DataKey:     "energy_24h_kwh",
		ExtraAttrs:  map[string]string{"contributing_sensors": "energy_entity_count"},
	},
}

// FunSensors are only created when fun stats are enabled.
var FunSensors = []SensorDescription{
	{
		Key:     "most_used_emoji",
		Name:    "Most Used Emoji",
		Icon:    "mdi:emoticon-outline",
		Section: SectionFun,
		DataKey: "most_used_emoji",
	},
	{
		Key:        "avg_entity_id_length",
		Name:       "Avg Entity ID Length",
		Icon:       "mdi:ruler",
		Unit:       "chars",
		StateClass: stateClassMeasurement,
		Section:    SectionFun,
		DataKey:    "avg_entity_id_length",
		ExtraAttrs: map[string]string{
			"longest_entity_id":  "longest_entity_id",
			"shortest_entity_id": "shortest_entity_id",
		},
	},
	{
		Key:        "devices_named_after_pokemon",
		Name:       "Devices Named After Pokémon",
		Icon:       "mdi:pokeball",
		StateClass: stateClassMeasurement,
		Section:    SectionFun,
		DataKey:    "devices_named_after_pokemon",
	},
	{
		Key:        "emoji_density",
		Name:       "Emoji Density",
		Icon:       "mdi:percent",
		Unit:       "%",
		StateClass: stateClassMeasurement,
		Section:    SectionFun,
		DataKey:    "emoji_density",
	},
	{
		Key:     "most_redundant_name",
		Name:    "Most Redundant Name",
		Icon:    "mdi:content-duplicate",
		Section: SectionFun,
		DataKey: "most_redundant_name",
	},
	{
		Key:        "names_with_numbers",
		Name:       "Entity Names Containing Numbers",
		Icon:       "mdi:numeric",
		StateClass: stateClassMeasurement,
		Section:    SectionFun,
		DataKey:    "names_with_numbers",
	},
	{
		Key:     "random_daily_device_quote",
		Name:    "Random Daily Device Quote",
		Icon:    "mdi:comment-quote",
		Section: SectionFun,
		DataKey: "random_daily_quote",
	},
	{
		Key:     "house_mascot",
		Name:    "House Mascot",
		Icon:    "mdi:home-heart",
		Section: SectionFun,
		DataKey: "house_mascot",
	},
}

// BinarySensorDescription declares one exposed boolean entity.
type BinarySensorDescription struct {
	Key     string
	Name    string
	Icon    string
	Section string
	DataKey string
}

// FunBinarySensors follow the fun-stats toggle like FunSensors.
var FunBinarySensors = []BinarySensorDescription{
	{
		Key:     "everything_off_party_mode",
		Name:    "Everything Off (Party Mode)",
		Icon:    "mdi:party-popper",
		Section: SectionFun,
		DataKey: "everything_off",
	},
}
