package stats

import (
	"testing"
	"time"
)

func makeRecord(entityID, state string, attributes map[string]any) EntityRecord {
	return EntityRecord{
		EntityID:   entityID,
		State:      state,
		Attributes: attributes,
	}
}

func withLastChanged(r EntityRecord, ts time.Time) EntityRecord {
	r.LastChanged = &ts
	return r
}

func TestAggregateEnergy(t *testing.T) {
	tests := []struct {
		name          string
		snapshot      Snapshot
		expectedTotal float64
		expectedCount int
	}{
		{
			name:          "Empty snapshot",
			snapshot:      Snapshot{},
			expectedTotal: 0.0,
			expectedCount: 0,
		},
		{
			name: "kWh sensors summed",
			snapshot: Snapshot{
				makeRecord("sensor.a", "1.5", map[string]any{"unit_of_measurement": "kWh"}),
				makeRecord("sensor.b", "2.25", map[string]any{"unit_of_measurement": "kWh"}),
			},
			expectedTotal: 3.75,
			expectedCount: 2,
		},
		{
			name: "Wh converted to kWh",
			snapshot: Snapshot{
				makeRecord("sensor.a", "500", map[string]any{"unit_of_measurement": "Wh"}),
				makeRecord("sensor.b", "1", map[string]any{"unit_of_measurement": "kWh"}),
			},
			expectedTotal: 1.5,
			expectedCount: 2,
		},
		{
			name: "Unit match is case-insensitive",
			snapshot: Snapshot{
				makeRecord("sensor.a", "1", map[string]any{"unit_of_measurement": "KWH"}),
				makeRecord("sensor.b", "1000", map[string]any{"unit_of_measurement": "wh"}),
			},
			expectedTotal: 2.0,
			expectedCount: 2,
		},
		{
			name: "Unavailable, unknown, empty and non-numeric states skipped",
			snapshot: Snapshot{
				makeRecord("sensor.a", "unavailable", map[string]any{"unit_of_measurement": "kWh"}),
				makeRecord("sensor.b", "unknown", map[string]any{"unit_of_measurement": "kWh"}),
				makeRecord("sensor.c", "", map[string]any{"unit_of_measurement": "kWh"}),
				makeRecord("sensor.d", "not-a-number", map[string]any{"unit_of_measurement": "kWh"}),
				makeRecord("sensor.e", "2", map[string]any{"unit_of_measurement": "kWh"}),
			},
			expectedTotal: 2.0,
			expectedCount: 1,
		},
		{
			name: "Other units ignored",
			snapshot: Snapshot{
				makeRecord("sensor.a", "21.5", map[string]any{"unit_of_measurement": "°C"}),
				makeRecord("sensor.b", "42", nil),
			},
			expectedTotal: 0.0,
			expectedCount: 0,
		},
		{
			name: "Result rounded to 3 decimals",
			snapshot: Snapshot{
				makeRecord("sensor.a", "1", map[string]any{"unit_of_measurement": "Wh"}),
				makeRecord("sensor.b", "0.0001", map[string]any{"unit_of_measurement": "kWh"}),
			},
			expectedTotal: 0.001,
			expectedCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, count := aggregateEnergy(tt.snapshot)

			if total != tt.expectedTotal {
				t.Errorf("Expected total %v, got %v", tt.expectedTotal, total)
			}
			if count != tt.expectedCount {
				t.Errorf("Expected %d contributing sensors, got %d", tt.expectedCount, count)
			}
		})
	}
}

func TestAggregateCore_UniqueDomains(t *testing.T) {
	now := time.Now()
	snapshot := Snapshot{
		makeRecord("light.kitchen", "off", nil),
		makeRecord("light.hallway", "off", nil),
		makeRecord("sensor.temp", "21", nil),
		makeRecord("switch.fan", "on", nil),
	}

	core, _ := aggregateCore(snapshot, RegistryCounts{}, now)

	if core["unique_domains_count"] != 3 {
		t.Errorf("Expected 3 unique domains, got %v", core["unique_domains_count"])
	}
	if core["total_entities"] != 4 {
		t.Errorf("Expected 4 total entities, got %v", core["total_entities"])
	}

	domainCounts, ok := core["domain_counts"].(map[string]int)
	if !ok {
		t.Fatalf("Expected domain_counts to be map[string]int, got %T", core["domain_counts"])
	}
	if domainCounts["light"] != 2 {
		t.Errorf("Expected 2 light entities, got %d", domainCounts["light"])
	}
	if core["light_count"] != 2 {
		t.Errorf("Expected light_count 2, got %v", core["light_count"])
	}
}

func TestAggregateCore_EverythingOff(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		snapshot Snapshot
		expected bool
	}{
		{
			name:     "No entities at all is vacuously true",
			snapshot: Snapshot{},
			expected: true,
		},
		{
			name: "No light entities is vacuously true",
			snapshot: Snapshot{
				makeRecord("switch.fan", "on", nil),
			},
			expected: true,
		},
		{
			name: "All lights off",
			snapshot: Snapshot{
				makeRecord("light.kitchen", "off", nil),
				makeRecord("light.hallway", "unavailable", nil),
			},
			expected: true,
		},
		{
			name: "One light on",
			snapshot: Snapshot{
				makeRecord("light.kitchen", "off", nil),
				makeRecord("light.hallway", "on", nil),
			},
			expected: false,
		},
		{
			name: "Non-light domain with state on does not count",
			snapshot: Snapshot{
				makeRecord("switch.lamp", "on", nil),
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, everythingOff := aggregateCore(tt.snapshot, RegistryCounts{}, now)

			if everythingOff != tt.expected {
				t.Errorf("Expected everything_off %v, got %v", tt.expected, everythingOff)
			}
			if core["everything_off"] != tt.expected {
				t.Errorf("Expected core everything_off %v, got %v", tt.expected, core["everything_off"])
			}
		})
	}
}

func TestAggregateCore_ActiveEntities24h(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	snapshot := Snapshot{
		withLastChanged(makeRecord("sensor.fresh", "1", nil), now.Add(-1*time.Hour)),
		withLastChanged(makeRecord("sensor.edge", "2", nil), now.Add(-24*time.Hour)),
		withLastChanged(makeRecord("sensor.stale", "3", nil), now.Add(-25*time.Hour)),
		makeRecord("sensor.never_changed", "4", nil),
	}

	core, _ := aggregateCore(snapshot, RegistryCounts{}, now)

	// Exactly-at-cutoff counts as active; nil last_changed never does.
	if core["active_entities_24h"] != 2 {
		t.Errorf("Expected 2 active entities, got %v", core["active_entities_24h"])
	}
}

func TestAggregateCore_StateCounts(t *testing.T) {
	now := time.Now()
	snapshot := Snapshot{
		makeRecord("sensor.a", "unavailable", nil),
		makeRecord("sensor.b", "unavailable", nil),
		makeRecord("sensor.c", "unknown", nil),
		makeRecord("sensor.d", "Unavailable", nil), // case-sensitive match only
		makeRecord("light.e", "on", nil),
	}

	core, _ := aggregateCore(snapshot, RegistryCounts{}, now)

	if core["unavailable_count"] != 2 {
		t.Errorf("Expected 2 unavailable entities, got %v", core["unavailable_count"])
	}
	if core["unknown_count"] != 1 {
		t.Errorf("Expected 1 unknown entity, got %v", core["unknown_count"])
	}
	if core["lights_on"] != 1 {
		t.Errorf("Expected 1 light on, got %v", core["lights_on"])
	}
}

func TestAggregateCore_RegistryCounts(t *testing.T) {
	core, _ := aggregateCore(Snapshot{}, RegistryCounts{
		Devices:          12,
		DisabledEntities: 3,
		Integrations:     7,
	}, time.Now())

	if core["total_devices"] != 12 {
		t.Errorf("Expected 12 devices, got %v", core["total_devices"])
	}
	if core["disabled_entities"] != 3 {
		t.Errorf("Expected 3 disabled entities, got %v", core["disabled_entities"])
	}
	if core["integrations_count"] != 7 {
		t.Errorf("Expected 7 integrations, got %v", core["integrations_count"])
	}
}

func TestUptimeFromBoot(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		boot          time.Time
		ok            bool
		expectedDays  int
		expectedHours float64
	}{
		{
			name:          "Boot time unavailable",
			boot:          time.Time{},
			ok:            false,
			expectedDays:  0,
			expectedHours: 0.0,
		},
		{
			name:          "Two and a half days",
			boot:          now.Add(-60 * time.Hour),
			ok:            true,
			expectedDays:  2,
			expectedHours: 60.0,
		},
		{
			name:          "Less than a day",
			boot:          now.Add(-90 * time.Minute),
			ok:            true,
			expectedDays:  0,
			expectedHours: 1.5,
		},
		{
			name:          "Boot time in the future is clamped",
			boot:          now.Add(1 * time.Hour),
			ok:            true,
			expectedDays:  0,
			expectedHours: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, hours := uptimeFromBoot(tt.boot, tt.ok, now)

			if days != tt.expectedDays {
				t.Errorf("Expected %d days, got %d", tt.expectedDays, days)
			}
			if hours != tt.expectedHours {
				t.Errorf("Expected %v hours, got %v", tt.expectedHours, hours)
			}
		})
	}
}
