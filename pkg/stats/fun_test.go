package stats

import (
	"testing"
)

func named(entityID, friendlyName string) EntityRecord {
	return EntityRecord{
		EntityID:   entityID,
		State:      "on",
		Attributes: map[string]any{"friendly_name": friendlyName},
	}
}

func TestEntityIDLengths(t *testing.T) {
	tests := []struct {
		name             string
		snapshot         Snapshot
		expectedAvg      float64
		expectedLongest  string
		expectedShortest string
	}{
		{
			name:             "Empty snapshot",
			snapshot:         Snapshot{},
			expectedAvg:      0.0,
			expectedLongest:  "",
			expectedShortest: "",
		},
		{
			name: "Average of lengths 4 and 6",
			snapshot: Snapshot{
				makeRecord("a.bc", "on", nil),
				makeRecord("ab.cde", "on", nil),
			},
			expectedAvg:      5.0,
			expectedLongest:  "ab.cde",
			expectedShortest: "a.bc",
		},
		{
			name: "Length ties keep the first id seen",
			snapshot: Snapshot{
				makeRecord("a.bc", "on", nil),
				makeRecord("x.yz", "on", nil),
			},
			expectedAvg:      4.0,
			expectedLongest:  "a.bc",
			expectedShortest: "a.bc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, longest, shortest := entityIDLengths(tt.snapshot)

			if avg != tt.expectedAvg {
				t.Errorf("Expected average %v, got %v", tt.expectedAvg, avg)
			}
			if longest != tt.expectedLongest {
				t.Errorf("Expected longest %q, got %q", tt.expectedLongest, longest)
			}
			if shortest != tt.expectedShortest {
				t.Errorf("Expected shortest %q, got %q", tt.expectedShortest, shortest)
			}
		})
	}
}

func TestEmojiStats(t *testing.T) {
	tests := []struct {
		name            string
		names           []string
		expectedEmoji   string
		expectedDensity float64
	}{
		{
			name:            "No names",
			names:           nil,
			expectedEmoji:   emojiPlaceholder,
			expectedDensity: 0.0,
		},
		{
			name:            "No emoji in any name",
			names:           []string{"Kitchen Light", "Hallway"},
			expectedEmoji:   emojiPlaceholder,
			expectedDensity: 0.0,
		},
		{
			name:            "Most frequent emoji wins",
			names:           []string{"Lamp 💡", "Desk 💡", "Party 🎉"},
			expectedEmoji:   "💡",
			expectedDensity: 15.79, // 3 emoji runes out of 19 name runes
		},
		{
			name:            "Ties go to the emoji seen first",
			names:           []string{"A 💡", "B 🎉"},
			expectedEmoji:   "💡",
			expectedDensity: 33.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emoji, density := emojiStats(tt.names)

			if emoji != tt.expectedEmoji {
				t.Errorf("Expected emoji %q, got %q", tt.expectedEmoji, emoji)
			}
			if density != tt.expectedDensity {
				t.Errorf("Expected density %v, got %v", tt.expectedDensity, density)
			}
		})
	}
}

func TestMostRedundantName(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		expected string
	}{
		{
			name:     "No names",
			names:    nil,
			expected: noRedundantName,
		},
		{
			name:     "All unique",
			names:    []string{"Kitchen", "Hallway", "Bedroom"},
			expected: noRedundantName,
		},
		{
			name:     "Three entities share a cleaned name",
			names:    []string{"Living Room", " living room ", "LIVING ROOM"},
			expected: "'living room' (×3)",
		},
		{
			name:     "Frequency ties go to the shorter name",
			names:    []string{"Hallway Light", "Hallway Light", "Lamp", "Lamp"},
			expected: "'lamp' (×2)",
		},
		{
			name:     "Whitespace-only names ignored",
			names:    []string{"   ", "   ", "Desk"},
			expected: noRedundantName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mostRedundantName(tt.names)

			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestPokemonNameCount(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		expected int
	}{
		{"No names", nil, 0},
		{"No matches", []string{"Living Room", "Kitchen"}, 0},
		{"Case-insensitive substring match", []string{"Pikachu Temp", "Living Room"}, 1},
		{"Entity with two references counts once", []string{"Pikachu and Eevee Cam"}, 1},
		{"Multiple matching entities", []string{"pikachu plug", "SNORLAX bed sensor"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := pokemonNameCount(tt.names)

			if count != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, count)
			}
		})
	}
}

func TestNamesWithNumbers(t *testing.T) {
	names := []string{"Lamp 1", "Lamp 2", "Desk", "Room101"}

	if count := namesWithNumbers(names); count != 3 {
		t.Errorf("Expected 3 names with numbers, got %d", count)
	}

	if count := namesWithNumbers(nil); count != 0 {
		t.Errorf("Expected 0 for empty input, got %d", count)
	}
}

func TestDailyRotation(t *testing.T) {
	snapshot := Snapshot{makeRecord("sensor.a", "1", nil)}

	// Same day twice yields identical output
	first := aggregateFun(snapshot, true, 42)
	second := aggregateFun(snapshot, true, 42)

	if first["random_daily_quote"] != second["random_daily_quote"] {
		t.Error("Expected quote to be stable within a day")
	}
	if first["house_mascot"] != second["house_mascot"] {
		t.Error("Expected mascot to be stable within a day")
	}

	// Index wraps via modulo
	wrapped := aggregateFun(snapshot, true, 42+len(deviceQuotes))
	if first["random_daily_quote"] != wrapped["random_daily_quote"] {
		t.Error("Expected quote selection to wrap around the list")
	}

	if first["random_daily_quote"] != deviceQuotes[42%len(deviceQuotes)] {
		t.Errorf("Expected quote at index %d", 42%len(deviceQuotes))
	}
	if first["house_mascot"] != houseMascots[42%len(houseMascots)] {
		t.Errorf("Expected mascot at index %d", 42%len(houseMascots))
	}
}

func TestAggregateFun_EmptySnapshot(t *testing.T) {
	fun := aggregateFun(Snapshot{}, true, 1)

	expectations := map[string]any{
		"avg_entity_id_length":        0.0,
		"longest_entity_id":           "",
		"shortest_entity_id":          "",
		"most_used_emoji":             emojiPlaceholder,
		"emoji_density":               0.0,
		"devices_named_after_pokemon": 0,
		"most_redundant_name":         noRedundantName,
		"names_with_numbers":          0,
		"everything_off":              true,
	}

	for key, expected := range expectations {
		if fun[key] != expected {
			t.Errorf("Expected %s=%v, got %v", key, expected, fun[key])
		}
	}

	if fun["random_daily_quote"] == "" {
		t.Error("Expected a daily quote even for an empty snapshot")
	}
	if fun["house_mascot"] == "" {
		t.Error("Expected a mascot even for an empty snapshot")
	}
}

func TestAggregateFun_PokemonEndToEnd(t *testing.T) {
	snapshot := Snapshot{
		named("sensor.pikachu_temp", "Pikachu Temp"),
		named("sensor.normal", "Living Room"),
	}

	fun := aggregateFun(snapshot, false, 1)

	if fun["devices_named_after_pokemon"] != 1 {
		t.Errorf("Expected 1 Pokémon-named device, got %v", fun["devices_named_after_pokemon"])
	}
	if fun["everything_off"] != false {
		t.Errorf("Expected everything_off to pass through, got %v", fun["everything_off"])
	}
}
