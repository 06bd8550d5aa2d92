package stats

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Entity states that never contribute to numeric aggregations.
const (
	StateUnavailable = "unavailable"
	StateUnknown     = "unknown"
)

// Domains surfaced as dedicated counters in addition to the full
// per-domain breakdown.
var countedDomains = []string{
	"automation", "script", "scene", "light", "switch", "binary_sensor",
	"sensor", "person", "camera", "media_player", "cover", "climate",
}

// aggregateCore runs the single-pass core reducer over a snapshot and
// merges in the registry counters. The returned everything-off flag is
// true when no light entity is "on", vacuously true without lights.
//
// Host telemetry and uptime fields are filled in by the coordinator;
// they come from the OS, not from the snapshot.
func aggregateCore(snap Snapshot, reg RegistryCounts, now time.Time) (core map[string]any, everythingOff bool) {
	domainCounts := make(map[string]int)
	unavailable := 0
	unknown := 0
	lightsOn := 0
	active24h := 0
	cutoff := now.Add(-24 * time.Hour)

	for _, r := range snap {
		domain := r.Domain()
		domainCounts[domain]++

		switch r.State {
		case StateUnavailable:
			unavailable++
		case StateUnknown:
			unknown++
		}

		if domain == "light" && r.State == "on" {
			lightsOn++
		}

		// Entities that never changed state don't count as active.
		if r.LastChanged != nil && !r.LastChanged.Before(cutoff) {
			active24h++
		}
	}

	everythingOff = lightsOn == 0

	energyKWh, energyCount := aggregateEnergy(snap)

	core = map[string]any{
		"total_entities":       len(snap),
		"total_devices":        reg.Devices,
		"integrations_count":   reg.Integrations,
		"disabled_entities":    reg.DisabledEntities,
		"domain_counts":        domainCounts,
		"unique_domains_count": len(domainCounts),
		"unavailable_count":    unavailable,
		"unknown_count":        unknown,
		"lights_on":            lightsOn,
		"everything_off":       everythingOff,
		"active_entities_24h":  active24h,
		"energy_24h_kwh":       energyKWh,
		"energy_entity_count":  energyCount,
	}

	for _, domain := range countedDomains {
		core[domain+"_count"] = domainCounts[domain]
	}

	return core, everythingOff
}

// aggregateEnergy sums the instantaneous readings of every kWh/Wh
// sensor, normalised to kWh. This is a deliberate approximation: a true
// 24-hour delta would need a time-series store. Unavailable, unknown,
// empty and non-numeric states are skipped without aborting the sum.
func aggregateEnergy(snap Snapshot) (totalKWh float64, contributing int) {
	for _, r := range snap {
		unit := strings.ToLower(r.UnitOfMeasurement())
		if unit != "kwh" && unit != "wh" {
			continue
		}
		switch r.State {
		case StateUnavailable, StateUnknown, "":
			continue
		}

		value, err := strconv.ParseFloat(r.State, 64)
		if err != nil {
			continue
		}
		if unit == "wh" {
			value /= 1000.0
		}
		totalKWh += value
		contributing++
	}
	return roundTo(totalKWh, 3), contributing
}

// uptimeFromBoot converts a boot timestamp into the exposed day/hour
// pair. A zero boot time (telemetry unavailable) yields 0 / 0.0.
func uptimeFromBoot(boot time.Time, ok bool, now time.Time) (days int, hours float64) {
	if !ok || boot.IsZero() || boot.After(now) {
		return 0, 0.0
	}
	elapsed := now.Sub(boot)
	days = int(elapsed.Hours() / 24)
	hours = roundTo(elapsed.Hours(), 1)
	return days, hours
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow10(decimals)
	return math.Round(v*factor) / factor
}
