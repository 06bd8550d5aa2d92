package stats

import (
	"strings"
	"time"
)

// EntityRecord is a single entity's state captured at snapshot time.
// Records are created fresh on every poll cycle and never mutated.
type EntityRecord struct {
	EntityID    string
	State       string
	Attributes  map[string]any
	LastChanged *time.Time
}

// Snapshot is a point-in-time copy of every entity known to Home
// Assistant. It is the sole input to a refresh cycle, safe to hand to
// concurrently running aggregators.
type Snapshot []EntityRecord

// Domain returns the entity-id prefix before the first dot, e.g.
// "light" for "light.kitchen". An id without a dot is its own domain.
func (r EntityRecord) Domain() string {
	if idx := strings.IndexByte(r.EntityID, '.'); idx >= 0 {
		return r.EntityID[:idx]
	}
	return r.EntityID
}

// FriendlyName returns the entity's display name, or "" when absent.
func (r EntityRecord) FriendlyName() string {
	if name, ok := r.Attributes["friendly_name"].(string); ok {
		return name
	}
	return ""
}

// UnitOfMeasurement returns the entity's unit attribute, or "" when absent.
func (r EntityRecord) UnitOfMeasurement() string {
	if unit, ok := r.Attributes["unit_of_measurement"].(string); ok {
		return unit
	}
	return ""
}

// RegistryCounts carries the read-only counters sourced from the Home
// Assistant registries. All fields default to zero when a registry
// cannot be reached.
type RegistryCounts struct {
	Devices          int
	DisabledEntities int
	Integrations     int
}
