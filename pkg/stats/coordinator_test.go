package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vibecoden/homeassistant-stats-bridge/pkg/config"
)

type fakeStates struct {
	snapshot Snapshot
	err      error
	calls    int
}

func (f *fakeStates) FetchStates(ctx context.Context) (Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

type fakeRegistry struct {
	counts RegistryCounts
}

func (f *fakeRegistry) RegistryCounts(ctx context.Context) RegistryCounts {
	return f.counts
}

type fakeHost struct {
	telemetry HostTelemetry
	boot      time.Time
	bootOK    bool
}

func (f *fakeHost) Telemetry(ctx context.Context) HostTelemetry {
	return f.telemetry
}

func (f *fakeHost) BootTime(ctx context.Context) (time.Time, bool) {
	return f.boot, f.bootOK
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func boolPtr(v bool) *bool { return &v }

func newTestCoordinator(states *fakeStates, enableFun bool) *Coordinator {
	cfg := &config.StatsConfig{
		PollInterval:   30,
		EnableFunStats: boolPtr(enableFun),
	}
	return NewCoordinator(cfg, states, &fakeRegistry{}, &fakeHost{}, testLogger())
}

func TestCoordinator_InitialRefreshPopulatesResult(t *testing.T) {
	states := &fakeStates{snapshot: Snapshot{
		makeRecord("light.kitchen", "on", nil),
		makeRecord("sensor.temp", "21", nil),
	}}

	c := newTestCoordinator(states, true)
	c.refreshOnce()

	result, ok := c.Result()
	if !ok {
		t.Fatal("Expected last update to be marked successful")
	}
	if result == nil {
		t.Fatal("Expected a result after the initial refresh")
	}
	if result.Core["total_entities"] != 2 {
		t.Errorf("Expected 2 total entities, got %v", result.Core["total_entities"])
	}
	if result.Fun["everything_off"] != false {
		t.Errorf("Expected everything_off false, got %v", result.Fun["everything_off"])
	}
	if states.calls != 1 {
		t.Errorf("Expected exactly one snapshot capture, got %d", states.calls)
	}
}

func TestCoordinator_FailureRetainsPreviousResult(t *testing.T) {
	states := &fakeStates{snapshot: Snapshot{
		makeRecord("sensor.temp", "21", nil),
	}}

	c := newTestCoordinator(states, true)
	c.refreshOnce()

	previous, ok := c.Result()
	if !ok || previous == nil {
		t.Fatal("Expected a successful first refresh")
	}

	states.err = errors.New("connection refused")
	c.refreshOnce()

	result, ok := c.Result()
	if ok {
		t.Error("Expected last update to be marked failed")
	}
	if result != previous {
		t.Error("Expected the previous good result to be retained")
	}

	// Recovery on the next tick
	states.err = nil
	c.refreshOnce()

	result, ok = c.Result()
	if !ok {
		t.Error("Expected the refresh to recover")
	}
	if result == previous {
		t.Error("Expected a fresh result after recovery")
	}
}

func TestCoordinator_NoResultBeforeFirstSuccess(t *testing.T) {
	states := &fakeStates{err: errors.New("unreachable")}

	c := newTestCoordinator(states, true)
	c.refreshOnce()

	result, ok := c.Result()
	if ok {
		t.Error("Expected failure to be reported")
	}
	if result != nil {
		t.Error("Expected no result before the first successful refresh")
	}
}

func TestCoordinator_FunStatsDisabled(t *testing.T) {
	states := &fakeStates{snapshot: Snapshot{
		makeRecord("sensor.temp", "21", nil),
	}}

	c := newTestCoordinator(states, false)
	c.refreshOnce()

	result, _ := c.Result()
	if result == nil {
		t.Fatal("Expected a result")
	}
	if len(result.Fun) != 0 {
		t.Errorf("Expected empty fun section when disabled, got %v", result.Fun)
	}
}

func TestCoordinator_UpdateCallback(t *testing.T) {
	states := &fakeStates{snapshot: Snapshot{}}

	c := newTestCoordinator(states, true)

	var callbackResult *Result
	var callbackOK bool
	calls := 0
	c.SetOnUpdateCallback(func(result *Result, ok bool) {
		callbackResult = result
		callbackOK = ok
		calls++
	})

	c.refreshOnce()

	if calls != 1 {
		t.Fatalf("Expected 1 callback invocation, got %d", calls)
	}
	if !callbackOK {
		t.Error("Expected callback to report success")
	}
	if callbackResult == nil {
		t.Error("Expected callback to receive the result")
	}

	// Failed refresh still invokes the callback with the cached result
	states.err = errors.New("boom")
	c.refreshOnce()

	if calls != 2 {
		t.Fatalf("Expected 2 callback invocations, got %d", calls)
	}
	if callbackOK {
		t.Error("Expected callback to report failure")
	}
	if callbackResult == nil {
		t.Error("Expected callback to still receive the retained result")
	}
}

func TestCoordinator_HostTelemetryMerged(t *testing.T) {
	cpuPct := 12.5
	now := time.Now()

	cfg := &config.StatsConfig{PollInterval: 30}
	states := &fakeStates{snapshot: Snapshot{}}
	hostSource := &fakeHost{
		telemetry: HostTelemetry{CPUPct: &cpuPct},
		boot:      now.Add(-48 * time.Hour),
		bootOK:    true,
	}

	c := NewCoordinator(cfg, states, &fakeRegistry{}, hostSource, testLogger())
	c.refreshOnce()

	result, _ := c.Result()
	if result == nil {
		t.Fatal("Expected a result")
	}
	if result.Core["host_cpu_pct"] != 12.5 {
		t.Errorf("Expected host_cpu_pct 12.5, got %v", result.Core["host_cpu_pct"])
	}
	if result.Core["host_ram_pct"] != nil {
		t.Errorf("Expected nil host_ram_pct, got %v", result.Core["host_ram_pct"])
	}
	if result.Core["uptime_days"] != 2 {
		t.Errorf("Expected uptime_days 2, got %v", result.Core["uptime_days"])
	}
}
