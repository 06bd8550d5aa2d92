package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vibecoden/homeassistant-stats-bridge/pkg/config"
)

// StateSource captures a point-in-time snapshot of all entity states.
// A snapshot failure is the only error that fails a whole refresh.
type StateSource interface {
	FetchStates(ctx context.Context) (Snapshot, error)
}

// RegistrySource reads the registry counters. Implementations must be
// fail-safe: on error they log and return zero counts.
type RegistrySource interface {
	RegistryCounts(ctx context.Context) RegistryCounts
}

// HostTelemetry is one reading of the host OS gauges. A nil field means
// the capability is unavailable and is surfaced as "no data".
type HostTelemetry struct {
	CPUPct  *float64
	RAMPct  *float64
	DiskPct *float64
}

// HostSource reads OS-level metrics. Telemetry may block for the CPU
// sampling window, so the coordinator calls it off the snapshot path.
type HostSource interface {
	Telemetry(ctx context.Context) HostTelemetry
	BootTime(ctx context.Context) (time.Time, bool)
}

// Result is one complete {core, fun} aggregation. It replaces the
// previous result wholesale; readers never see a partial update.
type Result struct {
	Core      map[string]any
	Fun       map[string]any
	UpdatedAt time.Time
}

// Coordinator drives the refresh schedule: one refresh immediately at
// startup, then one per poll interval. Ticks are serialized by running
// on a single goroutine, so overlapping refreshes cannot happen. A
// failed refresh keeps the previous good result available and marks
// the update as failed until the next tick succeeds.
type Coordinator struct {
	logger   *logrus.Logger
	states   StateSource
	registry RegistrySource
	host     HostSource

	interval   time.Duration
	enableFun  bool
	enableHost bool
	now        func() time.Time

	mu           sync.RWMutex
	result       *Result
	lastUpdateOK bool

	onUpdate func(result *Result, ok bool)

	stopCh chan struct{}
	doneCh chan struct{}
}

func NewCoordinator(
	cfg *config.StatsConfig,
	states StateSource,
	registry RegistrySource,
	host HostSource,
	logger *logrus.Logger,
) *Coordinator {
	return &Coordinator{
		logger:     logger,
		states:     states,
		registry:   registry,
		host:       host,
		interval:   time.Duration(cfg.PollInterval) * time.Second,
		enableFun:  cfg.FunStatsEnabled(),
		enableHost: cfg.HostTelemetryEnabled(),
		now:        time.Now,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// SetOnUpdateCallback registers the function called after every refresh
// attempt, successful or not, with the freshest available result.
func (c *Coordinator) SetOnUpdateCallback(callback func(result *Result, ok bool)) {
	c.onUpdate = callback
}

// FunStatsEnabled reports whether fun aggregation is configured on.
func (c *Coordinator) FunStatsEnabled() bool {
	return c.enableFun
}

// Start performs the initial refresh synchronously so consumers have
// data on first read, then launches the polling loop.
func (c *Coordinator) Start() error {
	c.logger.Infof("Starting stats coordinator (interval: %s)", c.interval)
	c.refreshOnce()
	go c.run()
	return nil
}

func (c *Coordinator) Stop() error {
	close(c.stopCh)
	<-c.doneCh
	c.logger.Info("Stats coordinator stopped")
	return nil
}

// Result returns the most recent complete result and whether the last
// refresh attempt succeeded. The result is nil before the first
// successful refresh.
func (c *Coordinator) Result() (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result, c.lastUpdateOK
}

func (c *Coordinator) run() {
	defer close(c.doneCh)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.refreshOnce()
		}
	}
}

func (c *Coordinator) refreshOnce() {
	result, err := c.refresh(context.Background())

	c.mu.Lock()
	if err != nil {
		// Keep the previous good result readable, just flag staleness.
		c.lastUpdateOK = false
		c.logger.WithError(err).Error("Stats refresh failed, retaining previous result")
	} else {
		c.result = result
		c.lastUpdateOK = true
	}
	current, ok := c.result, c.lastUpdateOK
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(current, ok)
	}
}

// refresh builds one complete result. The snapshot and registry reads
// happen first; the fun aggregator then runs concurrently with the
// blocking host-telemetry read.
func (c *Coordinator) refresh(ctx context.Context) (*Result, error) {
	now := c.now()

	snap, err := c.states.FetchStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("state snapshot failed: %w", err)
	}

	reg := c.registry.RegistryCounts(ctx)
	core, everythingOff := aggregateCore(snap, reg, now)

	funCh := make(chan map[string]any, 1)
	if c.enableFun {
		go func() {
			funCh <- aggregateFun(snap, everythingOff, now.YearDay())
		}()
	}

	var telemetry HostTelemetry
	if c.enableHost {
		telemetry = c.host.Telemetry(ctx)
	}
	core["host_cpu_pct"] = floatOrNil(telemetry.CPUPct)
	core["host_ram_pct"] = floatOrNil(telemetry.RAMPct)
	core["host_disk_pct"] = floatOrNil(telemetry.DiskPct)

	boot, bootOK := c.host.BootTime(ctx)
	days, hours := uptimeFromBoot(boot, bootOK, now)
	core["uptime_days"] = days
	core["uptime_hours"] = hours

	fun := map[string]any{}
	if c.enableFun {
		fun = <-funCh
	}

	c.logger.WithFields(logrus.Fields{
		"entities": len(snap),
		"devices":  reg.Devices,
	}).Debug("Stats refresh complete")

	return &Result{Core: core, Fun: fun, UpdatedAt: now}, nil
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
