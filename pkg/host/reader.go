// Package host reads OS-level telemetry through gopsutil. Every probe
// is individually fail-safe: a missing capability yields nil gauges or
// a zero boot time, never an error that could fail a refresh.
package host

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	gopsutilhost "github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"

	"github.com/vibecoden/homeassistant-stats-bridge/pkg/stats"
)

// cpuSampleWindow is how long the CPU usage probe blocks to measure.
const cpuSampleWindow = 500 * time.Millisecond

const rootMount = "/"

type Reader struct {
	logger *logrus.Logger
}

func NewReader(logger *logrus.Logger) *Reader {
	return &Reader{logger: logger}
}

// Telemetry samples CPU, RAM and disk usage. The CPU probe blocks for
// the sampling window, so callers should not run this on a latency
// sensitive path.
func (r *Reader) Telemetry(ctx context.Context) stats.HostTelemetry {
	var t stats.HostTelemetry

	if percents, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false); err != nil {
		r.logger.WithError(err).Debug("CPU telemetry unavailable")
	} else if len(percents) > 0 {
		t.CPUPct = &percents[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		r.logger.WithError(err).Debug("RAM telemetry unavailable")
	} else {
		t.RAMPct = &vm.UsedPercent
	}

	if usage, err := disk.UsageWithContext(ctx, rootMount); err != nil {
		r.logger.WithError(err).Debug("Disk telemetry unavailable")
	} else {
		t.DiskPct = &usage.UsedPercent
	}

	return t
}

// BootTime returns the host boot timestamp, or false when the OS does
// not expose it.
func (r *Reader) BootTime(ctx context.Context) (time.Time, bool) {
	bootTS, err := gopsutilhost.BootTimeWithContext(ctx)
	if err != nil || bootTS == 0 {
		r.logger.WithError(err).Debug("Boot time unavailable, uptime will be 0")
		return time.Time{}, false
	}
	return time.Unix(int64(bootTS), 0).UTC(), true
}
