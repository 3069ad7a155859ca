package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"parley/bus"
	"parley/domain/event"
)

// TelemetryWorker samples the mediator's own CPU and memory usage and feeds
// the readings into the bus as system telemetry events.
type TelemetryWorker struct {
	log      *slog.Logger
	bus      *bus.Bus
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, b *bus.Bus, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, bus: b, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			cpu, err := proc.CPUPercent()
			if err != nil {
				w.log.Debug("Error while finding process cpu usage", "err", err)
				continue
			}
			mem, err := proc.MemoryInfo()
			if err != nil {
				w.log.Debug("Error while finding process memory usage", "err", err)
				continue
			}
			evt := event.NewSystemTelemetry(cpu, mem.RSS)
			evt.Source = "telemetry"
			if err := w.bus.Emit(ctx, evt); err != nil {
				w.log.Debug("Telemetry event lost", "err", err)
			}
		}
	}
}
