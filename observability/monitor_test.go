package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"parley/bus"
	"parley/domain/event"
)

func Test_Monitor_Counts_Events_Per_Type(t *testing.T) {
	req := require.New(t)
	b := bus.New(slog.Default())
	monitor := NewMonitor(slog.Default(), b)
	ctx := context.Background()

	emit := func(eventType event.Type) {
		req.NoError(b.Emit(ctx, event.Event{Type: eventType, ConversationID: "conv-1", ActorID: "Alice"}))
	}
	emit(event.MessageCreated)
	emit(event.MessageCreated)
	emit(event.TurnChanged)

	stats := monitor.Refresh()

	req.Equal(uint64(2), stats.EventCounts[event.MessageCreated])
	req.Equal(uint64(1), stats.EventCounts[event.TurnChanged])
	req.True(stats.BusHealthy)
}

func Test_Monitor_Snapshot_Carries_Process_Metrics(t *testing.T) {
	req := require.New(t)
	b := bus.New(slog.Default())
	monitor := NewMonitor(slog.Default(), b)

	stats := monitor.Refresh()

	req.Positive(stats.NumGoroutine)
}
