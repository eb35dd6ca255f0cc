package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignedDelay(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		interval time.Duration
		want     time.Duration
	}{
		{
			name:     "mid interval",
			now:      time.Date(2026, 3, 1, 12, 3, 40, 0, time.UTC),
			interval: 10 * time.Minute,
			want:     6*time.Minute + 20*time.Second,
		},
		{
			name:     "on boundary advances a full interval",
			now:      time.Date(2026, 3, 1, 12, 10, 0, 0, time.UTC),
			interval: 10 * time.Minute,
			want:     10 * time.Minute,
		},
		{
			name:     "one second before boundary",
			now:      time.Date(2026, 3, 1, 12, 9, 59, 0, time.UTC),
			interval: 10 * time.Minute,
			want:     time.Second,
		},
		{
			name:     "zero interval",
			now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			interval: 0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlignedDelay(tt.now, tt.interval))
		})
	}
}

func TestAlignedDelaySubSecondNow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 9, 59, 500_000_000, time.UTC)
	got := AlignedDelay(now, 10*time.Minute)
	assert.Equal(t, 500*time.Millisecond, got)
}

func TestWaitElapses(t *testing.T) {
	err := Wait(context.Background(), 5*time.Millisecond)
	assert.NoError(t, err)
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Wait(ctx, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}

func TestWaitZeroDelay(t *testing.T) {
	require.NoError(t, Wait(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Wait(ctx, 0), context.Canceled)
}
