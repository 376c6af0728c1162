package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestEvery_RunsImmediatelyAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runs := make(chan struct{}, 10)

	done := make(chan struct{})
	go func() {
		Every(ctx, time.Hour, "test", zap.NewNop(), func(context.Context) error {
			runs <- struct{}{}
			return errors.New("ignored")
		})
		close(done)
	}()

	select {
	case <-runs:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run immediately")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Every did not return after cancel")
	}
}
