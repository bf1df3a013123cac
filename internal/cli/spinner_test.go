package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStop(t *testing.T) {
	s := newSpinner(context.Background(), "Computing LR layout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if s.Cancelled() {
		t.Error("spinner should not be cancelled before Stop")
	}
	s.Stop()
}

func TestSpinnerContextCancellation(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 50*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s := newSpinner(ctx, "Rendering 2 closure(s)...")
			s.Start()
			time.Sleep(100 * time.Millisecond)

			if !s.Cancelled() {
				t.Error("spinner should be cancelled with its context")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Rendering...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	s := newSpinner(context.Background(), "Computing TB layout...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Laid out 3 nodes TB")

	s = newSpinner(context.Background(), "Rendering...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Render failed")
}
