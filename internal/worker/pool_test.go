package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/lead-service/internal/config"
)

func TestPoolRunsTasksAndDrainsOnShutdown(t *testing.T) {
	t.Parallel()

	p := NewPool(config.WorkerConfig{PoolSize: 2, QueueSize: 16, TaskTimeout: time.Second}, zap.NewNop(), nil)
	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		if !p.Submit("count", func(context.Context) error {
			ran.Add(1)
			return nil
		}) {
			t.Fatalf("Submit %d dropped", i)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := ran.Load(); got != 10 {
		t.Fatalf("ran = %d, want 10", got)
	}
	if p.Submit("late", func(context.Context) error { return nil }) {
		t.Fatal("expected Submit after Shutdown to be dropped")
	}
	if err := p.Shutdown(ctx); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("second Shutdown = %v, want ErrPoolClosed", err)
	}
}

func TestPoolRecoversPanicsAndLogsErrors(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	p := NewPool(config.WorkerConfig{PoolSize: 1, QueueSize: 4}, zap.New(core), nil)
	p.Submit("panics", func(context.Context) error { panic("boom") })
	p.Submit("fails", func(context.Context) error { return errors.New("mail down") })

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	entries := logs.FilterMessage("background task failed").All()
	if len(entries) != 2 {
		t.Fatalf("failure logs = %d, want 2", len(entries))
	}
}

func TestPoolSubmitNeverBlocks(t *testing.T) {
	t.Parallel()

	p := NewPool(config.WorkerConfig{PoolSize: 1, QueueSize: 1}, zap.NewNop(), nil)
	release := make(chan struct{})
	started := make(chan struct{})
	p.Submit("blocker", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started
	if !p.Submit("queued", func(context.Context) error { return nil }) {
		t.Fatal("expected second task to fit the queue")
	}

	done := make(chan bool)
	go func() { done <- p.Submit("overflow", func(context.Context) error { return nil }) }()
	select {
	case accepted := <-done:
		if accepted {
			t.Fatal("expected overflow task to be dropped")
		}
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}

	close(release)
	_ = p.Shutdown(context.Background())
}

func TestPoolTaskTimeout(t *testing.T) {
	t.Parallel()

	p := NewPool(config.WorkerConfig{PoolSize: 1, QueueSize: 1, TaskTimeout: 20 * time.Millisecond}, zap.NewNop(), nil)
	errCh := make(chan error, 1)
	p.Submit("slow", func(ctx context.Context) error {
		<-ctx.Done()
		errCh <- ctx.Err()
		return ctx.Err()
	})
	select {
	case err := <-errCh:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("ctx err = %v, want deadline exceeded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("task context never expired")
	}
	_ = p.Shutdown(context.Background())
}
