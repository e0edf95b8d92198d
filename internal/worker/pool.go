package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/observability"
)

// ErrPoolClosed is returned by Shutdown when called twice.
var ErrPoolClosed = errors.New("worker pool already shut down")

type task struct {
	name string
	run  func(context.Context) error
}

// Pool runs detached tasks on a fixed set of goroutines. Callers never wait on
// a task: Submit drops work when the queue is full, and every task runs with
// its own timeout and panic boundary.
type Pool struct {
	logger  *zap.Logger
	metrics *observability.Metrics
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan task
	wg     sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool starts cfg.PoolSize workers.
func NewPool(cfg config.WorkerConfig, logger *zap.Logger, metrics *observability.Metrics) *Pool {
	size := cfg.PoolSize
	if size <= 0 {
		size = 1
	}
	queueSize := cfg.QueueSize
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		logger:  logger,
		metrics: metrics,
		timeout: cfg.TaskTimeout,
		queue:   make(chan task, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.loop()
	}
	return p
}

// Submit enqueues fn without blocking. It reports false when the task was
// dropped because the pool is full or shut down.
func (p *Pool) Submit(name string, fn func(context.Context) error) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("worker pool closed; dropping task", zap.String("task", name))
		p.metrics.RecordDroppedTask()
		return false
	}
	select {
	case p.queue <- task{name: name, run: fn}:
		return true
	default:
		p.logger.Warn("worker queue full; dropping task", zap.String("task", name))
		p.metrics.RecordDroppedTask()
		return false
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish. When ctx
// expires first, running tasks are cancelled and ctx.Err is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for t := range p.queue {
		p.execute(t)
	}
}

func (p *Pool) execute(t task) {
	ctx := p.ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	err := safeRun(ctx, t.run)
	if err != nil {
		p.logger.Error("background task failed",
			zap.String("task", t.name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}
	p.logger.Debug("background task completed",
		zap.String("task", t.name),
		zap.Duration("elapsed", time.Since(start)))
}

func safeRun(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}
