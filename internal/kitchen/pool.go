// Package kitchen runs the cooking simulation for ordered meal items on a
// fixed-size pool of workers.
package kitchen

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool closed")

// Handler processes one job. It runs synchronously on a worker goroutine.
type Handler[T any] func(ctx context.Context, job T)

// Pool is a fixed set of workers sharing one job queue.
type Pool[T any] struct {
	size   int
	jobs   chan T
	handle Handler[T]
	log    *zap.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	// done is closed by Close to release submitters blocked on a full queue.
	done       chan struct{}
	submitters sync.WaitGroup
	wg         sync.WaitGroup
}

// NewPool creates a pool of size workers with a queue of the given
// capacity. Workers begin consuming once Start is called.
func NewPool[T any](size, queue int, h Handler[T], log *zap.Logger) *Pool[T] {
	if size <= 0 {
		size = 1
	}
	if queue < 0 {
		queue = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool[T]{
		size:   size,
		jobs:   make(chan T, queue),
		handle: h,
		log:    log,
		done:   make(chan struct{}),
	}
}

func (p *Pool[T]) Size() int { return p.size }

// Start launches the workers. Calling it more than once has no effect.
func (p *Pool[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.work(ctx, i)
	}
}

func (p *Pool[T]) work(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.With(zap.Int("worker", id))
	for job := range p.jobs {
		start := time.Now()
		log.Debug("job started")
		p.run(ctx, log, job)
		log.Debug("job finished", zap.Duration("took", time.Since(start)))
	}
	log.Debug("worker stopped")
}

func (p *Pool[T]) run(ctx context.Context, log *zap.Logger, job T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("job panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	p.handle(ctx, job)
}

// Submit queues a job. It blocks only while the queue is full and returns
// ErrPoolClosed once Close has been called, including to a caller that was
// waiting for room in the queue.
func (p *Pool[T]) Submit(job T) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	p.submitters.Add(1)
	p.mu.RUnlock()
	defer p.submitters.Done()

	select {
	case p.jobs <- job:
		return nil
	case <-p.done:
		return ErrPoolClosed
	}
}

// Close stops accepting jobs, lets the workers drain the queue and waits
// for them to exit. It is safe to call more than once.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()

	p.submitters.Wait()
	close(p.jobs)
	p.wg.Wait()
}
