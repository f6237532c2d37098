package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrQueueFull is returned by Enqueue when the inbound buffer is saturated.
// Webhook handlers surface it as a retryable condition to the platform.
var ErrQueueFull = errors.New("dispatch queue full")

// Dispatcher decouples webhook acknowledgement from pipeline execution: the
// HTTP handler enqueues and returns 202, a fixed pool of workers drains the
// queue through the processor.
type Dispatcher struct {
	processor *Processor
	queue     chan Inbound
	workers   int

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewDispatcher(p *Processor, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		processor: p,
		queue:     make(chan Inbound, queueSize),
		workers:   workers,
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled or the
// queue is closed via Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
	slog.Info("dispatcher started", "workers", d.workers, "queue", cap(d.queue))
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-d.queue:
			if !ok {
				return
			}
			if _, err := d.processor.Process(ctx, in); err != nil {
				slog.Error("message processing failed",
					"worker", id,
					"platform", in.Platform,
					"error", err,
				)
			}
		}
	}
}

// Enqueue hands a message to the worker pool without blocking.
func (d *Dispatcher) Enqueue(in Inbound) error {
	select {
	case d.queue <- in:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight work to finish.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.queue) })
	d.wg.Wait()
}
