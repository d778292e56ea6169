package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueFull is returned when the event queue cannot accept more
// work. Callers treat this as backpressure, not as handler failure.
var ErrQueueFull = errors.New("event queue is full")

// HandlerFunc processes one event. A returned error is logged and the
// event is dropped: handlers run with no caller to report back to, and
// redelivery is not safe against partial prior writes.
type HandlerFunc func(ctx context.Context, e Event) error

// Config holds dispatcher tuning knobs.
type Config struct {
	QueueSize      int           // default: 256
	WorkerCount    int           // default: 2
	HandlerTimeout time.Duration // default: 60 seconds
}

// Dispatcher is an in-process queue of fire-and-forget domain events
// consumed by a fixed pool of workers.
type Dispatcher struct {
	logger   *slog.Logger
	config   Config
	handlers map[Type][]HandlerFunc

	queue chan Event
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(logger *slog.Logger, cfg Config) *Dispatcher {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.HandlerTimeout == 0 {
		cfg.HandlerTimeout = 60 * time.Second
	}

	return &Dispatcher{
		logger:   logger,
		config:   cfg,
		handlers: make(map[Type][]HandlerFunc),
		queue:    make(chan Event, cfg.QueueSize),
	}
}

// Register adds a handler for an event type. Must be called before
// Start.
func (d *Dispatcher) Register(t Type, h HandlerFunc) {
	d.handlers[t] = append(d.handlers[t], h)
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.logger.Info("event dispatcher started",
		"workers", d.config.WorkerCount,
		"queue_size", d.config.QueueSize,
	)
}

// Dispatch enqueues an event without blocking.
func (d *Dispatcher) Dispatch(e Event) error {
	select {
	case d.queue <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for workers to drain it.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for e := range d.queue {
		d.handle(id, e)
	}
}

func (d *Dispatcher) handle(workerID int, e Event) {
	handlers := d.handlers[e.Type]
	if len(handlers) == 0 {
		d.logger.Warn("no handler registered for event", "type", e.Type)
		return
	}

	for _, h := range handlers {
		d.invoke(workerID, e, h)
	}
}

// invoke runs one handler with a deadline, logging and dropping any
// error or panic so the queue keeps moving.
func (d *Dispatcher) invoke(workerID int, e Event, h HandlerFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.HandlerTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("event handler panicked",
				"worker", workerID,
				"type", e.Type,
				"panic", p,
			)
		}
	}()

	if err := h(ctx, e); err != nil {
		d.logger.Error("event handler failed",
			"worker", workerID,
			"type", e.Type,
			"error", err,
		)
	}
}
