// Package analytics emits conversion events to an external collaborator.
//
// The dispatcher decouples the flow layer from the sink through a bounded
// queue: emission never blocks a session, and on backpressure events are
// dropped and counted rather than queued without bound.
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/logger"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/metrics"
)

// Event names emitted over a session's lifetime.
const (
	EventQuizStart    = "quiz_start"
	EventQuizAnswer   = "quiz_answer"
	EventMainComplete = "quiz_main_complete"
	EventQuizComplete = "quiz_complete"
	EventResultView   = "result_view"
)

// Event is a name plus a flat key/value payload.
type Event struct {
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields,omitempty"`
	At     time.Time         `json:"at"`
}

// Emitter accepts events for delivery. Implementations must not block.
type Emitter interface {
	Emit(ctx context.Context, e Event)
}

// Sink receives events drained from the dispatcher queue.
type Sink interface {
	Deliver(ctx context.Context, e Event) error
}

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithQueueSize bounds the dispatch queue.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithSink sets the delivery target.
func WithSink(s Sink) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.sink = s
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

const defaultQueueSize = 10_000

// Dispatcher is the asynchronous Emitter used in production.
type Dispatcher struct {
	queueSize int
	sink      Sink
	log       logger.Logger

	mu      sync.Mutex
	events  chan Event
	done    chan struct{}
	started bool
}

// NewDispatcher creates a dispatcher with configuration options.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queueSize: defaultQueueSize,
		sink:      &LogSink{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the drain goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	if d.log == nil {
		d.log = logger.Get().Named("analytics")
	}
	if ls, ok := d.sink.(*LogSink); ok && ls.log == nil {
		ls.log = d.log
	}
	d.events = make(chan Event, d.queueSize)
	d.done = make(chan struct{})
	d.started = true

	go d.drain(ctx)
}

func (d *Dispatcher) drain(ctx context.Context) {
	defer close(d.done)
	for e := range d.events {
		if err := d.sink.Deliver(ctx, e); err != nil {
			d.log.Warn(ctx, "analytics delivery failed",
				logger.String("event", e.Name),
				logger.Error(err),
			)
		}
		metrics.UpdateAnalyticsQueueDepth(len(d.events))
	}
}

// Emit enqueues an event, dropping it on backpressure.
func (d *Dispatcher) Emit(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	// The send stays under the mutex: Stop closes the channel under the
	// same mutex, so an Emit can never race the close. The send is
	// non-blocking, so the lock is never held up by a full queue.
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return
	}

	select {
	case d.events <- e:
		metrics.RecordAnalyticsEmitted()
		metrics.UpdateAnalyticsQueueDepth(len(d.events))
	default:
		metrics.RecordAnalyticsDropped()
		d.log.Warn(ctx, "analytics queue full; event dropped", logger.String("event", e.Name))
	}
}

// Stop closes the queue and waits for the drain goroutine to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	close(d.events)
	done := d.done
	d.mu.Unlock()

	<-done
}

// LogSink writes events to the structured log. It is the default sink; real
// pixel/collector integrations implement Sink the same way.
type LogSink struct {
	log logger.Logger
}

// NewLogSink creates a sink over the given logger.
func NewLogSink(l logger.Logger) *LogSink {
	return &LogSink{log: l}
}

// Deliver logs the event.
func (s *LogSink) Deliver(ctx context.Context, e Event) error {
	fields := make([]logger.Field, 0, len(e.Fields)+1)
	fields = append(fields, logger.String("event", e.Name))
	for k, v := range e.Fields {
		fields = append(fields, logger.String(k, v))
	}
	s.log.Info(ctx, "analytics event", fields...)
	return nil
}
