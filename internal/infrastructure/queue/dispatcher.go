package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher routes backend auth-state events to a fixed set of workers
// using consistent hashing on the client ID, guaranteeing per-client event
// ordering while events for different clients proceed in parallel.
type Dispatcher struct {
	workers []chan ports.AuthEvent
	sink    ports.AuthEventSink
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.AuthEventSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuthEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its client. The call
// is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(ev ports.AuthEvent) {
	d.workers[d.shardIndex(ev.ClientID)] <- ev
}

// shardIndex maps a client ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(clientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuthEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Process(ctx, ev); err != nil {
				d.log.Error().Err(err).
					Str("client_id", ev.ClientID).
					Int("worker_id", id).
					Msg("auth event processing failed")
			}
		}
	}
}
