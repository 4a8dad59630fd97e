package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"
)

const (
	DefaultRecorderQueueSize = 64
	DefaultRecordTimeout     = 10 * time.Second
)

type TripSaver interface {
	SaveTrip(ctx context.Context, trip *models.Trip) error
}

// TripRecorder persists completed trips in the background. Record never
// blocks the caller and never reports an error; a full queue drops the trip.
type TripRecorder struct {
	saver   TripSaver
	timeout time.Duration
	queue   chan *models.Trip

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewTripRecorder(saver TripSaver, queueSize int, timeout time.Duration) *TripRecorder {
	if queueSize <= 0 {
		queueSize = DefaultRecorderQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultRecordTimeout
	}

	r := &TripRecorder{
		saver:   saver,
		timeout: timeout,
		queue:   make(chan *models.Trip, queueSize),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *TripRecorder) Record(trip *models.Trip) {
	if r == nil || trip == nil {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		log.Printf("[WARN] Trip recorder closed, dropping trip: %.100s", trip.Question)
		return
	}

	select {
	case r.queue <- trip:
	default:
		log.Printf("[WARN] Trip recorder queue full (%d), dropping trip: %.100s", cap(r.queue), trip.Question)
	}
}

// Close stops accepting trips and waits for queued ones to be saved or for
// ctx to end.
func (r *TripRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *TripRecorder) run() {
	defer close(r.done)
	for trip := range r.queue {
		r.save(trip)
	}
}

func (r *TripRecorder) save(trip *models.Trip) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[ERROR] Panic while storing trip data: %v", p)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.saver.SaveTrip(ctx, trip); err != nil {
		log.Printf("[ERROR] Failed to store trip data: %v", err)
	}
}
