package cache

import (
	"context"
	"sync"
	"time"

	"github.com/gillessed/palantarot/engine"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// PublishFunc writes one record.
type PublishFunc func(ctx context.Context, rec GameEventRecord) error

// Historian ships records to Redis from a single worker so they land in
// log order. Record never blocks the caller; when the buffer is full the
// record is dropped and logged.
type Historian struct {
	publish PublishFunc
	queue   chan GameEventRecord
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewHistorian returns a historian writing to rdb.
func NewHistorian(rdb *redis.Client, buffer int) *Historian {
	return newHistorian(func(ctx context.Context, rec GameEventRecord) error {
		return PublishGameEvent(ctx, rdb, rec)
	}, buffer)
}

func newHistorian(publish PublishFunc, buffer int) *Historian {
	if buffer <= 0 {
		buffer = 1024
	}
	h := &Historian{publish: publish, queue: make(chan GameEventRecord, buffer), now: time.Now}
	h.wg.Add(1)
	go h.run()
	return h
}

// Record queues the events appended to a game starting at log index start.
// It matches play.EventsFunc.
func (h *Historian) Record(gameID string, start int, events []engine.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	ts := h.now().UnixMilli()
	for i, e := range events {
		rec := GameEventRecord{
			GameID:     gameID,
			EventIndex: start + i,
			Actor:      e.Player,
			EventType:  e.Type,
			Event:      e,
			Timestamp:  ts,
		}
		select {
		case h.queue <- rec:
		default:
			log.Warnf("Game %s: historian queue full, dropped event %d (%s)", gameID, rec.EventIndex, rec.EventType)
		}
	}
}

func (h *Historian) run() {
	defer h.wg.Done()
	for rec := range h.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := h.publish(ctx, rec); err != nil {
			log.Errorf("Game %s: failed publishing event %d ('%s') to Redis: %v", rec.GameID, rec.EventIndex, rec.EventType, err)
		}
		cancel()
	}
}

// Close drains the queue and stops the worker.
func (h *Historian) Close() {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.queue)
	}
	h.mu.Unlock()
	h.wg.Wait()
}
