package main

import (
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// changeBroadcaster pushes "something changed" signals to connected clients
// over SSE. Messages are bare category names (profile, food-log, weight,
// steps, streak, feature-requests, day-rollover) — clients treat them purely
// as triggers to re-run their reads and never inspect payloads.
type changeBroadcaster struct {
	mu   sync.Mutex
	subs map[string]chan string
	log  *zap.SugaredLogger
}

func newChangeBroadcaster(log *zap.SugaredLogger) *changeBroadcaster {
	return &changeBroadcaster{
		subs: make(map[string]chan string),
		log:  log,
	}
}

// Subscribe registers a new client and returns its id and receive channel.
// The channel is buffered so short bursts don't drop subscribers.
func (b *changeBroadcaster) Subscribe() (string, chan string) {
	id := uuid.New().String()
	ch := make(chan string, 8)
	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a client and closes its channel. Idempotent.
func (b *changeBroadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Broadcast sends a category to every subscriber. Sends never block: a
// subscriber whose buffer is full is dropped — it is either gone or too slow
// to be worth holding the lock for.
func (b *changeBroadcaster) Broadcast(category string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- category:
		default:
			b.log.Warnw("dropping slow event subscriber", "id", id, "category", category)
			delete(b.subs, id)
			close(ch)
		}
	}
}

// streamEvents serves the SSE stream of change notifications.
// GET /api/events. The subscription is torn down when the client disconnects
// so no callbacks outlive the connection.
func (h *Handler) streamEvents(c *gin.Context) {
	id, ch := h.events.Subscribe()
	defer h.events.Unsubscribe(id)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	c.Stream(func(w io.Writer) bool {
		select {
		case category, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", category)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
