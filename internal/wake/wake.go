// Package wake turns host signals into calls of the registered reconciliation callbacks.
package wake

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// TypeSyncOrders asks every agent to flush its pending orders.
const TypeSyncOrders = "SYNC_ORDERS"

// Message is the wire format of an inbound wake message.
type Message struct {
	Type   string    `json:"type"`
	Source string    `json:"source,omitempty"`
	SentAt time.Time `json:"sent_at,omitempty"`
}

// NewSyncOrders builds the flush request published by source.
func NewSyncOrders(source string) Message {
	return Message{Type: TypeSyncOrders, Source: source, SentAt: time.Now().UTC()}
}

// ParseMessage accepts a JSON Message, a JSON string or the bare type string.
func ParseMessage(body []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err == nil {
		return msg, nil
	}

	var bare string
	if err := json.Unmarshal(body, &bare); err == nil && bare != "" {
		return Message{Type: bare}, nil
	}

	if s := string(body); s != "" && !json.Valid(body) {
		return Message{Type: s}, nil
	}

	return Message{}, fmt.Errorf("failed to parse wake message: %q", body)
}

// Trigger is the background wake contract: callbacks registered once and fired by any source.
type Trigger struct {
	mu        sync.RWMutex
	callbacks []func()
	armed     atomic.Bool
}

func NewTrigger() *Trigger {
	return &Trigger{}
}

// Register adds a zero-argument callback. Callbacks must return quickly.
func (t *Trigger) Register(cb func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.callbacks = append(t.callbacks, cb)
}

// Arm records that queued work is waiting for delivery. While armed, the reconcile
// worker's poll ticks keep retrying.
func (t *Trigger) Arm() {
	if !t.armed.Swap(true) {
		slog.Info("Wake trigger armed")
	}
}

// Disarm records that no queued work is known to be waiting.
func (t *Trigger) Disarm() {
	t.armed.Store(false)
}

// Armed reports whether work was queued since the last Fire or Disarm.
func (t *Trigger) Armed() bool {
	return t.armed.Load()
}

// Fire invokes every registered callback.
func (t *Trigger) Fire(source string) {
	t.armed.Store(false)

	t.mu.RLock()
	callbacks := make([]func(), len(t.callbacks))
	copy(callbacks, t.callbacks)
	t.mu.RUnlock()

	slog.Info("Wake fired", "source", source, "callbacks", len(callbacks))
	for _, cb := range callbacks {
		cb()
	}
}

// HandleMessage fires the trigger for SYNC_ORDERS messages and ignores other kinds.
// It reports whether the message was recognized.
func (t *Trigger) HandleMessage(source string, body []byte) bool {
	msg, err := ParseMessage(body)
	if err != nil {
		slog.Warn("Ignoring malformed wake message", "source", source, "error", err)

		return false
	}
	if msg.Type != TypeSyncOrders {
		slog.Debug("Ignoring wake message", "source", source, "type", msg.Type)

		return false
	}

	t.Fire(source)

	return true
}
