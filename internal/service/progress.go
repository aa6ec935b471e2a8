package service

import (
	"sync"

	"github.com/google/uuid"

	"quotegen/internal/domain"
)

// ProgressEvent reports the recognition state of one slot upload.
type ProgressEvent struct {
	Slot       domain.SlotKind   `json:"slot"`
	Generation uint64            `json:"generation"`
	Status     domain.SlotStatus `json:"status"`
	Progress   int               `json:"progress"`
	Error      string            `json:"error,omitempty"`
}

// Done reports whether the event is the last one of its upload.
func (e ProgressEvent) Done() bool {
	return e.Status.Settled()
}

func eventFromSlot(s domain.Slot) ProgressEvent {
	return ProgressEvent{
		Slot:       s.Kind,
		Generation: s.Generation,
		Status:     s.Status,
		Progress:   s.Progress,
		Error:      s.Error,
	}
}

const subscriberBuffer = 32

type slotKey struct {
	session uuid.UUID
	slot    domain.SlotKind
}

// progressHub fans recognition progress out to subscribers of a slot. Only events of the slot's
// current generation are delivered, so a replaced upload goes quiet without being stopped.
type progressHub struct {
	mu     sync.Mutex
	last   map[slotKey]ProgressEvent
	subs   map[slotKey]map[uint64]chan ProgressEvent
	nextID uint64
}

func newProgressHub() *progressHub {
	return &progressHub{
		last: make(map[slotKey]ProgressEvent),
		subs: make(map[slotKey]map[uint64]chan ProgressEvent),
	}
}

// reset makes ev the slot's current state unless a newer generation is already tracked.
func (h *progressHub) reset(key slotKey, ev ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.last[key]; ok && cur.Generation > ev.Generation {
		return
	}
	h.last[key] = ev
	h.broadcastLocked(key, ev)
}

// forget drops the tracked state of both slots of a session. Open subscriptions are left to
// their cancel funcs.
func (h *progressHub) forget(sessionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, kind := range []domain.SlotKind{domain.SlotPay, domain.SlotEmployee} {
		delete(h.last, slotKey{session: sessionID, slot: kind})
	}
}

// publish delivers ev when it belongs to the slot's current generation.
func (h *progressHub) publish(key slotKey, ev ProgressEvent) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	cur, ok := h.last[key]
	if !ok || cur.Generation != ev.Generation || cur.Status != domain.SlotRecognizing {
		return false
	}
	h.last[key] = ev
	h.broadcastLocked(key, ev)
	return true
}

func (h *progressHub) broadcastLocked(key slotKey, ev ProgressEvent) {
	for _, ch := range h.subs[key] {
		deliver(ch, ev)
	}
}

// deliver never blocks. A slow subscriber loses intermediate progress but always receives the
// final event.
func deliver(ch chan ProgressEvent, ev ProgressEvent) {
	select {
	case ch <- ev:
		return
	default:
	}
	if !ev.Done() {
		return
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- ev:
	default:
	}
}

// subscribe registers a listener. The first event on the channel is the slot's current state,
// taken from the hub when it tracks the slot and from fallback otherwise.
func (h *progressHub) subscribe(key slotKey, fallback ProgressEvent) (<-chan ProgressEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	initial := fallback
	if cur, ok := h.last[key]; ok && cur.Generation >= fallback.Generation {
		initial = cur
	}

	ch := make(chan ProgressEvent, subscriberBuffer)
	ch <- initial

	h.nextID++
	id := h.nextID
	if h.subs[key] == nil {
		h.subs[key] = make(map[uint64]chan ProgressEvent)
	}
	h.subs[key][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[key], id)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
			close(ch)
		})
	}
	return ch, cancel
}
