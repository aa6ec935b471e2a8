package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotegen/internal/domain"
	"quotegen/internal/repository/memory"
)

func trackedSlots(h *progressHub) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.last)
}

func TestProgressHub_Forget(t *testing.T) {
	h := newProgressHub()
	id, other := uuid.New(), uuid.New()
	for _, sid := range []uuid.UUID{id, other} {
		for _, kind := range []domain.SlotKind{domain.SlotPay, domain.SlotEmployee} {
			h.reset(slotKey{session: sid, slot: kind}, ProgressEvent{Slot: kind, Generation: 1, Status: domain.SlotRecognizing})
		}
	}
	require.Equal(t, 4, trackedSlots(h))

	h.forget(id)
	assert.Equal(t, 2, trackedSlots(h))
	assert.False(t, h.publish(slotKey{session: id, slot: domain.SlotPay},
		ProgressEvent{Slot: domain.SlotPay, Generation: 1, Status: domain.SlotRecognizing, Progress: 50}))
}

func TestSessionService_ExpiredSessionsReleaseProgressState(t *testing.T) {
	repo := memory.NewSessionRepo(time.Millisecond, 0)
	svc := NewSessionService(repo, nil, nil, nil, SessionConfig{}).(*sessionService)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		sess := domain.NewSession(uuid.New(), time.Now())
		require.NoError(t, repo.Create(ctx, sess))
		svc.hub.reset(slotKey{session: sess.ID, slot: domain.SlotPay}, eventFromSlot(sess.Pay))
	}
	require.Equal(t, 100, trackedSlots(svc.hub))

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 100, repo.Sweep())
	assert.Equal(t, 0, trackedSlots(svc.hub))
}
