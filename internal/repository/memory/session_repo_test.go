package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotegen/internal/domain"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRepo(ttl time.Duration, max int) (*SessionRepo, *clock) {
	c := &clock{t: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)}
	r := NewSessionRepo(ttl, max)
	r.now = c.now
	return r, c
}

func TestSessionRepo_CreateGet(t *testing.T) {
	r, c := newTestRepo(time.Hour, 0)
	ctx := context.Background()
	s := domain.NewSession(uuid.New(), c.now())

	require.NoError(t, r.Create(ctx, s))
	assert.Error(t, r.Create(ctx, s))

	got, err := r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, domain.StepCollectingForm, got.Step)

	_, err = r.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepo_ReturnsCopies(t *testing.T) {
	r, c := newTestRepo(0, 0)
	ctx := context.Background()
	s := domain.NewSession(uuid.New(), c.now())
	s.Quote = &domain.QuoteData{PayFields: []domain.ConvertedField{{ParsedField: domain.ParsedField{Label: "Gross Monthly Salary", Amount: 10}}}}
	require.NoError(t, r.Create(ctx, s))

	got, err := r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	got.Quote.PayFields[0].Amount = 99

	again, err := r.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.Quote.PayFields[0].Amount)
}

func TestSessionRepo_UpdateReplacesWholesale(t *testing.T) {
	r, c := newTestRepo(0, 0)
	ctx := context.Background()
	s := domain.NewSession(uuid.New(), c.now())
	require.NoError(t, r.Create(ctx, s))

	updated, err := r.Update(ctx, s.ID, func(cur domain.Session) (domain.Session, error) {
		cur.Step = domain.StepAwaitingScreenshots
		cur.Form = &domain.FormData{Country: "Chile"}
		return cur, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StepAwaitingScreenshots, updated.Step)

	got, _ := r.GetByID(ctx, s.ID)
	assert.Equal(t, "Chile", got.Form.Country)
}

func TestSessionRepo_FailedMutationLeavesSessionUntouched(t *testing.T) {
	r, c := newTestRepo(0, 0)
	ctx := context.Background()
	s := domain.NewSession(uuid.New(), c.now())
	require.NoError(t, r.Create(ctx, s))

	boom := errors.New("boom")
	_, err := r.Update(ctx, s.ID, func(cur domain.Session) (domain.Session, error) {
		cur.Step = domain.StepReady
		return cur, boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := r.GetByID(ctx, s.ID)
	assert.Equal(t, domain.StepCollectingForm, got.Step)
}

func TestSessionRepo_UpdateRejectsIDChange(t *testing.T) {
	r, c := newTestRepo(0, 0)
	ctx := context.Background()
	s := domain.NewSession(uuid.New(), c.now())
	require.NoError(t, r.Create(ctx, s))

	_, err := r.Update(ctx, s.ID, func(cur domain.Session) (domain.Session, error) {
		cur.ID = uuid.New()
		return cur, nil
	})
	assert.Error(t, err)
}

func TestSessionRepo_Expiry(t *testing.T) {
	r, c := newTestRepo(time.Hour, 0)
	ctx := context.Background()
	a := domain.NewSession(uuid.New(), c.now())
	b := domain.NewSession(uuid.New(), c.now())
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))

	c.advance(45 * time.Minute)
	_, err := r.Update(ctx, b.ID, func(cur domain.Session) (domain.Session, error) { return cur, nil })
	require.NoError(t, err)

	c.advance(30 * time.Minute)
	_, err = r.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	c.advance(2 * time.Hour)
	assert.Equal(t, 1, r.Sweep())
}

func TestSessionRepo_Capacity(t *testing.T) {
	r, c := newTestRepo(time.Hour, 2)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, domain.NewSession(uuid.New(), c.now())))
	require.NoError(t, r.Create(ctx, domain.NewSession(uuid.New(), c.now())))

	err := r.Create(ctx, domain.NewSession(uuid.New(), c.now()))
	assert.ErrorIs(t, err, domain.ErrTooManySessions)

	c.advance(2 * time.Hour)
	assert.NoError(t, r.Create(ctx, domain.NewSession(uuid.New(), c.now())))
}

func TestSessionRepo_Delete(t *testing.T) {
	r, c := newTestRepo(0, 0)
	ctx := context.Background()
	s := domain.NewSession(uuid.New(), c.now())
	require.NoError(t, r.Create(ctx, s))

	require.NoError(t, r.Delete(ctx, s.ID))
	assert.ErrorIs(t, r.Delete(ctx, s.ID), domain.ErrSessionNotFound)
}

func TestSessionRepo_OnEvict(t *testing.T) {
	r, c := newTestRepo(time.Hour, 0)
	ctx := context.Background()
	var evicted []uuid.UUID
	r.OnEvict(func(id uuid.UUID) { evicted = append(evicted, id) })

	swept := domain.NewSession(uuid.New(), c.now())
	read := domain.NewSession(uuid.New(), c.now())
	deleted := domain.NewSession(uuid.New(), c.now())
	for _, s := range []domain.Session{swept, read, deleted} {
		require.NoError(t, r.Create(ctx, s))
	}

	require.NoError(t, r.Delete(ctx, deleted.ID))
	assert.Equal(t, []uuid.UUID{deleted.ID}, evicted)

	c.advance(2 * time.Hour)
	_, err := r.GetByID(ctx, read.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, []uuid.UUID{deleted.ID, read.ID}, evicted)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, []uuid.UUID{deleted.ID, read.ID, swept.ID}, evicted)

	_, err = r.GetByID(ctx, read.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Len(t, evicted, 3)
}
