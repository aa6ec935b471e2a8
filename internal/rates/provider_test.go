package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotegen/internal/domain"
	"quotegen/internal/port"
)

const livePayload = `{
  "result": "success",
  "base_code": "USD",
  "time_last_update_utc": "Sat, 01 Jun 2024 00:02:31 +0000",
  "rates": {"USD": 1, "CLP": 912.5, "EUR": 0.92}
}`

type recorder struct {
	notes []domain.Notification
}

func (r *recorder) Notify(n domain.Notification) { r.notes = append(r.notes, n) }

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestProvider(t *testing.T, url string) *Provider {
	t.Helper()
	p, err := NewProvider(Config{URL: url, Timeout: 2 * time.Second, BreakerFailures: 3, BreakerCooldown: time.Hour}, nil)
	require.NoError(t, err)
	return p
}

func TestLatest_Live(t *testing.T) {
	srv, hits := newTestServer(t, http.StatusOK, livePayload)
	p := newTestProvider(t, srv.URL)
	rec := &recorder{}

	r := p.Latest(context.Background(), rec)

	assert.Equal(t, domain.RateSourceLive, r.Source)
	assert.Equal(t, "USD", r.Base)
	assert.Equal(t, "2024-06-01", r.Date)
	assert.Equal(t, 912.5, r.Rates["CLP"])
	assert.Equal(t, 1.0, r.Rates["USD"])
	assert.Empty(t, rec.notes)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestLatest_FallbackCases(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"malformed json", http.StatusOK, `{"result":`},
		{"result error", http.StatusOK, `{"result":"error","base_code":"USD","time_last_update_utc":"x","rates":{"EUR":1}}`},
		{"missing rates", http.StatusOK, `{"result":"success","base_code":"USD","time_last_update_utc":"x"}`},
		{"negative rate", http.StatusOK, `{"result":"success","base_code":"USD","time_last_update_utc":"x","rates":{"EUR":-1}}`},
		{"string rate", http.StatusOK, `{"result":"success","base_code":"USD","time_last_update_utc":"x","rates":{"EUR":"0.9"}}`},
		{"other base", http.StatusOK, `{"result":"success","base_code":"EUR","time_last_update_utc":"x","rates":{"USD":1.1}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, hits := newTestServer(t, tc.status, tc.body)
			p := newTestProvider(t, srv.URL)
			rec := &recorder{}

			r := p.Latest(context.Background(), rec)

			assert.Equal(t, domain.RateSourceFallback, r.Source)
			assert.Equal(t, FallbackDate, r.Date)
			assert.Equal(t, 800.0, r.Rates["CLP"])
			require.Len(t, rec.notes, 1)
			assert.Equal(t, domain.NotificationDestructive, rec.notes[0].Variant)
			assert.Equal(t, "Exchange Rates", rec.notes[0].Title)
			assert.Equal(t, int32(1), atomic.LoadInt32(hits))
		})
	}
}

func TestLatest_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := newTestProvider(t, url)
	rec := &recorder{}

	r := p.Latest(context.Background(), rec)
	assert.Equal(t, domain.RateSourceFallback, r.Source)
	assert.Len(t, rec.notes, 1)
}

func TestLatest_BreakerSkipsCallsWhenOpen(t *testing.T) {
	srv, hits := newTestServer(t, http.StatusBadGateway, "")
	p := newTestProvider(t, srv.URL)

	for i := 0; i < 5; i++ {
		rec := &recorder{}
		r := p.Latest(context.Background(), rec)
		assert.Equal(t, domain.RateSourceFallback, r.Source)
		assert.Len(t, rec.notes, 1, "lookup %d", i)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestLatest_NilNotifier(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError, "")
	p := newTestProvider(t, srv.URL)

	var n port.Notifier
	assert.NotPanics(t, func() { p.Latest(context.Background(), n) })
}

func TestFallback_ReturnsCopy(t *testing.T) {
	a := Fallback()
	a.Rates["CLP"] = 1
	b := Fallback()

	assert.Equal(t, 800.0, b.Rates["CLP"])
	assert.Len(t, b.Rates, 17)
	assert.Equal(t, "USD", b.Base)
}

func TestRateDate(t *testing.T) {
	assert.Equal(t, "2024-06-01", rateDate("Sat, 01 Jun 2024 00:02:31 +0000"))
	assert.Equal(t, "not a date", rateDate("not a date"))
}
