package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quotegen/internal/domain"
	"quotegen/internal/handler"
	"quotegen/internal/metrics"
	"quotegen/internal/router"
	"quotegen/mocks"
)

func setup(t *testing.T) (*gin.Engine, *mocks.MockSessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := new(mocks.MockSessionService)
	delivery := new(mocks.MockDeliveryService)
	quotes := new(mocks.MockQuoteService)
	r := router.Setup(
		metrics.New(),
		[]string{"http://localhost:5173"},
		handler.NewSessionHandler(sessions, delivery, 1<<20),
		handler.NewQuoteHandler(quotes),
		handler.NewHealthHandler(),
	)
	return r, sessions
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, http.NoBody)
	r.ServeHTTP(w, req)
	return w
}

func TestSetup_RegistersWizardRoutes(t *testing.T) {
	r, _ := setup(t)

	want := map[string]bool{
		"POST /api/v1/sessions":                               true,
		"GET /api/v1/sessions/:id":                            true,
		"PUT /api/v1/sessions/:id/form":                       true,
		"POST /api/v1/sessions/:id/screenshots/:slot":         true,
		"GET /api/v1/sessions/:id/screenshots/:slot/progress": true,
		"POST /api/v1/sessions/:id/analyze":                   true,
		"POST /api/v1/sessions/:id/manual":                    true,
		"DELETE /api/v1/sessions/:id/error":                   true,
		"POST /api/v1/sessions/:id/reset":                     true,
		"GET /api/v1/sessions/:id/notifications":              true,
		"GET /api/v1/sessions/:id/quote.pdf":                  true,
		"GET /api/v1/sessions/:id/quote.csv":                  true,
		"GET /api/v1/sessions/:id/quote.xlsx":                 true,
		"POST /api/v1/sessions/:id/quote/publish":             true,
		"POST /api/v1/sessions/:id/quote/email":               true,
		"POST /api/v1/quotes":                                 true,
		"GET /api/v1/rates":                                   true,
		"GET /api/v1/countries":                               true,
		"GET /healthz":                                        true,
		"GET /readyz":                                         true,
		"GET /metrics":                                        true,
		"GET /swagger/*any":                                   true,
	}
	for _, route := range r.Routes() {
		delete(want, route.Method+" "+route.Path)
	}
	assert.Empty(t, want, "routes not registered")
}

func TestSetup_HealthAndMetrics(t *testing.T) {
	r, _ := setup(t)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/readyz").Code)

	w := serve(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quotegen_http_requests_total")
}

func TestSetup_ServesSwaggerDocument(t *testing.T) {
	r, _ := setup(t)

	w := serve(r, http.MethodGet, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/sessions/{id}/analyze")
}

func TestSetup_SessionNotFoundCarriesRequestID(t *testing.T) {
	r, sessions := setup(t)
	id := uuid.New()
	sessions.On("Get", mock.Anything, id).Return(domain.Session{}, domain.ErrSessionNotFound)

	w := serve(r, http.MethodGet, "/api/v1/sessions/"+id.String())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), "SESSION_NOT_FOUND")
}

func TestSetup_CORSPreflight(t *testing.T) {
	r, _ := setup(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/sessions", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
