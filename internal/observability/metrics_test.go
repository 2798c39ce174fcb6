package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricsMiddlewareCounts(t *testing.T) {
	m := NewMetrics()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusTeapot, res.Code)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, scrape.Body.String(), "lumen_http_requests_total")
}

func TestRecordAuthzDecision(t *testing.T) {
	m := NewMetrics()
	m.RecordAuthzDecision("posts", "create", true)
	m.RecordAuthzDecision("posts", "create", false)
	m.RecordAuthzDecision("posts", "create", false)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	require.Contains(t, body, `lumen_authz_decisions_total{action="create",outcome="deny",resource="posts"} 2`)
	require.True(t, strings.Contains(body, `outcome="allow"`))
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.RecordAuthzDecision("posts", "create", true)
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, res.Code)
}
