package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Middleware(t *testing.T) {
	m := NewMetrics()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/accounts/{accNo}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := m.Middleware(mux)

	for _, accNo := range []string{"SAV1001", "SAV1002"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+accNo, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET /api/v1/accounts/{accNo}", "404")))
}

func TestMetrics_Jobs(t *testing.T) {
	m := NewMetrics()

	m.ObserveJob("external_transfers", time.Now(), nil)
	m.ObserveJob("external_transfers", time.Now(), errors.New("boom"))
	m.ExternalTransferSettled("CLOSED")
	m.ExternalTransferSettled("CLOSED")
	m.ExternalTransferSettled("FAILED")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("external_transfers", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.externalTransfers.WithLabelValues("CLOSED")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "bank_external_transfers_total"))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	m.ObserveJob("x", time.Now(), nil)
	m.ExternalTransferSettled("CLOSED")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
