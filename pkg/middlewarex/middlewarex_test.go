package middlewarex_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"melidash/pkg/contextx"
	"melidash/pkg/logx"
	"melidash/pkg/middlewarex"
)

func TestTraceIDAndLogger(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var gotTraceID contextx.TraceID

	h := middlewarex.TraceID(middlewarex.Logger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		gotTraceID, err = contextx.TraceIDFromContext(r.Context())
		rq.NoError(err)

		contextx.LoggerFromContextOrDefault(r.Context()).Info("inside")
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/trends", http.NoBody)
	req.Header.Set(middlewarex.HeaderNameTraceID, "given-trace")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	rq.Equal(http.StatusNoContent, w.Code)
	rq.Equal("given-trace", gotTraceID.String())
	rq.Equal("given-trace", w.Header().Get(middlewarex.HeaderNameTraceID))
	rq.Contains(buf.String(), `"trace-id":"given-trace"`)
	rq.Contains(buf.String(), `"url":"/api/trends"`)
}

func TestRecovery(t *testing.T) {
	rq := require.New(t)

	h := middlewarex.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	rq.Equal(http.StatusInternalServerError, w.Code)
	rq.Contains(w.Body.String(), `"success":false`)
}

func TestResponseLoggingMasksBody(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	h := middlewarex.NewHTTPLogging(logx.NewSensitiveDataMasker(), 0).Responses(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accessToken":"secret-token"}`)) //nolint:errcheck
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", http.NoBody)
	req = req.WithContext(contextx.WithLogger(req.Context(), slog.New(slog.NewJSONHandler(&buf, nil))))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	rq.Equal(`{"accessToken":"secret-token"}`, w.Body.String())
	rq.NotContains(buf.String(), "secret-token")
	rq.Contains(buf.String(), `"response-status":200`)
}

func TestHTTPLoggingRequestsAndServerErrors(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	logging := middlewarex.NewHTTPLogging(logx.NewSensitiveDataMasker(), 0)

	h := logging.Requests(logging.Responses(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"password":"hunter22"}`))
	req = req.WithContext(contextx.WithLogger(req.Context(), slog.New(slog.NewJSONHandler(&buf, nil))))

	h.ServeHTTP(httptest.NewRecorder(), req)

	rq.NotContains(buf.String(), "hunter22")
	rq.Contains(buf.String(), `"level":"ERROR"`)
	rq.Contains(buf.String(), `"response-status":502`)
}

func TestHTTPMetrics(t *testing.T) {
	rq := require.New(t)

	registry := prometheus.NewRegistry()
	m := middlewarex.NewHTTPMetrics(registry, "test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/rules/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for range 3 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rules/abc", http.NoBody))
	}

	expected := `
# HELP test_http_requests_total HTTP requests by route, method and status.
# TYPE test_http_requests_total counter
test_http_requests_total{method="GET",route="/rules/{id}",status="202"} 3
`
	rq.NoError(testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_http_requests_total"))
}
