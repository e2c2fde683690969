package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"melidash/pkg/metrics"
)

func TestPrometheusServer(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "melidash_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Add(3)

	testCases := []struct {
		name       string
		endpoint   string
		statusCode int
		contains   string
	}{
		{
			name:       "Metrics handler",
			endpoint:   "/metrics",
			statusCode: http.StatusOK,
			contains:   "melidash_test_total 3",
		},
		{
			name:       "Invalid endpoint",
			endpoint:   "/invalid",
			statusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			httpServer := httptest.NewServer(metrics.NewPrometheusServer("", registry).Handler())
			defer httpServer.Close()

			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, httpServer.URL+tc.endpoint, http.NoBody)
			rq.NoError(err)

			resp, err := http.DefaultClient.Do(req)
			rq.NoError(err)

			defer resp.Body.Close()

			rq.Equal(tc.statusCode, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			rq.NoError(err)
			rq.Contains(string(body), tc.contains)
		})
	}
}
