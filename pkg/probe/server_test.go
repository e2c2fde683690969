package probe_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"melidash/pkg/probe"
)

func TestServer(t *testing.T) {
	testCases := []struct {
		name       string
		endpoint   string
		checks     map[string]probe.Check
		statusCode int
		body       string
	}{
		{
			name:       "Health handler",
			endpoint:   "/healthz",
			statusCode: http.StatusOK,
			body:       `{"name":"melidash","version":"v0.0.1"}`,
		},
		{
			name:     "Ready handler",
			endpoint: "/ready",
			checks: map[string]probe.Check{
				"postgres": func(context.Context) error { return nil },
			},
			statusCode: http.StatusOK,
			body:       `{"name":"melidash","version":"v0.0.1"}`,
		},
		{
			name:     "Ready handler with failing check",
			endpoint: "/ready",
			checks: map[string]probe.Check{
				"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
			},
			statusCode: http.StatusServiceUnavailable,
			body:       `{"notReady":"redis"}`,
		},
		{
			name:       "Invalid endpoint",
			endpoint:   "/invalid",
			statusCode: http.StatusNotFound,
			body:       "404 page not found\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			probeServer := probe.NewServer("", probe.Options{Name: "melidash", Version: "v0.0.1"}, tc.checks)

			httpServer := httptest.NewServer(probeServer.Handler())
			defer httpServer.Close()

			resp, err := http.Get(httpServer.URL + tc.endpoint) //nolint:noctx
			rq.NoError(err)

			defer resp.Body.Close()

			rq.Equal(tc.statusCode, resp.StatusCode)

			bodyBytes, err := io.ReadAll(resp.Body)
			rq.NoError(err)
			rq.Equal(tc.body, string(bodyBytes))
		})
	}
}
