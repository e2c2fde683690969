package httpx_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"melidash/pkg/contextx"
	"melidash/pkg/httpx"
	"melidash/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type regexpMasker struct {
	pattern *regexp.Regexp
}

func (m regexpMasker) Mask(input []byte) []byte {
	return m.pattern.ReplaceAll(input, []byte("<...>"))
}

func TestLoggingRoundTripper(t *testing.T) {
	const testResponseBody = `{"price":120.5,"token":"secret"}`

	testCases := []struct {
		name         string
		handlerFunc  http.HandlerFunc
		statusCode   int
		responseBody string
		opts         []httpx.Option
		check        func(rq *require.Assertions, req, resp string)
	}{
		{
			name: "Status 200",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			check: func(rq *require.Assertions, req, resp string) {
				rq.Contains(req, "GET / HTTP/1.1")
				rq.Contains(resp, "HTTP/1.1 200 OK")
			},
			statusCode: http.StatusOK,
		},
		{
			name: "Status 404",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(testResponseBody)) //nolint:errcheck
			},
			check: func(rq *require.Assertions, _, resp string) {
				rq.Contains(resp, "HTTP/1.1 404 Not Found")
				rq.Contains(resp, testResponseBody)
			},
			statusCode:   http.StatusNotFound,
			responseBody: testResponseBody,
		},
		{
			name: "Status 200 (masked)",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(testResponseBody)) //nolint:errcheck
			},
			opts: []httpx.Option{
				httpx.WithSensitiveDataMasker(regexpMasker{pattern: regexp.MustCompile(`"token":".+?"`)}),
			},
			check: func(rq *require.Assertions, _, resp string) {
				rq.Contains(resp, `{"price":120.5,<...>}`)
			},
			statusCode:   http.StatusOK,
			responseBody: testResponseBody,
		},
		{
			name: "Status 200 (with log field size limit)",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(testResponseBody)) //nolint:errcheck
			},
			opts: []httpx.Option{httpx.WithLogFieldMaxLen(10)},
			check: func(rq *require.Assertions, req, resp string) {
				rq.Equal("GET / HTTP", req)
				rq.Equal("HTTP/1.1 2", resp)
			},
			statusCode:   http.StatusOK,
			responseBody: testResponseBody,
		},
		{
			name: "Without bodies",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(testResponseBody)) //nolint:errcheck
			},
			opts: []httpx.Option{httpx.WithoutBodies()},
			check: func(rq *require.Assertions, _, resp string) {
				rq.NotContains(resp, "price")
			},
			statusCode:   http.StatusOK,
			responseBody: testResponseBody,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			httpServer := httptest.NewServer(tc.handlerFunc)
			defer httpServer.Close()

			var buf bytes.Buffer

			ctx := contextx.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

			client := &http.Client{
				Transport: httpx.NewLoggingRoundTripper(http.DefaultTransport, tc.opts...),
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpServer.URL, http.NoBody)
			rq.NoError(err)

			resp, err := client.Do(req)
			rq.NoError(err)

			defer resp.Body.Close()

			logLines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))

			rq.Equal(tc.statusCode, resp.StatusCode)
			rq.Len(logLines, 2)

			var request, response map[string]any

			rq.NoError(json.Unmarshal(logLines[0], &request))
			rq.NoError(json.Unmarshal(logLines[1], &response))

			tc.check(rq, request[logx.FieldRequestBody].(string), response[logx.FieldResponseBody].(string))

			_, ok := response[logx.FieldDurationMs].(float64)
			rq.True(ok)

			const xidLen = 20

			rq.Len(request[logx.FieldRequestID], xidLen)
			rq.Equal(request[logx.FieldRequestID], response[logx.FieldRequestID])

			if tc.responseBody != "" {
				bodyBytes, err := io.ReadAll(resp.Body)
				rq.NoError(err)
				rq.Equal(tc.responseBody, string(bodyBytes))
			}
		})
	}
}

type countingAuthenticator struct {
	token string
	calls int
}

func (a *countingAuthenticator) Authenticate(context.Context) error {
	a.calls++
	a.token = "fresh"

	return nil
}

func (a *countingAuthenticator) BearerToken() string {
	return a.token
}

func TestAuthBearerRoundTripper(t *testing.T) {
	rq := require.New(t)

	var seen []string

	httpServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))

		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer httpServer.Close()

	auth := &countingAuthenticator{token: "stale"}
	client := &http.Client{Transport: httpx.NewAuthBearerRoundTripper(http.DefaultTransport, auth)}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, httpServer.URL, http.NoBody)
	rq.NoError(err)

	resp, err := client.Do(req)
	rq.NoError(err)

	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(1, auth.calls)
	rq.Equal([]string{"Bearer stale", "Bearer fresh"}, seen)
	rq.Empty(req.Header.Get("Authorization"))
}

func TestStaticToken(t *testing.T) {
	rq := require.New(t)

	token := httpx.StaticToken("abc")
	rq.NoError(token.Authenticate(context.Background()))
	rq.Equal("abc", token.BearerToken())
}
