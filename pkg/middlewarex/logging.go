package middlewarex

import (
	"bytes"
	"cmp"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"github.com/zenazn/goji/web/mutil"

	"melidash/pkg/logx"
)

// HTTPLogging dumps inbound requests and their responses with sensitive
// values masked. FieldMaxLen of zero disables truncation.
type HTTPLogging struct {
	masker      logx.SensitiveDataMaskerInterface
	fieldMaxLen int
}

func NewHTTPLogging(masker logx.SensitiveDataMaskerInterface, fieldMaxLen int) HTTPLogging {
	return HTTPLogging{
		masker:      masker,
		fieldMaxLen: fieldMaxLen,
	}
}

// Requests logs the request line, headers and body. Multipart bodies are skipped.
func (l HTTPLogging) Requests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		dumpBody := !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")

		dump, err := httputil.DumpRequest(r, dumpBody)

		logger(ctx).Info(
			logx.FieldHTTPRequest,
			slog.String(logx.FieldRequestBody, l.truncate(dump)),
			logx.Error(err),
		)

		next.ServeHTTP(w, r)
	})
}

// Responses tees the response body and logs it once the handler returns.
// Server errors are logged at error level.
func (l HTTPLogging) Responses(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		lw := mutil.WrapWriter(w)

		var body bytes.Buffer

		lw.Tee(&body)

		next.ServeHTTP(lw, r)

		headers, err := responseHeaders(w)
		if err != nil {
			logger(ctx).Error("responseHeaders", logx.Error(err))
		}

		// Status is 0 when the handler never called WriteHeader.
		status := cmp.Or(lw.Status(), http.StatusOK)

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		logger(ctx).Log(
			ctx,
			level,
			logx.FieldHTTPResponse,
			slog.Int(logx.FieldResponseStatus, status),
			slog.String(logx.FieldResponseHeaders, string(l.masker.Mask(headers))),
			slog.String(logx.FieldResponseBody, l.truncate(body.Bytes())),
			slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
		)
	})
}

func (l HTTPLogging) truncate(dump []byte) string {
	if l.fieldMaxLen > 0 && len(dump) > l.fieldMaxLen {
		dump = dump[:l.fieldMaxLen]
	}

	return string(l.masker.Mask(dump))
}

func responseHeaders(w http.ResponseWriter) ([]byte, error) {
	var buf bytes.Buffer

	if err := w.Header().WriteSubset(&buf, nil); err != nil {
		return nil, fmt.Errorf("header.WriteSubset: %w", err)
	}

	return buf.Bytes(), nil
}
