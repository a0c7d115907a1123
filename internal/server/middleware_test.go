package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	h := SecurityHeadersMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cards/1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	for header, want := range map[string]string{
		HeaderContentType:    HeaderValueNoSniff,
		HeaderFrameOptions:   HeaderValueSameOrigin,
		HeaderXSSProtection:  HeaderValueXSSBlock,
		HeaderReferrerPolicy: HeaderValueReferrerStrictOrigin,
	} {
		assert.Equal(t, want, rec.Header().Get(header), header)
	}
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderAPIKey, "secret-key-123")
	h.Set(HeaderAuthorization, "Bearer mytoken")
	h.Set("Cookie", "session=abc")
	h.Set("User-Agent", "PhotocardTest")

	out := redactHeaders(h)

	assert.Equal(t, RedactedValue, out.Get(HeaderAPIKey))
	assert.Equal(t, RedactedValue, out.Get(HeaderAuthorization))
	assert.Equal(t, RedactedValue, out.Get("Cookie"))
	assert.Equal(t, "PhotocardTest", out.Get("User-Agent"))
	assert.Equal(t, "secret-key-123", h.Get(HeaderAPIKey), "input is not modified")
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	t.Run("redacts credentials", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/drops", nil)
		req.Header.Set(HeaderAPIKey, "secret-key-123")
		req.Header.Set("User-Agent", "PhotocardTest")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		out := buf.String()
		assert.Contains(t, out, LogMsgRequestHeaders)
		assert.Contains(t, out, "PhotocardTest")
		assert.NotContains(t, out, "secret-key-123")
	})

	t.Run("skips probes", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, buf.String())
	})
}
