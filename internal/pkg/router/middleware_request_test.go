package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shandysiswandi/gootp/internal/pkg/instrument"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "remote addr", remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "true client ip wins", headers: map[string]string{"True-Client-IP": "1.1.1.1", "X-Real-IP": "2.2.2.2"}, remote: "10.0.0.1:1", want: "1.1.1.1"},
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "3.3.3.3, 4.4.4.4"}, remote: "10.0.0.1:1", want: "3.3.3.3"},
		{name: "garbage header falls back", headers: map[string]string{"X-Real-IP": "nope"}, remote: "10.0.0.1:1", want: "10.0.0.1"},
		{name: "unparseable remote", remote: "pipe", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}

func TestMiddlewareRequestContext(t *testing.T) {
	var gotCID, gotRemote string
	h := middlewareRequestContext(fixedID("generated"))(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotCID = instrument.GetCorrelationID(r.Context())
		gotRemote = r.RemoteAddr
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "8.8.8.8")
		h.ServeHTTP(rec, req)

		assert.Equal(t, "generated", gotCID)
		assert.Equal(t, "generated", rec.Header().Get(HeaderCorrelationID))
		assert.Equal(t, "8.8.8.8", gotRemote)
	})

	t.Run("request id header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "  from-proxy ")
		h.ServeHTTP(rec, req)

		assert.Equal(t, "from-proxy", gotCID)
	})

	t.Run("control characters rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderCorrelationID, "a\x00b")
		h.ServeHTTP(rec, req)

		assert.Equal(t, "generated", gotCID)
	})

	t.Run("truncated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderCorrelationID, strings.Repeat("x", 300))
		h.ServeHTTP(rec, req)

		assert.Len(t, gotCID, maxCorrelationIDLen)
	})
}
