package router

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/gootp/internal/pkg/instrument"
)

func TestBodyLogger(t *testing.T) {
	l := bodyLogger{mask: instrument.MaskKeys([]string{"password", "authorization"})}

	got := l.payload([]byte(`{"email":"a@b.com","password":"secret1"}`))
	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", m["email"])
	assert.NotEqual(t, "secret1", m["password"])

	assert.Nil(t, l.payload(nil))
	assert.Equal(t, "<non-json body omitted>", l.payload([]byte("password=secret1")))

	h := http.Header{}
	h.Set("Authorization", "Bearer abc")
	h.Set("Accept", "application/json")
	masked := l.headers(h)
	assert.Equal(t, "***", masked.Get("Authorization"))
	assert.Equal(t, "application/json", masked.Get("Accept"))
	assert.Equal(t, "Bearer abc", h.Get("Authorization"))
}

func TestPeekBody_Restores(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))

	assert.Equal(t, `{"a":1}`, string(peekBody(req)))

	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(rest))
}

func TestResponseRecorder(t *testing.T) {
	rec := &responseRecorder{ResponseWriter: httptest.NewRecorder()}

	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)
	_, err := rec.Write([]byte(strings.Repeat("x", maxLoggedBodyBytes+10)))
	require.NoError(t, err)
	rec.SetError(errors.New("boom"))

	assert.Equal(t, http.StatusCreated, rec.statusCode())
	assert.Equal(t, maxLoggedBodyBytes+10, rec.size)
	assert.Equal(t, maxLoggedBodyBytes, rec.body.Len())
	assert.EqualError(t, rec.err, "boom")
}
