package domain

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMock(t *testing.T) {
	t.Parallel()
	m := New(" API.Example.com ", []byte(`{"ok":true}`), "")
	assert.Equal(t, "api.example.com", m.Domain())

	tests := []struct {
		method string
		code   int
		body   string
	}{
		{http.MethodGet, http.StatusOK, `{"ok":true}`},
		{http.MethodHead, http.StatusOK, ""},
		{http.MethodPost, http.StatusMethodNotAllowed, "method not allowed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			m.Resource().ServeHTTP(rec, httptest.NewRequest(tt.method, "/any/path", nil))
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}

	rec := httptest.NewRecorder()
	m.Resource().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, DefaultContentType, rec.Header().Get("Content-Type"))
}
