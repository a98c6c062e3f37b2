package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
)

// mockRaw serves scripted knowledge document bytes.
type mockRaw struct {
	data []byte
	err  error
}

func (m *mockRaw) Raw(context.Context) ([]byte, error) { return m.data, m.err }

func TestHandlePing(t *testing.T) {
	s := New(Config{Addr: ":0"}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()
	s.handlePing(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["time"])
}

func TestHandleData(t *testing.T) {
	raw := &mockRaw{data: []byte(`{"about":{"title":"About"}}`)}
	s := New(Config{Addr: ":0"}, nil, raw, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	s.handleData(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"about":{"title":"About"}}`, rec.Body.String())
}

func TestHandleData_MethodNotAllowed(t *testing.T) {
	s := New(Config{Addr: ":0"}, nil, &mockRaw{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/data", nil)
	rec := httptest.NewRecorder()
	s.handleData(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleData_NoProvider(t *testing.T) {
	s := New(Config{Addr: ":0"}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	s.handleData(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "knowledge document not found", body["error"])
}

func TestHandleData_MissingDocument(t *testing.T) {
	raw := &mockRaw{err: domain.ErrNotFound}
	s := New(Config{Addr: ":0"}, nil, raw, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	s.handleData(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleData_ReadError(t *testing.T) {
	raw := &mockRaw{err: errors.New("disk exploded")}
	s := New(Config{Addr: ":0"}, nil, raw, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()
	s.handleData(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_RateLimitWiring(t *testing.T) {
	s := New(Config{Addr: ":0", RateLimit: 1, RateBurst: 1}, nil, nil, nil)
	require.NotNil(t, s.limiter)

	handler := s.limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestServer_NoRateLimitByDefault(t *testing.T) {
	s := New(Config{Addr: ":0"}, nil, nil, nil)

	assert.Nil(t, s.limiter)
}
