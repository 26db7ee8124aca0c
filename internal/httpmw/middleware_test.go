package httpmw

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotFromPath(t *testing.T) {
	assert.Equal(t, 3, slotFromPath("/api/sessions/3/buy"))
	assert.Equal(t, 12, slotFromPath("/api/sessions/12"))
	assert.Equal(t, 0, slotFromPath("/api/slots"))
	assert.Equal(t, 0, slotFromPath("/api/sessions/abc/view"))
	assert.Equal(t, 0, slotFromPath("/api/sessions/-1/view"))
	assert.Equal(t, 0, slotFromPath("/"))
}

func TestAccessLog_CarriesSlotAndRequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	h := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}),
		WithAccessLog(logger),
		WithRequestID,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/7/sell", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var line struct {
		Msg       string `json:"msg"`
		Slot      int    `json:"slot"`
		Status    int    `json:"status"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "http_request", line.Msg)
	assert.Equal(t, 7, line.Slot)
	assert.Equal(t, http.StatusConflict, line.Status)
	assert.NotEmpty(t, line.RequestID)
	assert.Equal(t, line.RequestID, rec.Header().Get("X-Request-Id"))
}

func TestRecover_JSONForAPIPaths(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	h := WithRecover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/slots", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, logs.String(), "panic_recovered")
}

func TestRateLimiter_RejectsBurstAndStops(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/slots", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// other clients keep their own bucket
	req := httptest.NewRequest(http.MethodGet, "/api/slots", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rl.Stop()
	rl.Stop() // idempotent
}
