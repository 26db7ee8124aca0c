package httpmw

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
)

type contextKey string

const requestIDKey contextKey = "greatmerchant.request_id"

func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if rid == "" {
			rid = newRequestID()
		}
		w.Header().Set("X-Request-Id", rid)
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logLine is one JSON log record. Slot is filled for session-scoped
// requests so a player's actions can be grepped by save slot.
type logLine struct {
	TS         string `json:"ts"`
	Level      string `json:"level"`
	Msg        string `json:"msg"`
	RequestID  string `json:"request_id,omitempty"`
	Method     string `json:"method,omitempty"`
	Path       string `json:"path,omitempty"`
	Slot       int    `json:"slot,omitempty"`
	Status     int    `json:"status,omitempty"`
	Bytes      int    `json:"bytes,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	RemoteIP   string `json:"remote_ip,omitempty"`
	Panic      string `json:"panic,omitempty"`
	Stack      string `json:"stack,omitempty"`
}

func WithRecover(logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					emit(logger, logLine{
						TS:        time.Now().UTC().Format(time.RFC3339Nano),
						Level:     "error",
						Msg:       "panic_recovered",
						RequestID: RequestIDFromContext(r.Context()),
						Method:    r.Method,
						Path:      r.URL.Path,
						Slot:      slotFromPath(r.URL.Path),
						Panic:     fmt.Sprint(rec),
						Stack:     string(debug.Stack()),
					})

					if strings.HasPrefix(r.URL.Path, "/api/") {
						w.Header().Set("Content-Type", "application/json; charset=utf-8")
						w.WriteHeader(http.StatusInternalServerError)
						_ = json.NewEncoder(w).Encode(map[string]any{
							"error": "internal server error",
						})
						return
					}

					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func WithAccessLog(logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			emit(logger, logLine{
				TS:         time.Now().UTC().Format(time.RFC3339Nano),
				Level:      "info",
				Msg:        "http_request",
				RequestID:  RequestIDFromContext(r.Context()),
				Method:     r.Method,
				Path:       r.URL.Path,
				Slot:       slotFromPath(r.URL.Path),
				Status:     sw.status,
				Bytes:      sw.bytes,
				DurationMS: time.Since(start).Milliseconds(),
				RemoteIP:   ClientIP(r),
			})
		})
	}
}

// slotFromPath extracts the save slot from /api/sessions/{slot}/...
// paths; 0 for everything else.
func slotFromPath(path string) int {
	const prefix = "/api/sessions/"
	if !strings.HasPrefix(path, prefix) {
		return 0
	}
	rest := path[len(prefix):]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	slot, err := strconv.Atoi(rest)
	if err != nil || slot < 1 {
		return 0
	}
	return slot
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func newRequestID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err == nil {
		return hex.EncodeToString(b[:])
	}
	return strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
}

func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xrip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emit(logger *log.Logger, line logLine) {
	if logger == nil {
		return
	}
	b, err := json.Marshal(line)
	if err != nil {
		logger.Printf(`{"level":"error","msg":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	logger.Print(string(b))
}
