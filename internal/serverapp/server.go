package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"

	"greatmerchant/internal/config"
	"greatmerchant/internal/httpmw"
	"greatmerchant/internal/server"
	"greatmerchant/internal/session"
	"greatmerchant/internal/store"
	"greatmerchant/internal/telemetry"
	"greatmerchant/internal/world"
)

type Options struct {
	Config *config.Config
	// Source supplies the game tables. The production main passes a
	// sheets-backed source; tests and the dev sandbox pass a MemorySource.
	Source store.Source
	Clock  session.Clock
	Logger *log.Logger
}

// NewHandler loads the world from the table source and wires the full
// HTTP surface: the JSON API, the admin page, and the embedded client.
func NewHandler(ctx context.Context, opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Source == nil {
		return nil, errors.New("table source is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	cfg := opts.Config

	adapter := store.NewAdapter(opts.Source)
	w, err := world.Load(ctx, adapter)
	if err != nil {
		return nil, err
	}

	events, err := telemetry.NewFileRepository(cfg.Server.DataDir)
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewManager(session.Options{
		World:   w,
		Store:   adapter,
		Clock:   opts.Clock,
		Events:  events,
		DataDir: cfg.Server.DataDir,
		Start: session.StartConfig{
			Village: cfg.Game.StartVillage,
			Money:   cfg.Game.StartMoney,
		},
		Seed: cfg.Game.Seed,
	})
	if err != nil {
		return nil, err
	}

	app := &server.App{
		Sessions: sessions,
		Events:   events,
		BootNow:  time.Now(),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "greatmerchant",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := sessions.Slots(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "table source unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "greatmerchant",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	rr := &server.RouteRegistry{}
	server.RegisterAPIRoutes(mux, rr, app)
	server.RegisterAdminUI(mux, rr, app, cfg.Server.Port)
	server.RegisterStatic(mux)

	var handler http.Handler = mux
	if cfg.Server.RateLimit.Enabled {
		rl := httpmw.NewRateLimiter(cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.BurstSize)
		handler = rl.Middleware(handler)
	}
	handler = cors.New(cors.Options{
		AllowedOrigins:   corsOrigins(cfg.Server.CORSOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}).Handler(handler)

	return httpmw.Chain(
		handler,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func corsOrigins(configured []string) []string {
	out := make([]string, 0, len(configured))
	for _, o := range configured {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
