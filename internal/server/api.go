package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"greatmerchant/internal/market"
	"greatmerchant/internal/session"
	"greatmerchant/internal/telemetry"
	"greatmerchant/static"
)

// App holds what the handlers depend on.
type App struct {
	Sessions *session.Manager
	Events   telemetry.Repository
	BootNow  time.Time
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps economy failure kinds onto HTTP statuses. Everything
// else is a plain 500.
func writeError(w http.ResponseWriter, err error) {
	kind := market.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case market.KindBadQuantity:
		status = http.StatusBadRequest
	case market.KindUnknownVillage, market.KindUnknownItem, market.KindUnknownMerc:
		status = http.StatusNotFound
	case market.KindNoFunds, market.KindOutOfStock, market.KindNotOwned,
		market.KindOverweight, market.KindNotAMarket, market.KindNotAHiringPost,
		market.KindAlreadyHired:
		status = http.StatusConflict
	}
	body := map[string]any{"error": err.Error()}
	if kind != "" {
		body["kind"] = kind
	}
	writeJSON(w, status, body)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "malformed request body")
		return false
	}
	return true
}

func (app *App) sessionFrom(w http.ResponseWriter, r *http.Request) *session.Session {
	slot, err := strconv.Atoi(r.PathValue("slot"))
	if err != nil || slot < 1 {
		badRequest(w, "slot must be a positive integer")
		return nil
	}
	s := app.Sessions.Get(slot)
	if s == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "session not open"})
		return nil
	}
	return s
}

func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	Handle(mux, rr, "GET /api/slots", "List save slots", "", func(w http.ResponseWriter, r *http.Request) {
		slots, err := app.Sessions.Slots(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
	})

	Handle(mux, rr, "POST /api/sessions", "Open a session for a save slot", `{"slot":1}`, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Slot int `json:"slot"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Slot < 1 {
			badRequest(w, "slot must be a positive integer")
			return
		}
		s, err := app.Sessions.Open(r.Context(), req.Slot)
		if err != nil {
			if errors.Is(err, session.ErrUnknownSlot) {
				writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.View())
	})

	Handle(mux, rr, "GET /api/sessions/{slot}/view", "Current village screen", "", func(w http.ResponseWriter, r *http.Request) {
		if s := app.sessionFrom(w, r); s != nil {
			writeJSON(w, http.StatusOK, s.View())
		}
	})

	Handle(mux, rr, "POST /api/sessions/{slot}/travel", "Travel to a village", `{"dest":"개성"}`, func(w http.ResponseWriter, r *http.Request) {
		s := app.sessionFrom(w, r)
		if s == nil {
			return
		}
		var req struct {
			Dest string `json:"dest"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		cost, err := s.Travel(req.Dest)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cost": cost, "view": s.View()})
	})

	Handle(mux, rr, "POST /api/sessions/{slot}/buy", "Buy goods here", `{"item":"쌀","qty":5}`, func(w http.ResponseWriter, r *http.Request) {
		app.trade(w, r, (*session.Session).Buy)
	})

	Handle(mux, rr, "POST /api/sessions/{slot}/sell", "Sell goods here", `{"item":"쌀","qty":5}`, func(w http.ResponseWriter, r *http.Request) {
		app.trade(w, r, (*session.Session).Sell)
	})

	Handle(mux, rr, "POST /api/sessions/{slot}/hire", "Hire a mercenary", `{"name":"돌쇠"}`, func(w http.ResponseWriter, r *http.Request) {
		s := app.sessionFrom(w, r)
		if s == nil {
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		cost, err := s.Hire(req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cost": cost, "view": s.View()})
	})

	Handle(mux, rr, "POST /api/sessions/{slot}/save", "Persist the slot to the sheet", "", func(w http.ResponseWriter, r *http.Request) {
		s := app.sessionFrom(w, r)
		if s == nil {
			return
		}
		if err := s.Save(r.Context()); err != nil {
			// the session keeps its unsaved state; the client may retry
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"saved": true})
	})

	Handle(mux, rr, "GET /api/stats", "Aggregated gameplay stats", "", func(w http.ResponseWriter, r *http.Request) {
		stats, err := app.stats()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})
}

func (app *App) trade(w http.ResponseWriter, r *http.Request, op func(*session.Session, string, int) (market.Trade, error)) {
	s := app.sessionFrom(w, r)
	if s == nil {
		return
	}
	var req struct {
		Item string `json:"item"`
		Qty  int    `json:"qty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Item == "" || req.Qty < 1 {
		badRequest(w, "item and a positive qty are required")
		return
	}
	tr, err := op(s, req.Item, req.Qty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trade": tr, "view": s.View()})
}

func (app *App) stats() (telemetry.Stats, error) {
	if app.Events == nil {
		return telemetry.Stats{}, nil
	}
	events, err := app.Events.GetEvents(time.Time{}, nil)
	if err != nil {
		return telemetry.Stats{}, err
	}
	return telemetry.CalculateStats(events, app.BootNow.AddDate(0, 0, -30)), nil
}

// RegisterStatic serves the embedded web app: the slot picker and the
// village screen.
func RegisterStatic(mux *http.ServeMux) {
	fs := http.FileServer(http.FS(static.EmbeddedFS()))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))

	mux.HandleFunc("GET /{rest...}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFileFS(w, r, static.EmbeddedFS(), "index.html")
	})
}
