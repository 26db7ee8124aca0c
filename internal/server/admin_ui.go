package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"
)

//go:embed templates/admin.html
var adminTemplatesFS embed.FS

var adminTmpl = template.Must(
	template.ParseFS(adminTemplatesFS, "templates/admin.html"),
)

type adminPageData struct {
	Port   string
	Routes []RouteDoc
	Stats  adminStats
}

type adminStats struct {
	Trades        string
	CurrencySpent string
	CurrencyEarn  string
	Travels       string
	Hires         string
	Saves         string
	SaveFailures  int
}

func RegisterAdminUI(mux *http.ServeMux, rr *RouteRegistry, app *App, port string) {
	// JSON list (handy for tooling)
	mux.HandleFunc("GET /_/admin/routes.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rr.List())
	})

	mux.HandleFunc("GET /_/admin", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		data := adminPageData{
			Port:   port,
			Routes: rr.List(),
		}
		if app != nil {
			if stats, err := app.stats(); err == nil {
				data.Stats = adminStats{
					Trades:        humanize.Comma(int64(stats.Trades)),
					CurrencySpent: humanize.Comma(int64(stats.CurrencySpent)),
					CurrencyEarn:  humanize.Comma(int64(stats.CurrencyEarn)),
					Travels:       humanize.Comma(int64(stats.Travels)),
					Hires:         humanize.Comma(int64(stats.Hires)),
					Saves:         humanize.Comma(int64(stats.Saves)),
					SaveFailures:  stats.SaveFailures,
				}
			}
		}

		if err := adminTmpl.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
