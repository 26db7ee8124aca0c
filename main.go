package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"greatmerchant/internal/config"
	"greatmerchant/internal/serverapp"
	"greatmerchant/internal/store"
)

// Dev sandbox: a seeded in-memory world, no spreadsheet credentials.
// The production entry point is cmd/server.
func main() {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Server.DataDir = "data-dev"
	cfg.Game.Seed = 42

	handler, err := serverapp.NewHandler(context.Background(), serverapp.Options{
		Config: cfg,
		Source: store.NewMemorySource(seedTables()),
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatal(err)
	}

	addr := ":" + cfg.Server.Port
	fmt.Printf("greatmerchant (dev sandbox) listening on http://localhost%s\n", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func seedTables() map[string][][]string {
	return map[string][][]string{
		store.TableSettings: {
			{"변수명", "값"},
			{"price_volatility", "0.1"},
			{"distance_cost_per_unit", "10"},
			{"stock_regen_per_week", "0.25"},
			{"tick_seconds_per_week", "300"},
			{"carry_capacity_base", "50"},
		},
		store.TableItems: {
			{"item_name", "base_price", "weight"},
			{"쌀", "100", "1"},
			{"베", "50", "2"},
			{"인삼", "800", "5"},
			{"철", "200", "20"},
			{"도자기", "400", "10"},
		},
		store.TableMercenaries: {
			{"name", "price", "weight_bonus"},
			{"돌쇠", "300", "20"},
			{"막쇠", "500", "30"},
			{"칠복", "900", "60"},
		},
		store.TableVillages: {
			{"name", "x", "y", "쌀", "베", "인삼", "철", "도자기"},
			{"한양", "0", "0", "20", "10", "", "5", "8"},
			{"개성", "3", "4", "15", "", "6", "", "12"},
			{"전주", "2", "9", "30", "14", "", "", ""},
			{"평양", "8", "2", "", "8", "4", "10", ""},
			{"용병 고용소", "5", "5", "", "", "", "", ""},
		},
		store.TablePlayers: {
			{"slot", "pos", "money", "inventory", "mercs", "year", "month", "week", "stats"},
			{"1", "", "", "", "", "", "", "", ""},
			{"2", "", "", "", "", "", "", "", ""},
			{"3", "", "", "", "", "", "", "", ""},
		},
	}
}
