// Package session holds one active player between user actions. Every
// command first applies the real-time tick (calendar advance plus stock
// replenishment), then routes into the economy, then reports.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"greatmerchant/internal/market"
	"greatmerchant/internal/telemetry"
)

// Store is the slice of the tabular adapter a session needs.
type Store interface {
	ReadPlayers(ctx context.Context) ([]market.Player, error)
	WritePlayer(ctx context.Context, p market.Player) error
}

// Session owns one player and one mutable copy of village stocks. All
// methods are safe for one caller at a time per session; the mutex keeps
// concurrent HTTP requests from interleaving a mutation.
type Session struct {
	mu sync.Mutex

	slot    int
	player  *market.Player
	ex      *market.Exchange
	store   Store
	clock   Clock
	events  telemetry.Repository
	dataDir string
}

func (s *Session) Slot() int { return s.slot }

// tick applies real-time week advancement: floor(elapsed / tick_seconds)
// weeks, moving last_tick by the same multiple so the remainder carries.
func (s *Session) tick() {
	tickSec := s.ex.World.Settings.TickSecondsPerWeek
	if tickSec <= 0 {
		return
	}
	now := s.clock.Now().Unix()
	elapsed := float64(now - s.player.LastTick)
	weeks := int(math.Floor(elapsed / tickSec))
	if weeks <= 0 {
		return
	}
	s.ex.AdvanceWeeks(s.player, weeks)
	s.player.LastTick += int64(float64(weeks) * tickSec)
}

func (s *Session) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if s.events != nil {
		_ = s.events.RecordEvent(t, s.slot, md)
	}
}

// Travel moves to dest, charging the distance cost.
func (s *Session) Travel(dest string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()

	cost, err := s.ex.Travel(s.player, dest)
	if err != nil {
		return 0, err
	}
	s.record(telemetry.EventTravel, telemetry.EventMetadata{"dest": dest, "cost": cost})
	return cost, nil
}

// Buy purchases qty of item at the current village.
func (s *Session) Buy(item string, qty int) (market.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()

	tr, err := s.ex.Buy(s.player, item, qty)
	if err != nil {
		return market.Trade{}, err
	}
	s.record(telemetry.EventBuy, telemetry.EventMetadata{
		"item": tr.Item, "qty": tr.Qty, "unit": tr.Unit, "total": tr.Total,
	})
	return tr, nil
}

// Sell disposes qty of item at the current village.
func (s *Session) Sell(item string, qty int) (market.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()

	tr, err := s.ex.Sell(s.player, item, qty)
	if err != nil {
		return market.Trade{}, err
	}
	s.record(telemetry.EventSell, telemetry.EventMetadata{
		"item": tr.Item, "qty": tr.Qty, "unit": tr.Unit, "total": tr.Total,
	})
	return tr, nil
}

// Hire recruits a mercenary at the hiring post.
func (s *Session) Hire(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()

	cost, err := s.ex.Hire(s.player, name)
	if err != nil {
		return 0, err
	}
	s.record(telemetry.EventHire, telemetry.EventMetadata{"name": name, "cost": cost})
	return cost, nil
}

// Save persists the player row. On failure the in-memory player is
// unchanged and the caller may retry.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()

	if err := s.store.WritePlayer(ctx, *s.player.Clone()); err != nil {
		s.record(telemetry.EventSaveFailed, telemetry.EventMetadata{"error": err.Error()})
		return fmt.Errorf("save slot %d: %w", s.slot, err)
	}
	s.record(telemetry.EventSave, nil)
	s.exportSnapshot()
	return nil
}

// exportSnapshot mirrors the saved row to the local data dir so the ops
// tool has something to archive. Best effort.
func (s *Session) exportSnapshot() {
	if s.dataDir == "" {
		return
	}
	dir := filepath.Join(s.dataDir, "saves")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	b, err := json.MarshalIndent(s.player, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(dir, fmt.Sprintf("slot_%d.json", s.slot)), b, 0o644)
}

// GoodView is one line of the local market listing.
type GoodView struct {
	Name      string `json:"name"`
	BasePrice int    `json:"base_price"`
	Weight    int    `json:"weight"`
	Stock     int    `json:"stock"`
}

type InvView struct {
	Name   string `json:"name"`
	Qty    int    `json:"qty"`
	Weight int    `json:"weight"`
}

type MercView struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	WeightBonus int    `json:"weight_bonus"`
}

// DestView is one entry of the travel menu.
type DestView struct {
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// View is everything the UI shows for one village screen.
type View struct {
	Slot        int        `json:"slot"`
	Pos         string     `json:"pos"`
	Money       int        `json:"money"`
	Capacity    int        `json:"capacity"`
	CarryWeight int        `json:"carry_weight"`
	Year        int        `json:"year"`
	Month       int        `json:"month"`
	Week        int        `json:"week"`
	Goods        []GoodView   `json:"goods"`
	Inventory    []InvView    `json:"inventory"`
	Mercs        []string     `json:"mercs"`
	ForHire      []MercView   `json:"for_hire,omitempty"`
	Destinations []DestView   `json:"destinations"`
	Stats        market.Stats `json:"stats"`
}

// View renders the current state. It also ticks, so an idle screen
// refresh moves time forward.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()

	p := s.player
	v := View{
		Slot:        p.Slot,
		Pos:         p.Pos,
		Money:       p.Money,
		Capacity:    s.ex.Capacity(p),
		CarryWeight: s.ex.InvWeight(p),
		Year:        p.Year,
		Month:       p.Month,
		Week:        p.Week,
		Mercs:       append([]string(nil), p.Mercs...),
		Stats:       p.Stats,
	}

	if p.Pos == market.HiringPost {
		for name, m := range s.ex.World.Mercs {
			v.ForHire = append(v.ForHire, MercView{Name: name, Price: m.Price, WeightBonus: m.WeightBonus})
		}
		sort.Slice(v.ForHire, func(i, j int) bool { return v.ForHire[i].Name < v.ForHire[j].Name })
	} else {
		for name, stock := range s.ex.Stocks[p.Pos] {
			item := s.ex.World.Items[name]
			v.Goods = append(v.Goods, GoodView{Name: name, BasePrice: item.BasePrice, Weight: item.Weight, Stock: stock})
		}
		sort.Slice(v.Goods, func(i, j int) bool { return v.Goods[i].Name < v.Goods[j].Name })
	}

	for name := range s.ex.World.Villages {
		if name == p.Pos {
			continue
		}
		v.Destinations = append(v.Destinations, DestView{Name: name, Cost: s.ex.TravelCost(p.Pos, name)})
	}
	sort.Slice(v.Destinations, func(i, j int) bool { return v.Destinations[i].Name < v.Destinations[j].Name })

	for name, qty := range p.Inv {
		v.Inventory = append(v.Inventory, InvView{Name: name, Qty: qty, Weight: s.ex.World.Items[name].Weight * qty})
	}
	sort.Slice(v.Inventory, func(i, j int) bool { return v.Inventory[i].Name < v.Inventory[j].Name })

	return v
}
