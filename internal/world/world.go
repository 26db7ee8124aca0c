// Package world assembles the immutable in-memory world from the tabular
// store: settings, catalogs, the village map, and the frozen initial
// stock snapshot sessions clone from.
package world

import (
	"context"
	"fmt"

	"greatmerchant/internal/market"
	"greatmerchant/internal/store"
)

// Load reads and cross-validates the world tables. Any failure here is
// fatal to startup.
func Load(ctx context.Context, a *store.Adapter) (*market.World, error) {
	vars, err := a.ReadSettings(ctx)
	if err != nil {
		return nil, err
	}
	items, err := a.ReadItems(ctx)
	if err != nil {
		return nil, err
	}
	mercs, err := a.ReadMercenaries(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := a.ReadVillages(ctx)
	if err != nil {
		return nil, err
	}

	w := &market.World{
		Settings: market.DefaultSettings(),
		Items:    items,
		Mercs:    mercs,
		Villages: make(map[string]market.Village, len(rows)),
		Initial:  make(market.StockSet, len(rows)),
	}
	w.Settings.ApplyVars(vars)

	for _, row := range rows {
		if _, dup := w.Villages[row.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate village %q", store.TableVillages, row.Name)
		}
		w.Villages[row.Name] = market.Village{X: row.X, Y: row.Y}

		if row.Name == market.HiringPost {
			// the hiring post trades mercenaries, never goods
			w.Initial[row.Name] = map[string]int{}
			continue
		}

		stocks := make(map[string]int, len(row.Stocks))
		for item, qty := range row.Stocks {
			if _, known := items[item]; !known {
				return nil, fmt.Errorf("%s: village %q stocks unknown item %q", store.TableVillages, row.Name, item)
			}
			stocks[item] = qty
		}
		w.Initial[row.Name] = stocks
	}

	if len(w.Villages) == 0 {
		return nil, fmt.Errorf("%s: no villages", store.TableVillages)
	}
	return w, nil
}

// ValidatePlayer checks a loaded save row against the world before a
// session adopts it.
func ValidatePlayer(w *market.World, p *market.Player) error {
	if _, ok := w.Villages[p.Pos]; !ok {
		return fmt.Errorf("slot %d: position %q is not a village", p.Slot, p.Pos)
	}
	for item := range p.Inv {
		if _, ok := w.Items[item]; !ok {
			return fmt.Errorf("slot %d: inventory holds unknown item %q", p.Slot, item)
		}
	}
	seen := map[string]bool{}
	for _, m := range p.Mercs {
		if _, ok := w.Mercs[m]; !ok {
			return fmt.Errorf("slot %d: roster holds unknown mercenary %q", p.Slot, m)
		}
		if seen[m] {
			return fmt.Errorf("slot %d: mercenary %q hired twice", p.Slot, m)
		}
		seen[m] = true
	}
	return nil
}
