package market

import "math"

// StockSet is the per-village item stock table. The world keeps one frozen
// copy (the initial snapshot); each session works on its own clone.
type StockSet map[string]map[string]int

func (s StockSet) Clone() StockSet {
	out := make(StockSet, len(s))
	for village, items := range s {
		m := make(map[string]int, len(items))
		for name, qty := range items {
			m[name] = qty
		}
		out[village] = m
	}
	return out
}

// Get returns the current stock of item at village, zero if absent.
func (s StockSet) Get(village, item string) int {
	return s[village][item]
}

// Replenish regrows every stock toward its initial value: one application
// per elapsed week, each adding floor(initial * frac), capped at initial.
// Stocks never decrease here.
func (s StockSet) Replenish(initial StockSet, frac float64, weeks int) {
	if weeks <= 0 || frac <= 0 {
		return
	}
	for village, items := range s {
		ceilings := initial[village]
		for item, cur := range items {
			ceil, ok := ceilings[item]
			if !ok {
				continue
			}
			step := int(math.Floor(float64(ceil) * frac))
			next := cur + step*weeks
			if next > ceil {
				next = ceil
			}
			if next > cur {
				items[item] = next
			}
		}
	}
}
