package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"greatmerchant/internal/market"
)

// Adapter reads the five game tables into typed data and writes player
// rows back. All name cells are trimmed; numeric cells that fail to
// parse are a load-time error.
type Adapter struct {
	src Source
}

func NewAdapter(src Source) *Adapter {
	return &Adapter{src: src}
}

// VillageRow is a raw Village_Data row. Stocks holds every non-blank
// item column; reconciling the columns against the item catalog is the
// world loader's job.
type VillageRow struct {
	Name   string
	X, Y   int
	Stocks map[string]int
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseCellInt(table string, row int, col, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s row %d: column %q: bad number %q", table, row, col, raw)
	}
	return n, nil
}

func parseCellFloat(table string, row int, col, raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s row %d: column %q: bad number %q", table, row, col, raw)
	}
	return f, nil
}

// headerIndex maps trimmed header names to their column positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func (a *Adapter) readRows(ctx context.Context, table string) (header []string, rows [][]string, err error) {
	grid, err := a.src.ReadTable(ctx, table)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", table, err)
	}
	if len(grid) == 0 {
		return nil, nil, fmt.Errorf("read %s: missing header row", table)
	}
	return grid[0], grid[1:], nil
}

// ReadSettings returns the raw variable map from Setting_Data.
func (a *Adapter) ReadSettings(ctx context.Context) (map[string]float64, error) {
	_, rows, err := a.readRows(ctx, TableSettings)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for i, row := range rows {
		name := cell(row, 0)
		if name == "" {
			continue
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("%s: duplicate variable %q", TableSettings, name)
		}
		v, err := parseCellFloat(TableSettings, i+1, "값", cell(row, 1))
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// ReadItems returns the item catalog from Item_Data.
func (a *Adapter) ReadItems(ctx context.Context) (map[string]market.Item, error) {
	_, rows, err := a.readRows(ctx, TableItems)
	if err != nil {
		return nil, err
	}
	out := make(map[string]market.Item, len(rows))
	for i, row := range rows {
		name := cell(row, 0)
		if name == "" {
			continue
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("%s: duplicate item %q", TableItems, name)
		}
		base, err := parseCellInt(TableItems, i+1, "base_price", cell(row, 1))
		if err != nil {
			return nil, err
		}
		weight, err := parseCellInt(TableItems, i+1, "weight", cell(row, 2))
		if err != nil {
			return nil, err
		}
		if base < 0 || weight < 0 {
			return nil, fmt.Errorf("%s: item %q: negative base_price or weight", TableItems, name)
		}
		out[name] = market.Item{BasePrice: base, Weight: weight}
	}
	return out, nil
}

// ReadMercenaries returns the mercenary catalog from Balance_Data.
func (a *Adapter) ReadMercenaries(ctx context.Context) (map[string]market.Mercenary, error) {
	_, rows, err := a.readRows(ctx, TableMercenaries)
	if err != nil {
		return nil, err
	}
	out := make(map[string]market.Mercenary, len(rows))
	for i, row := range rows {
		name := cell(row, 0)
		if name == "" {
			continue
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("%s: duplicate mercenary %q", TableMercenaries, name)
		}
		price, err := parseCellInt(TableMercenaries, i+1, "price", cell(row, 1))
		if err != nil {
			return nil, err
		}
		bonus, err := parseCellInt(TableMercenaries, i+1, "weight_bonus", cell(row, 2))
		if err != nil {
			return nil, err
		}
		if price < 0 || bonus < 0 {
			return nil, fmt.Errorf("%s: mercenary %q: negative price or weight_bonus", TableMercenaries, name)
		}
		out[name] = market.Mercenary{Price: price, WeightBonus: bonus}
	}
	return out, nil
}

// ReadVillages returns raw village rows. Item columns come from the
// header past x and y; blank cells mean the village does not trade the
// item and are left out of Stocks.
func (a *Adapter) ReadVillages(ctx context.Context) ([]VillageRow, error) {
	header, rows, err := a.readRows(ctx, TableVillages)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	for _, col := range []string{"name", "x", "y"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", TableVillages, col)
		}
	}

	out := make([]VillageRow, 0, len(rows))
	for i, row := range rows {
		name := cell(row, idx["name"])
		if name == "" {
			continue
		}
		x, err := parseCellInt(TableVillages, i+1, "x", cell(row, idx["x"]))
		if err != nil {
			return nil, err
		}
		y, err := parseCellInt(TableVillages, i+1, "y", cell(row, idx["y"]))
		if err != nil {
			return nil, err
		}

		vr := VillageRow{Name: name, X: x, Y: y, Stocks: map[string]int{}}
		for col, ci := range idx {
			if col == "name" || col == "x" || col == "y" {
				continue
			}
			raw := cell(row, ci)
			if raw == "" {
				continue
			}
			qty, err := parseCellInt(TableVillages, i+1, col, raw)
			if err != nil {
				return nil, err
			}
			if qty < 0 {
				return nil, fmt.Errorf("%s: village %q: negative stock for %q", TableVillages, name, col)
			}
			vr.Stocks[col] = qty
		}
		out = append(out, vr)
	}
	return out, nil
}

// Player_Data column order. The trailing stats column is optional in the
// sheet; a blank or missing cell decodes to zero stats.
var playerColumns = []string{"slot", "pos", "money", "inventory", "mercs", "year", "month", "week", "stats"}

// ReadPlayers returns every save slot row in sheet order. A row whose
// pos cell is blank is a fresh, never-played slot.
func (a *Adapter) ReadPlayers(ctx context.Context) ([]market.Player, error) {
	header, rows, err := a.readRows(ctx, TablePlayers)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(header)
	for _, col := range playerColumns[:8] {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", TablePlayers, col)
		}
	}

	out := make([]market.Player, 0, len(rows))
	for i, row := range rows {
		rawSlot := cell(row, idx["slot"])
		if rawSlot == "" {
			continue
		}
		slot, err := parseCellInt(TablePlayers, i+1, "slot", rawSlot)
		if err != nil {
			return nil, err
		}
		if slot < 1 {
			return nil, fmt.Errorf("%s row %d: slot must be positive, got %d", TablePlayers, i+1, slot)
		}

		p := market.Player{Slot: slot, Pos: cell(row, idx["pos"])}
		if p.Pos == "" {
			// empty slot: keep only the key
			out = append(out, p)
			continue
		}

		if p.Money, err = parseCellInt(TablePlayers, i+1, "money", cell(row, idx["money"])); err != nil {
			return nil, err
		}
		if p.Money < 0 {
			return nil, fmt.Errorf("%s row %d: negative money", TablePlayers, i+1)
		}
		if p.Inv, err = DecodeCounts(cell(row, idx["inventory"])); err != nil {
			return nil, fmt.Errorf("%s row %d: inventory: %v", TablePlayers, i+1, err)
		}
		p.Mercs = DecodeList(cell(row, idx["mercs"]))
		if p.Year, err = parseCellInt(TablePlayers, i+1, "year", cell(row, idx["year"])); err != nil {
			return nil, err
		}
		if p.Month, err = parseCellInt(TablePlayers, i+1, "month", cell(row, idx["month"])); err != nil {
			return nil, err
		}
		if p.Week, err = parseCellInt(TablePlayers, i+1, "week", cell(row, idx["week"])); err != nil {
			return nil, err
		}
		if p.Year < 1 || p.Month < 1 || p.Month > 12 || p.Week < 1 || p.Week > 4 {
			return nil, fmt.Errorf("%s row %d: calendar out of range (%d/%d/%d)", TablePlayers, i+1, p.Year, p.Month, p.Week)
		}
		if si, ok := idx["stats"]; ok {
			if p.Stats, err = DecodeStats(cell(row, si)); err != nil {
				return nil, fmt.Errorf("%s row %d: stats: %v", TablePlayers, i+1, err)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func encodePlayerRow(p market.Player) []string {
	return []string{
		strconv.Itoa(p.Slot),
		p.Pos,
		strconv.Itoa(p.Money),
		EncodeCounts(p.Inv),
		EncodeList(p.Mercs),
		strconv.Itoa(p.Year),
		strconv.Itoa(p.Month),
		strconv.Itoa(p.Week),
		EncodeStats(p.Stats),
	}
}

// WritePlayer persists one slot, updating its existing row or appending
// a new one. Last writer wins; conflict detection is out of scope.
func (a *Adapter) WritePlayer(ctx context.Context, p market.Player) error {
	header, rows, err := a.readRows(ctx, TablePlayers)
	if err != nil {
		return err
	}
	slotCol := headerIndex(header)["slot"]
	target := strconv.Itoa(p.Slot)
	for i, row := range rows {
		if cell(row, slotCol) == target {
			if err := a.src.UpdateRow(ctx, TablePlayers, i, encodePlayerRow(p)); err != nil {
				return fmt.Errorf("write slot %d: %w", p.Slot, err)
			}
			return nil
		}
	}
	if err := a.src.AppendRow(ctx, TablePlayers, encodePlayerRow(p)); err != nil {
		return fmt.Errorf("write slot %d: %w", p.Slot, err)
	}
	return nil
}
