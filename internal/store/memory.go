package store

import (
	"context"
	"fmt"
	"sync"
)

// MemorySource serves tables from memory. Used by tests and by the dev
// sandbox server, which runs without spreadsheet credentials.
type MemorySource struct {
	mu     sync.RWMutex
	tables map[string][][]string
}

func NewMemorySource(tables map[string][][]string) *MemorySource {
	m := &MemorySource{tables: make(map[string][][]string, len(tables))}
	for name, grid := range tables {
		m.tables[name] = cloneGrid(grid)
	}
	return m
}

func cloneGrid(grid [][]string) [][]string {
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func (m *MemorySource) ReadTable(ctx context.Context, table string) ([][]string, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	grid, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("missing table %q", table)
	}
	return cloneGrid(grid), nil
}

func (m *MemorySource) UpdateRow(ctx context.Context, table string, row int, cells []string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("missing table %q", table)
	}
	// row is data-relative; header occupies grid[0]
	i := row + 1
	if i < 1 || i >= len(grid) {
		return fmt.Errorf("table %q: row %d out of range", table, row)
	}
	grid[i] = append([]string(nil), cells...)
	return nil
}

func (m *MemorySource) AppendRow(ctx context.Context, table string, cells []string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("missing table %q", table)
	}
	m.tables[table] = append(grid, append([]string(nil), cells...))
	return nil
}
