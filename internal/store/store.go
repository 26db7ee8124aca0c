// Package store is the tabular save-file adapter. The game state lives in
// five named tables of a cloud spreadsheet; a Source serves raw cell
// grids and the Adapter turns them into typed world and player data.
package store

import "context"

// Table names inside the spreadsheet document. The column layouts are
// contractual; see the parse helpers in adapter.go.
const (
	TableSettings    = "Setting_Data"
	TableItems       = "Item_Data"
	TableMercenaries = "Balance_Data"
	TableVillages    = "Village_Data"
	TablePlayers     = "Player_Data"
)

// Source reads and writes raw cell grids. Row 0 is the header. Row
// indexes passed to UpdateRow are data rows, 0-based, header excluded.
//
// Implementations: Sheets (production) and Memory (tests, dev sandbox).
type Source interface {
	ReadTable(ctx context.Context, table string) ([][]string, error)
	UpdateRow(ctx context.Context, table string, row int, cells []string) error
	AppendRow(ctx context.Context, table string, cells []string) error
}
