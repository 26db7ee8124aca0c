package world

import (
	"context"
	"testing"

	"greatmerchant/internal/market"
	"greatmerchant/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tables() map[string][][]string {
	return map[string][][]string{
		store.TableSettings: {
			{"변수명", "값"},
			{"price_volatility", "0.2"},
			{"carry_capacity_base", "80"},
		},
		store.TableItems: {
			{"item_name", "base_price", "weight"},
			{"쌀", "100", "1"},
			{"베", "50", "2"},
		},
		store.TableMercenaries: {
			{"name", "price", "weight_bonus"},
			{"돌쇠", "300", "20"},
		},
		store.TableVillages: {
			{"name", "x", "y", "쌀", "베"},
			{"한양", "0", "0", "10", "5"},
			{market.HiringPost, "5", "5", "3", ""}, // stray stock column is dropped
		},
		store.TablePlayers: {
			{"slot", "pos", "money", "inventory", "mercs", "year", "month", "week", "stats"},
		},
	}
}

func load(t *testing.T, tb map[string][][]string) (*market.World, error) {
	t.Helper()
	return Load(context.Background(), store.NewAdapter(store.NewMemorySource(tb)))
}

func TestLoad(t *testing.T) {
	w, err := load(t, tables())
	require.NoError(t, err)

	assert.Equal(t, 0.2, w.Settings.PriceVolatility)
	assert.Equal(t, 80, w.Settings.CarryCapacityBase)
	// unset variables keep their defaults
	assert.Equal(t, 0.25, w.Settings.StockRegenPerWeek)

	assert.Equal(t, market.Village{X: 5, Y: 5}, w.Villages[market.HiringPost])
	assert.Empty(t, w.Initial[market.HiringPost], "hiring post carries no stocks")
	assert.Equal(t, map[string]int{"쌀": 10, "베": 5}, w.Initial["한양"])
}

func TestLoad_UnknownItemColumnIsFatal(t *testing.T) {
	tb := tables()
	tb[store.TableVillages] = [][]string{
		{"name", "x", "y", "비단"},
		{"한양", "0", "0", "4"},
	}
	_, err := load(t, tb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown item")
}

func TestLoad_DuplicateVillageIsFatal(t *testing.T) {
	tb := tables()
	tb[store.TableVillages] = append(tb[store.TableVillages], []string{"한양", "1", "1", "", ""})
	_, err := load(t, tb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate village")
}

func TestLoad_MissingTableIsFatal(t *testing.T) {
	tb := tables()
	delete(tb, store.TableItems)
	_, err := load(t, tb)
	require.Error(t, err)
}

func TestValidatePlayer(t *testing.T) {
	w, err := load(t, tables())
	require.NoError(t, err)

	p := market.NewPlayer(1, "한양", 100)
	require.NoError(t, ValidatePlayer(w, p))

	p.Pos = "평양"
	assert.Error(t, ValidatePlayer(w, p))

	p.Pos = "한양"
	p.Inv = map[string]int{"비단": 1}
	assert.Error(t, ValidatePlayer(w, p))

	p.Inv = nil
	p.Mercs = []string{"돌쇠", "돌쇠"}
	assert.Error(t, ValidatePlayer(w, p))
}
