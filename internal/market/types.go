package market

// HiringPost is the one village that trades mercenaries instead of goods.
// The name is part of the save-sheet contract.
const HiringPost = "용병 고용소"

// Item is a catalog entry. BasePrice is the pre-jitter price in 냥.
type Item struct {
	BasePrice int `json:"base_price"`
	Weight    int `json:"weight"`
}

// Mercenary is a catalog entry from Balance_Data.
type Mercenary struct {
	Price       int `json:"price"`
	WeightBonus int `json:"weight_bonus"`
}

// Village holds map coordinates. Stocks live in a StockSet, not here,
// so a session can mutate its own copy while the world stays shared.
type Village struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Settings are the tuning knobs from Setting_Data. Unknown variables are
// kept in Extra so the sheet round-trips, but nothing reads them.
type Settings struct {
	PriceVolatility     float64
	DistanceCostPerUnit float64
	StockRegenPerWeek   float64
	TickSecondsPerWeek  float64
	CarryCapacityBase   int

	Extra map[string]float64
}

// DefaultSettings mirrors the values the original sheet ships with.
func DefaultSettings() Settings {
	return Settings{
		PriceVolatility:     0.1,
		DistanceCostPerUnit: 10,
		StockRegenPerWeek:   0.25,
		TickSecondsPerWeek:  60,
		CarryCapacityBase:   50,
	}
}

// ApplyVars overlays raw sheet variables onto s. Recognized names map to
// typed fields; everything else lands in Extra.
func (s *Settings) ApplyVars(vars map[string]float64) {
	for name, v := range vars {
		switch name {
		case "price_volatility":
			s.PriceVolatility = v
		case "distance_cost_per_unit":
			s.DistanceCostPerUnit = v
		case "stock_regen_per_week":
			s.StockRegenPerWeek = v
		case "tick_seconds_per_week":
			s.TickSecondsPerWeek = v
		case "carry_capacity_base":
			s.CarryCapacityBase = int(v)
		default:
			if s.Extra == nil {
				s.Extra = map[string]float64{}
			}
			s.Extra[name] = v
		}
	}
}

// World is the immutable load product: catalogs, the village map, and the
// frozen initial stocks. Current stocks are cloned per session.
type World struct {
	Settings Settings
	Items    map[string]Item
	Mercs    map[string]Mercenary
	Villages map[string]Village

	// Initial is the replenishment ceiling. Never mutated after load.
	Initial StockSet
}
