package market

import (
	"math"
	"math/rand"
)

// sellSpread is the fixed merchant margin: villages pay 90% of the
// jittered price when buying back.
const sellSpread = 0.9

// Exchange runs the economy over one session's view of the world: shared
// immutable World data plus the session's own stock copy. Rand is the
// single source of non-determinism; tests inject a seeded one.
//
// Every operation either commits all of its effects or none, and reports
// failures as *Error with a Kind tag.
type Exchange struct {
	World  *World
	Stocks StockSet
	Rand   *rand.Rand
}

func NewExchange(w *World, rng *rand.Rand) *Exchange {
	return &Exchange{
		World:  w,
		Stocks: w.Initial.Clone(),
		Rand:   rng,
	}
}

// Trade is the receipt for a completed buy or sell.
type Trade struct {
	Item  string `json:"item"`
	Qty   int    `json:"qty"`
	Unit  int    `json:"unit"`
	Total int    `json:"total"`
}

// jitter draws u in [-volatility, +volatility], once per transaction.
func (e *Exchange) jitter() float64 {
	v := e.World.Settings.PriceVolatility
	return (e.Rand.Float64()*2 - 1) * v
}

func clampPrice(f float64) int {
	p := int(math.RoundToEven(f))
	if p < 1 {
		p = 1
	}
	return p
}

// BuyPrice samples this transaction's unit price for an item the player
// is buying.
func (e *Exchange) BuyPrice(base int) int {
	return clampPrice(float64(base) * (1 + e.jitter()))
}

// SellPrice samples the unit price the village pays, spread included.
func (e *Exchange) SellPrice(base int) int {
	return clampPrice(float64(base) * (1 + e.jitter()) * sellSpread)
}

// Distance is the euclidean map distance between two villages.
func (e *Exchange) Distance(from, to string) float64 {
	a := e.World.Villages[from]
	b := e.World.Villages[to]
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// TravelCost rounds half-to-even at the point currency is committed.
func (e *Exchange) TravelCost(from, to string) int {
	cost := e.Distance(from, to) * e.World.Settings.DistanceCostPerUnit
	return int(math.RoundToEven(cost))
}

// Capacity is base carry weight plus the roster's bonuses.
func (e *Exchange) Capacity(p *Player) int {
	cap := e.World.Settings.CarryCapacityBase
	for _, name := range p.Mercs {
		cap += e.World.Mercs[name].WeightBonus
	}
	return cap
}

// InvWeight is the total weight of the player's inventory.
func (e *Exchange) InvWeight(p *Player) int {
	w := 0
	for item, qty := range p.Inv {
		w += e.World.Items[item].Weight * qty
	}
	return w
}

// AdvanceWeeks moves the calendar and replenishes stocks together; the
// two are never applied separately.
func (e *Exchange) AdvanceWeeks(p *Player, weeks int) {
	if weeks <= 0 {
		return
	}
	p.AdvanceWeeks(weeks)
	e.Stocks.Replenish(e.World.Initial, e.World.Settings.StockRegenPerWeek, weeks)
}

// Travel moves the player to dest, charging distance cost and advancing
// one in-game week. Travel to the current village is free but still
// advances time.
func (e *Exchange) Travel(p *Player, dest string) (int, error) {
	if _, ok := e.World.Villages[dest]; !ok {
		return 0, errf(KindUnknownVillage, "%s(은)는 없는 마을입니다", dest)
	}
	cost := e.TravelCost(p.Pos, dest)
	if cost > p.Money {
		return 0, errf(KindNoFunds, "여비 %d냥이 부족합니다", cost)
	}

	p.Money -= cost
	p.Pos = dest
	e.AdvanceWeeks(p, 1)
	return cost, nil
}

// Buy purchases qty of item at the player's village.
func (e *Exchange) Buy(p *Player, item string, qty int) (Trade, error) {
	if qty < 1 {
		return Trade{}, errf(KindBadQuantity, "수량은 1 이상이어야 합니다")
	}
	if p.Pos == HiringPost {
		return Trade{}, errf(KindNotAMarket, "용병 고용소에서는 물건을 살 수 없습니다")
	}
	stock, sold := e.Stocks[p.Pos][item]
	if !sold {
		return Trade{}, errf(KindUnknownItem, "%s에서는 %s(을)를 팔지 않습니다", p.Pos, item)
	}
	if stock < qty {
		return Trade{}, errf(KindOutOfStock, "%s 재고가 %d개뿐입니다", item, stock)
	}

	unit := e.BuyPrice(e.World.Items[item].BasePrice)
	total := unit * qty
	if total > p.Money {
		return Trade{}, errf(KindNoFunds, "%d냥이 필요하지만 %d냥뿐입니다", total, p.Money)
	}
	if e.InvWeight(p)+e.World.Items[item].Weight*qty > e.Capacity(p) {
		return Trade{}, errf(KindOverweight, "무게 한도를 넘어 %s(을)를 더 들 수 없습니다", item)
	}

	e.Stocks[p.Pos][item] = stock - qty
	if p.Inv == nil {
		p.Inv = map[string]int{}
	}
	p.Inv[item] += qty
	p.Money -= total
	p.Stats.TotalBought += qty
	p.Stats.TotalSpent += total
	p.Stats.TradeCount++
	return Trade{Item: item, Qty: qty, Unit: unit, Total: total}, nil
}

// Sell disposes qty of item at the player's village. Villages only buy
// what they sell, and restock no higher than the initial ceiling; the
// excess is discarded.
func (e *Exchange) Sell(p *Player, item string, qty int) (Trade, error) {
	if qty < 1 {
		return Trade{}, errf(KindBadQuantity, "수량은 1 이상이어야 합니다")
	}
	if p.Pos == HiringPost {
		return Trade{}, errf(KindNotAMarket, "용병 고용소에서는 물건을 팔 수 없습니다")
	}
	if p.Inv[item] < qty {
		return Trade{}, errf(KindNotOwned, "%s(을)를 %d개 가지고 있지 않습니다", item, qty)
	}
	stock, sold := e.Stocks[p.Pos][item]
	if !sold {
		return Trade{}, errf(KindUnknownItem, "%s에서는 %s(을)를 사지 않습니다", p.Pos, item)
	}

	unit := e.SellPrice(e.World.Items[item].BasePrice)
	total := unit * qty

	next := stock + qty
	if ceil := e.World.Initial[p.Pos][item]; next > ceil {
		next = ceil
	}
	e.Stocks[p.Pos][item] = next

	p.Inv[item] -= qty
	if p.Inv[item] == 0 {
		delete(p.Inv, item)
	}
	p.Money += total
	p.Stats.TotalSold += qty
	p.Stats.TotalEarned += total
	p.Stats.TradeCount++
	return Trade{Item: item, Qty: qty, Unit: unit, Total: total}, nil
}

// Hire adds a mercenary to the roster. Only possible at the hiring post.
func (e *Exchange) Hire(p *Player, name string) (int, error) {
	if p.Pos != HiringPost {
		return 0, errf(KindNotAHiringPost, "용병은 %s에서만 고용할 수 있습니다", HiringPost)
	}
	m, ok := e.World.Mercs[name]
	if !ok {
		return 0, errf(KindUnknownMerc, "%s(은)는 없는 용병입니다", name)
	}
	if p.HasMerc(name) {
		return 0, errf(KindAlreadyHired, "%s(은)는 이미 고용되어 있습니다", name)
	}
	if m.Price > p.Money {
		return 0, errf(KindNoFunds, "고용비 %d냥이 부족합니다", m.Price)
	}

	p.Money -= m.Price
	p.Mercs = append(p.Mercs, name)
	return m.Price, nil
}
