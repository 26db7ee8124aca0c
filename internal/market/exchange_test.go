package market

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorld() *World {
	w := &World{
		Settings: Settings{
			PriceVolatility:     0,
			DistanceCostPerUnit: 10,
			StockRegenPerWeek:   0,
			TickSecondsPerWeek:  60,
			CarryCapacityBase:   50,
		},
		Items: map[string]Item{
			"쌀": {BasePrice: 100, Weight: 1},
			"철": {BasePrice: 200, Weight: 20},
			"베": {BasePrice: 50, Weight: 2},
		},
		Mercs: map[string]Mercenary{
			"돌쇠": {Price: 300, WeightBonus: 20},
			"막쇠": {Price: 500, WeightBonus: 30},
		},
		Villages: map[string]Village{
			"한양":      {X: 0, Y: 0},
			"개성":      {X: 3, Y: 4},
			HiringPost: {X: 5, Y: 5},
		},
		Initial: StockSet{
			"한양": {"쌀": 10, "베": 5, "철": 5},
			"개성": {"쌀": 8},
		},
	}
	return w
}

func newExchangeForTest(t *testing.T) (*Exchange, *Player) {
	t.Helper()
	e := NewExchange(testWorld(), rand.New(rand.NewSource(1)))
	p := NewPlayer(1, "한양", 1000)
	return e, p
}

func TestBuy_Deterministic(t *testing.T) {
	e, p := newExchangeForTest(t)

	tr, err := e.Buy(p, "쌀", 5)
	require.NoError(t, err)

	assert.Equal(t, 100, tr.Unit)
	assert.Equal(t, 500, tr.Total)
	assert.Equal(t, 500, p.Money)
	assert.Equal(t, map[string]int{"쌀": 5}, p.Inv)
	assert.Equal(t, 5, e.Stocks.Get("한양", "쌀"))
	assert.Equal(t, 5, p.Stats.TotalBought)
	assert.Equal(t, 500, p.Stats.TotalSpent)
	assert.Equal(t, 1, p.Stats.TradeCount)
}

func TestSell_SpreadAndCeiling(t *testing.T) {
	e, p := newExchangeForTest(t)

	_, err := e.Buy(p, "쌀", 5)
	require.NoError(t, err)

	tr, err := e.Sell(p, "쌀", 5)
	require.NoError(t, err)

	assert.Equal(t, 90, tr.Unit)
	assert.Equal(t, 450, tr.Total)
	assert.Equal(t, 950, p.Money)
	assert.Empty(t, p.Inv, "zero quantities must be removed")
	assert.Equal(t, 10, e.Stocks.Get("한양", "쌀"), "restored to initial ceiling")
	assert.Equal(t, 2, p.Stats.TradeCount)
}

func TestSell_ExcessAboveCeilingDiscarded(t *testing.T) {
	e, p := newExchangeForTest(t)
	p.Inv = map[string]int{"쌀": 7}

	_, err := e.Sell(p, "쌀", 7)
	require.NoError(t, err)
	assert.Equal(t, 10, e.Stocks.Get("한양", "쌀"))
}

func TestBuy_Overweight(t *testing.T) {
	e, p := newExchangeForTest(t)
	p.Inv = map[string]int{"철": 2} // 40 of 50 capacity

	before := p.Clone()
	_, err := e.Buy(p, "철", 1)
	require.Error(t, err)
	assert.Equal(t, KindOverweight, KindOf(err))

	// rejected operations commit nothing
	assert.Equal(t, before.Money, p.Money)
	assert.Equal(t, before.Inv, p.Inv)
	assert.Equal(t, 0, p.Stats.TradeCount)
}

func TestBuySell_RejectNonPositiveQty(t *testing.T) {
	e, p := newExchangeForTest(t)
	p.Inv = map[string]int{"쌀": 3}

	for _, qty := range []int{0, -5} {
		_, err := e.Buy(p, "쌀", qty)
		assert.Equal(t, KindBadQuantity, KindOf(err))

		_, err = e.Sell(p, "쌀", qty)
		assert.Equal(t, KindBadQuantity, KindOf(err))
	}

	// a negative buy must not mint money or lift stock above the ceiling
	assert.Equal(t, 1000, p.Money)
	assert.Equal(t, map[string]int{"쌀": 3}, p.Inv)
	assert.Equal(t, 10, e.Stocks.Get("한양", "쌀"))
	assert.Equal(t, 0, p.Stats.TradeCount)
}

func TestBuy_Failures(t *testing.T) {
	e, p := newExchangeForTest(t)

	_, err := e.Buy(p, "비단", 1)
	assert.Equal(t, KindUnknownItem, KindOf(err))

	_, err = e.Buy(p, "쌀", 11)
	assert.Equal(t, KindOutOfStock, KindOf(err))

	p.Money = 99
	_, err = e.Buy(p, "쌀", 1)
	assert.Equal(t, KindNoFunds, KindOf(err))

	p.Pos = HiringPost
	_, err = e.Buy(p, "쌀", 1)
	assert.Equal(t, KindNotAMarket, KindOf(err))
}

func TestSell_Failures(t *testing.T) {
	e, p := newExchangeForTest(t)

	_, err := e.Sell(p, "쌀", 1)
	assert.Equal(t, KindNotOwned, KindOf(err))

	// 베 is owned but 개성 does not trade it
	p.Inv = map[string]int{"베": 3}
	p.Pos = "개성"
	_, err = e.Sell(p, "베", 1)
	assert.Equal(t, KindUnknownItem, KindOf(err))

	p.Pos = HiringPost
	_, err = e.Sell(p, "베", 1)
	assert.Equal(t, KindNotAMarket, KindOf(err))
}

func TestTravel_CostAndWeek(t *testing.T) {
	e, p := newExchangeForTest(t)

	cost, err := e.Travel(p, "개성")
	require.NoError(t, err)

	assert.Equal(t, 50, cost, "distance 5 at 10냥 per unit")
	assert.Equal(t, 950, p.Money)
	assert.Equal(t, "개성", p.Pos)
	assert.Equal(t, 2, p.Week)
}

func TestTravel_SameVillageIsFreeButAdvancesTime(t *testing.T) {
	e, p := newExchangeForTest(t)

	cost, err := e.Travel(p, "한양")
	require.NoError(t, err)
	assert.Equal(t, 0, cost)
	assert.Equal(t, 1000, p.Money)
	assert.Equal(t, 2, p.Week)
}

func TestTravel_Failures(t *testing.T) {
	e, p := newExchangeForTest(t)

	_, err := e.Travel(p, "평양")
	assert.Equal(t, KindUnknownVillage, KindOf(err))

	p.Money = 10
	_, err = e.Travel(p, "개성")
	assert.Equal(t, KindNoFunds, KindOf(err))
	assert.Equal(t, "한양", p.Pos)
	assert.Equal(t, 1, p.Week, "failed travel advances nothing")
}

func TestTravel_HiringPostIsANormalDestination(t *testing.T) {
	e, p := newExchangeForTest(t)

	cost, err := e.Travel(p, HiringPost)
	require.NoError(t, err)
	// distance sqrt(50) ~ 7.0711, cost rounds to 71
	assert.Equal(t, 71, cost)
}

func TestHire(t *testing.T) {
	e, p := newExchangeForTest(t)

	// gating: valid mercenary, wrong village
	_, err := e.Hire(p, "돌쇠")
	assert.Equal(t, KindNotAHiringPost, KindOf(err))

	p.Pos = HiringPost

	_, err = e.Hire(p, "임꺽정")
	assert.Equal(t, KindUnknownMerc, KindOf(err))

	cost, err := e.Hire(p, "돌쇠")
	require.NoError(t, err)
	assert.Equal(t, 300, cost)
	assert.Equal(t, 700, p.Money)
	assert.Equal(t, []string{"돌쇠"}, p.Mercs)

	_, err = e.Hire(p, "돌쇠")
	assert.Equal(t, KindAlreadyHired, KindOf(err))

	p.Money = 100
	_, err = e.Hire(p, "막쇠")
	assert.Equal(t, KindNoFunds, KindOf(err))
	assert.Len(t, p.Mercs, 1)
}

func TestHire_RaisesCapacityForLaterBuys(t *testing.T) {
	e, p := newExchangeForTest(t)
	p.Inv = map[string]int{"철": 2} // at 40 of 50

	p.Pos = HiringPost
	_, err := e.Hire(p, "돌쇠")
	require.NoError(t, err)
	assert.Equal(t, 70, e.Capacity(p))

	// a third 철 (60 weight total) only fits with the bonus
	p.Pos = "한양"
	_, err = e.Buy(p, "철", 1)
	require.NoError(t, err, "bonus weight makes room")
	assert.Equal(t, 60, e.InvWeight(p))
}

func TestReplenish(t *testing.T) {
	e, p := newExchangeForTest(t)
	e.World.Settings.StockRegenPerWeek = 0.25
	e.Stocks["한양"]["쌀"] = 2

	e.AdvanceWeeks(p, 3)

	assert.Equal(t, 8, e.Stocks.Get("한양", "쌀"), "2 + 3 weeks of floor(10*0.25)")
	assert.Equal(t, 4, p.Week)

	e.AdvanceWeeks(p, 2)
	assert.Equal(t, 10, e.Stocks.Get("한양", "쌀"), "never past the ceiling")
	assert.Equal(t, 2, p.Week)
	assert.Equal(t, 2, p.Month)
}

func TestCalendarCarry(t *testing.T) {
	p := NewPlayer(1, "한양", 0)
	p.AdvanceWeeks(4*12 + 1)
	assert.Equal(t, 2, p.Year)
	assert.Equal(t, 1, p.Month)
	assert.Equal(t, 2, p.Week)
}

func TestBuyThenSell_LosesExactlyTheSpread(t *testing.T) {
	e, p := newExchangeForTest(t)

	before := p.Money
	_, err := e.Buy(p, "쌀", 5)
	require.NoError(t, err)
	_, err = e.Sell(p, "쌀", 5)
	require.NoError(t, err)

	// with volatility 0 the round trip loses round(100*0.1) per unit
	assert.Equal(t, before-10*5, p.Money)
}

func TestPriceJitter_SeededAndBounded(t *testing.T) {
	w := testWorld()
	w.Settings.PriceVolatility = 0.1

	a := NewExchange(w, rand.New(rand.NewSource(7)))
	b := NewExchange(w, rand.New(rand.NewSource(7)))

	for i := 0; i < 100; i++ {
		pa := a.BuyPrice(100)
		pb := b.BuyPrice(100)
		assert.Equal(t, pa, pb, "same seed, same draws")
		assert.GreaterOrEqual(t, pa, 90)
		assert.LessOrEqual(t, pa, 110)

		s := a.SellPrice(100)
		_ = b.SellPrice(100)
		assert.GreaterOrEqual(t, s, 81)
		assert.LessOrEqual(t, s, 99)
	}
}

func TestPrice_ClampedToOne(t *testing.T) {
	e, _ := newExchangeForTest(t)
	assert.Equal(t, 1, e.BuyPrice(0))
	assert.Equal(t, 1, e.SellPrice(1))
}

func TestInvariants_UnderOperationSequence(t *testing.T) {
	w := testWorld()
	w.Settings.PriceVolatility = 0.1
	w.Settings.StockRegenPerWeek = 0.25
	e := NewExchange(w, rand.New(rand.NewSource(42)))
	p := NewPlayer(1, "한양", 5000)

	trades := 0
	step := func(i int) {
		switch i % 5 {
		case 0:
			if _, err := e.Buy(p, "쌀", 1+i%3); err == nil {
				trades++
			}
		case 1:
			if _, err := e.Sell(p, "쌀", 1+i%2); err == nil {
				trades++
			}
		case 2:
			_, _ = e.Travel(p, "개성")
		case 3:
			_, _ = e.Travel(p, "한양")
		case 4:
			if _, err := e.Buy(p, "베", 1); err == nil {
				trades++
			}
		}
	}

	for i := 0; i < 200; i++ {
		step(i)

		require.GreaterOrEqual(t, p.Money, 0)
		for item, qty := range p.Inv {
			require.GreaterOrEqual(t, qty, 1, "no zero entries for %s", item)
		}
		require.LessOrEqual(t, e.InvWeight(p), e.Capacity(p))
		for village, items := range e.Stocks {
			for item, qty := range items {
				require.GreaterOrEqual(t, qty, 0)
				require.LessOrEqual(t, qty, e.World.Initial[village][item])
			}
		}
		require.Contains(t, e.World.Villages, p.Pos)
		require.Equal(t, trades, p.Stats.TradeCount)
	}
}
