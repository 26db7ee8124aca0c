package market

// Stats accumulates lifetime trade totals. All fields only ever grow.
type Stats struct {
	TotalBought int `json:"total_bought"`
	TotalSold   int `json:"total_sold"`
	TotalSpent  int `json:"total_spent"`
	TotalEarned int `json:"total_earned"`
	TradeCount  int `json:"trade_count"`
}

// Player is one save slot. Inv never holds zero-quantity entries; Mercs
// never holds duplicates.
type Player struct {
	Slot  int            `json:"slot"`
	Money int            `json:"money"`
	Pos   string         `json:"pos"`
	Inv   map[string]int `json:"inv"`
	Mercs []string       `json:"mercs"`

	Year  int `json:"year"`
	Month int `json:"month"`
	Week  int `json:"week"`

	// LastTick is unix seconds of the last real-time evaluation. Not
	// persisted; reset on slot open.
	LastTick int64 `json:"-"`

	Stats Stats `json:"stats"`
}

// NewPlayer is a fresh save for an empty slot.
func NewPlayer(slot int, pos string, money int) *Player {
	return &Player{
		Slot:  slot,
		Money: money,
		Pos:   pos,
		Inv:   map[string]int{},
		Year:  1,
		Month: 1,
		Week:  1,
	}
}

// HasMerc reports whether name is already on the roster.
func (p *Player) HasMerc(name string) bool {
	for _, m := range p.Mercs {
		if m == name {
			return true
		}
	}
	return false
}

// AdvanceWeeks rolls the in-game calendar: week 4 carries into the next
// month, month 12 into the next year.
func (p *Player) AdvanceWeeks(n int) {
	for i := 0; i < n; i++ {
		p.Week++
		if p.Week > 4 {
			p.Week = 1
			p.Month++
			if p.Month > 12 {
				p.Month = 1
				p.Year++
			}
		}
	}
}

// Clone is a deep copy, used to keep failed saves from leaking partial
// mutations.
func (p *Player) Clone() *Player {
	cp := *p
	cp.Inv = make(map[string]int, len(p.Inv))
	for k, v := range p.Inv {
		cp.Inv[k] = v
	}
	cp.Mercs = append([]string(nil), p.Mercs...)
	return &cp
}
