package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"greatmerchant/internal/market"
	"greatmerchant/internal/telemetry"
	"greatmerchant/internal/world"
)

// ErrUnknownSlot means the slot has no row in the player table.
var ErrUnknownSlot = errors.New("unknown save slot")

// StartConfig seeds a player the first time an empty slot is opened.
type StartConfig struct {
	Village string
	Money   int
}

// Options wires a Manager. Seed 0 means non-deterministic sessions.
type Options struct {
	World   *market.World
	Store   Store
	Clock   Clock
	Events  telemetry.Repository
	DataDir string
	Start   StartConfig
	Seed    int64
}

// Manager opens and caches one Session per save slot.
type Manager struct {
	mu       sync.Mutex
	opts     Options
	sessions map[int]*Session
}

func NewManager(opts Options) (*Manager, error) {
	if opts.World == nil {
		return nil, fmt.Errorf("world is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	return &Manager{opts: opts, sessions: map[int]*Session{}}, nil
}

// SlotInfo is one row of the slot-picker screen.
type SlotInfo struct {
	Slot  int    `json:"slot"`
	Fresh bool   `json:"fresh"`
	Pos   string `json:"pos,omitempty"`
	Money int    `json:"money,omitempty"`
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
	Week  int    `json:"week,omitempty"`
}

// Slots lists every save slot in the store.
func (m *Manager) Slots(ctx context.Context) ([]SlotInfo, error) {
	players, err := m.opts.Store.ReadPlayers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SlotInfo, 0, len(players))
	for _, p := range players {
		info := SlotInfo{Slot: p.Slot, Fresh: p.Pos == ""}
		if !info.Fresh {
			info.Pos, info.Money = p.Pos, p.Money
			info.Year, info.Month, info.Week = p.Year, p.Month, p.Week
		}
		out = append(out, info)
	}
	return out, nil
}

// Open attaches to the session for slot, creating it from the stored row
// on first use. An empty row bootstraps a fresh player at the configured
// start village.
func (m *Manager) Open(ctx context.Context, slot int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[slot]; ok {
		return s, nil
	}

	players, err := m.opts.Store.ReadPlayers(ctx)
	if err != nil {
		return nil, err
	}
	var row *market.Player
	for i := range players {
		if players[i].Slot == slot {
			row = &players[i]
			break
		}
	}
	if row == nil {
		return nil, fmt.Errorf("slot %d: %w", slot, ErrUnknownSlot)
	}

	var p *market.Player
	if row.Pos == "" {
		start := m.opts.Start
		if _, ok := m.opts.World.Villages[start.Village]; !ok {
			return nil, fmt.Errorf("start village %q is not in the world", start.Village)
		}
		p = market.NewPlayer(slot, start.Village, start.Money)
	} else {
		p = row.Clone()
		if err := world.ValidatePlayer(m.opts.World, p); err != nil {
			return nil, err
		}
	}
	p.LastTick = m.opts.Clock.Now().Unix()

	seed := m.opts.Seed
	if seed == 0 {
		seed = m.opts.Clock.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed + int64(slot)))

	s := &Session{
		slot:    slot,
		player:  p,
		ex:      market.NewExchange(m.opts.World, rng),
		store:   m.opts.Store,
		clock:   m.opts.Clock,
		events:  m.opts.Events,
		dataDir: m.opts.DataDir,
	}
	if m.opts.Events != nil {
		_ = m.opts.Events.RecordEvent(telemetry.EventSessionOpened, slot, telemetry.EventMetadata{"fresh": row.Pos == ""})
	}
	m.sessions[slot] = s
	return s, nil
}

// Get returns an already-open session, or nil.
func (m *Manager) Get(slot int) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[slot]
}
