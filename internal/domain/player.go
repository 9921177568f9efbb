package domain

import (
	"math/rand"
	"slices"
)

// DefaultPalette is the fixed set of player colors, handed out without repeats.
var DefaultPalette = []string{"red", "blue", "white", "orange", "green", "brown"}

// Player is a participant with a resource ledger.
type Player struct {
	ID    string
	Name  string
	Color string
	Ledger
}

// PlayerManager keeps lobby registration and, once finalized, the turn order.
type PlayerManager struct {
	players   []*Player
	palette   []string
	finalized bool
}

// NewPlayerManager creates an empty lobby. A nil palette uses DefaultPalette; the palette size
// caps the number of players.
func NewPlayerManager(palette []string) *PlayerManager {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &PlayerManager{palette: slices.Clone(palette)}
}

// Register adds a player to the lobby. Registering an existing id returns the existing player.
func (m *PlayerManager) Register(id, name string) (*Player, error) {
	if p := m.Get(id); p != nil {
		return p, nil
	}
	if m.finalized {
		return nil, invalidAction("game already started")
	}
	if len(m.players) >= len(m.palette) {
		return nil, invalidAction("game is full")
	}
	if name == "" {
		name = id
	}
	p := &Player{ID: id, Name: name}
	m.players = append(m.players, p)
	return p, nil
}

// Remove drops a player from the lobby. Players cannot leave once the order is final.
func (m *PlayerManager) Remove(id string) error {
	if m.finalized {
		return invalidAction("cannot remove players after the game started")
	}
	i := slices.IndexFunc(m.players, func(p *Player) bool { return p.ID == id })
	if i < 0 {
		return invalidAction("unknown player %s", id)
	}
	m.players = slices.Delete(m.players, i, i+1)
	return nil
}

// Finalize shuffles the turn order and deals colors from the palette.
func (m *PlayerManager) Finalize(rng *rand.Rand) {
	if m.finalized {
		return
	}
	rng.Shuffle(len(m.players), func(i, j int) { m.players[i], m.players[j] = m.players[j], m.players[i] })
	colors := slices.Clone(m.palette)
	rng.Shuffle(len(colors), func(i, j int) { colors[i], colors[j] = colors[j], colors[i] })
	for i, p := range m.players {
		p.Color = colors[i]
	}
	m.finalized = true
}

// Finalized reports whether the turn order is locked.
func (m *PlayerManager) Finalized() bool { return m.finalized }

// Len returns the number of players.
func (m *PlayerManager) Len() int { return len(m.players) }

// At returns the player at turn index i.
func (m *PlayerManager) At(i int) *Player { return m.players[i] }

// Get returns the player with id, or nil.
func (m *PlayerManager) Get(id string) *Player {
	for _, p := range m.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// IndexOf returns the turn index of id, or -1.
func (m *PlayerManager) IndexOf(id string) int {
	return slices.IndexFunc(m.players, func(p *Player) bool { return p.ID == id })
}

// All returns the players in turn order.
func (m *PlayerManager) All() []*Player { return slices.Clone(m.players) }
