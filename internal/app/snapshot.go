package app

import (
	"slices"

	"goatan/internal/domain"
)

// Snapshot is the full serialized game state sent as the game_state event.
type Snapshot struct {
	GameID        string               `json:"game_id"`
	State         string               `json:"state"`
	Phase         string               `json:"phase,omitempty"`
	Board         *BoardView           `json:"board,omitempty"`
	Pieces        map[string]PieceView `json:"pieces"`
	Roll          *int                 `json:"roll"`
	ExpectingRoll bool                 `json:"expecting_roll"`
	Placeable     map[string][]string  `json:"placeable"`
	BankTrades    []map[string]int     `json:"bank_trades"`
	Bank          map[string]int       `json:"bank"`
	Players       []PlayerView         `json:"players"`
	ActivePlayer  string               `json:"active_player,omitempty"`
	Victor        string               `json:"victor,omitempty"`
}

type BoardView struct {
	AnchorTile    string             `json:"anchor_tile"`
	Tiles         []TileView         `json:"tiles"`
	Edges         []EdgeView         `json:"edges"`
	Intersections []IntersectionView `json:"intersections"`
}

// TileView lists edges and intersections in side order starting at north; missing slots are "".
type TileView struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	ResourceNumber *int     `json:"resource_number,omitempty"`
	Neighbors      []string `json:"neighbors"`
	Edges          []string `json:"edges"`
	Intersections  []string `json:"intersections"`
}

type EdgeView struct {
	ID            string   `json:"id"`
	Tiles         []string `json:"tiles"`
	Intersections []string `json:"intersections"`
}

type IntersectionView struct {
	ID    string   `json:"id"`
	Tiles []string `json:"tiles"`
	Edges []string `json:"edges"`
}

type PieceView struct {
	Type  string `json:"type"`
	Owner string `json:"owner"`
}

// PlayerView is the public record of a player.
type PlayerView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Color     string         `json:"color,omitempty"`
	Resources map[string]int `json:"resources"`
	Points    int            `json:"points"`
}

// BuildSnapshot serializes game. The bank catalog is recomputed from the current inventory.
func BuildSnapshot(game *domain.Game) *Snapshot {
	snap := &Snapshot{
		GameID:     game.ID,
		State:      string(game.State()),
		Pieces:     map[string]PieceView{},
		Placeable:  map[string][]string{},
		BankTrades: []map[string]int{},
		Bank:       game.Bank.Balances(),
		Victor:     game.Victor,
	}

	points := domain.VictoryPoint{}.Points(game.Board)
	for _, p := range game.Players.All() {
		snap.Players = append(snap.Players, playerView(p, points[p.ID]))
	}

	phase := game.Phase()
	if phase == nil {
		return snap
	}

	snap.Phase = string(phase.Kind())
	snap.ExpectingRoll = phase.ExpectingRoll()
	if total, ok := phase.LastRoll(); ok {
		snap.Roll = &total
	}
	if active := phase.ActivePlayer(); active != nil {
		snap.ActivePlayer = active.ID
	}
	for id, kinds := range phase.Placeable() {
		names := make([]string, 0, len(kinds))
		for _, k := range kinds {
			names = append(names, string(k))
		}
		snap.Placeable[id] = names
	}
	if phase.Kind() == domain.PhaseMain {
		for _, offer := range game.Bank.Offers() {
			snap.BankTrades = append(snap.BankTrades, offer.Map())
		}
	}

	snap.Board = boardView(game.Board)
	for _, ix := range game.Board.SettledIntersections() {
		in := game.Board.Intersections[ix]
		snap.Pieces[in.ID] = PieceView{Type: string(in.Settlement.Kind), Owner: in.Settlement.Owner}
	}
	for _, e := range game.Board.SettledEdges() {
		edge := game.Board.Edges[e]
		snap.Pieces[edge.ID] = PieceView{Type: string(edge.Road.Kind), Owner: edge.Road.Owner}
	}
	return snap
}

func playerView(p *domain.Player, points int) PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Color:     p.Color,
		Resources: p.Balances(),
		Points:    points,
	}
}

func boardView(b *domain.Board) *BoardView {
	tileID := func(t domain.TileRef) string {
		if t == domain.NoTile {
			return ""
		}
		return b.Tiles[t].ID
	}
	edgeID := func(e domain.EdgeRef) string {
		if e == domain.NoEdge {
			return ""
		}
		return b.Edges[e].ID
	}
	intersectionID := func(ix domain.IntersectionRef) string {
		if ix == domain.NoIntersection {
			return ""
		}
		return b.Intersections[ix].ID
	}

	view := &BoardView{AnchorTile: tileID(b.Anchor)}
	for _, t := range b.Tiles {
		tv := TileView{
			ID:            t.ID,
			Type:          string(t.Type),
			Neighbors:     make([]string, 0, domain.SideCount),
			Edges:         make([]string, 0, domain.SideCount),
			Intersections: make([]string, 0, domain.SideCount),
		}
		if t.Number != domain.NoNumber {
			n := int(t.Number)
			tv.ResourceNumber = &n
		}
		for _, side := range domain.Sides {
			tv.Neighbors = append(tv.Neighbors, tileID(t.Neighbors[side]))
			tv.Edges = append(tv.Edges, edgeID(t.Edges[side]))
			tv.Intersections = append(tv.Intersections, intersectionID(t.Intersections[side]))
		}
		view.Tiles = append(view.Tiles, tv)
	}
	for _, e := range b.Edges {
		ev := EdgeView{ID: e.ID}
		for _, t := range e.Tiles {
			ev.Tiles = append(ev.Tiles, tileID(t))
		}
		for _, ix := range e.Intersections {
			ev.Intersections = append(ev.Intersections, intersectionID(ix))
		}
		view.Edges = append(view.Edges, ev)
	}
	for _, in := range b.Intersections {
		iv := IntersectionView{ID: in.ID}
		for _, t := range in.Tiles {
			iv.Tiles = append(iv.Tiles, tileID(t))
		}
		for _, e := range in.Edges {
			iv.Edges = append(iv.Edges, edgeID(e))
		}
		view.Intersections = append(view.Intersections, iv)
	}
	return view
}

// SortedPlaceable returns placeable location ids for kind in a stable order.
func (s *Snapshot) SortedPlaceable(kind domain.PieceKind) []string {
	var out []string
	for id, kinds := range s.Placeable {
		if slices.Contains(kinds, string(kind)) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
