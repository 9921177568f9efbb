package domain

import (
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/google/uuid"
)

// TileRef, EdgeRef and IntersectionRef are stable arena handles into a Board.
type (
	TileRef         int
	EdgeRef         int
	IntersectionRef int
)

const (
	NoTile         TileRef         = -1
	NoEdge         EdgeRef         = -1
	NoIntersection IntersectionRef = -1
)

const (
	maxEdgeTiles         = 2
	maxEdgeIntersections = 2
	maxIntersectionTiles = 3
	maxIntersectionEdges = 3
)

// Tile is one hex cell. Each direction slot is written once; re-associating the same handle is a no-op.
type Tile struct {
	ID            string
	Type          TileType
	Number        ResourceNumber
	Neighbors     [SideCount]TileRef
	Edges         [SideCount]EdgeRef
	Intersections [SideCount]IntersectionRef

	pos axial
}

// Edge is the border between one or two tiles, joining exactly two intersections.
type Edge struct {
	ID            string
	Tiles         []TileRef
	Intersections []IntersectionRef
	Road          *Piece
}

// Intersection is a vertex shared by up to three tiles.
type Intersection struct {
	ID         string
	Tiles      []TileRef
	Edges      []EdgeRef
	Settlement *Piece
}

// Board owns the tile, edge and intersection arenas. Slices keep creation order, so every
// iteration over the board is deterministic.
type Board struct {
	Anchor        TileRef
	Tiles         []Tile
	Edges         []Edge
	Intersections []Intersection

	tileIDs         map[string]TileRef
	edgeIDs         map[string]EdgeRef
	intersectionIDs map[string]IntersectionRef

	settledIntersections []IntersectionRef
	settledEdges         []EdgeRef

	ids io.Reader
}

// newBoard creates an empty board. ids feeds element identifiers; nil uses crypto randomness.
func newBoard(ids io.Reader) *Board {
	return &Board{
		Anchor:          NoTile,
		tileIDs:         make(map[string]TileRef),
		edgeIDs:         make(map[string]EdgeRef),
		intersectionIDs: make(map[string]IntersectionRef),
		ids:             ids,
	}
}

func (b *Board) newID() string {
	if b.ids == nil {
		return uuid.NewString()
	}
	return uuid.Must(uuid.NewRandomFromReader(b.ids)).String()
}

func (b *Board) addTile(tileType TileType, number ResourceNumber) TileRef {
	ref := TileRef(len(b.Tiles))
	t := Tile{ID: b.newID(), Type: tileType, Number: number}
	for i := range SideCount {
		t.Neighbors[i] = NoTile
		t.Edges[i] = NoEdge
		t.Intersections[i] = NoIntersection
	}
	b.Tiles = append(b.Tiles, t)
	b.tileIDs[t.ID] = ref
	return ref
}

func (b *Board) addEdge() EdgeRef {
	ref := EdgeRef(len(b.Edges))
	e := Edge{ID: b.newID()}
	b.Edges = append(b.Edges, e)
	b.edgeIDs[e.ID] = ref
	return ref
}

func (b *Board) addIntersection() IntersectionRef {
	ref := IntersectionRef(len(b.Intersections))
	ix := Intersection{ID: b.newID()}
	b.Intersections = append(b.Intersections, ix)
	b.intersectionIDs[ix.ID] = ref
	return ref
}

func (b *Board) associateNeighbor(t TileRef, side Side, neighbor TileRef) {
	cur := b.Tiles[t].Neighbors[side]
	if cur == neighbor {
		return
	}
	if cur != NoTile {
		panic(fmt.Sprintf("domain: tile %d already has neighbor %d at %s, refusing %d", t, cur, side, neighbor))
	}
	b.Tiles[t].Neighbors[side] = neighbor
}

func (b *Board) associateTileEdge(t TileRef, side Side, e EdgeRef) {
	cur := b.Tiles[t].Edges[side]
	if cur == e {
		return
	}
	if cur != NoEdge {
		panic(fmt.Sprintf("domain: tile %d already has edge %d at %s, refusing %d", t, cur, side, e))
	}
	b.Tiles[t].Edges[side] = e
}

func (b *Board) associateTileIntersection(t TileRef, side Side, ix IntersectionRef) {
	cur := b.Tiles[t].Intersections[side]
	if cur == ix {
		return
	}
	if cur != NoIntersection {
		panic(fmt.Sprintf("domain: tile %d already has intersection %d at %s, refusing %d", t, cur, side, ix))
	}
	b.Tiles[t].Intersections[side] = ix
}

func (b *Board) edgeAddTile(e EdgeRef, t TileRef) {
	edge := &b.Edges[e]
	if slices.Contains(edge.Tiles, t) {
		return
	}
	if len(edge.Tiles) >= maxEdgeTiles {
		panic(fmt.Sprintf("domain: edge %d already borders %d tiles", e, len(edge.Tiles)))
	}
	edge.Tiles = append(edge.Tiles, t)
}

func (b *Board) edgeAddIntersection(e EdgeRef, ix IntersectionRef) {
	edge := &b.Edges[e]
	if slices.Contains(edge.Intersections, ix) {
		return
	}
	if len(edge.Intersections) >= maxEdgeIntersections {
		panic(fmt.Sprintf("domain: edge %d already joins %d intersections", e, len(edge.Intersections)))
	}
	edge.Intersections = append(edge.Intersections, ix)
}

func (b *Board) intersectionAddTile(ix IntersectionRef, t TileRef) {
	in := &b.Intersections[ix]
	if slices.Contains(in.Tiles, t) {
		return
	}
	if len(in.Tiles) >= maxIntersectionTiles {
		panic(fmt.Sprintf("domain: intersection %d already borders %d tiles", ix, len(in.Tiles)))
	}
	in.Tiles = append(in.Tiles, t)
}

func (b *Board) intersectionAddEdge(ix IntersectionRef, e EdgeRef) {
	in := &b.Intersections[ix]
	if slices.Contains(in.Edges, e) {
		return
	}
	if len(in.Edges) >= maxIntersectionEdges {
		panic(fmt.Sprintf("domain: intersection %d already borders %d edges", ix, len(in.Edges)))
	}
	in.Edges = append(in.Edges, e)
}

// linkNeighbors tells every pair of adjacent neighbors of t about each other.
func (b *Board) linkNeighbors(t TileRef) {
	neighbors := b.Tiles[t].Neighbors
	for _, side := range Sides {
		first, second := neighbors[side], neighbors[side.Next()]
		if first == NoTile || second == NoTile {
			continue
		}
		link := neighborLinks[side]
		b.associateNeighbor(first, link.first, second)
		b.associateNeighbor(second, link.second, first)
	}
}

// constructEdgeGraph derives shared intersections and edges from the completed neighbor graph.
func (b *Board) constructEdgeGraph() {
	for i := range b.Tiles {
		t := TileRef(i)

		for _, side := range Sides {
			if b.Tiles[t].Intersections[side] != NoIntersection {
				continue
			}
			ix := b.addIntersection()
			b.associateTileIntersection(t, side, ix)
			b.intersectionAddTile(ix, t)

			link := intersectionLinks[side]
			if n := b.Tiles[t].Neighbors[side]; n != NoTile {
				b.associateTileIntersection(n, link.first, ix)
				b.intersectionAddTile(ix, n)
			}
			if n := b.Tiles[t].Neighbors[side.Next()]; n != NoTile {
				b.associateTileIntersection(n, link.second, ix)
				b.intersectionAddTile(ix, n)
			}
		}

		for _, side := range Sides {
			if b.Tiles[t].Edges[side] != NoEdge {
				continue
			}
			e := b.addEdge()
			b.edgeAddTile(e, t)
			b.associateTileEdge(t, side, e)

			if n := b.Tiles[t].Neighbors[side]; n != NoTile {
				b.edgeAddTile(e, n)
				b.associateTileEdge(n, side.Opposite(), e)
			}
		}

		for _, side := range Sides {
			e := b.Tiles[t].Edges[side]
			for _, ix := range [2]IntersectionRef{b.Tiles[t].Intersections[side], b.Tiles[t].Intersections[side.Prev()]} {
				b.edgeAddIntersection(e, ix)
				b.intersectionAddEdge(ix, e)
			}
		}
	}
}

// TileByID resolves a tile id.
func (b *Board) TileByID(id string) (TileRef, bool) {
	ref, ok := b.tileIDs[id]
	return ref, ok
}

// EdgeByID resolves an edge id.
func (b *Board) EdgeByID(id string) (EdgeRef, bool) {
	ref, ok := b.edgeIDs[id]
	return ref, ok
}

// IntersectionByID resolves an intersection id.
func (b *Board) IntersectionByID(id string) (IntersectionRef, bool) {
	ref, ok := b.intersectionIDs[id]
	return ref, ok
}

// OtherIntersection returns the end of e that is not ix.
func (b *Board) OtherIntersection(e EdgeRef, ix IntersectionRef) IntersectionRef {
	ends := b.Edges[e].Intersections
	switch {
	case len(ends) == 2 && ends[0] == ix:
		return ends[1]
	case len(ends) == 2 && ends[1] == ix:
		return ends[0]
	}
	panic(fmt.Sprintf("domain: intersection %d is not an end of edge %d", ix, e))
}

// EdgeJoins reports whether ix is one of the two ends of e.
func (b *Board) EdgeJoins(e EdgeRef, ix IntersectionRef) bool {
	return slices.Contains(b.Edges[e].Intersections, ix)
}

// BordersSettlement reports whether ix or any intersection one edge away holds a settlement.
func (b *Board) BordersSettlement(ix IntersectionRef) bool {
	if b.Intersections[ix].Settlement != nil {
		return true
	}
	for _, e := range b.Intersections[ix].Edges {
		if b.Intersections[b.OtherIntersection(e, ix)].Settlement != nil {
			return true
		}
	}
	return false
}

// BordersRoadForPlayer reports whether any edge touching ix carries a road owned by player.
func (b *Board) BordersRoadForPlayer(ix IntersectionRef, player string) bool {
	for _, e := range b.Intersections[ix].Edges {
		if road := b.Edges[e].Road; road != nil && road.Owner == player {
			return true
		}
	}
	return false
}

// BordersSettlementOrRoadForPlayer reports whether e touches a settlement owned by player,
// or shares an intersection with another edge carrying the player's road.
func (b *Board) BordersSettlementOrRoadForPlayer(e EdgeRef, player string) bool {
	for _, ix := range b.Edges[e].Intersections {
		if s := b.Intersections[ix].Settlement; s != nil && s.Owner == player {
			return true
		}
	}
	for _, ix := range b.Edges[e].Intersections {
		for _, other := range b.Intersections[ix].Edges {
			if other == e {
				continue
			}
			if road := b.Edges[other].Road; road != nil && road.Owner == player {
				return true
			}
		}
	}
	return false
}

// Collect yields the resources a settled intersection produces: one unit per bordering farmable
// tile, repeated by the settlement's gather amount. number filters tiles; NoNumber matches all.
func (b *Board) Collect(ix IntersectionRef, number ResourceNumber) iter.Seq[Resource] {
	settlement := b.Intersections[ix].Settlement
	if settlement == nil {
		panic(fmt.Sprintf("domain: collecting from unsettled intersection %d", ix))
	}
	return func(yield func(Resource) bool) {
		for _, t := range b.Intersections[ix].Tiles {
			tile := &b.Tiles[t]
			if number != NoNumber && tile.Number != number {
				continue
			}
			resource, ok := tile.Type.Resource()
			if !ok {
				continue
			}
			for range settlement.Kind.GatherAmount() {
				if !yield(resource) {
					return
				}
			}
		}
	}
}

// PlaceSettlement puts a settlement on an empty intersection.
func (b *Board) PlaceSettlement(ix IntersectionRef, piece Piece) {
	if !piece.Kind.IsSettlement() {
		panic(fmt.Sprintf("domain: %s is not a settlement", piece.Kind))
	}
	if b.Intersections[ix].Settlement != nil {
		panic(fmt.Sprintf("domain: intersection %d is already settled", ix))
	}
	b.Intersections[ix].Settlement = &piece
	b.settledIntersections = append(b.settledIntersections, ix)
}

// PlaceRoad puts a road on an empty edge.
func (b *Board) PlaceRoad(e EdgeRef, piece Piece) {
	if piece.Kind != PieceRoad {
		panic(fmt.Sprintf("domain: %s is not a road", piece.Kind))
	}
	if b.Edges[e].Road != nil {
		panic(fmt.Sprintf("domain: edge %d already has a road", e))
	}
	b.Edges[e].Road = &piece
	b.settledEdges = append(b.settledEdges, e)
}

// SettledIntersections returns settled intersections in placement order.
func (b *Board) SettledIntersections() []IntersectionRef {
	return slices.Clone(b.settledIntersections)
}

// SettledEdges returns edges with roads in placement order.
func (b *Board) SettledEdges() []EdgeRef {
	return slices.Clone(b.settledEdges)
}
