package domain

import "io"

// MaxRadius bounds board generation; a radius 10 board already has 331 tiles.
const MaxRadius = 10

// BuildBoard grows a hexagonal board radius hops out from a center tile drawn from provider.
// Tiles are discovered breadth-first; after each tile's neighbors are allocated, every pair of
// adjacent neighbors is linked through the fixed rotation table, and finally the edge and
// intersection graph is derived. ids seeds element identifiers (nil for crypto randomness).
func BuildBoard(radius int, provider TileProvider, ids io.Reader) *Board {
	if radius < 0 {
		radius = 0
	}

	b := newBoard(ids)
	center := b.addTile(provider.NextTile())

	depth := map[TileRef]int{center: 0}
	placed := map[axial]TileRef{{}: center}
	queue := []TileRef{center}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		if depth[t] < radius {
			for _, side := range Sides {
				if b.Tiles[t].Neighbors[side] != NoTile {
					continue
				}
				pos := b.Tiles[t].pos.step(side)
				n, ok := placed[pos]
				if !ok {
					n = b.addTile(provider.NextTile())
					b.Tiles[n].pos = pos
					placed[pos] = n
					depth[n] = depth[t] + 1
					queue = append(queue, n)
				}
				b.associateNeighbor(t, side, n)
				b.associateNeighbor(n, side.Opposite(), t)
			}
		}

		b.linkNeighbors(t)
	}

	b.constructEdgeGraph()
	b.Anchor = center
	return b
}
