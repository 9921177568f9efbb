package domain

import "math/rand"

// TileProvider hands out the terrain and production number for each new tile.
type TileProvider interface {
	NextTile() (TileType, ResourceNumber)
}

var standardTiles = []TileType{
	TileWood, TileWood, TileWood, TileWood,
	TileSheep, TileSheep, TileSheep, TileSheep,
	TileWheat, TileWheat, TileWheat, TileWheat,
	TileBrick, TileBrick, TileBrick,
	TileStone, TileStone, TileStone,
	TileDesert,
}

var standardNumbers = []ResourceNumber{
	2,
	3, 3,
	4, 4,
	5, 5,
	6, 6,
	8, 8,
	9, 9,
	10, 10,
	11, 11,
	12,
}

// StandardProvider draws from the 19-tile / 18-number pools of the base game, reshuffling a pool
// whenever it runs dry so larger boards keep the same long-run distribution.
// Deserts take no number.
type StandardProvider struct {
	rng     *rand.Rand
	tiles   []TileType
	numbers []ResourceNumber
}

// NewStandardProvider creates a provider with both pools shuffled by rng.
func NewStandardProvider(rng *rand.Rand) *StandardProvider {
	p := &StandardProvider{rng: rng}
	p.refillTiles()
	p.refillNumbers()
	return p
}

func (p *StandardProvider) refillTiles() {
	p.tiles = append(p.tiles[:0], standardTiles...)
	p.rng.Shuffle(len(p.tiles), func(i, j int) { p.tiles[i], p.tiles[j] = p.tiles[j], p.tiles[i] })
}

func (p *StandardProvider) refillNumbers() {
	p.numbers = append(p.numbers[:0], standardNumbers...)
	p.rng.Shuffle(len(p.numbers), func(i, j int) { p.numbers[i], p.numbers[j] = p.numbers[j], p.numbers[i] })
}

// NextTile pops one tile type and, for farmable tiles, one number.
func (p *StandardProvider) NextTile() (TileType, ResourceNumber) {
	if len(p.tiles) == 0 {
		p.refillTiles()
	}
	tileType := p.tiles[len(p.tiles)-1]
	p.tiles = p.tiles[:len(p.tiles)-1]

	if !tileType.Farmable() {
		return tileType, NoNumber
	}

	if len(p.numbers) == 0 {
		p.refillNumbers()
	}
	number := p.numbers[len(p.numbers)-1]
	p.numbers = p.numbers[:len(p.numbers)-1]
	return tileType, number
}
