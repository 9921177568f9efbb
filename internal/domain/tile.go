package domain

// TileType is the terrain printed on a tile.
type TileType string

const (
	TileBrick   TileType = "brick"
	TileStone   TileType = "stone"
	TileWheat   TileType = "wheat"
	TileSheep   TileType = "sheep"
	TileWood    TileType = "wood"
	TileDesert  TileType = "desert"
	TileUnknown TileType = "unknown"
)

// Resource returns the resource a tile of this type produces and whether it is farmable.
func (t TileType) Resource() (Resource, bool) {
	switch t {
	case TileBrick:
		return Brick, true
	case TileStone:
		return Stone, true
	case TileWheat:
		return Wheat, true
	case TileSheep:
		return Sheep, true
	case TileWood:
		return Wood, true
	default:
		return 0, false
	}
}

// Farmable reports whether tiles of this type produce resources.
func (t TileType) Farmable() bool {
	_, ok := t.Resource()
	return ok
}

// ResourceNumber is the dice sum that triggers production on a tile. Zero means none.
type ResourceNumber int

// NoNumber marks a tile that never produces, such as the desert.
const NoNumber ResourceNumber = 0

// Valid reports whether n is a rollable production number (2-12 except 7).
func (n ResourceNumber) Valid() bool {
	return n >= 2 && n <= 12 && n != 7
}

// Pips returns the number of two-dice combinations that roll n.
func (n ResourceNumber) Pips() int {
	if !n.Valid() {
		return 0
	}
	d := int(n) - 7
	if d < 0 {
		d = -d
	}
	return 6 - d
}
