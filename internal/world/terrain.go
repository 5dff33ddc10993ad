// Package world provides the tile grid, terrain categories and the terrain cache.
package world

// Terrain is the category of a single tile.
type Terrain int

const (
	// TerrainWater covers the lowest noise band.
	TerrainWater Terrain = iota
	// TerrainGrass covers the middle noise band.
	TerrainGrass
	// TerrainMountain covers the highest noise band.
	TerrainMountain
)

// String returns the terrain's identifier as used in data files.
func (t Terrain) String() string {
	switch t {
	case TerrainWater:
		return "water"
	case TerrainGrass:
		return "grass"
	case TerrainMountain:
		return "mountain"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the known categories.
func (t Terrain) Valid() bool {
	return t == TerrainWater || t == TerrainGrass || t == TerrainMountain
}

// Terrains returns every category in brush slot order.
func Terrains() []Terrain {
	return []Terrain{TerrainWater, TerrainGrass, TerrainMountain}
}

// TerrainForSlot maps a 1-based brush slot (digit key) to its category.
func TerrainForSlot(slot int) (Terrain, bool) {
	all := Terrains()
	if slot < 1 || slot > len(all) {
		return 0, false
	}
	return all[slot-1], true
}
