package game

// Grid is a square pixel canvas. Each cell holds an index into the owning
// player's picked palette, or -1 for an empty cell. Cells are addressed as
// grid[y][x].
type Grid [][]int

// NewGrid returns an empty size×size grid.
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for y := range g {
		row := make([]int, size)
		for x := range row {
			row[x] = -1
		}
		g[y] = row
	}
	return g
}

// Set paints one cell. Out-of-bounds coordinates or a palette index outside
// [-1, paletteSize) leave the grid untouched and report false.
func (g Grid) Set(x, y, colorIndex, paletteSize int) bool {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g) {
		return false
	}
	if colorIndex < -1 || colorIndex >= paletteSize {
		return false
	}
	g[y][x] = colorIndex
	return true
}

// Clone returns a deep copy, for handing grids to payloads and persistence
// after the session may keep mutating (rematch).
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		c := make([]int, len(row))
		copy(c, row)
		out[y] = c
	}
	return out
}
