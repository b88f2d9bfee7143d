package punchbloom

import "fmt"

const (
	// GridSide is the row/column count of the grid. A single-byte sub-hash
	// addresses GridSide*GridSide = 256 cells, so 16 is the only side that
	// makes the byte-to-cell mapping a bijection.
	GridSide = 16

	// GridCells is the total number of cells (the Bloom filter's m).
	GridCells = GridSide * GridSide
)

// Coord is a cell position on the grid: row and column in [0, GridSide).
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CoordFromByte maps a sub-hash byte to its grid cell. The high four bits
// select the row and the low four bits the column, so the mapping is a
// bijection over the full byte range.
func CoordFromByte(b byte) Coord {
	return Coord{Row: int(b) / GridSide, Col: int(b) % GridSide}
}

// Byte returns the sub-hash value this cell corresponds to, the inverse of
// [CoordFromByte]. Returns ErrInvalidCoordinate if the cell is outside the
// 16x16 grid.
func (c Coord) Byte() (byte, error) {
	if !c.InGrid(GridSide) {
		return 0, fmt.Errorf("%w: (%d,%d) not in [0,%d)x[0,%d)",
			ErrInvalidCoordinate, c.Row, c.Col, GridSide, GridSide)
	}
	return byte(c.Row*GridSide + c.Col), nil
}

// InGrid reports whether the cell lies on a side x side grid.
func (c Coord) InGrid(side int) bool {
	return c.Row >= 0 && c.Row < side && c.Col >= 0 && c.Col < side
}

// compareCoords orders cells by row, then column. All emitted coordinate
// sequences use this order so repeated runs produce identical output.
func compareCoords(a, b Coord) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}
