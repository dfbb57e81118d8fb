// Package board holds the static MxN grid geometry, parsing for concrete
// boards and board classes, and the board symmetry group.
//
// Cells are indexed row-major: cell = row*N + col for an M-row, N-column
// grid. The neighbor and split-order tables are fixed data, not computed.
package board

import (
	"strings"

	"github.com/pkg/errors"
)

// Dims identifies one of the supported grid sizes.
type Dims struct {
	M, N int // rows, columns
}

var (
	Dims2x2 = Dims{2, 2}
	Dims3x3 = Dims{3, 3}
	Dims3x4 = Dims{3, 4}
	Dims4x4 = Dims{4, 4}
)

// ParseDims parses a size string such as "4x4".
func ParseDims(s string) (Dims, error) {
	switch s {
	case "2x2":
		return Dims2x2, nil
	case "3x3":
		return Dims3x3, nil
	case "3x4":
		return Dims3x4, nil
	case "4x4":
		return Dims4x4, nil
	}
	return Dims{}, errors.Errorf("unsupported board size %q", s)
}

func (d Dims) String() string {
	return string(rune('0'+d.M)) + "x" + string(rune('0'+d.N))
}

// Cells returns the number of cells in the grid.
func (d Dims) Cells() int { return d.M * d.N }

type geometry struct {
	neighbors    [][]int
	neighborMask []uint32
	splitOrder   []int
	cellToOrder  []int
}

// Neighbor lists use king moves: 3 for corners, 5 for edges, 8 for interior
// cells. Generated offline, kept as data.
var geometries = map[Dims]*geometry{
	Dims2x2: newGeometry([][]int{
		{1, 2, 3},
		{0, 2, 3},
		{0, 1, 3},
		{0, 1, 2},
	}, []int{0, 1, 2, 3}),
	Dims3x3: newGeometry([][]int{
		{1, 3, 4},
		{0, 2, 3, 4, 5},
		{1, 4, 5},
		{0, 1, 4, 6, 7},
		{0, 1, 2, 3, 5, 6, 7, 8},
		{1, 2, 4, 7, 8},
		{3, 4, 7},
		{3, 4, 5, 6, 8},
		{4, 5, 7},
	}, []int{4, 5, 3, 1, 7, 0, 2, 6, 8}),
	Dims3x4: newGeometry([][]int{
		{1, 4, 5},
		{0, 2, 4, 5, 6},
		{1, 3, 5, 6, 7},
		{2, 6, 7},
		{0, 1, 5, 8, 9},
		{0, 1, 2, 4, 6, 8, 9, 10},
		{1, 2, 3, 5, 7, 9, 10, 11},
		{2, 3, 6, 10, 11},
		{4, 5, 9},
		{4, 5, 6, 8, 10},
		{5, 6, 7, 9, 11},
		{6, 7, 10},
	}, []int{5, 6, 1, 9, 2, 10, 4, 7, 0, 8, 3, 11}),
	Dims4x4: newGeometry([][]int{
		{1, 4, 5},
		{0, 2, 4, 5, 6},
		{1, 3, 5, 6, 7},
		{2, 6, 7},
		{0, 1, 5, 8, 9},
		{0, 1, 2, 4, 6, 8, 9, 10},
		{1, 2, 3, 5, 7, 9, 10, 11},
		{2, 3, 6, 10, 11},
		{4, 5, 9, 12, 13},
		{4, 5, 6, 8, 10, 12, 13, 14},
		{5, 6, 7, 9, 11, 13, 14, 15},
		{6, 7, 10, 14, 15},
		{8, 9, 13},
		{8, 9, 10, 12, 14},
		{9, 10, 11, 13, 15},
		{10, 11, 14},
	}, []int{5, 6, 9, 10, 1, 13, 2, 14, 4, 7, 8, 11, 0, 12, 3, 15}),
}

func newGeometry(neighbors [][]int, splitOrder []int) *geometry {
	g := &geometry{
		neighbors:    neighbors,
		neighborMask: make([]uint32, len(neighbors)),
		splitOrder:   splitOrder,
		cellToOrder:  make([]int, len(splitOrder)),
	}
	for i, ns := range neighbors {
		for _, n := range ns {
			g.neighborMask[i] |= 1 << n
		}
	}
	for order, cell := range splitOrder {
		g.cellToOrder[cell] = order
	}
	return g
}

func (d Dims) geo() *geometry {
	g, ok := geometries[d]
	if !ok {
		panic("board: unsupported dimensions " + d.String())
	}
	return g
}

// Neighbors returns the king-move neighbors of cell i. The returned slice
// is shared; callers must not modify it.
func (d Dims) Neighbors(i int) []int { return d.geo().neighbors[i] }

// NeighborMask returns the neighbors of cell i as a bitmask.
func (d Dims) NeighborMask(i int) uint32 { return d.geo().neighborMask[i] }

// SplitOrder returns the fixed interior-first cell permutation used when
// forcing cells. The returned slice is shared; callers must not modify it.
func (d Dims) SplitOrder() []int { return d.geo().splitOrder }

// CellToOrder returns the inverse permutation of SplitOrder.
func (d Dims) CellToOrder() []int { return d.geo().cellToOrder }

// ParseBoard parses a concrete board string of exactly M*N characters.
// Each character is a..z, or '.' for a forbidden cell (returned as -1).
func (d Dims) ParseBoard(bd string) ([]int, error) {
	if len(bd) != d.Cells() {
		return nil, errors.Errorf("board strings must contain %d characters, got %d (%q)",
			d.Cells(), len(bd), bd)
	}
	cells := make([]int, len(bd))
	for i := 0; i < len(bd); i++ {
		c := bd[i]
		switch {
		case c == '.':
			cells[i] = -1
		case c >= 'A' && c <= 'Z':
			return nil, errors.Errorf("found uppercase letter %q", c)
		case c < 'a' || c > 'z':
			return nil, errors.Errorf("found unexpected letter %q", c)
		default:
			cells[i] = int(c - 'a')
		}
	}
	return cells, nil
}

// Class is a board class: one candidate-letter bag per cell, in input
// order. An empty bag (from ".") marks a forbidden cell.
type Class struct {
	Dims  Dims
	Cells []string
}

// ParseClass parses a space-delimited board class such as
// "ab cd e f" or "aeiou . x y". Letter order within a cell is preserved;
// it is the letter index used throughout the bound tree.
func (d Dims) ParseClass(s string) (*Class, error) {
	cells := strings.Split(s, " ")
	if len(cells) != d.Cells() {
		return nil, errors.Errorf("board class must have %d cells, got %d", d.Cells(), len(cells))
	}
	out := make([]string, len(cells))
	for i, cell := range cells {
		if cell == "" {
			return nil, errors.Errorf("cell %d is empty", i)
		}
		if cell == "." {
			out[i] = ""
			continue
		}
		if len(cell) > 26 {
			return nil, errors.Errorf("cell %d has too many letters (%d)", i, len(cell))
		}
		for j := 0; j < len(cell); j++ {
			if cell[j] < 'a' || cell[j] > 'z' {
				return nil, errors.Errorf("invalid letter %q in cell %d", cell[j], i)
			}
		}
		out[i] = cell
	}
	return &Class{Dims: d, Cells: out}, nil
}

// NumReps returns the number of concrete boards in the class. Forbidden
// cells have a single (empty) representation.
func (c *Class) NumReps() uint64 {
	reps := uint64(1)
	for _, cell := range c.Cells {
		if len(cell) > 0 {
			reps *= uint64(len(cell))
		}
	}
	return reps
}

// String renders the class in its space-delimited input form.
func (c *Class) String() string {
	var sb strings.Builder
	for i, cell := range c.Cells {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if cell == "" {
			sb.WriteByte('.')
		} else {
			sb.WriteString(cell)
		}
	}
	return sb.String()
}

// GridString renders a concrete board as an ASCII grid for display.
// 'q' cells are shown as "Qu".
func (d Dims) GridString(bd string) string {
	if len(bd) != d.Cells() {
		return bd
	}
	hline := "+" + strings.Repeat("---+", d.N) + "\n"
	var sb strings.Builder
	sb.WriteString(hline)
	for r := 0; r < d.M; r++ {
		sb.WriteByte('|')
		for c := 0; c < d.N; c++ {
			ch := bd[r*d.N+c]
			if ch == 'q' {
				sb.WriteString(" Qu")
			} else if ch < 'a' || ch > 'z' {
				sb.WriteString(" . ")
			} else {
				sb.WriteByte(' ')
				sb.WriteByte(ch &^ byte(32))
				sb.WriteByte(' ')
			}
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
		sb.WriteString(hline)
	}
	return sb.String()
}
