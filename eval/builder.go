package eval

import (
	"bytes"
	"math/bits"
	"sort"

	"boggle/board"
	"boggle/boggler"
	"boggle/trie"
)

// maxPathCells is the largest supported board (4x4).
const maxPathCells = 16

// wordPath is one placement of one dictionary word on the class: the
// (cell+1, letter+1) pairs of the cells it uses, zero-terminated and
// ordered by the cells' split order rather than traversal order. Identical
// paths for the same word are duplicates; identical paths for different
// words score together.
type wordPath struct {
	path   [2 * maxPathCells]uint8
	wordID uint32
	points uint8
}

func (w *wordPath) length() int {
	n := 0
	for i := 0; i < len(w.path); i += 2 {
		if w.path[i] == 0 {
			break
		}
		n++
	}
	return n
}

// TreeBuilder builds a bound tree for a board class by enumerating every
// legal word path through the class.
type TreeBuilder struct {
	dict *trie.Trie
	dims board.Dims

	class       *board.Class
	splitOrder  []int
	cellToOrder []int

	used        uint32
	usedOrdered uint32 // used cells mapped to their split order
	choices     []int  // cell order -> letter index
	words       []wordPath
	numPaths    int
}

// NewTreeBuilder returns a builder for one grid size.
func NewTreeBuilder(dict *trie.Trie, dims board.Dims) *TreeBuilder {
	return &TreeBuilder{
		dict:        dict,
		dims:        dims,
		splitOrder:  dims.SplitOrder(),
		cellToOrder: dims.CellToOrder(),
		choices:     make([]int, dims.Cells()),
	}
}

// ParseBoard parses a space-delimited board class, replacing any previous
// one.
func (tb *TreeBuilder) ParseBoard(s string) error {
	class, err := tb.dims.ParseClass(s)
	if err != nil {
		return err
	}
	tb.class = class
	return nil
}

// Class returns the current board class.
func (tb *TreeBuilder) Class() *board.Class { return tb.class }

// NumCells returns the number of cells on the board.
func (tb *TreeBuilder) NumCells() int { return tb.dims.Cells() }

// NumPaths returns the number of word paths found by the last BuildTree,
// before deduplication.
func (tb *TreeBuilder) NumPaths() int { return tb.numPaths }

// BuildTree enumerates, canonicalizes and assembles the bound tree for the
// current class. The returned root and every node below it live in a.
func (tb *TreeBuilder) BuildTree(a *Arena) *SumNode {
	if cap(tb.words) == 0 {
		hint := 1 << 20
		if tb.dims == board.Dims4x4 && tb.class.NumReps() > 1<<20 {
			// A full 4x4 class can produce tens of millions of paths.
			hint = 36_000_000
		}
		tb.words = make([]wordPath, 0, hint)
	}
	tb.words = tb.words[:0]
	tb.numPaths = 0
	tb.used = 0
	tb.usedOrdered = 0

	for cell := 0; cell < tb.dims.Cells(); cell++ {
		tb.doAllDescents(cell, 0, tb.dict.Root())
	}

	sort.Slice(tb.words, func(i, j int) bool {
		wi, wj := &tb.words[i], &tb.words[j]
		if c := bytes.Compare(wi.path[:], wj.path[:]); c != 0 {
			return c < 0
		}
		return wi.wordID < wj.wordID
	})
	tb.words = uniqueWordPaths(tb.words)

	if len(tb.words) == 0 {
		return a.NewSumNode(0)
	}
	root := tb.rangeToSumNode(0, len(tb.words)-1, 0, a)
	tb.words = tb.words[:0]
	return root
}

func (tb *TreeBuilder) doAllDescents(cell, length int, t *trie.Node) {
	bag := tb.class.Cells[cell]
	for j := 0; j < len(bag); j++ {
		cc := int(bag[j] - 'a')
		if !t.StartsWord(cc) {
			continue
		}
		order := tb.cellToOrder[cell]
		tb.choices[order] = j
		tb.used ^= 1 << cell
		tb.usedOrdered ^= 1 << order

		step := 1
		if cc == trie.Q {
			step = 2
		}
		tb.dfs(cell, length+step, t.Descend(cc))

		tb.usedOrdered ^= 1 << order
		tb.used ^= 1 << cell
	}
}

func (tb *TreeBuilder) dfs(i, length int, t *trie.Node) {
	for _, idx := range tb.dims.Neighbors(i) {
		if tb.used&(1<<idx) == 0 {
			tb.doAllDescents(idx, length, t)
		}
	}
	if t.IsWord() {
		tb.addWord(t.WordID(), length)
		tb.numPaths++
	}
}

func (tb *TreeBuilder) addWord(wordID uint32, length int) {
	var w wordPath
	idx := 0
	uo := tb.usedOrdered
	for uo != 0 {
		orderIndex := bits.TrailingZeros32(uo)
		uo &= uo - 1
		w.path[idx] = uint8(1 + tb.splitOrder[orderIndex])
		w.path[idx+1] = uint8(1 + tb.choices[orderIndex])
		idx += 2
	}
	w.wordID = wordID
	w.points = uint8(boggler.WordScore(length))
	tb.words = append(tb.words, w)
}

// uniqueWordPaths coalesces a sorted path list in place: exact duplicates
// (same path, same word) are dropped, and distinct words on the same path
// sum their points.
func uniqueWordPaths(words []wordPath) []wordPath {
	if len(words) == 0 {
		return words
	}
	write := 1
	lastPath := words[0].path
	lastID := words[0].wordID
	for i := 1; i < len(words); i++ {
		w := words[i]
		switch {
		case w.path != lastPath:
			words[write] = w
			lastPath = w.path
			lastID = w.wordID
			write++
		case w.wordID != lastID:
			words[write-1].points += w.points
			lastID = w.wordID
		}
	}
	return words[:write]
}

// rangeToSumNode builds a SumNode for the inclusive range [lo, hi] of
// paths sharing a common prefix of depth pairs.
func (tb *TreeBuilder) rangeToSumNode(lo, hi, depth int, a *Arena) *SumNode {
	it := lo
	points := 0
	if tb.words[it].length() == depth {
		points = int(tb.words[it].points)
		it++
	}

	var cells, starts, ends []int
	lastCell := -1
	for ; it <= hi; it++ {
		cell := int(tb.words[it].path[2*depth])
		if cell != lastCell {
			cells = append(cells, cell)
			starts = append(starts, it)
			ends = append(ends, it)
			lastCell = cell
		} else {
			ends[len(ends)-1] = it
		}
	}

	if len(cells) == 0 {
		if points >= 1 && points <= numInterned {
			return a.Canonical(points)
		}
		n := a.NewSumNode(0)
		n.points = points
		n.bound = points
		return n
	}

	n := a.NewSumNode(len(cells))
	n.points = points
	n.bound = points
	for i := range cells {
		child := tb.rangeToChoiceNode(cells[i]-1, starts[i], ends[i], depth, a)
		n.children[i] = child
		n.bound += child.bound
		n.choiceMask |= child.choiceMask
	}
	return n
}

// rangeToChoiceNode builds the ChoiceNode for one cell occurring at
// position depth across the inclusive range [lo, hi]. Children come out
// sorted by letter index because the range is sorted by path bytes.
func (tb *TreeBuilder) rangeToChoiceNode(cell, lo, hi, depth int, a *Arena) *ChoiceNode {
	var letters, starts, ends []int
	lastLetter := -1
	for it := lo; it <= hi; it++ {
		letter := int(tb.words[it].path[2*depth+1])
		if letter != lastLetter {
			letters = append(letters, letter)
			starts = append(starts, it)
			ends = append(ends, it)
			lastLetter = letter
		} else {
			ends[len(ends)-1] = it
		}
	}

	n := a.NewChoiceNode(len(letters))
	n.cell = uint8(cell)
	if len(tb.class.Cells[cell]) > 1 {
		n.choiceMask = 1 << cell
	}
	for i := range letters {
		n.childLetters |= 1 << (letters[i] - 1)
		child := tb.rangeToSumNode(starts[i], ends[i], depth+1, a)
		n.children[i] = child
		if child.bound > n.bound {
			n.bound = child.bound
		}
		n.choiceMask |= child.choiceMask
	}
	return n
}
