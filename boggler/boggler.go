// Package boggler scores Boggle boards against a dictionary trie.
//
// Scorer handles one concrete board at a time; BucketBoggler computes upper
// bounds over a whole class of boards. Both share the trie's per-run mark
// generation, so a trie must not be shared between scorers running
// concurrently.
package boggler

import (
	"math/bits"

	"boggle/board"
	"boggle/trie"
)

// Scorer computes the score of concrete boards via dictionary DFS.
type Scorer struct {
	dict *trie.Trie
	dims board.Dims

	bd    []int // letter index per cell, -1 = forbidden
	used  uint32
	keep  uint32 // cells the current run may visit
	score int
	runs  uintptr
	seq   []int
}

// New returns a scorer for one grid size.
func New(dict *trie.Trie, dims board.Dims) *Scorer {
	return &Scorer{
		dict: dict,
		dims: dims,
		bd:   make([]int, dims.Cells()),
	}
}

// NumCells returns the number of cells on the board.
func (b *Scorer) NumCells() int { return b.dims.Cells() }

// SetCell sets cell i to letter index c without bounds checking.
func (b *Scorer) SetCell(i, c int) { b.bd[i] = c }

// Cell returns the letter index at cell i.
func (b *Scorer) Cell(i int) int { return b.bd[i] }

// Score parses lets and returns its Boggle score, counting each word once.
func (b *Scorer) Score(lets string) (int, error) {
	cells, err := b.dims.ParseBoard(lets)
	if err != nil {
		return -1, err
	}
	copy(b.bd, cells)
	return b.internalScore(b.allMask()), nil
}

// ScoreWithMask scores the board as currently set via SetCell, visiting
// only the cells in keep. Used to rescore the forced portion of a class.
func (b *Scorer) ScoreWithMask(keep uint32) int {
	return b.internalScore(keep)
}

func (b *Scorer) allMask() uint32 {
	return uint32(1)<<b.dims.Cells() - 1
}

func (b *Scorer) newRun() {
	root := b.dict.Root()
	b.runs = root.Mark() + 1
	root.SetMark(b.runs)
}

func (b *Scorer) internalScore(keep uint32) int {
	b.newRun()
	b.used = 0
	b.keep = keep
	b.score = 0
	for i := 0; i < b.dims.Cells(); i++ {
		if keep&(1<<i) == 0 {
			continue
		}
		c := b.bd[i]
		if c >= 0 && b.dict.Root().StartsWord(c) {
			b.dfs(i, 0, b.dict.Root().Descend(c))
		}
	}
	return b.score
}

func (b *Scorer) dfs(i, length int, t *trie.Node) {
	b.used ^= 1 << i
	if b.bd[i] == trie.Q {
		length += 2
	} else {
		length++
	}
	if t.IsWord() && t.Mark() != b.runs {
		t.SetMark(b.runs)
		b.score += WordScore(length)
	}

	children := t.ChildMask()
	nbrs := b.dims.NeighborMask(i) & b.keep &^ b.used
	for nbrs != 0 {
		idx := bits.TrailingZeros32(nbrs)
		nbrs &= nbrs - 1
		cc := b.bd[idx]
		if cc >= 0 && children&(1<<cc) != 0 {
			b.dfs(idx, length, t.Descend(cc))
		}
	}
	b.used ^= 1 << i
}

// MultiboggleScore scores lets counting each word once per distinct set of
// cells it occupies. This is the bound tree's native notion of score.
func (b *Scorer) MultiboggleScore(lets string) (int, error) {
	cells, err := b.dims.ParseBoard(lets)
	if err != nil {
		return -1, err
	}
	copy(b.bd, cells)
	b.used = 0
	b.keep = b.allMask()
	score := 0
	seen := make(map[uint64]struct{})
	var dfs func(i, length int, t *trie.Node)
	dfs = func(i, length int, t *trie.Node) {
		b.used ^= 1 << i
		if b.bd[i] == trie.Q {
			length += 2
		} else {
			length++
		}
		if t.IsWord() {
			key := uint64(t.WordID())<<32 | uint64(b.used)
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				score += WordScore(length)
			}
		}
		children := t.ChildMask()
		nbrs := b.dims.NeighborMask(i) &^ b.used
		for nbrs != 0 {
			idx := bits.TrailingZeros32(nbrs)
			nbrs &= nbrs - 1
			cc := b.bd[idx]
			if cc >= 0 && children&(1<<cc) != 0 {
				dfs(idx, length, t.Descend(cc))
			}
		}
		b.used ^= 1 << i
	}
	for i := 0; i < b.dims.Cells(); i++ {
		c := b.bd[i]
		if c >= 0 && b.dict.Root().StartsWord(c) {
			dfs(i, 0, b.dict.Root().Descend(c))
		}
	}
	return score, nil
}

// FindWords returns the cell path of every word on the board. With
// multiboggle set, a word is reported once per path rather than once per
// board.
func (b *Scorer) FindWords(lets string, multiboggle bool) ([][]int, error) {
	cells, err := b.dims.ParseBoard(lets)
	if err != nil {
		return nil, err
	}
	copy(b.bd, cells)
	b.newRun()
	b.used = 0
	b.seq = b.seq[:0]
	var out [][]int
	var dfs func(i int, t *trie.Node)
	dfs = func(i int, t *trie.Node) {
		b.used ^= 1 << i
		b.seq = append(b.seq, i)
		if t.IsWord() && (multiboggle || t.Mark() != b.runs) {
			t.SetMark(b.runs)
			path := make([]int, len(b.seq))
			copy(path, b.seq)
			out = append(out, path)
		}
		for _, idx := range b.dims.Neighbors(i) {
			if b.used&(1<<idx) != 0 {
				continue
			}
			cc := b.bd[idx]
			if cc >= 0 && t.StartsWord(cc) {
				dfs(idx, t.Descend(cc))
			}
		}
		b.used ^= 1 << i
		b.seq = b.seq[:len(b.seq)-1]
	}
	for i := 0; i < b.dims.Cells(); i++ {
		c := b.bd[i]
		if c >= 0 && b.dict.Root().StartsWord(c) {
			dfs(i, b.dict.Root().Descend(c))
		}
	}
	return out, nil
}
