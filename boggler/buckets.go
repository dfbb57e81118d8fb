package boggler

import (
	"math"

	"boggle/board"
	"boggle/trie"
)

// ScoreDetails carries the two bound flavors computed by a BucketBoggler.
// See https://www.danvk.org/wp/2009-08-11/some-maxno-mark-examples/ for the
// trade-off between them.
type ScoreDetails struct {
	MaxNomark   int // select the maximizing letter at each juncture
	SumUnion    int // all words that can be found, counting each once
	BailoutCell int // start cell after which the bound bailed out; -1 = no bailout
}

// BucketBoggler computes an upper bound on the best score of any concrete
// board in a board class. The bound is min(MaxNomark, SumUnion).
type BucketBoggler struct {
	dict *trie.Trie
	dims board.Dims

	class   *board.Class
	used    uint32
	runs    uintptr
	details ScoreDetails
}

// NewBucket returns a bucket boggler for one grid size.
func NewBucket(dict *trie.Trie, dims board.Dims) *BucketBoggler {
	return &BucketBoggler{dict: dict, dims: dims}
}

// ParseBoard parses a space-delimited board class, replacing any previous
// one.
func (b *BucketBoggler) ParseBoard(s string) error {
	class, err := b.dims.ParseClass(s)
	if err != nil {
		return err
	}
	b.class = class
	return nil
}

// Class returns the current board class.
func (b *BucketBoggler) Class() *board.Class { return b.class }

// NumReps returns the number of concrete boards in the current class.
func (b *BucketBoggler) NumReps() uint64 { return b.class.NumReps() }

// String renders the current class.
func (b *BucketBoggler) String() string { return b.class.String() }

// Details returns the bound details from the last UpperBound call.
func (b *BucketBoggler) Details() ScoreDetails { return b.details }

// UpperBound returns a score >= the best possible board in the class.
// Once both bound flavors exceed bailout, remaining start cells are
// skipped and the result is only guaranteed to be >= bailout.
func (b *BucketBoggler) UpperBound(bailout int) int {
	b.details = ScoreDetails{BailoutCell: -1}
	b.used = 0
	root := b.dict.Root()
	b.runs = root.Mark() + 1
	root.SetMark(b.runs)

	for i := 0; i < b.dims.Cells(); i++ {
		maxScore := b.doAllDescents(i, 0, root)
		b.details.MaxNomark += maxScore
		// "&&" because we care whether we have failed to establish a
		// sufficiently tight bound on every flavor.
		if b.details.MaxNomark > bailout && b.details.SumUnion > bailout {
			b.details.BailoutCell = i
			break
		}
	}
	if b.details.MaxNomark < b.details.SumUnion {
		return b.details.MaxNomark
	}
	return b.details.SumUnion
}

// UpperBoundNoBailout computes the full bound.
func (b *BucketBoggler) UpperBoundNoBailout() int {
	return b.UpperBound(math.MaxInt32)
}

func (b *BucketBoggler) doAllDescents(idx, length int, t *trie.Node) int {
	maxScore := 0
	cell := b.class.Cells[idx]
	for j := 0; j < len(cell); j++ {
		cc := int(cell[j] - 'a')
		if !t.StartsWord(cc) {
			continue
		}
		step := 1
		if cc == trie.Q {
			step = 2
		}
		if tscore := b.doDFS(idx, length+step, t.Descend(cc)); tscore > maxScore {
			maxScore = tscore
		}
	}
	return maxScore
}

func (b *BucketBoggler) doDFS(i, length int, t *trie.Node) int {
	score := 0
	b.used ^= 1 << i

	for _, idx := range b.dims.Neighbors(i) {
		if b.used&(1<<idx) == 0 {
			score += b.doAllDescents(idx, length, t)
		}
	}

	if t.IsWord() {
		wordScore := WordScore(length)
		score += wordScore
		if t.Mark() != b.runs {
			b.details.SumUnion += wordScore
			t.SetMark(b.runs)
		}
	}

	b.used ^= 1 << i
	return score
}
