// Package breaker proves that no board in a class beats a target score, or
// finds the boards that might.
//
// A break builds the class's bound tree once, then recursively forces the
// first undecided cell in split order, eliminating every subtree whose
// bound drops to the target or below. Whatever concrete boards survive are
// reported in canonical form.
package breaker

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"boggle/board"
	"boggle/boggler"
	"boggle/eval"
	"boggle/trie"
)

var log = logrus.WithField("prefix", "breaker")

// Options configures a Breaker.
type Options struct {
	// BestScore is the score to beat; subtrees bounded at or below it are
	// eliminated.
	BestScore int
	// UseOrderly breaks with a single orderly-bound walk over the tree
	// instead of the recursive force-cell attack.
	UseOrderly bool
	// UseMaskedScore enables masked rescoring during orderly-bound walks.
	UseMaskedScore bool
}

// Stats summarizes one break.
type Stats struct {
	// ByLevel counts subtree visits per forced-cell depth; ElimLevel
	// counts the visits eliminated at that depth.
	ByLevel   map[int]int
	ElimLevel map[int]int
	// Unbroken lists the canonical boards that could not be ruled out,
	// with the bound they were reported at.
	Unbroken []eval.Failure
	// NumNodes is the size of the bound tree; Elapsed the wall time.
	NumNodes int
	Elapsed  time.Duration
}

// LevelSummary renders the per-level counters in depth order.
func (s *Stats) LevelSummary() []string {
	levels := maps.Keys(s.ByLevel)
	slices.Sort(levels)
	out := make([]string, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, fmt.Sprintf("level %d: %d visited, %d eliminated",
			lvl, s.ByLevel[lvl], s.ElimLevel[lvl]))
	}
	return out
}

// Breaker drives tree building and forced-cell splitting for one grid
// size. It owns its arena and trie marks, so a Breaker must not be shared
// between goroutines.
type Breaker struct {
	builder *eval.TreeBuilder
	scorer  *boggler.Scorer
	sym     board.Symmetry
	arena   *eval.Arena
	dims    board.Dims
	opts    Options

	cells      []string
	splitOrder []int
	stats      *Stats
	seen       map[string]bool
}

// New returns a breaker for one grid size.
func New(dict *trie.Trie, dims board.Dims, opts Options) *Breaker {
	return &Breaker{
		builder: eval.NewTreeBuilder(dict, dims),
		scorer:  boggler.New(dict, dims),
		sym:     board.NewSymmetry(dims),
		arena:   eval.NewArena(),
		dims:    dims,
		opts:    opts,
	}
}

// Break attacks one board class. The arena is rewound afterwards, so the
// returned stats do not reference tree nodes.
func (b *Breaker) Break(class string) (*Stats, error) {
	if err := b.builder.ParseBoard(class); err != nil {
		return nil, err
	}
	b.cells = b.builder.Class().Cells
	b.splitOrder = b.dims.SplitOrder()
	b.stats = &Stats{ByLevel: map[int]int{}, ElimLevel: map[int]int{}}
	b.seen = map[string]bool{}

	level := b.arena.SaveLevel()
	defer b.arena.ResetLevel(level)

	start := time.Now()
	tree := b.builder.BuildTree(b.arena)
	b.stats.NumNodes = tree.NodeCount()
	log.WithFields(logrus.Fields{
		"class": class,
		"bound": tree.Bound(),
		"nodes": humanize.Comma(int64(b.stats.NumNodes)),
		"arena": humanize.Bytes(b.arena.BytesAllocated()),
	}).Debug("built bound tree")

	if b.opts.UseOrderly {
		failures := eval.OrderlyBound(tree, b.cells, b.splitOrder, eval.OrderlyOptions{
			Cutoff:         b.opts.BestScore,
			Scorer:         b.scorer,
			UseMaskedScore: b.opts.UseMaskedScore,
		})
		for _, f := range failures {
			b.report(f.Board, f.Bound)
		}
	} else {
		choices := make([]int, len(b.cells))
		for i := range choices {
			choices[i] = -1
		}
		b.attackTree(tree, 0, choices)
	}

	b.stats.Elapsed = time.Since(start)
	log.WithFields(logrus.Fields{
		"class":    class,
		"unbroken": len(b.stats.Unbroken),
		"elapsed":  b.stats.Elapsed,
	}).Info("break finished")
	return b.stats, nil
}

func (b *Breaker) attackTree(t eval.Node, level int, choices []int) {
	b.stats.ByLevel[level]++
	if t.Bound() <= b.opts.BestScore {
		b.stats.ElimLevel[level]++
		return
	}

	cell := b.pickABucket(t)
	if cell == -1 {
		// No real choice remains; every board consistent with the forced
		// cells scores the same bound and could not be ruled out.
		for _, bd := range b.materialize(choices) {
			b.report(bd, t.Bound())
		}
		return
	}

	single, byLetter := t.ForceCell(cell, len(b.cells[cell]), b.arena)
	if single != nil {
		// The mask promised a choice that was not really there.
		b.attackTree(single, level+1, choices)
		return
	}
	for letter, sub := range byLetter {
		if sub == nil {
			continue
		}
		choices[cell] = letter
		b.attackTree(sub, level+1, choices)
	}
	choices[cell] = -1
}

// pickABucket returns the first cell in split order that the tree still
// treats as a choice, or -1.
func (b *Breaker) pickABucket(t eval.Node) int {
	mask := t.ChoiceMask()
	for _, cell := range b.splitOrder {
		if mask&(1<<cell) != 0 {
			return cell
		}
	}
	return -1
}

// materialize renders the forced choices as board strings. A cell that was
// never forced is irrelevant to the bound, but each of its letters is still
// a distinct concrete board, so free cells expand to every letter.
func (b *Breaker) materialize(choices []int) []string {
	boards := []string{""}
	for i, c := range choices {
		var letters string
		switch {
		case b.cells[i] == "":
			letters = "."
		case c >= 0:
			letters = string(b.cells[i][c])
		default:
			letters = b.cells[i]
		}
		next := make([]string, 0, len(boards)*len(letters))
		for _, prefix := range boards {
			for j := 0; j < len(letters); j++ {
				next = append(next, prefix+string(letters[j]))
			}
		}
		boards = next
	}
	return boards
}

func (b *Breaker) report(bd string, bound int) {
	canon, err := b.sym.Canonicalize(bd)
	if err != nil {
		canon = bd
	}
	if b.seen[canon] {
		return
	}
	b.seen[canon] = true
	b.stats.Unbroken = append(b.stats.Unbroken, eval.Failure{Bound: bound, Board: canon})
}
