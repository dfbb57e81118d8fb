package eval

import (
	"math/bits"

	"github.com/pkg/errors"

	"boggle/boggler"
)

// Failure is a board whose bound stayed above the cutoff.
type Failure struct {
	Bound int
	Board string
}

// OrderlyOptions configures an OrderlyBound walk.
type OrderlyOptions struct {
	// Cutoff is the score to beat; boards bounded above it are emitted.
	Cutoff int
	// Preset pins (cell, letter index) pairs before the walk. Preset cells
	// must not appear in the split order passed to OrderlyBound, and the
	// tree must already have been forced on them.
	Preset [][2]int
	// Scorer materializes forced cells for masked rescoring. Required when
	// UseMaskedScore is set.
	Scorer *boggler.Scorer
	// UseMaskedScore recomputes the forced cells' contribution with a
	// masked single-board scoring run, which tightens the bound when the
	// forced cells repeat letters.
	UseMaskedScore bool
}

// choiceIter walks one live ChoiceNode's children in ascending letter
// order, in lockstep with the letters being tried.
type choiceIter struct {
	children []*SumNode
	letters  uint32
}

// OrderlyBound walks the bound tree along splitOrder, forcing one cell at
// a time and keeping per-cell running sums, and returns every concrete
// board whose bound exceeds the cutoff. For each board in the class,
// either it is emitted with bound >= its multiboggle score, or an ancestor
// bound already proved it cannot beat the cutoff.
func OrderlyBound(root *SumNode, cells []string, splitOrder []int, opts OrderlyOptions) []Failure {
	if opts.UseMaskedScore && opts.Scorer == nil {
		panic(errors.New("eval: masked rescoring requires a scorer"))
	}
	numCells := len(cells)
	stacks := make([][]*ChoiceNode, numCells)
	stackSums := make([]int, numCells)
	choices := make([][2]int, 0, numCells)
	var failures []Failure

	var okMask uint32
	for _, pc := range opts.Preset {
		okMask |= 1 << pc[0]
		if opts.Scorer != nil {
			opts.Scorer.SetCell(pc[0], int(cells[pc[0]][pc[1]]-'a'))
		}
	}

	advance := func(n *SumNode) int {
		for _, c := range n.children {
			stacks[c.cell] = append(stacks[c.cell], c)
			stackSums[c.cell] += c.bound
		}
		return n.points
	}

	recordFailure := func(bound int) {
		bd := make([]byte, numCells)
		for i := range bd {
			bd[i] = '.'
		}
		for _, pc := range opts.Preset {
			bd[pc[0]] = cells[pc[0]][pc[1]]
		}
		for _, ch := range choices {
			bd[ch[0]] = cells[ch[0]][ch[1]]
		}
		failures = append(failures, Failure{Bound: bound, Board: string(bd)})
	}

	var rec func(basePoints, numSplits int)
	rec = func(basePoints, numSplits int) {
		// basePoints is the contribution of words that use only preset and
		// previously split cells.
		if opts.UseMaskedScore {
			basePoints = opts.Scorer.ScoreWithMask(okMask)
		}
		bound := basePoints
		for i := numSplits; i < len(splitOrder); i++ {
			bound += stackSums[splitOrder[i]]
		}
		if bound <= opts.Cutoff {
			return
		}
		if numSplits == len(splitOrder) {
			recordFailure(bound)
			return
		}

		next := splitOrder[numSplits]
		if len(cells[next]) == 0 {
			// Forbidden cell: no words pass through it, nothing to choose.
			rec(basePoints, numSplits+1)
			return
		}
		stackTop := make([]int, numCells)
		for i := range stacks {
			stackTop[i] = len(stacks[i])
		}
		baseSums := make([]int, numCells)
		copy(baseSums, stackSums)

		its := make([]choiceIter, 0, len(stacks[next]))
		for _, n := range stacks[next] {
			if int(n.cell) != next {
				panic(errors.Errorf("eval: choice node for cell %d on stack %d", n.cell, next))
			}
			if bits.OnesCount32(n.childLetters) != len(n.children) {
				panic(errors.New("eval: choice node letter mask out of sync with children"))
			}
			its = append(its, choiceIter{children: n.children, letters: n.childLetters})
		}

		for letter := 0; letter < len(cells[next]); letter++ {
			if letter > 0 {
				copy(stackSums, baseSums)
				for i := range stacks {
					stacks[i] = stacks[i][:stackTop[i]]
				}
			}
			if opts.Scorer != nil {
				opts.Scorer.SetCell(next, int(cells[next][letter]-'a'))
			}
			okMask |= 1 << next
			choices = append(choices, [2]int{next, letter})

			points := basePoints
			for k := range its {
				it := &its[k]
				if it.letters != 0 && bits.TrailingZeros32(it.letters) == letter {
					points += advance(it.children[0])
					it.children = it.children[1:]
					it.letters &= it.letters - 1
				}
			}
			rec(points, numSplits+1)

			choices = choices[:len(choices)-1]
			okMask &^= 1 << next
		}
	}

	basePoints := advance(root)
	rec(basePoints, 0)
	return failures
}
