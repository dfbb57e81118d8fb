package eval

import "math/bits"

// The bound tree alternates between two node kinds. A SumNode's children
// are always ChoiceNodes and vice versa; encoding the children with
// concrete types makes the alternation a compile-time property.
//
// Node is the kind-erased view used where a subtree may be either kind,
// such as the breaker's force-cell recursion.
type Node interface {
	// Bound is the cached upper bound of this subtree.
	Bound() int
	// ChoiceMask has bit c set iff some ChoiceNode below (or at) this node
	// decides cell c and that cell has more than one candidate letter.
	ChoiceMask() uint32
	// NodeCount returns the number of nodes in the subtree.
	NodeCount() int
	// RecomputeScore re-derives the bound from scratch, ignoring caches.
	RecomputeScore() int
	// ScoreWithForces evaluates the subtree with some cells pinned to a
	// letter index (forces[cell] = -1 leaves a cell free). With every cell
	// forced, the result is the concrete board's multiboggle score.
	ScoreWithForces(forces []int) int
	// ForceCell pins one cell. It returns either the node itself (the cell
	// is not decided anywhere below: single != nil) or one subtree per
	// letter, aligned by letter index, with nil for letters that
	// contribute nothing.
	ForceCell(cell, numLets int, a *Arena) (single Node, byLetter []Node)
}

// SumNode accumulates score: its subtree contributes its own points plus
// the sum of its children's contributions.
type SumNode struct {
	points     int
	bound      int
	choiceMask uint32
	children   []*ChoiceNode
}

// ChoiceNode pins one cell to a letter: its subtree contributes the
// maximum over its children, one per candidate letter, sorted ascending by
// letter index. childLetters has bit i set iff a child exists for letter
// index i.
type ChoiceNode struct {
	cell         uint8
	childLetters uint32
	bound        int
	choiceMask   uint32
	children     []*SumNode
}

func (n *SumNode) Bound() int              { return n.bound }
func (n *SumNode) Points() int             { return n.points }
func (n *SumNode) ChoiceMask() uint32      { return n.choiceMask }
func (n *SumNode) NumChildren() int        { return len(n.children) }
func (n *SumNode) Child(i int) *ChoiceNode { return n.children[i] }

func (c *ChoiceNode) Bound() int            { return c.bound }
func (c *ChoiceNode) Cell() int             { return int(c.cell) }
func (c *ChoiceNode) ChildLetters() uint32  { return c.childLetters }
func (c *ChoiceNode) ChoiceMask() uint32    { return c.choiceMask }
func (c *ChoiceNode) NumChildren() int      { return len(c.children) }
func (c *ChoiceNode) Child(i int) *SumNode  { return c.children[i] }

// Letter returns the letter index of the i-th child.
func (c *ChoiceNode) Letter(i int) int {
	mask := c.childLetters
	for ; i > 0; i-- {
		mask &= mask - 1
	}
	return bits.TrailingZeros32(mask)
}

// childForLetter returns the child for a letter index, or nil.
func (c *ChoiceNode) childForLetter(letter int) *SumNode {
	if c.childLetters&(1<<letter) == 0 {
		return nil
	}
	return c.children[bits.OnesCount32(c.childLetters&(1<<letter-1))]
}

func (n *SumNode) NodeCount() int {
	count := 1
	for _, c := range n.children {
		if c != nil {
			count += c.NodeCount()
		}
	}
	return count
}

func (c *ChoiceNode) NodeCount() int {
	count := 1
	for _, s := range c.children {
		if s != nil {
			count += s.NodeCount()
		}
	}
	return count
}

func (n *SumNode) RecomputeScore() int {
	score := n.points
	for _, c := range n.children {
		if c != nil {
			score += c.RecomputeScore()
		}
	}
	return score
}

func (c *ChoiceNode) RecomputeScore() int {
	maxScore := 0
	for _, s := range c.children {
		if s != nil {
			if v := s.RecomputeScore(); v > maxScore {
				maxScore = v
			}
		}
	}
	return maxScore
}

func forceMask(forces []int) uint32 {
	var m uint32
	for i, f := range forces {
		if f >= 0 {
			m |= 1 << i
		}
	}
	return m
}

func (n *SumNode) ScoreWithForces(forces []int) int {
	return n.scoreForces(forces, forceMask(forces))
}

func (c *ChoiceNode) ScoreWithForces(forces []int) int {
	return c.scoreForces(forces, forceMask(forces))
}

func (n *SumNode) scoreForces(forces []int, fm uint32) int {
	if n.choiceMask&fm == 0 {
		// No forced choice below; the cached bound is exact here.
		return n.bound
	}
	score := n.points
	for _, c := range n.children {
		if c != nil {
			score += c.scoreForces(forces, fm)
		}
	}
	return score
}

func (c *ChoiceNode) scoreForces(forces []int, fm uint32) int {
	if force := forces[c.cell]; force >= 0 {
		child := c.childForLetter(force)
		if child == nil {
			return 0
		}
		return child.scoreForces(forces, fm)
	}
	if c.choiceMask&fm == 0 {
		return c.bound
	}
	maxScore := 0
	for _, s := range c.children {
		if s != nil {
			if v := s.scoreForces(forces, fm); v > maxScore {
				maxScore = v
			}
		}
	}
	return maxScore
}

// ForceCell on a SumNode distributes the force over its children. A child
// ChoiceNode that decides the forced cell collapses: its chosen subtree's
// points and children are merged into the per-letter result, so the result
// is again a SumNode for every letter.
func (n *SumNode) ForceCell(cell, numLets int, a *Arena) (Node, []Node) {
	if n.choiceMask&(1<<cell) == 0 {
		return n, nil
	}
	aligned := alignChildForces(n.children, cell, numLets, a)

	out := make([]Node, numLets)
	for letter := 0; letter < numLets; letter++ {
		points := n.points
		var kids []*ChoiceNode
		for _, al := range aligned {
			switch sub := al[letter].(type) {
			case nil:
			case *ChoiceNode:
				kids = append(kids, sub)
			case *SumNode:
				// The forced choice resolved to this subtree; splice it in.
				points += sub.points
				kids = append(kids, sub.children...)
			}
		}
		bound := points
		var mask uint32
		for _, k := range kids {
			bound += k.bound
			mask |= k.choiceMask
		}
		if bound == 0 {
			continue
		}
		if len(kids) == 0 && points >= 1 && points <= numInterned {
			out[letter] = a.Canonical(points)
			continue
		}
		nn := a.NewSumNode(len(kids))
		nn.points = points
		nn.bound = bound
		nn.choiceMask = mask
		copy(nn.children, kids)
		out[letter] = nn
	}
	return nil, out
}

// ForceCell on a ChoiceNode that decides the forced cell returns its
// children aligned by letter; on any other ChoiceNode it rebuilds one
// ChoiceNode per letter from its forced children.
func (c *ChoiceNode) ForceCell(cell, numLets int, a *Arena) (Node, []Node) {
	if int(c.cell) == cell {
		out := make([]Node, numLets)
		for letter := 0; letter < numLets; letter++ {
			if child := c.childForLetter(letter); child != nil {
				out[letter] = child
			}
		}
		return nil, out
	}
	if c.choiceMask&(1<<cell) == 0 {
		return c, nil
	}

	aligned := alignChildForces(c.children, cell, numLets, a)
	letters := make([]int, len(c.children))
	for i := range c.children {
		letters[i] = c.Letter(i)
	}

	out := make([]Node, numLets)
	for letter := 0; letter < numLets; letter++ {
		var kids []*SumNode
		var kidLetters uint32
		for i, al := range aligned {
			sub, _ := al[letter].(*SumNode)
			if sub == nil {
				continue
			}
			kids = append(kids, sub)
			kidLetters |= 1 << letters[i]
		}
		if len(kids) == 0 {
			continue
		}
		bound := 0
		mask := c.choiceMask & (1 << c.cell)
		for _, k := range kids {
			if k.bound > bound {
				bound = k.bound
			}
			mask |= k.choiceMask
		}
		nn := a.NewChoiceNode(len(kids))
		nn.cell = c.cell
		nn.childLetters = kidLetters
		nn.bound = bound
		nn.choiceMask = mask
		copy(nn.children, kids)
		out[letter] = nn
	}
	return nil, out
}

// alignChildForces forces every child and aligns the results per letter.
// Children that bottom out are replicated across all letters; the shared
// node is never mutated afterwards, so the resulting DAG is safe.
func alignChildForces[T Node](children []T, cell, numLets int, a *Arena) [][]Node {
	aligned := make([][]Node, len(children))
	for i, child := range children {
		single, byLetter := child.ForceCell(cell, numLets, a)
		if single != nil {
			byLetter = make([]Node, numLets)
			for j := range byLetter {
				byLetter[j] = single
			}
		}
		aligned[i] = byLetter
	}
	return aligned
}
