package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalNodes(t *testing.T) {
	a := NewArena()
	for points := 1; points <= numInterned; points++ {
		n := a.Canonical(points)
		require.NotNil(t, n)
		assert.Equal(t, points, n.Points())
		assert.Equal(t, points, n.Bound())
		assert.Equal(t, 0, n.NumChildren())
		// Interned: the same instance every time.
		assert.Same(t, n, a.Canonical(points))
	}
	assert.Panics(t, func() { a.Canonical(0) })
	assert.Panics(t, func() { a.Canonical(numInterned + 1) })
}

func TestArenaNodeCounting(t *testing.T) {
	a := NewArena()
	base := a.NumNodes()
	a.NewSumNode(2)
	a.NewChoiceNode(3)
	assert.Equal(t, base+2, a.NumNodes())
	assert.Greater(t, a.BytesAllocated(), uint64(0))
}

func TestArenaPointerStability(t *testing.T) {
	a := NewArena()
	nodes := make([]*SumNode, 0, 10000)
	for i := 0; i < 10000; i++ {
		n := a.NewSumNode(0)
		n.points = i
		nodes = append(nodes, n)
	}
	for i, n := range nodes {
		assert.Equal(t, i, n.points)
	}
}

func TestArenaWatermark(t *testing.T) {
	a := NewArena()
	w := a.SaveLevel()
	before := a.NumNodes()

	n := a.NewSumNode(1)
	n.points = 42
	a.NewChoiceNode(2)
	assert.Equal(t, before+2, a.NumNodes())

	a.ResetLevel(w)
	assert.Equal(t, before, a.NumNodes())

	// Canonical nodes are created before any watermark and survive.
	assert.Equal(t, 7, a.Canonical(7).Points())

	// Reused memory comes back zeroed.
	n2 := a.NewSumNode(1)
	assert.Equal(t, 0, n2.points)
	assert.Equal(t, 0, n2.bound)
}

func TestArenaChildArraysAreExactLength(t *testing.T) {
	a := NewArena()
	n := a.NewSumNode(4)
	assert.Len(t, n.children, 4)
	c := a.NewChoiceNode(2)
	assert.Len(t, c.children, 2)
	z := a.NewSumNode(0)
	assert.Nil(t, z.children)
}
