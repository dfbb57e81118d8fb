package eval

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boggle/board"
	"boggle/boggler"
	"boggle/trie"
)

// bruteFailures computes the boards of a class whose score (by the given
// scoring function) beats the cutoff.
func bruteFailures(t *testing.T, class *board.Class, cutoff int,
	score func(string) (int, error)) []Failure {
	t.Helper()
	var out []Failure
	for _, bd := range concreteBoards(class) {
		s, err := score(bd)
		require.NoError(t, err)
		if s > cutoff {
			out = append(out, Failure{Bound: s, Board: bd})
		}
	}
	return out
}

func sortFailures(fs []Failure) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].Board < fs[j].Board })
}

func orderlyFixture(t *testing.T) (*trie.Trie, *board.Class) {
	t.Helper()
	dict := dictOf(t, "ace", "aceg", "bdf", "bdfh", "adg", "beh", "ach")
	class, err := board.Dims2x2.ParseClass("ab cd ef gh")
	require.NoError(t, err)
	return dict, class
}

func TestOrderlyBoundFindsEveryFailure(t *testing.T) {
	dict, class := orderlyFixture(t)
	scorer := boggler.New(dict, board.Dims2x2)

	for cutoff := 0; cutoff <= 3; cutoff++ {
		root, _, _ := buildTree(t, dict, board.Dims2x2, class.String())
		got := OrderlyBound(root, class.Cells, board.Dims2x2.SplitOrder(), OrderlyOptions{
			Cutoff: cutoff,
			Scorer: scorer,
		})
		want := bruteFailures(t, class, cutoff, scorer.MultiboggleScore)

		sortFailures(got)
		sortFailures(want)
		require.Equal(t, len(want), len(got), "cutoff %d", cutoff)
		for i := range want {
			assert.Equal(t, want[i].Board, got[i].Board, "cutoff %d", cutoff)
			assert.Equal(t, want[i].Bound, got[i].Bound,
				"cutoff %d: a fully split bound is the multiboggle score", cutoff)
		}
	}
}

func TestOrderlyBoundMaskedRescoring(t *testing.T) {
	// With repeated letters in the bags, masked rescoring tightens the
	// bound down to the plain board score.
	// "acd" on the "aacd" board has two cell sets (either a), so its
	// multiboggle score is 2 while its plain score is 1.
	dict := dictOf(t, "acd", "abc", "cab")
	class, err := board.Dims2x2.ParseClass("ab ab c d")
	require.NoError(t, err)
	scorer := boggler.New(dict, board.Dims2x2)

	for cutoff := 0; cutoff <= 2; cutoff++ {
		root, _, _ := buildTree(t, dict, board.Dims2x2, class.String())
		got := OrderlyBound(root, class.Cells, board.Dims2x2.SplitOrder(), OrderlyOptions{
			Cutoff:         cutoff,
			Scorer:         scorer,
			UseMaskedScore: true,
		})
		want := bruteFailures(t, class, cutoff, scorer.Score)

		sortFailures(got)
		sortFailures(want)
		require.Equal(t, len(want), len(got), "cutoff %d", cutoff)
		for i := range want {
			assert.Equal(t, want[i].Board, got[i].Board, "cutoff %d", cutoff)
			assert.Equal(t, want[i].Bound, got[i].Bound, "cutoff %d", cutoff)
		}
	}
}

func TestOrderlyBoundHighCutoffEliminatesEverything(t *testing.T) {
	dict, class := orderlyFixture(t)
	root, _, _ := buildTree(t, dict, board.Dims2x2, class.String())
	got := OrderlyBound(root, class.Cells, board.Dims2x2.SplitOrder(), OrderlyOptions{
		Cutoff: root.Bound(),
	})
	assert.Empty(t, got)
}

func TestOrderlyBoundPreset(t *testing.T) {
	// Pinning cell 0 to 'b' and splitting the rest must agree with the
	// brute force over boards that start with b.
	dict, class := orderlyFixture(t)
	scorer := boggler.New(dict, board.Dims2x2)

	tb := NewTreeBuilder(dict, board.Dims2x2)
	require.NoError(t, tb.ParseBoard(class.String()))
	a := NewArena()
	root := tb.BuildTree(a)

	_, byLetter := root.ForceCell(0, 2, a)
	require.Len(t, byLetter, 2)
	forced, ok := byLetter[1].(*SumNode)
	require.True(t, ok, "forcing a sum node yields sum nodes")

	got := OrderlyBound(forced, class.Cells, []int{1, 2, 3}, OrderlyOptions{
		Cutoff: 0,
		Preset: [][2]int{{0, 1}},
		Scorer: scorer,
	})
	var want []Failure
	for _, f := range bruteFailures(t, class, 0, scorer.MultiboggleScore) {
		if f.Board[0] == 'b' {
			want = append(want, f)
		}
	}
	sortFailures(got)
	sortFailures(want)
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].Board, got[i].Board)
		assert.Equal(t, want[i].Bound, got[i].Bound)
	}
}

func TestOrderlyBoundForbiddenCell(t *testing.T) {
	dict := dictOf(t, "abc")
	class, err := board.Dims2x2.ParseClass("ab b c .")
	require.NoError(t, err)
	root, _, _ := buildTree(t, dict, board.Dims2x2, class.String())

	got := OrderlyBound(root, class.Cells, board.Dims2x2.SplitOrder(), OrderlyOptions{
		Cutoff: 0,
		Scorer: boggler.New(dict, board.Dims2x2),
	})
	require.Len(t, got, 1)
	assert.Equal(t, Failure{Bound: 1, Board: "abc."}, got[0])
}

func TestOrderlyBoundMaskedRequiresScorer(t *testing.T) {
	dict, class := orderlyFixture(t)
	root, _, _ := buildTree(t, dict, board.Dims2x2, class.String())
	assert.Panics(t, func() {
		OrderlyBound(root, class.Cells, board.Dims2x2.SplitOrder(), OrderlyOptions{
			UseMaskedScore: true,
		})
	})
}
