package breaker

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boggle/board"
	"boggle/boggler"
	"boggle/trie"
)

func dictOf(t *testing.T, words ...string) *trie.Trie {
	t.Helper()
	tr := trie.New()
	for _, w := range words {
		bw, ok := trie.BogglifyWord(w)
		require.True(t, ok, "bad test word %q", w)
		_, err := tr.AddWord(bw)
		require.NoError(t, err)
	}
	return tr
}

func concreteBoards(c *board.Class) []string {
	boards := []string{""}
	for _, cell := range c.Cells {
		letters := cell
		if letters == "" {
			letters = "."
		}
		var next []string
		for _, prefix := range boards {
			for i := 0; i < len(letters); i++ {
				next = append(next, prefix+string(letters[i]))
			}
		}
		boards = next
	}
	return boards
}

// expectedUnbroken returns the canonical forms of the class's boards whose
// multiboggle score beats best.
func expectedUnbroken(t *testing.T, dict *trie.Trie, class *board.Class, best int) []string {
	t.Helper()
	scorer := boggler.New(dict, class.Dims)
	sym := board.NewSymmetry(class.Dims)
	seen := map[string]bool{}
	out := []string{}
	for _, bd := range concreteBoards(class) {
		multi, err := scorer.MultiboggleScore(bd)
		require.NoError(t, err)
		if multi <= best {
			continue
		}
		canon, err := sym.Canonicalize(bd)
		require.NoError(t, err)
		if !seen[canon] {
			seen[canon] = true
			out = append(out, canon)
		}
	}
	sort.Strings(out)
	return out
}

func unbrokenBoards(stats *Stats) []string {
	out := make([]string, 0, len(stats.Unbroken))
	for _, f := range stats.Unbroken {
		out = append(out, f.Board)
	}
	sort.Strings(out)
	return out
}

func TestBreakFindsSurvivors(t *testing.T) {
	dict := dictOf(t, "ace", "aceg", "bdf", "bdfh", "adg", "beh")
	class, err := board.Dims2x2.ParseClass("ab cd ef gh")
	require.NoError(t, err)

	for best := 0; best <= 2; best++ {
		br := New(dict, board.Dims2x2, Options{BestScore: best})
		stats, err := br.Break(class.String())
		require.NoError(t, err)
		assert.Equal(t, expectedUnbroken(t, dict, class, best), unbrokenBoards(stats),
			"best %d", best)
		assert.Positive(t, stats.ByLevel[0])
		assert.Positive(t, stats.NumNodes)
	}
}

func TestBreakEliminatesEverything(t *testing.T) {
	dict := dictOf(t, "ace", "bdf")
	br := New(dict, board.Dims2x2, Options{BestScore: 100})
	stats, err := br.Break("ab cd ef gh")
	require.NoError(t, err)
	assert.Empty(t, stats.Unbroken)
	assert.Equal(t, 1, stats.ByLevel[0])
	assert.Equal(t, 1, stats.ElimLevel[0], "the root bound already settles it")
}

func TestBreakOrderlyAgreesWithAttack(t *testing.T) {
	dict := dictOf(t, "ace", "aceg", "bdf", "bdfh", "adg", "beh", "ach")
	class := "ab cd ef gh"

	for best := 0; best <= 2; best++ {
		attack := New(dict, board.Dims2x2, Options{BestScore: best})
		attackStats, err := attack.Break(class)
		require.NoError(t, err)

		orderly := New(dict, board.Dims2x2, Options{BestScore: best, UseOrderly: true})
		orderlyStats, err := orderly.Break(class)
		require.NoError(t, err)

		assert.Equal(t, unbrokenBoards(attackStats), unbrokenBoards(orderlyStats),
			"best %d", best)
	}
}

func TestBreakDedupsSymmetricBoards(t *testing.T) {
	// "abaa" and "baaa" are reflections of each other, so the three
	// surviving boards report as two canonical ones.
	dict := dictOf(t, "aba")
	class, err := board.Dims2x2.ParseClass("ab ab a a")
	require.NoError(t, err)

	br := New(dict, board.Dims2x2, Options{BestScore: 0})
	stats, err := br.Break(class.String())
	require.NoError(t, err)
	assert.Equal(t, expectedUnbroken(t, dict, class, 0), unbrokenBoards(stats))
	assert.Len(t, stats.Unbroken, 2)
}

func TestBreakArenaIsReusedAcrossClasses(t *testing.T) {
	dict := dictOf(t, "ace", "bdf")
	br := New(dict, board.Dims2x2, Options{BestScore: 0})

	first, err := br.Break("ab cd ef gh")
	require.NoError(t, err)
	second, err := br.Break("ab cd ef gh")
	require.NoError(t, err)
	assert.Equal(t, unbrokenBoards(first), unbrokenBoards(second))
	assert.Equal(t, first.NumNodes, second.NumNodes)
}

func TestBreakRejectsBadClass(t *testing.T) {
	br := New(dictOf(t, "abc"), board.Dims2x2, Options{})
	_, err := br.Break("a b c")
	assert.Error(t, err)
}

func TestStatsLevelSummary(t *testing.T) {
	s := &Stats{
		ByLevel:   map[int]int{0: 1, 1: 2},
		ElimLevel: map[int]int{1: 2},
	}
	assert.Equal(t, []string{
		"level 0: 1 visited, 0 eliminated",
		"level 1: 2 visited, 2 eliminated",
	}, s.LevelSummary())
}
