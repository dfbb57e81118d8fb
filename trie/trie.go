// Package trie implements the 26-ary prefix tree shared by all the scorers.
//
// Words are stored over the alphabet a..z with the digraph "qu" collapsed to
// a single 'q'; scorers re-expand it when computing word lengths. Each
// terminal node carries a dense word id and a mark used to count a word at
// most once per scoring run.
package trie

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// NumLetters is the size of the alphabet.
const NumLetters = 26

// Q is the letter index of 'q', which scores as "qu" (length two).
const Q = 'q' - 'a'

// Node is a single trie node. The zero value is an empty non-terminal node.
type Node struct {
	children  [NumLetters]*Node
	childMask uint32
	mark      uintptr
	wordID    uint32
	isWord    bool
}

// StartsWord reports whether some word continues with letter index i.
func (n *Node) StartsWord(i int) bool { return n.children[i] != nil }

// Descend returns the child for letter index i, or nil.
func (n *Node) Descend(i int) *Node { return n.children[i] }

// IsWord reports whether this node terminates a word.
func (n *Node) IsWord() bool { return n.isWord }

// WordID returns the dense id assigned when the word was inserted.
// Only meaningful on terminal nodes.
func (n *Node) WordID() uint32 { return n.wordID }

// ChildMask returns a bitmap with bit i set iff a child exists for letter i.
func (n *Node) ChildMask() uint32 { return n.childMask }

// Mark returns the node's mark. Scorers store a run generation here.
func (n *Node) Mark() uintptr { return n.mark }

// SetMark stamps the node with a run generation.
func (n *Node) SetMark(m uintptr) { n.mark = m }

// Trie owns the root node and assigns dense word ids at insertion.
type Trie struct {
	root      *Node
	terminals []*Node // word id -> terminal node
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{root: &Node{}}
}

// Root returns the root node, which is never a terminal. The root's mark
// doubles as the high-water run generation for scorers.
func (t *Trie) Root() *Node { return t.root }

// AddWord inserts w and returns its terminal node. Words must be lowercase
// a..z; "qu" must already be collapsed to "q" (see BogglifyWord). Inserting
// a word twice returns the same node and keeps its original id.
func (t *Trie) AddWord(w string) (*Node, error) {
	if len(w) == 0 {
		return nil, errors.New("empty word")
	}
	n := t.root
	for i := 0; i < len(w); i++ {
		c := w[i]
		if c < 'a' || c > 'z' {
			return nil, errors.Errorf("invalid letter %q in word %q", c, w)
		}
		ci := int(c - 'a')
		if n.children[ci] == nil {
			n.children[ci] = &Node{}
			n.childMask |= 1 << ci
		}
		n = n.children[ci]
	}
	if !n.isWord {
		n.isWord = true
		n.wordID = uint32(len(t.terminals))
		t.terminals = append(t.terminals, n)
	}
	return n, nil
}

// FindWord walks w and returns its terminal node, or nil if w is not a word.
func (t *Trie) FindWord(w string) *Node {
	n := t.root
	for i := 0; i < len(w); i++ {
		c := w[i]
		if c < 'a' || c > 'z' {
			return nil
		}
		n = n.children[c-'a']
		if n == nil {
			return nil
		}
	}
	if !n.isWord {
		return nil
	}
	return n
}

// FindWordID returns the terminal node for a word id, or nil.
func (t *Trie) FindWordID(id uint32) *Node {
	if int(id) >= len(t.terminals) {
		return nil
	}
	return t.terminals[id]
}

// Size returns the number of words in the trie.
func (t *Trie) Size() int { return len(t.terminals) }

// NumNodes returns the total node count, including the root.
func (t *Trie) NumNodes() int { return numNodes(t.root) }

func numNodes(n *Node) int {
	count := 1
	for i := 0; i < NumLetters; i++ {
		if n.children[i] != nil {
			count += numNodes(n.children[i])
		}
	}
	return count
}

// SetAllMarks stamps every terminal node (and the root) with m. Used to
// reset the run generation before it can overflow.
func (t *Trie) SetAllMarks(m uintptr) {
	t.root.mark = m
	setAllMarks(t.root, m)
}

func setAllMarks(n *Node, m uintptr) {
	if n.isWord {
		n.mark = m
	}
	for i := 0; i < NumLetters; i++ {
		if n.children[i] != nil {
			setAllMarks(n.children[i], m)
		}
	}
}

// ReverseLookup reconstructs the word ending at child by searching from
// base. It is slow and intended for debugging output only.
func ReverseLookup(base, child *Node) (string, bool) {
	if base == child {
		return "", true
	}
	for i := 0; i < NumLetters; i++ {
		if base.children[i] == nil {
			continue
		}
		if suffix, ok := ReverseLookup(base.children[i], child); ok {
			return string(rune('a'+i)) + suffix, true
		}
	}
	return "", false
}

// IsBoggleWord reports whether w can appear on a Boggle board: lowercase
// a..z only, with every 'q' followed by a 'u'.
func IsBoggleWord(w string) bool {
	if len(w) == 0 {
		return false
	}
	for i := 0; i < len(w); i++ {
		c := w[i]
		if c < 'a' || c > 'z' {
			return false
		}
		if c == 'q' && (i+1 >= len(w) || w[i+1] != 'u') {
			return false
		}
	}
	return true
}

// BogglifyWord collapses each "qu" to "q". The second return is false if w
// is not a valid Boggle word.
func BogglifyWord(w string) (string, bool) {
	if !IsBoggleWord(w) {
		return "", false
	}
	if !strings.Contains(w, "qu") {
		return w, true
	}
	return strings.ReplaceAll(w, "qu", "q"), true
}

// CreateFromFile loads a dictionary with one lowercase word per line.
// Words that are not valid Boggle words are skipped.
func CreateFromFile(path string) (*Trie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dictionary")
	}
	defer f.Close()

	t := New()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimRight(scanner.Text(), "\r\n")
		if word == "" {
			continue
		}
		bw, ok := BogglifyWord(word)
		if !ok {
			continue
		}
		if _, err := t.AddWord(bw); err != nil {
			return nil, errors.Wrapf(err, "add word %q", word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read dictionary")
	}
	return t, nil
}
