package board

import (
	"sort"

	"github.com/pkg/errors"
)

// Symmetry canonicalizes board strings under the board's symmetry group:
// Klein-4 (flips) for rectangular boards, dihedral D4 for square ones.
type Symmetry struct {
	d Dims
}

// NewSymmetry returns the symmetry group for a grid size.
func NewSymmetry(d Dims) Symmetry { return Symmetry{d} }

// FlipX mirrors the board left-right.
func (s Symmetry) FlipX(bd string) string {
	out := make([]byte, len(bd))
	for r := 0; r < s.d.M; r++ {
		for c := 0; c < s.d.N; c++ {
			out[r*s.d.N+c] = bd[r*s.d.N+(s.d.N-1-c)]
		}
	}
	return string(out)
}

// FlipY mirrors the board top-bottom.
func (s Symmetry) FlipY(bd string) string {
	out := make([]byte, len(bd))
	for r := 0; r < s.d.M; r++ {
		for c := 0; c < s.d.N; c++ {
			out[r*s.d.N+c] = bd[(s.d.M-1-r)*s.d.N+c]
		}
	}
	return string(out)
}

// Rotate90CW rotates the board clockwise. Square boards only.
func (s Symmetry) Rotate90CW(bd string) string {
	if s.d.M != s.d.N {
		return ""
	}
	n := s.d.N
	out := make([]byte, len(bd))
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out[c*n+(n-1-r)] = bd[r*n+c]
		}
	}
	return string(out)
}

// AllSymmetries returns every distinct non-identity image of bd under the
// group.
func (s Symmetry) AllSymmetries(bd string) ([]string, error) {
	if len(bd) != s.d.Cells() {
		return nil, errors.Errorf("board must have %d cells, got %d", s.d.Cells(), len(bd))
	}
	var out []string
	add := func(img string) {
		if img == bd {
			return
		}
		for _, seen := range out {
			if seen == img {
				return
			}
		}
		out = append(out, img)
	}

	img := s.FlipX(bd)
	add(img)
	img = s.FlipY(img)
	add(img)
	img = s.FlipX(img)
	add(img)

	if s.d.M == s.d.N {
		img = s.Rotate90CW(bd)
		add(img)
		add(s.FlipX(img))
		img = s.FlipY(img)
		add(img)
		add(s.FlipX(img))
	}
	return out, nil
}

// Canonicalize returns the lexicographically smallest image of bd under
// the group. It is idempotent and constant on group orbits.
func (s Symmetry) Canonicalize(bd string) (string, error) {
	images, err := s.AllSymmetries(bd)
	if err != nil {
		return "", err
	}
	images = append(images, bd)
	sort.Strings(images)
	return images[0], nil
}
