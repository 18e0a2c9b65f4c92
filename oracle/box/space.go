// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package box

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/dalzilio/quast/oracle"
)

// MaxPoints is the largest number of points allowed in a box. Every set of a
// space is stored as a bitset with one bit per point.
const MaxPoints = 1 << 22

// Space is a bounded coordinate system: every parameter and set dimension
// ranges over the interval [Lo, Hi]. Coordinates are ordered with the
// parameters first.
type Space struct {
	params []string
	dims   []string
	lo, hi int
	width  int // hi - lo + 1
	size   int // number of points in the box
}

// NewSpace returns a space without parameters with the given set dimensions.
func NewSpace(lo, hi int, dims ...string) (*Space, error) {
	return NewParamSpace(lo, hi, nil, dims)
}

// NewParamSpace returns a space with parameters and set dimensions.
func NewParamSpace(lo, hi int, params, dims []string) (*Space, error) {
	if hi < lo {
		return nil, errors.Errorf("empty bounds [%d, %d]", lo, hi)
	}
	sp := &Space{
		params: append([]string(nil), params...),
		dims:   append([]string(nil), dims...),
		lo:     lo,
		hi:     hi,
		width:  hi - lo + 1,
	}
	size, err := boxsize(sp.width, len(sp.params)+len(sp.dims))
	if err != nil {
		return nil, err
	}
	sp.size = size
	return sp, nil
}

// MustSpace is like NewSpace but panics on error. It simplifies the
// construction of spaces in tests and examples.
func MustSpace(lo, hi int, dims ...string) *Space {
	sp, err := NewSpace(lo, hi, dims...)
	if err != nil {
		panic(err)
	}
	return sp
}

func boxsize(width, ncoords int) (int, error) {
	size := 1
	for k := 0; k < ncoords; k++ {
		size *= width
		if size > MaxPoints {
			return 0, errors.Errorf("box too large: %d^%d points exceed %d", width, ncoords, MaxPoints)
		}
	}
	return size, nil
}

// Equal reports whether o is a box space with the same bounds and the same
// parameter and dimension names.
func (sp *Space) Equal(o oracle.Space) bool {
	other, ok := o.(*Space)
	if !ok || other == nil {
		return false
	}
	if sp == other {
		return true
	}
	if sp.lo != other.lo || sp.hi != other.hi {
		return false
	}
	return equalNames(sp.params, other.params) && equalNames(sp.dims, other.dims)
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}

// Dim returns the number of set dimensions.
func (sp *Space) Dim() int { return len(sp.dims) }

// Params returns the number of parameters.
func (sp *Space) Params() int { return len(sp.params) }

// Bounds returns the interval of every coordinate.
func (sp *Space) Bounds() (lo, hi int) { return sp.lo, sp.hi }

// Size returns the number of points in the box.
func (sp *Space) Size() int { return sp.size }

func (sp *Space) ncoords() int { return len(sp.params) + len(sp.dims) }

// names returns the names of all the coordinates, parameters first.
func (sp *Space) names() []string {
	res := make([]string, 0, sp.ncoords())
	res = append(res, sp.params...)
	return append(res, sp.dims...)
}

func (sp *Space) String() string {
	var b strings.Builder
	if len(sp.params) > 0 {
		fmt.Fprintf(&b, "[%s] -> ", strings.Join(sp.params, ", "))
	}
	fmt.Fprintf(&b, "{ [%s] : %d <= * <= %d }", strings.Join(sp.dims, ", "), sp.lo, sp.hi)
	return b.String()
}

// index returns the position of point pt (one value per coordinate) in the
// bitsets of sp. The first coordinate varies fastest.
func (sp *Space) index(pt []int) int {
	idx := 0
	for k := len(pt) - 1; k >= 0; k-- {
		idx = idx*sp.width + (pt[k] - sp.lo)
	}
	return idx
}

// inside reports whether every value of pt lies within the bounds of sp.
func (sp *Space) inside(pt []int) bool {
	for _, v := range pt {
		if v < sp.lo || v > sp.hi {
			return false
		}
	}
	return true
}

// each enumerates all the points of the box in index order. The slice passed
// to f is reused between calls.
func (sp *Space) each(f func(idx int, pt []int)) {
	pt := make([]int, sp.ncoords())
	for k := range pt {
		pt[k] = sp.lo
	}
	for idx := 0; idx < sp.size; idx++ {
		f(idx, pt)
		for k := range pt {
			if pt[k] < sp.hi {
				pt[k]++
				break
			}
			pt[k] = sp.lo
		}
	}
}

// point decodes an index into a freshly allocated point.
func (sp *Space) point(idx int) []int {
	pt := make([]int, sp.ncoords())
	for k := range pt {
		pt[k] = idx%sp.width + sp.lo
		idx /= sp.width
	}
	return pt
}

// compatible reports whether sets of sp and o can be mixed by Embed and
// Product: same bounds and same parameters.
func (sp *Space) compatible(o *Space) bool {
	return sp.lo == o.lo && sp.hi == o.hi && equalNames(sp.params, o.params)
}

// freshNames returns n dimension names x<i> that do not clash with names.
func freshNames(names []string, n int) []string {
	used := make(map[string]bool, len(names))
	for _, v := range names {
		used[v] = true
	}
	res := make([]string, 0, n)
	for k := 0; len(res) < n; k++ {
		name := fmt.Sprintf("x%d", k)
		if !used[name] {
			res = append(res, name)
			used[name] = true
		}
	}
	return res
}
