// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package box

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/dalzilio/quast/oracle"
)

// Oracle is an exact linear-arithmetic engine for sets living in a bounded
// box. It is stateless and safe for concurrent use.
type Oracle struct{}

// New returns a box oracle.
func New() *Oracle { return &Oracle{} }

var _ oracle.Oracle = (*Oracle)(nil)

func asSet(s oracle.Set) (*Set, error) {
	res, ok := s.(*Set)
	if !ok || res == nil {
		return nil, errors.Errorf("box: foreign set %T", s)
	}
	return res, nil
}

func asSpace(sp oracle.Space) *Space {
	res, ok := sp.(*Space)
	if !ok || res == nil {
		panic(errors.Errorf("box: foreign space %T", sp))
	}
	return res
}

func asPair(a, b oracle.Set) (*Set, *Set, error) {
	sa, err := asSet(a)
	if err != nil {
		return nil, nil, err
	}
	sb, err := asSet(b)
	if err != nil {
		return nil, nil, err
	}
	if !sa.space.Equal(sb.space) {
		return nil, nil, errors.Errorf("box: space mismatch %s and %s", sa.space, sb.space)
	}
	return sa, sb, nil
}

// Universe returns the set of all the points of sp.
func (o *Oracle) Universe(sp oracle.Space) oracle.Set { return asSpace(sp).Universe() }

// Empty returns the empty set of sp.
func (o *Oracle) Empty(sp oracle.Space) oracle.Set { return asSpace(sp).Empty() }

// Intersect returns the intersection of a and b.
func (o *Oracle) Intersect(a, b oracle.Set) (oracle.Set, error) {
	sa, sb, err := asPair(a, b)
	if err != nil {
		return nil, err
	}
	res := withBits(sa.space, sa.bits.and(sb.bits))
	if sa.known && sb.known {
		res.desc, res.known = conjoin(sa.desc, sb.desc)
	}
	return res, nil
}

// Union returns the union of a and b.
func (o *Oracle) Union(a, b oracle.Set) (oracle.Set, error) {
	sa, sb, err := asPair(a, b)
	if err != nil {
		return nil, err
	}
	res := withBits(sa.space, sa.bits.or(sb.bits))
	if sa.known && sb.known && len(sa.desc)+len(sb.desc) <= maxDisjuncts {
		res.desc = make([][]Constraint, 0, len(sa.desc)+len(sb.desc))
		res.desc = append(append(res.desc, sa.desc...), sb.desc...)
		res.known = true
	}
	return res, nil
}

// Complement returns the points of the box that are not in a.
func (o *Oracle) Complement(a oracle.Set) (oracle.Set, error) {
	sa, err := asSet(a)
	if err != nil {
		return nil, err
	}
	res := withBits(sa.space, fullBitset(sa.space.size).andNot(sa.bits))
	if sa.known {
		res.desc, res.known = negation(sa.desc)
	}
	return res, nil
}

// IsEmpty reports whether a has no points.
func (o *Oracle) IsEmpty(a oracle.Set) (bool, error) {
	sa, err := asSet(a)
	if err != nil {
		return false, err
	}
	return sa.bits.isEmpty(), nil
}

// IsSubset reports whether a is included in b.
func (o *Oracle) IsSubset(a, b oracle.Set) (bool, error) {
	sa, sb, err := asPair(a, b)
	if err != nil {
		return false, err
	}
	return sa.bits.subset(sb.bits), nil
}

// IsEqual reports whether a and b have the same points.
func (o *Oracle) IsEqual(a, b oracle.Set) (bool, error) {
	sa, sb, err := asPair(a, b)
	if err != nil {
		return false, err
	}
	return sa.bits.equal(sb.bits), nil
}

// Equal compares two atoms. Sets of a box have a canonical form, so structural
// and semantic equality coincide.
func (o *Oracle) Equal(a, b oracle.Set) bool {
	sa, sb, err := asPair(a, b)
	if err != nil {
		return false
	}
	return sa.bits.equal(sb.bits)
}

func checkRange(sp *Space, first, n int) error {
	if first < 0 || n < 0 || first+n > len(sp.dims) {
		return errors.Errorf("box: dims [%d, %d) out of range for %s", first, first+n, sp)
	}
	return nil
}

func checkParamRange(sp *Space, first, n int) error {
	if first < 0 || n < 0 || first+n > len(sp.params) {
		return errors.Errorf("box: params [%d, %d) out of range for %s", first, first+n, sp)
	}
	return nil
}

// reduced returns the space sp without the set dims [first, first+n).
func reduced(sp *Space, first, n int) *Space {
	return subspace(sp, sp.params, drop(sp.dims, first, n))
}

// reducedParams returns the space sp without the params [first, first+n).
func reducedParams(sp *Space, first, n int) *Space {
	return subspace(sp, drop(sp.params, first, n), sp.dims)
}

func drop(names []string, first, n int) []string {
	res := make([]string, 0, len(names)-n)
	res = append(res, names[:first]...)
	return append(res, names[first+n:]...)
}

func subspace(sp *Space, params, dims []string) *Space {
	res, err := NewParamSpace(sp.lo, sp.hi, params, dims)
	if err != nil {
		// a sub-box is never larger than its source
		panic(err)
	}
	return res
}

// reducedIndex returns the index in red of point pt of sp once the coordinates
// [from, from+n) are dropped.
func reducedIndex(red *Space, pt []int, from, n int) int {
	idx := 0
	for k := len(pt) - 1; k >= 0; k-- {
		if k >= from && k < from+n {
			continue
		}
		idx = idx*red.width + (pt[k] - red.lo)
	}
	return idx
}

// eliminate projects sa on red, dropping the coordinates [from, from+n).
func eliminate(sa *Set, red *Space, from, n int) *Set {
	res := withBits(red, newBitset(red.size))
	sa.space.each(func(idx int, pt []int) {
		if sa.bits.has(idx) {
			res.bits.set(reducedIndex(red, pt, from, n))
		}
	})
	if sa.known {
		res.desc, res.known = dropColumns(sa.desc, from, n)
	}
	return res
}

// varies reports whether membership in sa changes along the coordinates
// [from, from+n), proj being the projection of sa on these coordinates.
func varies(sa, proj *Set, from, n int) bool {
	depends := false
	sa.space.each(func(idx int, pt []int) {
		if !depends && sa.bits.has(idx) != proj.bits.has(reducedIndex(proj.space, pt, from, n)) {
			depends = true
		}
	})
	return depends
}

// ProjectOut eliminates the set dims [first, first+n) of a.
func (o *Oracle) ProjectOut(a oracle.Set, first, n int) (oracle.Set, error) {
	sa, err := asSet(a)
	if err != nil {
		return nil, err
	}
	if err := checkRange(sa.space, first, n); err != nil {
		return nil, err
	}
	return eliminate(sa, reduced(sa.space, first, n), len(sa.space.params)+first, n), nil
}

// ProjectOutParams eliminates the params [first, first+n) of a.
func (o *Oracle) ProjectOutParams(a oracle.Set, first, n int) (oracle.Set, error) {
	sa, err := asSet(a)
	if err != nil {
		return nil, err
	}
	if err := checkParamRange(sa.space, first, n); err != nil {
		return nil, err
	}
	return eliminate(sa, reducedParams(sa.space, first, n), first, n), nil
}

// dropColumns relabels a description that does not mention the coordinates
// [from, from+n).
func dropColumns(desc [][]Constraint, from, n int) ([][]Constraint, bool) {
	res := make([][]Constraint, len(desc))
	for k, conj := range desc {
		res[k] = make([]Constraint, len(conj))
		for j, c := range conj {
			if c.involves(from, n) {
				return nil, false
			}
			res[k][j] = c.drop(from, n)
		}
	}
	return res, true
}

// DependsOn reports whether membership in a changes along one of the set dims
// [first, first+n).
func (o *Oracle) DependsOn(a oracle.Set, first, n int) (bool, error) {
	sa, err := asSet(a)
	if err != nil {
		return false, err
	}
	if err := checkRange(sa.space, first, n); err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	from := len(sa.space.params) + first
	return varies(sa, eliminate(sa, reduced(sa.space, first, n), from, n), from, n), nil
}

// DependsOnParams reports whether membership in a changes along one of the
// params [first, first+n).
func (o *Oracle) DependsOnParams(a oracle.Set, first, n int) (bool, error) {
	sa, err := asSet(a)
	if err != nil {
		return false, err
	}
	if err := checkParamRange(sa.space, first, n); err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	return varies(sa, eliminate(sa, reducedParams(sa.space, first, n), first, n), first, n), nil
}

// Gist returns a set equal to a on context: the universe when context is
// included in a, the empty set when they are disjoint, a otherwise.
func (o *Oracle) Gist(a, context oracle.Set) (oracle.Set, error) {
	sa, sc, err := asPair(a, context)
	if err != nil {
		return nil, err
	}
	if sc.bits.subset(sa.bits) {
		return sa.space.Universe(), nil
	}
	if sc.bits.and(sa.bits).isEmpty() {
		return sa.space.Empty(), nil
	}
	return sa, nil
}

// Apply returns the image of a by m.
func (o *Oracle) Apply(a oracle.Set, m oracle.Map) (oracle.Set, error) {
	sa, err := asSet(a)
	if err != nil {
		return nil, err
	}
	bm, ok := m.(*Map)
	if !ok || bm == nil {
		return nil, errors.Errorf("box: foreign map %T", m)
	}
	if !sa.space.Equal(bm.domain) {
		return nil, errors.Errorf("box: set in %s, map from %s", sa.space, bm.domain)
	}
	res := withBits(bm.rng, newBitset(bm.rng.size))
	buf := make([]int, bm.rng.ncoords())
	sa.space.each(func(idx int, pt []int) {
		if !sa.bits.has(idx) {
			return
		}
		y := bm.image(pt, buf)
		if bm.rng.inside(y) {
			res.bits.set(bm.rng.index(y))
		}
	})
	return res, nil
}

// BasicSets returns the conjunctions of a. Sets without a symbolic
// description are split into points.
func (o *Oracle) BasicSets(a oracle.Set) ([]oracle.Set, error) {
	sa, err := asSet(a)
	if err != nil {
		return nil, err
	}
	res := []oracle.Set{}
	if sa.known {
		for _, conj := range sa.desc {
			bs := sa.space.FromConstraints(conj...)
			if !bs.bits.isEmpty() {
				res = append(res, bs)
			}
		}
		return res, nil
	}
	sa.bits.each(func(idx int) {
		res = append(res, sa.space.FromConstraints(sa.space.pointConjunction(sa.space.point(idx))...))
	})
	return res, nil
}

// Constraints returns one atom per constraint of a conjunction. The universe
// has no atoms.
func (o *Oracle) Constraints(basic oracle.Set) ([]oracle.Set, error) {
	sb, err := asSet(basic)
	if err != nil {
		return nil, err
	}
	var conj []Constraint
	switch {
	case sb.known && len(sb.desc) == 1:
		conj = sb.desc[0]
	case sb.bits.isEmpty():
		conj = []Constraint{{Coeffs: make([]int, sb.space.ncoords()), Const: -1}}
	case sb.bits.count() == 1:
		var idx int
		sb.bits.each(func(i int) { idx = i })
		conj = sb.space.pointConjunction(sb.space.point(idx))
	default:
		return nil, errors.Errorf("box: %s is not a conjunction", sb)
	}
	res := make([]oracle.Set, len(conj))
	for k, c := range conj {
		res[k] = sb.space.FromConstraints(c)
	}
	return res, nil
}

// Product returns the space with the dims of a followed by those of b.
func (o *Oracle) Product(a, b oracle.Space) oracle.Space {
	sa, sb := asSpace(a), asSpace(b)
	dims := append(append([]string(nil), sa.dims...), sb.dims...)
	if hasDuplicates(append(append([]string(nil), sa.params...), dims...)) {
		dims = freshNames(sa.params, len(dims))
	}
	res, err := NewParamSpace(sa.lo, sa.hi, sa.params, dims)
	if err != nil {
		panic(err)
	}
	return res
}

func hasDuplicates(names []string) bool {
	seen := make(map[string]bool, len(names))
	for _, v := range names {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}

// AddDims returns sp with n fresh dims appended.
func (o *Oracle) AddDims(sp oracle.Space, n int) oracle.Space {
	s := asSpace(sp)
	dims := append(append([]string(nil), s.dims...), freshNames(s.names(), n)...)
	res, err := NewParamSpace(s.lo, s.hi, s.params, dims)
	if err != nil {
		panic(err)
	}
	return res
}

// Embed lifts a into target, its dims becoming the dims of target starting at
// offset.
func (o *Oracle) Embed(a oracle.Set, target oracle.Space, offset int) (oracle.Set, error) {
	sa, err := asSet(a)
	if err != nil {
		return nil, err
	}
	tg, ok := target.(*Space)
	if !ok || tg == nil {
		return nil, errors.Errorf("box: foreign space %T", target)
	}
	if !sa.space.compatible(tg) {
		return nil, errors.Errorf("box: cannot embed %s into %s", sa.space, tg)
	}
	if offset < 0 || offset+len(sa.space.dims) > len(tg.dims) {
		return nil, errors.Errorf("box: offset %d out of range embedding %s into %s", offset, sa.space, tg)
	}
	np := len(tg.params)
	sub := make([]int, sa.space.ncoords())
	res := withBits(tg, newBitset(tg.size))
	tg.each(func(idx int, pt []int) {
		copy(sub, pt[:np])
		copy(sub[np:], pt[np+offset:np+offset+len(sa.space.dims)])
		if sa.bits.has(sa.space.index(sub)) {
			res.bits.set(idx)
		}
	})
	if sa.known {
		res.desc = make([][]Constraint, len(sa.desc))
		for k, conj := range sa.desc {
			res.desc[k] = make([]Constraint, len(conj))
			for j, c := range conj {
				res.desc[k][j] = c.lift(np, tg.ncoords(), offset)
			}
		}
		res.known = true
	}
	return res, nil
}

// Encode returns the bitset of a in little-endian order.
func (o *Oracle) Encode(a oracle.Set) ([]byte, error) {
	sa, err := asSet(a)
	if err != nil {
		return nil, err
	}
	res := make([]byte, 8*len(sa.bits))
	for k, w := range sa.bits {
		binary.LittleEndian.PutUint64(res[8*k:], w)
	}
	return res, nil
}

// Decode rebuilds a set of sp from its encoding. The symbolic description is
// not part of the encoding.
func (o *Oracle) Decode(sp oracle.Space, data []byte) (oracle.Set, error) {
	s, ok := sp.(*Space)
	if !ok || s == nil {
		return nil, errors.Errorf("box: foreign space %T", sp)
	}
	b := newBitset(s.size)
	if len(data) != 8*len(b) {
		return nil, errors.Errorf("box: %d bytes cannot encode a set of %s", len(data), s)
	}
	for k := range b {
		b[k] = binary.LittleEndian.Uint64(data[8*k:])
	}
	if !b.subset(fullBitset(s.size)) {
		return nil, errors.Errorf("box: encoding has points outside of %s", s)
	}
	return withBits(s, b), nil
}
