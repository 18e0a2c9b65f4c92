// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package box

import (
	"fmt"
	"strings"

	"github.com/dalzilio/quast/oracle"
)

// maxDisjuncts bounds the size of the symbolic description kept alongside the
// points of a set. Past this size only the points are kept.
const maxDisjuncts = 64

// Set is a set of points of a box. The points are the ground truth; when it is
// known, desc also gives the set as a union of conjunctions of constraints.
type Set struct {
	space *Space
	bits  bitset
	desc  [][]Constraint
	known bool // desc is a valid description of bits
}

// Space returns the space of s.
func (s *Set) Space() oracle.Space { return s.space }

// Contains reports whether the point with the given coordinates (parameters
// first) belongs to s. Points outside the box are never contained.
func (s *Set) Contains(pt ...int) bool {
	if len(pt) != s.space.ncoords() || !s.space.inside(pt) {
		return false
	}
	return s.bits.has(s.space.index(pt))
}

// Count returns the number of points in s.
func (s *Set) Count() int { return s.bits.count() }

// Points returns the points of s in index order.
func (s *Set) Points() [][]int {
	res := [][]int{}
	s.bits.each(func(idx int) {
		res = append(res, s.space.point(idx))
	})
	return res
}

func (s *Set) String() string {
	names := s.space.names()
	header := "[" + strings.Join(s.space.dims, ", ") + "]"
	if len(s.space.params) > 0 {
		header = "[" + strings.Join(s.space.params, ", ") + "] -> { " + header
	} else {
		header = "{ " + header
	}
	if !s.known {
		return fmt.Sprintf("%s : %d points }", header, s.bits.count())
	}
	if len(s.desc) == 0 {
		return header + " : false }"
	}
	disj := make([]string, 0, len(s.desc))
	for _, conj := range s.desc {
		if len(conj) == 0 {
			disj = append(disj, "true")
			continue
		}
		atoms := make([]string, len(conj))
		for k, c := range conj {
			atoms[k] = c.format(names)
		}
		disj = append(disj, strings.Join(atoms, " and "))
	}
	return header + " : " + strings.Join(disj, " or ") + " }"
}

// Ineq returns the atom c + coeffs[0]*v0 + ... >= 0 where the coefficients
// follow the coordinates of sp, parameters first. Missing trailing
// coefficients are zero.
func (sp *Space) Ineq(c int, coeffs ...int) *Set {
	return sp.FromConstraints(sp.constraint(false, c, coeffs))
}

// Eq returns the atom c + coeffs[0]*v0 + ... = 0.
func (sp *Space) Eq(c int, coeffs ...int) *Set {
	return sp.FromConstraints(sp.constraint(true, c, coeffs))
}

func (sp *Space) constraint(eq bool, c int, coeffs []int) Constraint {
	if len(coeffs) > sp.ncoords() {
		panic(fmt.Sprintf("%d coefficients for a space with %d coordinates", len(coeffs), sp.ncoords()))
	}
	res := Constraint{Coeffs: make([]int, sp.ncoords()), Const: c, Eq: eq}
	copy(res.Coeffs, coeffs)
	return res
}

// FromConstraints returns the conjunction of the given constraints.
func (sp *Space) FromConstraints(conj ...Constraint) *Set {
	return &Set{
		space: sp,
		bits:  sp.eval(conj),
		desc:  [][]Constraint{conj},
		known: true,
	}
}

// Universe returns the set of all the points of sp.
func (sp *Space) Universe() *Set {
	return &Set{space: sp, bits: fullBitset(sp.size), desc: [][]Constraint{{}}, known: true}
}

// Empty returns the empty set of sp.
func (sp *Space) Empty() *Set {
	return &Set{space: sp, bits: newBitset(sp.size), desc: [][]Constraint{}, known: true}
}

// Points returns the set made of the given points; points outside of the box
// are ignored.
func (sp *Space) Points(pts ...[]int) *Set {
	res := &Set{space: sp, bits: newBitset(sp.size)}
	for _, pt := range pts {
		if len(pt) == sp.ncoords() && sp.inside(pt) {
			res.bits.set(sp.index(pt))
		}
	}
	return res
}

// eval returns the points satisfying all the constraints in conj.
func (sp *Space) eval(conj []Constraint) bitset {
	res := newBitset(sp.size)
	sp.each(func(idx int, pt []int) {
		for _, c := range conj {
			if !c.holds(pt) {
				return
			}
		}
		res.set(idx)
	})
	return res
}

// pointConjunction describes a single point with one equality per coordinate.
func (sp *Space) pointConjunction(pt []int) []Constraint {
	res := make([]Constraint, len(pt))
	for k, v := range pt {
		c := Constraint{Coeffs: make([]int, len(pt)), Const: -v, Eq: true}
		c.Coeffs[k] = 1
		res[k] = c
	}
	return res
}

func withBits(sp *Space, b bitset) *Set {
	return &Set{space: sp, bits: b}
}

// conjoin returns the description of the intersection of two descriptions,
// or false if it would be too large.
func conjoin(a, b [][]Constraint) ([][]Constraint, bool) {
	if len(a)*len(b) > maxDisjuncts {
		return nil, false
	}
	res := make([][]Constraint, 0, len(a)*len(b))
	for _, ca := range a {
		for _, cb := range b {
			conj := make([]Constraint, 0, len(ca)+len(cb))
			conj = append(conj, ca...)
			res = append(res, append(conj, cb...))
		}
	}
	return res, true
}

// negation returns the description of the complement of desc.
func negation(desc [][]Constraint) ([][]Constraint, bool) {
	res := [][]Constraint{{}}
	for _, conj := range desc {
		// not (c1 and ... and cn) == not c1 or ... or not cn
		var disj [][]Constraint
		for _, c := range conj {
			for _, nc := range c.negate() {
				disj = append(disj, []Constraint{nc})
			}
		}
		var ok bool
		if res, ok = conjoin(res, disj); !ok {
			return nil, false
		}
	}
	return res, true
}
