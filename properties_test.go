// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dalzilio/quast/oracle"
	"github.com/dalzilio/quast/oracle/box"
)

var defaultGopterParameters = gopter.DefaultTestParameters()

// Random conjunctions are encoded as slices of integers, three values
// (constant, coefficient of x, coefficient of y) per atom.
var conjGen = gen.SliceOfN(6, gen.IntRange(-2, 2))

// small is the space of property tests; it has 49 points.
func small() *box.Space { return box.MustSpace(-3, 3, "x", "y") }

func atomsOf(sp *box.Space, v []int) []oracle.Set {
	res := []oracle.Set{}
	for k := 0; k+2 < len(v); k += 3 {
		res = append(res, sp.Ineq(v[k], v[k+1], v[k+2]))
	}
	return res
}

// sameSet reports whether q represents s.
func sameSet(q *Quast, s oracle.Set) bool {
	r, err := q.Reconstruct()
	if err != nil {
		return false
	}
	eq, err := q.Forest().Oracle().IsEqual(r, s)
	return err == nil && eq
}

// build returns the quast of (a or b) and not c together with its oracle set.
func build(f *Forest, sp *box.Space, ca, cb, cc []int) (*Quast, oracle.Set, error) {
	o := f.Oracle()
	qa, err := f.FromConjunction(sp, atomsOf(sp, ca))
	if err != nil {
		return nil, nil, err
	}
	qb, err := f.FromConjunction(sp, atomsOf(sp, cb))
	if err != nil {
		return nil, nil, err
	}
	qc, err := f.FromConjunction(sp, atomsOf(sp, cc))
	if err != nil {
		return nil, nil, err
	}
	u, err := qa.Union(qb)
	if err != nil {
		return nil, nil, err
	}
	q, err := u.Subtract(qc)
	if err != nil {
		return nil, nil, err
	}
	sa := conjunction(o, sp, atomsOf(sp, ca)...)
	sb := conjunction(o, sp, atomsOf(sp, cb)...)
	sc := conjunction(o, sp, atomsOf(sp, cc)...)
	s, err := o.Union(sa, sb)
	if err != nil {
		return nil, nil, err
	}
	nc, err := o.Complement(sc)
	if err != nil {
		return nil, nil, err
	}
	s, err = o.Intersect(s, nc)
	return q, s, err
}

func TestBooleanLaws(t *testing.T) {
	properties := gopter.NewProperties(defaultGopterParameters)
	f, o := newTestForest()
	sp := small()

	properties.Property("union, intersection and complement agree with the oracle", prop.ForAll(
		func(ca, cb []int) bool {
			qa, _ := f.FromConjunction(sp, atomsOf(sp, ca))
			qb, _ := f.FromConjunction(sp, atomsOf(sp, cb))
			sa := conjunction(o, sp, atomsOf(sp, ca)...)
			sb := conjunction(o, sp, atomsOf(sp, cb)...)
			u, err := qa.Union(qb)
			if err != nil {
				return false
			}
			i, err := qa.Intersect(qb)
			if err != nil {
				return false
			}
			su, _ := o.Union(sa, sb)
			si, _ := o.Intersect(sa, sb)
			sn, _ := o.Complement(sa)
			return sameSet(u, su) && sameSet(i, si) && sameSet(qa.Complement(), sn)
		}, conjGen, conjGen))

	properties.Property("a and not a is empty, a or not a is the universe", prop.ForAll(
		func(ca, cb, cc []int) bool {
			q, _, err := build(f, sp, ca, cb, cc)
			if err != nil {
				return false
			}
			i, err := q.Intersect(q.Complement())
			if err != nil {
				return false
			}
			empty, err := i.IsEmpty()
			if err != nil || !empty {
				return false
			}
			u, err := q.Union(q.Complement())
			return err == nil && sameSet(u, sp.Universe())
		}, conjGen, conjGen, conjGen))

	properties.Property("emptiness agrees with the oracle", prop.ForAll(
		func(ca, cb, cc []int) bool {
			q, s, err := build(f, sp, ca, cb, cc)
			if err != nil {
				return false
			}
			expected, _ := o.IsEmpty(s)
			actual, err := q.IsEmpty()
			return err == nil && expected == actual
		}, conjGen, conjGen, conjGen))

	properties.Property("round trip", prop.ForAll(
		func(ca, cb []int) bool {
			q, err := f.FromUnion(sp, [][]oracle.Set{atomsOf(sp, ca), atomsOf(sp, cb)})
			if err != nil {
				return false
			}
			s, _ := o.Union(conjunction(o, sp, atomsOf(sp, ca)...), conjunction(o, sp, atomsOf(sp, cb)...))
			return sameSet(q, s)
		}, conjGen, conjGen))

	properties.Property("subset both ways iff equal", prop.ForAll(
		func(ca, cb []int) bool {
			qa, _ := f.FromConjunction(sp, atomsOf(sp, ca))
			qb, _ := f.FromConjunction(sp, atomsOf(sp, cb))
			ab, err := qa.IsSubset(qb)
			if err != nil {
				return false
			}
			ba, err := qb.IsSubset(qa)
			if err != nil {
				return false
			}
			eq, err := qa.IsEqual(qb)
			return err == nil && (ab && ba) == eq
		}, conjGen, conjGen))

	properties.TestingRun(t)
}

func TestReductionProperties(t *testing.T) {
	properties := gopter.NewProperties(defaultGopterParameters)
	f, _ := newTestForest()
	sp := small()

	properties.Property("simplify keeps the set and never grows", prop.ForAll(
		func(ca, cb, cc []int) bool {
			q, s, err := build(f, sp, ca, cb, cc)
			if err != nil {
				return false
			}
			s1, err := q.Simplify()
			if err != nil {
				return false
			}
			s2, err := s1.Simplify()
			if err != nil {
				return false
			}
			return s2.Size() <= q.Size() && sameSet(s1, s) && sameSet(s2, s)
		}, conjGen, conjGen, conjGen))

	properties.Property("every pass keeps the set", prop.ForAll(
		func(ca, cb, cc []int) bool {
			q, s, err := build(f, sp, ca, cb, cc)
			if err != nil {
				return false
			}
			for _, pass := range []func(*Quast) (*Quast, error){
				(*Quast).PruneRedundantBranches,
				(*Quast).PruneEmptysetBranches,
				(*Quast).PruneEqualChildrenNodes,
				(*Quast).PruneIsomorphicSubtrees,
			} {
				r, err := pass(q)
				if err != nil || !sameSet(r, s) {
					return false
				}
			}
			return true
		}, conjGen, conjGen, conjGen))

	properties.TestingRun(t)
}

func TestProjectionProperties(t *testing.T) {
	properties := gopter.NewProperties(defaultGopterParameters)
	f, o := newTestForest()
	sp := small()

	properties.Property("projection agrees with the oracle", prop.ForAll(
		func(ca, cb, cc []int, dim int) bool {
			q, s, err := build(f, sp, ca, cb, cc)
			if err != nil {
				return false
			}
			p, err := q.ProjectOut(dim, 1)
			if err != nil {
				return false
			}
			expected, err := o.ProjectOut(s, dim, 1)
			return err == nil && sameSet(p, expected)
		}, conjGen, conjGen, conjGen, gen.IntRange(0, 1)))

	properties.Property("binary dump round trip", prop.ForAll(
		func(ca, cb, cc []int) bool {
			q, s, err := build(f, sp, ca, cb, cc)
			if err != nil {
				return false
			}
			data, err := q.MarshalBinary()
			if err != nil {
				return false
			}
			r, err := f.Unmarshal(sp, data)
			return err == nil && r.Size() == q.Size() && sameSet(r, s)
		}, conjGen, conjGen, conjGen))

	properties.TestingRun(t)
}
