// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"github.com/dalzilio/quast/oracle"
)

// And returns the intersection of a sequence of quasts of space sp. The result
// is the universe of sp when the sequence is empty.
func (f *Forest) And(sp oracle.Space, q ...*Quast) (*Quast, error) {
	if len(q) == 0 {
		return f.Universe(sp), nil
	}
	if len(q) == 1 {
		return q[0], nil
	}
	rest, err := f.And(sp, q[1:]...)
	if err != nil {
		return nil, err
	}
	return q[0].Intersect(rest)
}

// Or returns the union of a sequence of quasts of space sp. The result is the
// empty set of sp when the sequence is empty.
func (f *Forest) Or(sp oracle.Space, q ...*Quast) (*Quast, error) {
	if len(q) == 0 {
		return f.Empty(sp), nil
	}
	if len(q) == 1 {
		return q[0], nil
	}
	rest, err := f.Or(sp, q[1:]...)
	if err != nil {
		return nil, err
	}
	return q[0].Union(rest)
}

// Imp returns the quast of the points that are in q2 or not in q1.
func (f *Forest) Imp(q1, q2 *Quast) (*Quast, error) {
	return q1.Complement().Union(q2)
}

// Equiv returns the quast of the points that are in both q1 and q2, or in
// neither of them.
func (f *Forest) Equiv(q1, q2 *Quast) (*Quast, error) {
	return f.Ite2(q1, q2, q2.Complement())
}

// Ite2 returns the quast of (q1 and q2) or (not q1 and q3). Unlike Ite, the
// condition is a quast and not a single atom.
func (f *Forest) Ite2(q1, q2, q3 *Quast) (*Quast, error) {
	if err := checkpair("ite", q2, q3); err != nil {
		return nil, err
	}
	if err := checkpair("ite", q1, q2); err != nil {
		return nil, err
	}
	left, err := q1.Intersect(q2)
	if err != nil {
		return nil, err
	}
	right, err := q1.Complement().Intersect(q3)
	if err != nil {
		return nil, err
	}
	return left.Union(right)
}

// From returns a constant quast of space sp: the universe if v is true and the
// empty set otherwise.
func (f *Forest) From(sp oracle.Space, v bool) *Quast {
	if v {
		return f.Universe(sp)
	}
	return f.Empty(sp)
}
