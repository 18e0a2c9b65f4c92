// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"github.com/pkg/errors"

	"github.com/dalzilio/quast/oracle"
)

// relabeler is the type of functions used to change the atoms of a quast, for
// instance when moving it to another space. Like the replacers of a BDD
// library, the same relabeler is applied to every node independently of its
// position in the graph.
type relabeler func(atom oracle.Set) (oracle.Set, error)

// relabel returns a copy of q in space sp where every atom is replaced by its
// image by r. Terminals map to fresh terminals and shared nodes are copied
// once.
func (q *Quast) relabel(sp oracle.Space, r relabeler) (*Quast, error) {
	f := q.forest
	in, out := f.terminal(), f.terminal()
	memo := map[*Node]*Node{q.in: in, q.out: out}
	root, err := q.relabelnode(q.root, r, memo)
	if err != nil {
		return nil, err
	}
	return f.newquast(sp, root, in, out), nil
}

func (q *Quast) relabelnode(n *Node, r relabeler, memo map[*Node]*Node) (*Node, error) {
	if res, ok := memo[n]; ok {
		return res, nil
	}
	if n.terminal {
		return nil, errors.Wrapf(ErrMalformed, "terminal %d does not belong to the quast", n.id)
	}
	high, err := q.relabelnode(n.high, r, memo)
	if err != nil {
		return nil, err
	}
	low, err := q.relabelnode(n.low, r, memo)
	if err != nil {
		return nil, err
	}
	atom, err := r(n.atom)
	if err != nil {
		return nil, err
	}
	res := q.forest.makenode(atom, high, low)
	memo[n] = res
	return res, nil
}

// Apply returns the quast obtained by replacing each atom of q with its image
// by the affine map m. The result lives in the range of m. Since every atom is
// mapped independently, the result is the image of q when m is a bijection
// between its domain and its range.
func (q *Quast) Apply(m oracle.Map) (*Quast, error) {
	if !q.space.Equal(m.Domain()) {
		return nil, errors.Wrapf(ErrSpaceMismatch, "apply: quast in %s, map from %s", q.space, m.Domain())
	}
	res, err := q.relabel(m.Range(), func(atom oracle.Set) (oracle.Set, error) {
		return q.forest.oracle.Apply(atom, m)
	})
	if err != nil {
		return nil, errors.Wrap(err, "apply")
	}
	return res, nil
}

// lift returns q moved to space sp, its dimensions becoming the dimensions of
// sp starting at offset. The new dimensions are unconstrained.
func (q *Quast) lift(sp oracle.Space, offset int) (*Quast, error) {
	if offset < 0 || offset+q.space.Dim() > sp.Dim() {
		return nil, errors.Wrapf(ErrOutOfRange, "lift %s into %s at %d", q.space, sp, offset)
	}
	return q.relabel(sp, func(atom oracle.Set) (oracle.Set, error) {
		return q.forest.oracle.Embed(atom, sp, offset)
	})
}

// ExtendSpace returns the quast of the same set in the product of the space of
// q with ext: the dimensions of ext are added after those of q and are
// unconstrained.
func (q *Quast) ExtendSpace(ext oracle.Space) (*Quast, error) {
	res, err := q.lift(q.forest.oracle.Product(q.space, ext), 0)
	if err != nil {
		return nil, errors.Wrap(err, "extend space")
	}
	return res, nil
}

// AddDims returns the quast of the same set with n unconstrained dimensions
// added after the dimensions of q.
func (q *Quast) AddDims(n int) (*Quast, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "add %d dims", n)
	}
	res, err := q.lift(q.forest.oracle.AddDims(q.space, n), 0)
	if err != nil {
		return nil, errors.Wrap(err, "add dims")
	}
	return res, nil
}

// FlatProduct returns the cartesian product of a and b: the points of the
// product space whose first dimensions are a point of a and last dimensions a
// point of b. The two quasts are lifted into the product space and
// intersected.
func (a *Quast) FlatProduct(b *Quast) (*Quast, error) {
	if a.forest != b.forest {
		return nil, errors.Wrap(ErrForeignQuast, "flat product")
	}
	sp := a.forest.oracle.Product(a.space, b.space)
	left, err := a.lift(sp, 0)
	if err != nil {
		return nil, errors.Wrap(err, "flat product")
	}
	right, err := b.lift(sp, a.space.Dim())
	if err != nil {
		return nil, errors.Wrap(err, "flat product")
	}
	return left.Intersect(right)
}
