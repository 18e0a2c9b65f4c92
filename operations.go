// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"github.com/pkg/errors"

	"github.com/dalzilio/quast/oracle"
)

// graft returns a copy of the graph rooted at n where every node found in memo
// is replaced by its image. The memo table must contain an image for the two
// terminals of the source quast; it is extended with the copy of every interior
// node, so a node with several parents is copied once.
func (f *Forest) graft(n *Node, memo map[*Node]*Node) (*Node, error) {
	if res, ok := memo[n]; ok {
		return res, nil
	}
	if n.terminal {
		return nil, errors.Wrapf(ErrMalformed, "terminal %d does not belong to the quast", n.id)
	}
	high, err := f.graft(n.high, memo)
	if err != nil {
		return nil, err
	}
	low, err := f.graft(n.low, memo)
	if err != nil {
		return nil, err
	}
	res := f.makenode(n.atom, high, low)
	memo[n] = res
	return res, nil
}

// Union returns the quast of the points in a or in b. It copies the graph of a,
// replacing its IN terminal with the IN terminal of b and its OUT terminal with
// the root of b. The graph of b is shared, not copied.
func (a *Quast) Union(b *Quast) (*Quast, error) {
	if err := checkpair("union", a, b); err != nil {
		return nil, err
	}
	root, err := a.forest.graft(a.root, map[*Node]*Node{a.in: b.in, a.out: b.root})
	if err != nil {
		return nil, errors.Wrap(err, "union")
	}
	return a.forest.newquast(a.space, root, b.in, b.out), nil
}

// Intersect returns the quast of the points in a and in b. It copies the graph
// of a, replacing its IN terminal with the root of b and its OUT terminal with
// the OUT terminal of b.
func (a *Quast) Intersect(b *Quast) (*Quast, error) {
	if err := checkpair("intersect", a, b); err != nil {
		return nil, err
	}
	root, err := a.forest.graft(a.root, map[*Node]*Node{a.in: b.root, a.out: b.out})
	if err != nil {
		return nil, errors.Wrap(err, "intersect")
	}
	return a.forest.newquast(a.space, root, b.in, b.out), nil
}

// Complement returns the quast of the points of the space that are not in a. No
// node is built: the result shares the graph of a with its two terminals
// swapped.
func (a *Quast) Complement() *Quast {
	return &Quast{forest: a.forest, root: a.root, in: a.out, out: a.in, space: a.space}
}

// Subtract returns the quast of the points in a but not in b.
func (a *Quast) Subtract(b *Quast) (*Quast, error) {
	return a.Intersect(b.Complement())
}

// Reconstruct returns the oracle set represented by q, as a union of
// conjunctions. The value of a node is (atom and high) or (not atom and low);
// values are memoized by node so a shared subgraph is computed once.
func (q *Quast) Reconstruct() (oracle.Set, error) {
	ops := q.forest.newsetops()
	memo := map[*Node]oracle.Set{
		q.in:  q.forest.oracle.Universe(q.space),
		q.out: q.forest.oracle.Empty(q.space),
	}
	res, err := q.reconstruct(ops, q.root, memo)
	if err != nil {
		return nil, errors.Wrap(err, "reconstruct")
	}
	return res, nil
}

func (q *Quast) reconstruct(ops *setops, n *Node, memo map[*Node]oracle.Set) (oracle.Set, error) {
	if res, ok := memo[n]; ok {
		return res, nil
	}
	if n.terminal {
		return nil, errors.Wrapf(ErrMalformed, "terminal %d does not belong to the quast", n.id)
	}
	var res oracle.Set
	var err error
	switch {
	case n.high == q.in && n.low == q.out:
		res = n.atom
	case n.high == q.out && n.low == q.in:
		res, err = ops.negation(n)
	case n.high == q.in:
		// atom or (not atom and low) == atom or low
		var low oracle.Set
		if low, err = q.reconstruct(ops, n.low, memo); err == nil {
			res, err = ops.union(n.atom, low)
		}
	case n.low == q.out:
		var high oracle.Set
		if high, err = q.reconstruct(ops, n.high, memo); err == nil {
			res, err = ops.intersect(n.atom, high)
		}
	default:
		res, err = q.reconstructnode(ops, n, memo)
	}
	if err != nil {
		return nil, err
	}
	memo[n] = res
	return res, nil
}

// reconstructnode computes the value of n without shortcut on its atom; the
// remaining shortcuts apply to the negation of the atom.
func (q *Quast) reconstructnode(ops *setops, n *Node, memo map[*Node]oracle.Set) (oracle.Set, error) {
	neg, err := ops.negation(n)
	if err != nil {
		return nil, err
	}
	var left, right oracle.Set
	if n.high != q.out {
		high, err := q.reconstruct(ops, n.high, memo)
		if err != nil {
			return nil, err
		}
		if left, err = ops.intersect(n.atom, high); err != nil {
			return nil, err
		}
	}
	switch n.low {
	case q.in:
		right = neg
	case q.out:
	default:
		low, err := q.reconstruct(ops, n.low, memo)
		if err != nil {
			return nil, err
		}
		if right, err = ops.intersect(neg, low); err != nil {
			return nil, err
		}
	}
	switch {
	case left == nil && right == nil:
		return q.forest.oracle.Empty(q.space), nil
	case left == nil:
		return right, nil
	case right == nil:
		return left, nil
	}
	return ops.union(left, right)
}

// IsEmpty reports whether q has no points. It explores the graph from the root
// while maintaining the region of the points reaching each node, and never
// visits a branch whose region is empty. Results are memoized by node and
// region, since a node shared by several paths may be reachable from some of
// them only.
func (q *Quast) IsEmpty() (bool, error) {
	if q.root == q.out {
		return true, nil
	}
	if q.root == q.in {
		empty, _, err := q.forest.isempty(q.forest.oracle.Universe(q.space))
		return empty, err
	}
	ops := q.forest.newsetops()
	res, err := q.isempty(ops, q.root, q.forest.oracle.Universe(q.space), make(map[contextkey]bool))
	if err != nil {
		return false, errors.Wrap(err, "is empty")
	}
	return res, nil
}

// isempty returns whether no point of ctx reaching n ends on IN. We only call
// it with a non-empty context.
func (q *Quast) isempty(ops *setops, n *Node, ctx oracle.Set, memo map[contextkey]bool) (bool, error) {
	switch n {
	case q.out:
		return true, nil
	case q.in:
		return false, nil
	}
	if n.terminal {
		return false, errors.Wrapf(ErrMalformed, "terminal %d does not belong to the quast", n.id)
	}
	d, err := q.forest.digest(ctx)
	if err != nil {
		return false, err
	}
	key := contextkey{id: n.id, ctx: d}
	if res, ok := memo[key]; ok {
		return res, nil
	}
	pt, pf, err := ops.split(n, ctx)
	if err != nil {
		return false, err
	}
	res := true
	for _, br := range []struct {
		region oracle.Set
		next   *Node
	}{{pt, n.high}, {pf, n.low}} {
		if br.next == q.out {
			continue
		}
		dead, _, err := q.forest.isempty(br.region)
		if err != nil {
			return false, err
		}
		if dead {
			continue
		}
		empty, err := q.isempty(ops, br.next, br.region, memo)
		if err != nil {
			return false, err
		}
		if !empty {
			res = false
			break
		}
	}
	memo[key] = res
	return res, nil
}

// IsSubset reports whether every point of a is in b.
func (a *Quast) IsSubset(b *Quast) (bool, error) {
	diff, err := a.Subtract(b)
	if err != nil {
		return false, err
	}
	return diff.IsEmpty()
}

// IsEqual reports whether a and b represent the same set. The test is done by
// the oracle on the reconstructed sets, so it does not depend on the shape of
// the two graphs.
func (a *Quast) IsEqual(b *Quast) (bool, error) {
	if err := checkpair("is equal", a, b); err != nil {
		return false, err
	}
	if a.root == b.root && a.in == b.in && a.out == b.out {
		return true, nil
	}
	sa, err := a.Reconstruct()
	if err != nil {
		return false, err
	}
	sb, err := b.Reconstruct()
	if err != nil {
		return false, err
	}
	res, err := a.forest.oracle.IsEqual(sa, sb)
	if err != nil {
		return false, errors.Wrap(err, "is equal")
	}
	return res, nil
}

// Evaluate computes the characteristic function of q on a single point. The
// point is described by the function holds, which reports whether it
// satisfies an atom. Evaluate walks the graph from the root and returns true if
// the walk ends on IN.
func (q *Quast) Evaluate(holds func(atom oracle.Set) (bool, error)) (bool, error) {
	n := q.root
	for !n.terminal {
		ok, err := holds(n.atom)
		if err != nil {
			return false, errors.Wrap(err, "evaluate")
		}
		if ok {
			n = n.high
		} else {
			n = n.low
		}
	}
	switch n {
	case q.in:
		return true, nil
	case q.out:
		return false, nil
	}
	return false, errors.Wrapf(ErrMalformed, "terminal %d does not belong to the quast", n.id)
}
