// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dalzilio/quast/oracle"
)

// Reduction passes. Each pass returns a new quast for the same set, sharing
// the terminals of its source and every node it does not need to change. The
// source quast, and every view that shares its graph, is left untouched.

// rebuild returns n if its successors are high and low, and a copy of n with
// these successors otherwise.
func (f *Forest) rebuild(n *Node, high, low *Node) *Node {
	if n.high == high && n.low == low {
		return n
	}
	return f.makenode(n.atom, high, low)
}

// budget counts the nodes built by a pass that may unshare the graph.
type budget struct {
	left int // negative if unlimited
}

func (f *Forest) newbudget() *budget {
	if f.maxnodes > 0 {
		return &budget{left: f.maxnodes}
	}
	return &budget{left: -1}
}

func (f *Forest) spend(b *budget, n *Node, high, low *Node) (*Node, error) {
	if n.high == high && n.low == low {
		return n, nil
	}
	if b.left == 0 {
		f.log.WithField("limit", f.maxnodes).Warn("node limit reached in reduction")
		return nil, ErrNodeLimit
	}
	if b.left > 0 {
		b.left--
	}
	return f.makenode(n.atom, high, low), nil
}

func (q *Quast) logpass(pass Pass, res *Quast, iterations int) {
	if !q.forest.log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	q.forest.log.WithFields(logrus.Fields{
		"pass":       pass.String(),
		"before":     q.Size(),
		"after":      res.Size(),
		"iterations": iterations,
	}).Debug("reduction")
}

// fixpoint applies round until it returns the same root twice in a row, at
// most Maxiter times.
func (q *Quast) fixpoint(pass Pass, round func(*Quast) (*Quast, error)) (*Quast, error) {
	cur := q
	for it := 1; ; it++ {
		if it > q.forest.maxiter {
			q.forest.log.WithFields(logrus.Fields{
				"pass":       pass.String(),
				"iterations": q.forest.maxiter,
			}).Warn("reduction did not converge")
			return nil, errors.Wrapf(ErrIterationLimit, "%s after %d rounds", pass, q.forest.maxiter)
		}
		next, err := round(cur)
		if err != nil {
			return nil, errors.Wrap(err, pass.String())
		}
		if next.root == cur.root {
			q.logpass(pass, next, it)
			return next, nil
		}
		cur = next
	}
}

// ************************************************************

// PruneRedundantBranches removes the nodes whose atom has already been tested
// on every path leading to them. While going down the graph we record the
// truth value of the atoms tested so far; a node testing one of them again (or
// its negation) is replaced by the branch selected by the recorded value. No
// emptiness test is needed, only atom equality.
func (q *Quast) PruneRedundantBranches() (*Quast, error) {
	r := &redundancy{
		setops: q.forest.newsetops(),
		q:      q,
		budget: q.forest.newbudget(),
		atoms:  map[*Node]digest{},
		negs:   map[*Node]digest{},
		memo:   map[contextkey]*Node{},
	}
	root, err := r.prune(q.root, truthstate{})
	if err != nil {
		return nil, errors.Wrap(err, "prune redundant branches")
	}
	res := q.forest.newquast(q.space, root, q.in, q.out)
	q.logpass(PassRedundant, res, 1)
	return res, nil
}

type redundancy struct {
	*setops
	q      *Quast
	budget *budget
	atoms  map[*Node]digest // fingerprint of the atom of a node
	negs   map[*Node]digest // fingerprint of its negation
	memo   map[contextkey]*Node
}

func (r *redundancy) fingerprints(n *Node) (digest, digest, error) {
	if d, ok := r.atoms[n]; ok {
		return d, r.negs[n], nil
	}
	d, err := r.digest(n.atom)
	if err != nil {
		return d, d, err
	}
	neg, err := r.negation(n)
	if err != nil {
		return d, d, err
	}
	dn, err := r.digest(neg)
	if err != nil {
		return d, d, err
	}
	r.atoms[n], r.negs[n] = d, dn
	return d, dn, nil
}

func (r *redundancy) prune(n *Node, state truthstate) (*Node, error) {
	if n.terminal {
		return n, nil
	}
	d, dn, err := r.fingerprints(n)
	if err != nil {
		return nil, err
	}
	if v, ok := state[d]; ok {
		if v {
			return r.prune(n.high, state)
		}
		return r.prune(n.low, state)
	}
	if v, ok := state[dn]; ok {
		if v {
			return r.prune(n.low, state)
		}
		return r.prune(n.high, state)
	}
	key := contextkey{id: n.id, ctx: state.fingerprint()}
	if res, ok := r.memo[key]; ok {
		return res, nil
	}
	high, err := r.prune(n.high, state.with(d, true))
	if err != nil {
		return nil, err
	}
	low, err := r.prune(n.low, state.with(d, false))
	if err != nil {
		return nil, err
	}
	res, err := r.spend(r.budget, n, high, low)
	if err != nil {
		return nil, err
	}
	r.memo[key] = res
	return res, nil
}

// ************************************************************

// PruneEmptysetBranches removes the nodes with a branch that no point can
// reach. We follow the graph from the root while maintaining the region of the
// points reaching each node; when the region of a branch is empty the node is
// replaced by its other branch. The pass is iterated until the graph does not
// change, at most Maxiter times.
func (q *Quast) PruneEmptysetBranches() (*Quast, error) {
	b := q.forest.newbudget()
	return q.fixpoint(PassEmptyset, func(cur *Quast) (*Quast, error) {
		ops := cur.forest.newsetops()
		memo := map[contextkey]*Node{}
		root, err := cur.pruneempty(ops, b, cur.root, cur.forest.oracle.Universe(cur.space), memo)
		if err != nil {
			return nil, err
		}
		return cur.forest.newquast(cur.space, root, cur.in, cur.out), nil
	})
}

func (q *Quast) pruneempty(ops *setops, b *budget, n *Node, ctx oracle.Set, memo map[contextkey]*Node) (*Node, error) {
	if n.terminal {
		return n, nil
	}
	d, err := q.forest.digest(ctx)
	if err != nil {
		return nil, err
	}
	key := contextkey{id: n.id, ctx: d}
	if res, ok := memo[key]; ok {
		return res, nil
	}
	pt, pf, err := ops.split(n, ctx)
	if err != nil {
		return nil, err
	}
	deadt, _, err := q.forest.isempty(pt)
	if err != nil {
		return nil, err
	}
	deadf, _, err := q.forest.isempty(pf)
	if err != nil {
		return nil, err
	}
	var res *Node
	switch {
	case deadt:
		res, err = q.pruneempty(ops, b, n.low, ctx, memo)
	case deadf:
		res, err = q.pruneempty(ops, b, n.high, ctx, memo)
	default:
		var high, low *Node
		if high, err = q.pruneempty(ops, b, n.high, pt, memo); err != nil {
			return nil, err
		}
		if low, err = q.pruneempty(ops, b, n.low, pf, memo); err != nil {
			return nil, err
		}
		res, err = q.forest.spend(b, n, high, low)
	}
	if err != nil {
		return nil, err
	}
	memo[key] = res
	return res, nil
}

// ************************************************************

// PruneEqualChildrenNodes removes the nodes whose two successors are the same
// node, whatever their atom. Ancestors are rebuilt bottom-up, so a removal may
// expose new nodes with equal successors, which are removed in the same pass.
func (q *Quast) PruneEqualChildrenNodes() (*Quast, error) {
	memo := map[*Node]*Node{}
	root := q.pruneequal(q.root, memo)
	res := q.forest.newquast(q.space, root, q.in, q.out)
	q.logpass(PassEqualChildren, res, 1)
	return res, nil
}

func (q *Quast) pruneequal(n *Node, memo map[*Node]*Node) *Node {
	if n.terminal {
		return n
	}
	if res, ok := memo[n]; ok {
		return res
	}
	high := q.pruneequal(n.high, memo)
	low := q.pruneequal(n.low, memo)
	res := high
	if high != low {
		res = q.forest.rebuild(n, high, low)
	}
	memo[n] = res
	return res
}

// ************************************************************

// PruneIsomorphicSubtrees merges the nodes that have equal atoms and the same
// successors, so that every subgraph appears once. This is the hash-consing of
// BDD libraries: nodes are rebuilt bottom-up through a unique table indexed by
// the fingerprint of their atom and the identity of their successors. The pass
// is iterated until the graph does not change, at most Maxiter times.
func (q *Quast) PruneIsomorphicSubtrees() (*Quast, error) {
	return q.fixpoint(PassIsomorphic, func(cur *Quast) (*Quast, error) {
		h := &hashcons{
			Forest: cur.forest,
			unique: map[uniquekey]*Node{},
			memo:   map[*Node]*Node{},
		}
		root, err := h.merge(cur.root)
		if err != nil {
			return nil, err
		}
		return cur.forest.newquast(cur.space, root, cur.in, cur.out), nil
	})
}

// hashcons stores the unique table of a merging round.
type hashcons struct {
	*Forest
	unique map[uniquekey]*Node
	memo   map[*Node]*Node
}

func (h *hashcons) merge(n *Node) (*Node, error) {
	if n.terminal {
		return n, nil
	}
	if res, ok := h.memo[n]; ok {
		return res, nil
	}
	high, err := h.merge(n.high)
	if err != nil {
		return nil, err
	}
	low, err := h.merge(n.low)
	if err != nil {
		return nil, err
	}
	d, err := h.digest(n.atom)
	if err != nil {
		return nil, err
	}
	key := makeuniquekey(d, high, low)
	res, ok := h.unique[key]
	if !ok || !h.oracle.Equal(res.atom, n.atom) {
		res = h.rebuild(n, high, low)
		h.unique[key] = res
	}
	h.memo[n] = res
	return res, nil
}

// ************************************************************

// Simplify applies the four reduction passes in order: empty-branch pruning,
// isomorphic-subtree merging, equal-children collapsing and redundant-branch
// pruning. Since the context-sensitive passes may unshare the graph, Simplify
// returns q itself when the result would have more nodes.
func (q *Quast) Simplify() (*Quast, error) {
	res, err := q.Reduce(simplifyorder...)
	if err != nil {
		return nil, errors.Wrap(err, "simplify")
	}
	if res.Size() > q.Size() {
		return q, nil
	}
	q.logpass(passSimplify, res, len(simplifyorder))
	return res, nil
}
