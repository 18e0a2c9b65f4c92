// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"github.com/pkg/errors"

	"github.com/dalzilio/quast/oracle"
)

// projection stores the state of a call to ProjectOut.
type projection struct {
	*setops
	src       *Quast
	first, n  int
	params    bool         // eliminate parameters instead of set dims
	space     oracle.Space // reduced space
	universe  oracle.Set   // universe of the reduced space
	in, out   *Node        // terminals of the result
	depends   map[*Node]bool
	relabeled map[*Node]*Node
	memo      map[contextkey]*Node
	budget    int // number of nodes we can still build; negative if unlimited
}

// ProjectOut returns the quast of the existential projection of q on all its
// set dimensions but the n dimensions starting at first, which are eliminated.
// The result lives in the reduced space computed by the oracle.
//
// The projection of a node depends on the region of the points reaching it, so
// the graph of q is unshared along the paths that test eliminated dimensions.
// Subgraphs whose atoms never mention them are projected by relabeling their
// atoms only, and keep their sharing. With option Maxnodes, the operation
// fails with ErrNodeLimit when it needs to build more nodes than allowed.
func (q *Quast) ProjectOut(first, n int) (*Quast, error) {
	if first < 0 || n < 0 || first+n > q.space.Dim() {
		return nil, errors.Wrapf(ErrOutOfRange, "project out [%d, %d) of %s", first, first+n, q.space)
	}
	return q.projectout(first, n, false)
}

// ProjectOutParams is like ProjectOut but eliminates the n parameters starting
// at first.
func (q *Quast) ProjectOutParams(first, n int) (*Quast, error) {
	if first < 0 || n < 0 || first+n > q.space.Params() {
		return nil, errors.Wrapf(ErrOutOfRange, "project out params [%d, %d) of %s", first, first+n, q.space)
	}
	return q.projectout(first, n, true)
}

func (q *Quast) projectout(first, n int, params bool) (*Quast, error) {
	f := q.forest
	if n == 0 {
		return q, nil
	}
	p := &projection{
		setops:    f.newsetops(),
		src:       q,
		first:     first,
		n:         n,
		params:    params,
		in:        f.terminal(),
		out:       f.terminal(),
		depends:   map[*Node]bool{},
		relabeled: map[*Node]*Node{},
		memo:      map[contextkey]*Node{},
		budget:    -1,
	}
	universe, err := p.eliminate(f.oracle.Universe(q.space))
	if err != nil {
		return nil, errors.Wrap(err, "project out")
	}
	p.space, p.universe = universe.Space(), universe
	if f.maxnodes > 0 {
		p.budget = f.maxnodes
	}
	p.relabeled[q.in] = p.in
	p.relabeled[q.out] = p.out
	root, err := p.project(q.root, f.oracle.Universe(q.space))
	if err != nil {
		return nil, errors.Wrap(err, "project out")
	}
	return f.newquast(p.space, root, p.in, p.out), nil
}

func (p *projection) makenode(atom oracle.Set, high, low *Node) (*Node, error) {
	if p.budget == 0 {
		p.log.WithField("limit", p.maxnodes).Warn("node limit reached in projection")
		return nil, ErrNodeLimit
	}
	if p.budget > 0 {
		p.budget--
	}
	return p.Forest.makenode(atom, high, low), nil
}

// dependson returns whether an atom of the graph rooted at n constrains an
// eliminated dimension.
func (p *projection) dependson(n *Node) (bool, error) {
	if n.terminal {
		return false, nil
	}
	if res, ok := p.depends[n]; ok {
		return res, nil
	}
	res, err := p.constrains(n.atom)
	if err != nil {
		return false, err
	}
	if !res {
		if res, err = p.dependson(n.high); err != nil {
			return false, err
		}
	}
	if !res {
		if res, err = p.dependson(n.low); err != nil {
			return false, err
		}
	}
	p.depends[n] = res
	return res, nil
}

// constrains returns whether atom constrains an eliminated dimension.
func (p *projection) constrains(atom oracle.Set) (bool, error) {
	var res bool
	var err error
	if p.params {
		res, err = p.oracle.DependsOnParams(atom, p.first, p.n)
	} else {
		res, err = p.oracle.DependsOn(atom, p.first, p.n)
	}
	if err != nil {
		return false, errors.Wrap(err, "depends on")
	}
	return res, nil
}

// eliminate returns the projection of a set of the source space.
func (p *projection) eliminate(s oracle.Set) (oracle.Set, error) {
	var res oracle.Set
	var err error
	if p.params {
		res, err = p.oracle.ProjectOutParams(s, p.first, p.n)
	} else {
		res, err = p.oracle.ProjectOut(s, p.first, p.n)
	}
	if err != nil {
		return nil, errors.Wrap(err, "project out")
	}
	return res, nil
}

// relabel projects a graph that does not depend on the eliminated dimensions.
// The result does not depend on the context, so it is memoized by node.
func (p *projection) relabel(n *Node) (*Node, error) {
	if res, ok := p.relabeled[n]; ok {
		return res, nil
	}
	if n.terminal {
		return nil, errors.Wrapf(ErrMalformed, "terminal %d does not belong to the quast", n.id)
	}
	atom, err := p.eliminate(n.atom)
	if err != nil {
		return nil, err
	}
	high, err := p.relabel(n.high)
	if err != nil {
		return nil, err
	}
	low, err := p.relabel(n.low)
	if err != nil {
		return nil, err
	}
	res, err := p.makenode(atom, high, low)
	if err != nil {
		return nil, err
	}
	p.relabeled[n] = res
	return res, nil
}

// project returns a node of the reduced space that agrees, on the projection X
// of ctx, with the projection of the points of ctx accepted from n. The context
// ctx is never empty.
func (p *projection) project(n *Node, ctx oracle.Set) (*Node, error) {
	dep, err := p.dependson(n)
	if err != nil {
		return nil, err
	}
	if !dep {
		return p.relabel(n)
	}
	d, err := p.digest(ctx)
	if err != nil {
		return nil, err
	}
	key := contextkey{id: n.id, ctx: d}
	if res, ok := p.memo[key]; ok {
		return res, nil
	}
	pt, pf, err := p.split(n, ctx)
	if err != nil {
		return nil, err
	}
	deadt, _, err := p.isempty(pt)
	if err != nil {
		return nil, err
	}
	deadf, _, err := p.isempty(pf)
	if err != nil {
		return nil, err
	}
	var res *Node
	switch {
	case deadt:
		res, err = p.project(n.low, ctx)
	case deadf:
		res, err = p.project(n.high, ctx)
	default:
		res, err = p.projectnode(n, ctx, pt, pf)
	}
	if err != nil {
		return nil, err
	}
	p.memo[key] = res
	return res, nil
}

// projectnode handles a node whose two branches are reachable from ctx.
func (p *projection) projectnode(n *Node, ctx, pt, pf oracle.Set) (*Node, error) {
	high, err := p.project(n.high, pt)
	if err != nil {
		return nil, err
	}
	low, err := p.project(n.low, pf)
	if err != nil {
		return nil, err
	}
	dep, err := p.constrains(n.atom)
	if err != nil {
		return nil, err
	}
	if !dep {
		// the two regions are separated by the projection of the atom
		atom, err := p.eliminate(n.atom)
		if err != nil {
			return nil, err
		}
		return p.makenode(atom, high, low)
	}
	x, err := p.eliminate(ctx)
	if err != nil {
		return nil, err
	}
	xt, err := p.eliminate(pt)
	if err != nil {
		return nil, err
	}
	xf, err := p.eliminate(pf)
	if err != nil {
		return nil, err
	}
	both, err := p.intersect(xt, xf)
	if err != nil {
		return nil, err
	}
	disjoint, _, err := p.isempty(both)
	if err != nil {
		return nil, err
	}
	if disjoint {
		// on X, a point is in the projection of pt iff it is not in the
		// projection of pf
		return p.decide(xt, x, high, low)
	}
	// the two projected regions overlap: a point of X is accepted if it is
	// accepted from one of the regions it belongs to
	rest, err := p.decide(xf, x, low, p.out)
	if err != nil {
		return nil, err
	}
	merged, err := p.graftout(high, rest)
	if err != nil {
		return nil, err
	}
	return p.decide(xt, x, merged, rest)
}

// decide returns a node testing region on the points of context, with branches
// high and low. No node is built when region covers the context.
func (p *projection) decide(region, context oracle.Set, high, low *Node) (*Node, error) {
	if high == low {
		return high, nil
	}
	all, err := p.issubset(context, region)
	if err != nil {
		return nil, err
	}
	if all {
		return high, nil
	}
	atom, err := p.oracle.Gist(region, context)
	if err != nil {
		return nil, errors.Wrap(err, "gist")
	}
	return p.makenode(atom, high, low)
}

// graftout returns the union of the graph rooted at n, a node of the result,
// with the graph rooted at other.
func (p *projection) graftout(n, other *Node) (*Node, error) {
	if other == p.out {
		return n, nil
	}
	memo := map[*Node]*Node{p.in: p.in, p.out: other}
	return p.graftcounted(n, memo)
}

func (p *projection) graftcounted(n *Node, memo map[*Node]*Node) (*Node, error) {
	if res, ok := memo[n]; ok {
		return res, nil
	}
	high, err := p.graftcounted(n.high, memo)
	if err != nil {
		return nil, err
	}
	low, err := p.graftcounted(n.low, memo)
	if err != nil {
		return nil, err
	}
	res, err := p.makenode(n.atom, high, low)
	if err != nil {
		return nil, err
	}
	memo[n] = res
	return res, nil
}
