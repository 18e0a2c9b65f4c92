// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dalzilio/quast/oracle"
)

// Forest is the context shared by a family of quasts: the oracle used to
// interpret atoms, the configuration, a cache of oracle answers and the
// counter used to number nodes. Only quasts of the same Forest can be
// combined. A Forest is safe for concurrent use if its oracle is.
type Forest struct {
	oracle oracle.Oracle
	configs
	log     *logrus.Logger
	answers *lru.ARCCache // nil if the cache is disabled
	nextid  uint64        // last node id handed out
	stats   forestStats
}

// forestStats stores counters about the activity of a Forest.
type forestStats struct {
	produced    uint64 // nodes built
	oraclecalls uint64 // calls to the oracle
	cachehit    uint64 // oracle answers found in the cache
	cachemiss   uint64 // oracle answers not found in the cache
}

// New returns a Forest using oracle o. Options are configuration functions
// such as Cachesize, Maxiter, Maxnodes or Logger.
func New(o oracle.Oracle, options ...func(*configs)) *Forest {
	c := makeconfigs()
	for _, f := range options {
		f(c)
	}
	f := &Forest{oracle: o, configs: *c, log: c.logger}
	if f.cachesize > 0 {
		cache, err := lru.NewARC(f.cachesize)
		if err != nil {
			// only possible with a non-positive size
			panic(err)
		}
		f.answers = cache
	}
	return f
}

// Oracle returns the oracle of f.
func (f *Forest) Oracle() oracle.Oracle { return f.oracle }

func (f *Forest) newid() uint64 {
	return atomic.AddUint64(&f.nextid, 1)
}

func (f *Forest) terminal() *Node {
	return &Node{id: f.newid(), terminal: true}
}

func (f *Forest) makenode(atom oracle.Set, high, low *Node) *Node {
	atomic.AddUint64(&f.stats.produced, 1)
	return &Node{id: f.newid(), atom: atom, high: high, low: low}
}

// Quast is a quasi-affine solution tree: a decision diagram over atoms whose
// leaves are the IN and OUT terminals. A point belongs to the represented set
// when the walk from the root, following the high successor of each node whose
// atom holds and the low successor otherwise, ends on IN.
//
// A Quast is an immutable value. Set operations return new quasts that share
// nodes with their operands.
type Quast struct {
	forest *Forest
	root   *Node
	in     *Node
	out    *Node
	space  oracle.Space
}

// Root returns the root node of q; it is a terminal for the universe and the
// empty set.
func (q *Quast) Root() *Node { return q.root }

// In returns the terminal of q for points in the set.
func (q *Quast) In() *Node { return q.in }

// Out returns the terminal of q for points outside of the set.
func (q *Quast) Out() *Node { return q.out }

// Space returns the space of q.
func (q *Quast) Space() oracle.Space { return q.space }

// Forest returns the Forest that built q.
func (q *Quast) Forest() *Forest { return q.forest }

func (q *Quast) String() string {
	return fmt.Sprintf("quast(root: %d, nodes: %d, space: %s)", q.root.id, q.Size(), q.space)
}

func (f *Forest) newquast(sp oracle.Space, root, in, out *Node) *Quast {
	q := &Quast{forest: f, root: root, in: in, out: out, space: sp}
	if _DEBUG {
		checkquast(q)
	}
	return q
}

// Universe returns the quast of all the points of sp: its root is IN.
func (f *Forest) Universe(sp oracle.Space) *Quast {
	in, out := f.terminal(), f.terminal()
	return f.newquast(sp, in, in, out)
}

// Empty returns the quast of the empty set of sp: its root is OUT. It is the
// identity element of Union.
func (f *Forest) Empty(sp oracle.Space) *Quast {
	in, out := f.terminal(), f.terminal()
	return f.newquast(sp, out, in, out)
}

// FromConjunction returns the basic quast of the conjunction of atoms: a chain
// with one node per atom, in order, where every low successor is OUT and the
// high successor of the last node is IN. The empty conjunction gives the
// universe.
func (f *Forest) FromConjunction(sp oracle.Space, atoms []oracle.Set) (*Quast, error) {
	for _, a := range atoms {
		if !sp.Equal(a.Space()) {
			return nil, errors.Wrapf(ErrSpaceMismatch, "atom %s in %s", a, sp)
		}
	}
	in, out := f.terminal(), f.terminal()
	next := in
	for k := len(atoms) - 1; k >= 0; k-- {
		next = f.makenode(atoms[k], next, out)
	}
	return f.newquast(sp, next, in, out), nil
}

// FromUnion returns the quast of the union of the conjunctions, folding the
// basic quast of each conjunction with Union. The union of no conjunction is
// the empty set.
func (f *Forest) FromUnion(sp oracle.Space, conjunctions [][]oracle.Set) (*Quast, error) {
	res := f.Empty(sp)
	for _, conj := range conjunctions {
		bq, err := f.FromConjunction(sp, conj)
		if err != nil {
			return nil, err
		}
		// grafting the small basic quast on top of the accumulated result
		// keeps each step linear in the size of the conjunction
		if res, err = bq.Union(res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// FromSet returns the quast of an oracle set, using the decomposition of s
// into conjunctions of atoms given by the oracle.
func (f *Forest) FromSet(s oracle.Set) (*Quast, error) {
	basics, err := f.oracle.BasicSets(s)
	if err != nil {
		return nil, errors.Wrap(err, "basic sets")
	}
	conjunctions := make([][]oracle.Set, len(basics))
	for k, bs := range basics {
		if conjunctions[k], err = f.oracle.Constraints(bs); err != nil {
			return nil, errors.Wrap(err, "constraints")
		}
	}
	return f.FromUnion(s.Space(), conjunctions)
}

// Ite returns the quast of (atom and then) or (not atom and els), built with
// a single new node on top of (copies of) the two operands.
func (f *Forest) Ite(atom oracle.Set, then, els *Quast) (*Quast, error) {
	if err := checkpair("ite", then, els); err != nil {
		return nil, err
	}
	if !then.space.Equal(atom.Space()) {
		return nil, errors.Wrapf(ErrSpaceMismatch, "ite: atom %s in %s", atom, then.space)
	}
	high := then.root
	if then.in != els.in || then.out != els.out {
		var err error
		memo := map[*Node]*Node{then.in: els.in, then.out: els.out}
		if high, err = f.graft(then.root, memo); err != nil {
			return nil, err
		}
	}
	return f.newquast(els.space, f.makenode(atom, high, els.root), els.in, els.out), nil
}
