// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/quast/oracle/box"
)

func TestPruneIsomorphicSubtrees(t *testing.T) {
	f, o := newTestForest()
	sp := plane()
	// two separate quasts for {x >= 0} under a decision on y >= 0
	q1 := basic(t, f, sp, sp.Ineq(0, 1, 0))
	q2 := basic(t, f, sp, sp.Ineq(0, 1, 0))
	q, err := f.Ite(sp.Ineq(0, 0, 1), q1, q2)
	require.NoError(t, err)
	require.Equal(t, 3, q.Size())
	require.NotSame(t, q.Root().High(), q.Root().Low())

	r, err := q.PruneIsomorphicSubtrees()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Size())
	assert.Same(t, r.Root().High(), r.Root().Low())
	requireSet(t, o, sp.Ineq(0, 1, 0), r)
	// the source is left untouched
	assert.Equal(t, 3, q.Size())

	r, err = r.PruneEqualChildrenNodes()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Size())
	requireSet(t, o, sp.Ineq(0, 1, 0), r)
}

func TestPruneEqualChildrenNodes(t *testing.T) {
	f, o := newTestForest()
	sp := plane()
	qx := basic(t, f, sp, sp.Ineq(0, 1, 0))
	inner, err := f.Ite(sp.Ineq(0, 0, 1), qx, qx)
	require.NoError(t, err)
	q, err := f.Ite(sp.Ineq(3, 1, 1), inner, qx)
	require.NoError(t, err)
	require.Equal(t, 3, q.Size())

	r, err := q.PruneEqualChildrenNodes()
	require.NoError(t, err)
	assert.Same(t, qx.Root(), r.Root(), "collapsing cascades to the root")
	requireSet(t, o, sp.Ineq(0, 1, 0), r)
}

func TestPruneRedundantBranches(t *testing.T) {
	f, o := newTestForest()
	sp := plane()
	xpos := sp.Ineq(0, 1, 0)
	xneg := sp.Ineq(-1, -1, 0)
	ypos := sp.Ineq(0, 0, 1)

	var redundantTests = []struct {
		name     string
		then     *Quast
		size     int
		expected int
	}{
		{"same atom", basic(t, f, sp, xpos, ypos), 3, 2},
		{"negated atom", basic(t, f, sp, xneg, ypos), 3, 1},
		{"other atom", basic(t, f, sp, ypos), 2, 2},
	}
	for _, tt := range redundantTests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := f.Ite(xpos, tt.then, f.Empty(sp))
			require.NoError(t, err)
			require.Equal(t, tt.size, q.Size())
			r, err := q.PruneRedundantBranches()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r.Size())
			s, err := q.Reconstruct()
			require.NoError(t, err)
			requireSet(t, o, s, r)
		})
	}
}

func TestPruneEmptysetBranches(t *testing.T) {
	f, o := newTestForest()
	sp := plane()
	q := basic(t, f, sp, sp.Ineq(0, 1, 0), sp.Ineq(0, 0, 1), sp.Ineq(-1, -1, 0))
	r, err := q.PruneEmptysetBranches()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Size())
	requireSet(t, o, sp.Empty(), r)

	s, err := q.Simplify()
	require.NoError(t, err)
	assert.Same(t, s.Out(), s.Root())
	assert.Equal(t, 0, s.Size())

	// already at fixpoint: the same graph is returned
	q = basic(t, f, sp, sp.Ineq(0, 1, 0), sp.Ineq(0, 0, 1))
	r, err = q.PruneEmptysetBranches()
	require.NoError(t, err)
	assert.Same(t, q.Root(), r.Root())
}

func TestIterationLimit(t *testing.T) {
	logger, hook := test.NewNullLogger()
	f, _ := newTestForest(Maxiter(1), Logger(logger))
	sp := plane()
	q := basic(t, f, sp, sp.Ineq(0, 1, 0), sp.Ineq(0, 0, 1), sp.Ineq(-1, -1, 0))
	_, err := q.PruneEmptysetBranches()
	assert.ErrorIs(t, err, ErrIterationLimit)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "emptyset", hook.LastEntry().Data["pass"])

	q = basic(t, f, sp, sp.Ineq(0, 1, 0))
	_, err = q.PruneIsomorphicSubtrees()
	assert.NoError(t, err)
}

func TestNodeLimit(t *testing.T) {
	f, _ := newTestForest(Maxnodes(1))
	sp := plane()
	q := basic(t, f, sp, sp.Ineq(0, 1, 0), sp.Ineq(0, 0, 1), sp.Ineq(-1, -1, 0))
	// removing the dead node rebuilds its two ancestors
	_, err := q.PruneEmptysetBranches()
	assert.ErrorIs(t, err, ErrNodeLimit)
}

func TestReductionLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f, _ := newTestForest(Logger(logger))
	sp := box.MustSpace(-3, 3, "x")
	q := basic(t, f, sp, sp.Ineq(0, 1), sp.Ineq(0, 1))
	r, err := q.Simplify()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Size())

	passes := map[string]bool{}
	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.DebugLevel, e.Level)
		passes[e.Data["pass"].(string)] = true
	}
	for _, p := range []string{"emptyset", "isomorphic", "equal children", "redundant", "simplify"} {
		assert.True(t, passes[p], p)
	}
}

func TestSimplify(t *testing.T) {
	f, o := newTestForest()
	sp := plane()
	qa, qb, _, _ := scenarioAB(t, f, sp)
	u, err := qa.Union(qb)
	require.NoError(t, err)
	u, err = u.Union(qa)
	require.NoError(t, err)
	q, err := u.Intersect(qa.Complement().Complement())
	require.NoError(t, err)

	s1, err := q.Simplify()
	require.NoError(t, err)
	s2, err := s1.Simplify()
	require.NoError(t, err)
	assert.LessOrEqual(t, s1.Size(), q.Size())
	assert.LessOrEqual(t, s2.Size(), s1.Size())
	expected, err := q.Reconstruct()
	require.NoError(t, err)
	requireSet(t, o, expected, s2)
}

func TestReduce(t *testing.T) {
	f, o := newTestForest()
	sp := box.MustSpace(-3, 3, "x")
	q := basic(t, f, sp, sp.Ineq(0, 1), sp.Ineq(0, 1))
	expected, err := q.Reconstruct()
	require.NoError(t, err)
	r, err := q.Reduce(PassEqualChildren, PassRedundant)
	require.NoError(t, err)
	requireSet(t, o, expected, r)

	_, err = q.Reduce(Pass(42))
	assert.Error(t, err)
	assert.Equal(t, "unknown", Pass(42).String())
	assert.Equal(t, "equal children", PassEqualChildren.String())
}
