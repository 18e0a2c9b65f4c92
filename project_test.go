// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/quast/oracle/box"
)

// requireProjection checks that the projection of q agrees with the
// projection computed by the oracle on the reconstructed set.
func requireProjection(t *testing.T, q *Quast, first, n int) *Quast {
	t.Helper()
	o := q.Forest().Oracle()
	p, err := q.ProjectOut(first, n)
	require.NoError(t, err)
	s, err := q.Reconstruct()
	require.NoError(t, err)
	expected, err := o.ProjectOut(s, first, n)
	require.NoError(t, err)
	require.True(t, p.Space().Equal(expected.Space()))
	requireSet(t, o, expected, p)
	return p
}

func TestProjectOut(t *testing.T) {
	f, _ := newTestForest()
	sp := box.MustSpace(-3, 3, "x", "y")
	qa := basic(t, f, sp, sp.Ineq(0, 1, 0), sp.Ineq(-1, 0, 1))
	qb := basic(t, f, sp, sp.Ineq(-1, -1, 0), sp.Ineq(-1, 0, -1))
	u, err := qa.Union(qb)
	require.NoError(t, err)

	var projectTests = []struct {
		name     string
		q        *Quast
		first, n int
	}{
		{"x = 2y", basic(t, f, sp, sp.Eq(0, 1, -2)), 1, 1},
		{"x = 2y on x", basic(t, f, sp, sp.Eq(0, 1, -2)), 0, 1},
		{"union on x", u, 1, 1},
		{"union on y", u, 0, 1},
		{"complement of union", u.Complement(), 0, 1},
		{"x + y >= 4 and x - y >= 0", basic(t, f, sp, sp.Ineq(-4, 1, 1), sp.Ineq(0, 1, -1)), 1, 1},
		{"all dims", u, 0, 2},
	}
	for _, tt := range projectTests {
		t.Run(tt.name, func(t *testing.T) {
			requireProjection(t, tt.q, tt.first, tt.n)
		})
	}
}

func TestProjectOutShared(t *testing.T) {
	f, _ := newTestForest()
	sp := box.MustSpace(-3, 3, "x", "y", "z")
	// the node testing x >= z is shared by two paths with different regions
	shared := basic(t, f, sp, sp.Ineq(0, 1, 0, -1))
	q, err := f.Ite(sp.Ineq(-1, 0, 1, 0), shared, shared)
	require.NoError(t, err)
	q, err = f.Ite(sp.Ineq(0, 0, 0, 1), q, mustIntersect(t, shared.Complement(), shared))
	require.NoError(t, err)
	for first := 0; first < 3; first++ {
		requireProjection(t, q, first, 1)
	}
	requireProjection(t, q, 1, 2)
}

func TestProjectOutParametric(t *testing.T) {
	f, _ := newTestForest()
	sp, err := box.NewParamSpace(0, 4, []string{"n"}, []string{"i", "j"})
	require.NoError(t, err)
	// 0 <= i < n and i <= j < n
	q := basic(t, f, sp, sp.Ineq(-1, 1, -1, 0), sp.Ineq(0, 0, -1, 1), sp.Ineq(-1, 1, 0, -1))
	requireProjection(t, q, 0, 1)
	requireProjection(t, q, 1, 1)
}

func TestProjectOutParams(t *testing.T) {
	f, o := newTestForest()
	sp, err := box.NewParamSpace(0, 4, []string{"n", "m"}, []string{"i", "j"})
	require.NoError(t, err)
	// 0 <= i < n and i <= j < n and j <= m
	q := basic(t, f, sp, sp.Ineq(-1, 1, 0, -1, 0), sp.Ineq(0, 0, 0, -1, 1), sp.Ineq(-1, 1, 0, 0, -1), sp.Ineq(0, 0, 1, 0, -1))
	s, err := q.Reconstruct()
	require.NoError(t, err)
	for _, r := range [][2]int{{0, 1}, {1, 1}, {0, 2}} {
		p, err := q.ProjectOutParams(r[0], r[1])
		require.NoError(t, err)
		expected, err := o.ProjectOutParams(s, r[0], r[1])
		require.NoError(t, err)
		require.True(t, p.Space().Equal(expected.Space()))
		assert.Equal(t, 2-r[1], p.Space().Params())
		assert.Equal(t, 2, p.Space().Dim())
		requireSet(t, o, expected, p)
	}

	_, err = q.ProjectOutParams(1, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	same, err := q.ProjectOutParams(0, 0)
	require.NoError(t, err)
	assert.Same(t, q, same)
}

func TestProjectOutRelabel(t *testing.T) {
	f, o := newTestForest()
	sp := box.MustSpace(-3, 3, "x", "y")
	// no atom mentions y: the graph keeps its shape
	q := basic(t, f, sp, sp.Ineq(0, 1, 0), sp.Ineq(1, -1, 0))
	p := requireProjection(t, q, 1, 1)
	assert.Equal(t, 2, p.Size())
	assert.Equal(t, "{ [x] : x >= 0 }", p.Root().Atom().String())
	requireSet(t, o, conjunction(o, p.Space(), box.MustSpace(-3, 3, "x").Ineq(0, 1), box.MustSpace(-3, 3, "x").Ineq(1, -1)), p)
}

func TestProjectOutErrors(t *testing.T) {
	f, _ := newTestForest(Maxnodes(1))
	sp := box.MustSpace(-3, 3, "x", "y")
	q := basic(t, f, sp, sp.Ineq(0, 1, 0), sp.Ineq(0, 0, 1), sp.Ineq(1, -1, 0))

	_, err := q.ProjectOut(1, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = q.ProjectOut(-1, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = q.ProjectOut(1, 1)
	assert.ErrorIs(t, err, ErrNodeLimit)

	same, err := q.ProjectOut(1, 0)
	require.NoError(t, err)
	assert.Same(t, q, same)
}

//********************************************************************************************

func TestApply(t *testing.T) {
	f, o := newTestForest()
	sp := plane()
	qa, qb, _, _ := scenarioAB(t, f, sp)
	u, err := qa.Union(qb)
	require.NoError(t, err)
	swap, err := box.Permutation(sp, 1, 0)
	require.NoError(t, err)
	img, err := u.Apply(swap)
	require.NoError(t, err)
	s, err := u.Reconstruct()
	require.NoError(t, err)
	expected, err := o.Apply(s, swap)
	require.NoError(t, err)
	requireSet(t, o, expected, img)
	assert.Equal(t, u.Size(), img.Size())

	// x -> -x, y -> -y
	neg, err := box.NewMap(sp, sp, [][]int{{-1, 0}, {0, -1}}, nil)
	require.NoError(t, err)
	img, err = u.Apply(neg)
	require.NoError(t, err)
	expected, err = o.Apply(s, neg)
	require.NoError(t, err)
	requireSet(t, o, expected, img)

	other, err := box.Permutation(box.MustSpace(-10, 10, "y", "x"), 1, 0)
	require.NoError(t, err)
	_, err = u.Apply(other)
	assert.ErrorIs(t, err, ErrSpaceMismatch)
}

func TestExtendSpace(t *testing.T) {
	f, o := newTestForest()
	sx := box.MustSpace(-3, 3, "x")
	sy := box.MustSpace(-3, 3, "y")
	qx := basic(t, f, sx, sx.Ineq(-1, 1))
	qy := basic(t, f, sy, sy.Ineq(0, -1))
	sxy := box.MustSpace(-3, 3, "x", "y")

	e, err := qx.ExtendSpace(sy)
	require.NoError(t, err)
	assert.True(t, e.Space().Equal(sxy))
	requireSet(t, o, sxy.Ineq(-1, 1, 0), e)

	d, err := qx.AddDims(2)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Space().Dim())
	s, err := d.Reconstruct()
	require.NoError(t, err)
	assert.Equal(t, 3*7*7, s.(*box.Set).Count())
	_, err = qx.AddDims(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	p, err := qx.FlatProduct(qy)
	require.NoError(t, err)
	assert.True(t, p.Space().Equal(sxy))
	requireSet(t, o, conjunction(o, sxy, sxy.Ineq(-1, 1, 0), sxy.Ineq(0, 0, -1)), p)
	s, err = p.Reconstruct()
	require.NoError(t, err)
	assert.Equal(t, 3*4, s.(*box.Set).Count())

	// the product of a space with itself uses fresh names
	sq, err := qx.FlatProduct(qx)
	require.NoError(t, err)
	assert.True(t, sq.Space().Equal(box.MustSpace(-3, 3, "x0", "x1")))
}
