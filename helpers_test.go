// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dalzilio/quast/oracle"
	"github.com/dalzilio/quast/oracle/box"
)

// plane is the space used in most tests: two dimensions x and y ranging over
// [-10, 10].
func plane() *box.Space { return box.MustSpace(-10, 10, "x", "y") }

func newTestForest(options ...func(*configs)) (*Forest, *box.Oracle) {
	o := box.New()
	return New(o, options...), o
}

func basic(t testing.TB, f *Forest, sp oracle.Space, atoms ...oracle.Set) *Quast {
	t.Helper()
	q, err := f.FromConjunction(sp, atoms)
	require.NoError(t, err)
	return q
}

// conjunction returns the oracle set of the conjunction of atoms.
func conjunction(o oracle.Oracle, sp oracle.Space, atoms ...oracle.Set) oracle.Set {
	res := o.Universe(sp)
	for _, a := range atoms {
		var err error
		if res, err = o.Intersect(res, a); err != nil {
			panic(err)
		}
	}
	return res
}

func requireSet(t *testing.T, o oracle.Oracle, expected oracle.Set, q *Quast) {
	t.Helper()
	actual, err := q.Reconstruct()
	require.NoError(t, err)
	eq, err := o.IsEqual(expected, actual)
	require.NoError(t, err)
	require.True(t, eq, "expected %s, actual %s", expected, actual)
}

// member returns the evaluation function of a point for Evaluate.
func member(pt ...int) func(oracle.Set) (bool, error) {
	return func(atom oracle.Set) (bool, error) {
		return atom.(*box.Set).Contains(pt...), nil
	}
}
