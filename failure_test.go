// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalzilio/quast/oracle"
	"github.com/dalzilio/quast/oracle/box"
)

var errBroken = errors.New("broken oracle")

// brokenOracle is a box oracle whose complement, emptiness, projection and
// decoding always fail.
type brokenOracle struct {
	*box.Oracle
}

func (brokenOracle) Complement(oracle.Set) (oracle.Set, error) { return nil, errBroken }

func (brokenOracle) IsEmpty(oracle.Set) (bool, error) { return false, errBroken }

func (brokenOracle) ProjectOut(oracle.Set, int, int) (oracle.Set, error) { return nil, errBroken }

func (brokenOracle) ProjectOutParams(oracle.Set, int, int) (oracle.Set, error) {
	return nil, errBroken
}

func (brokenOracle) Decode(oracle.Space, []byte) (oracle.Set, error) { return nil, errBroken }

func TestOracleFailures(t *testing.T) {
	f := New(brokenOracle{box.New()}, Cachesize(0))
	sp := plane()
	q := basic(t, f, sp, sp.Ineq(0, 1, 0), sp.Ineq(0, 0, 1))

	// the root of the complement tests the negation of its atom
	_, err := q.Complement().Reconstruct()
	assert.ErrorIs(t, err, errBroken)

	_, err = q.IsEmpty()
	assert.ErrorIs(t, err, errBroken)
	_, err = f.Universe(sp).IsEmpty()
	assert.ErrorIs(t, err, errBroken)

	_, err = q.ProjectOut(1, 1)
	assert.ErrorIs(t, err, errBroken)

	_, err = q.Simplify()
	assert.ErrorIs(t, err, errBroken)
	_, err = q.PruneEmptysetBranches()
	assert.ErrorIs(t, err, errBroken)

	data, err := q.MarshalBinary()
	require.NoError(t, err)
	_, err = f.Unmarshal(sp, data)
	assert.ErrorIs(t, err, errBroken)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestOracleFailuresParams(t *testing.T) {
	f := New(brokenOracle{box.New()})
	sp, err := box.NewParamSpace(0, 3, []string{"n"}, []string{"i"})
	require.NoError(t, err)
	q := basic(t, f, sp, sp.Ineq(-1, 1, -1))
	_, err = q.ProjectOutParams(0, 1)
	assert.ErrorIs(t, err, errBroken)
}
