// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"github.com/pkg/errors"
)

// ErrSpaceMismatch is returned when combining quasts, or building a quast from
// atoms, that do not live in the same space.
var ErrSpaceMismatch = errors.New("quast: space mismatch")

// ErrForeignQuast is returned when combining quasts built by different forests.
var ErrForeignQuast = errors.New("quast: quasts from different forests")

// ErrIterationLimit is returned when a reduction pass has not reached a
// fixpoint after the number of rounds set with Maxiter.
var ErrIterationLimit = errors.New("quast: iteration limit reached")

// ErrNodeLimit is returned when an operation builds more nodes than allowed
// with Maxnodes.
var ErrNodeLimit = errors.New("quast: node limit reached")

// ErrOutOfRange is returned when a range of dimensions does not fit in the
// space of a quast.
var ErrOutOfRange = errors.New("quast: dimensions out of range")

// ErrMalformed is returned when decoding an invalid binary dump or when a node
// graph reaches a terminal that does not belong to its quast.
var ErrMalformed = errors.New("quast: malformed quast")

// checkpair returns an error if a and b cannot be combined.
func checkpair(op string, a, b *Quast) error {
	if a.forest != b.forest {
		return errors.Wrap(ErrForeignQuast, op)
	}
	if !a.space.Equal(b.space) {
		return errors.Wrapf(ErrSpaceMismatch, "%s: %s and %s", op, a.space, b.space)
	}
	return nil
}
