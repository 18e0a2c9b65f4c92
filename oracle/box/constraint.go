// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package box

import (
	"fmt"
	"strings"
)

// Constraint is an affine constraint c + a1*v1 + ... + an*vn >= 0 (or = 0 when
// Eq is set) over the coordinates of a space, parameters first.
type Constraint struct {
	Coeffs []int
	Const  int
	Eq     bool
}

func (c Constraint) value(pt []int) int {
	v := c.Const
	for k, a := range c.Coeffs {
		v += a * pt[k]
	}
	return v
}

func (c Constraint) holds(pt []int) bool {
	if c.Eq {
		return c.value(pt) == 0
	}
	return c.value(pt) >= 0
}

func (c Constraint) scaled(f int) Constraint {
	res := Constraint{Coeffs: make([]int, len(c.Coeffs)), Const: f * c.Const, Eq: c.Eq}
	for k, a := range c.Coeffs {
		res.Coeffs[k] = f * a
	}
	return res
}

// negate returns the constraints whose disjunction is the negation of c over
// the integers.
func (c Constraint) negate() []Constraint {
	if c.Eq {
		lt := c.scaled(-1)
		lt.Eq = false
		lt.Const--
		gt := c.scaled(1)
		gt.Eq = false
		gt.Const--
		return []Constraint{gt, lt}
	}
	res := c.scaled(-1)
	res.Const--
	return []Constraint{res}
}

// involves reports whether c has a non-zero coefficient in [first, first+n).
func (c Constraint) involves(first, n int) bool {
	for k := first; k < first+n; k++ {
		if c.Coeffs[k] != 0 {
			return true
		}
	}
	return false
}

// drop removes the coefficients in [first, first+n).
func (c Constraint) drop(first, n int) Constraint {
	res := Constraint{Const: c.Const, Eq: c.Eq}
	res.Coeffs = append(res.Coeffs, c.Coeffs[:first]...)
	res.Coeffs = append(res.Coeffs, c.Coeffs[first+n:]...)
	return res
}

// lift moves a constraint over (params, dims) into a space with the same
// parameters and ncoords coordinates, shifting dimension coefficients by
// offset.
func (c Constraint) lift(nparams, ncoords, offset int) Constraint {
	res := Constraint{Coeffs: make([]int, ncoords), Const: c.Const, Eq: c.Eq}
	copy(res.Coeffs, c.Coeffs[:nparams])
	for k := nparams; k < len(c.Coeffs); k++ {
		res.Coeffs[k+offset] = c.Coeffs[k]
	}
	return res
}

func (c Constraint) format(names []string) string {
	var b strings.Builder
	for k, a := range c.Coeffs {
		if a == 0 {
			continue
		}
		switch {
		case b.Len() == 0 && a == 1:
		case b.Len() == 0 && a == -1:
			b.WriteString("-")
		case b.Len() == 0:
			fmt.Fprintf(&b, "%d", a)
		case a == 1:
			b.WriteString(" + ")
		case a == -1:
			b.WriteString(" - ")
		case a < 0:
			fmt.Fprintf(&b, " - %d", -a)
		default:
			fmt.Fprintf(&b, " + %d", a)
		}
		b.WriteString(names[k])
	}
	switch {
	case b.Len() == 0:
		fmt.Fprintf(&b, "%d", c.Const)
	case c.Const > 0:
		fmt.Fprintf(&b, " + %d", c.Const)
	case c.Const < 0:
		fmt.Fprintf(&b, " - %d", -c.Const)
	}
	if c.Eq {
		return b.String() + " = 0"
	}
	return b.String() + " >= 0"
}
