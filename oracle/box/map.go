// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package box

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/dalzilio/quast/oracle"
)

// Map is the affine map y = M.x + c from the coordinates of Domain to the
// coordinates of Range (parameters included). Images that fall outside of the
// range box are dropped.
type Map struct {
	domain, rng *Space
	rows        [][]int
	consts      []int
}

// NewMap returns the map whose k-th output coordinate is consts[k] +
// rows[k].x. A nil consts means no constant part.
func NewMap(domain, rng *Space, rows [][]int, consts []int) (*Map, error) {
	if len(rows) != rng.ncoords() {
		return nil, errors.Errorf("map has %d rows, range has %d coordinates", len(rows), rng.ncoords())
	}
	for k, r := range rows {
		if len(r) != domain.ncoords() {
			return nil, errors.Errorf("row %d has %d coefficients, domain has %d coordinates", k, len(r), domain.ncoords())
		}
	}
	if consts == nil {
		consts = make([]int, rng.ncoords())
	}
	if len(consts) != rng.ncoords() {
		return nil, errors.Errorf("map has %d constants, range has %d coordinates", len(consts), rng.ncoords())
	}
	return &Map{domain: domain, rng: rng, rows: rows, consts: consts}, nil
}

// Permutation returns the map of sp onto itself that sends set dimension k to
// set dimension perm[k]. Parameters are unchanged.
func Permutation(sp *Space, perm ...int) (*Map, error) {
	if len(perm) != len(sp.dims) {
		return nil, errors.Errorf("permutation of %d dims for a space with %d dims", len(perm), len(sp.dims))
	}
	np := len(sp.params)
	rows := make([][]int, sp.ncoords())
	for k := range rows {
		rows[k] = make([]int, sp.ncoords())
	}
	for k := 0; k < np; k++ {
		rows[k][k] = 1
	}
	seen := make([]bool, len(perm))
	for k, v := range perm {
		if v < 0 || v >= len(perm) || seen[v] {
			return nil, errors.Errorf("invalid permutation %v", perm)
		}
		seen[v] = true
		rows[np+v][np+k] = 1
	}
	return NewMap(sp, sp, rows, nil)
}

// Domain returns the space of the arguments of m.
func (m *Map) Domain() oracle.Space { return m.domain }

// Range returns the space of the images of m.
func (m *Map) Range() oracle.Space { return m.rng }

func (m *Map) String() string {
	names := m.domain.names()
	out := make([]string, len(m.rows))
	for k, r := range m.rows {
		out[k] = Constraint{Coeffs: r, Const: m.consts[k]}.format(names)
		out[k] = strings.TrimSuffix(out[k], " >= 0")
	}
	return fmt.Sprintf("{ [%s] -> [%s] }", strings.Join(names, ", "), strings.Join(out, ", "))
}

func (m *Map) image(pt []int, buf []int) []int {
	for k, r := range m.rows {
		v := m.consts[k]
		for j, a := range r {
			v += a * pt[j]
		}
		buf[k] = v
	}
	return buf
}
