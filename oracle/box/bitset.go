// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package box

import "math/bits"

// bitset is a fixed-size set of point indices. Operations never modify their
// receiver; they allocate a new bitset instead, so that sets built by the
// engine can be shared freely.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)>>6)
}

// fullBitset returns the bitset with the n first bits set.
func fullBitset(n int) bitset {
	b := newBitset(n)
	for k := range b {
		b[k] = ^uint64(0)
	}
	if r := uint(n) & 63; r != 0 {
		b[len(b)-1] = (uint64(1) << r) - 1
	}
	return b
}

func (b bitset) has(i int) bool {
	return b[i>>6]&(uint64(1)<<(uint(i)&63)) != 0
}

func (b bitset) set(i int) {
	b[i>>6] |= uint64(1) << (uint(i) & 63)
}

func (b bitset) and(c bitset) bitset {
	res := make(bitset, len(b))
	for k := range b {
		res[k] = b[k] & c[k]
	}
	return res
}

func (b bitset) or(c bitset) bitset {
	res := make(bitset, len(b))
	for k := range b {
		res[k] = b[k] | c[k]
	}
	return res
}

// andNot returns the elements of b that are not in c.
func (b bitset) andNot(c bitset) bitset {
	res := make(bitset, len(b))
	for k := range b {
		res[k] = b[k] &^ c[k]
	}
	return res
}

func (b bitset) isEmpty() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}

func (b bitset) equal(c bitset) bool {
	if len(b) != len(c) {
		return false
	}
	for k := range b {
		if b[k] != c[k] {
			return false
		}
	}
	return true
}

// subset reports whether b is included in c.
func (b bitset) subset(c bitset) bool {
	for k := range b {
		if b[k]&^c[k] != 0 {
			return false
		}
	}
	return true
}

func (b bitset) count() int {
	res := 0
	for _, w := range b {
		res += bits.OnesCount64(w)
	}
	return res
}

// each calls f on every index in b, in increasing order.
func (b bitset) each(f func(int)) {
	for k, w := range b {
		for w != 0 {
			t := bits.TrailingZeros64(w)
			f(k<<6 + t)
			w &= w - 1
		}
	}
}
