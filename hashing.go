// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"encoding/binary"
	"sort"

	"github.com/minio/blake2b-simd"
	"github.com/pkg/errors"

	"github.com/dalzilio/quast/oracle"
)

// Fingerprints

// digestSize is the width of the hashes returned by blake2b.Sum256.
const digestSize = 32

// digest is the fingerprint of a set: the blake2b hash of its canonical
// encoding. Two sets have the same digest iff the oracle considers them
// structurally equal (up to hash collisions, which we confirm with
// oracle.Equal wherever a collision would change the result).
type digest [digestSize]byte

func (f *Forest) digest(s oracle.Set) (digest, error) {
	data, err := f.oracle.Encode(s)
	if err != nil {
		return digest{}, errors.Wrap(err, "encode")
	}
	return blake2b.Sum256(data), nil
}

// ************************************************************

// The key of a node in the unique table is #(atom, high, low).

type uniquekey [digestSize + 16]byte

func makeuniquekey(atom digest, high, low *Node) uniquekey {
	var key uniquekey
	copy(key[:], atom[:])
	binary.LittleEndian.PutUint64(key[digestSize:], high.id)
	binary.LittleEndian.PutUint64(key[digestSize+8:], low.id)
	return key
}

// ************************************************************

// The key of context-sensitive memo tables is #(node, context), where the
// context is the set of points reaching the node.

type contextkey struct {
	id  uint64
	ctx digest
}

// ************************************************************

// truthstate records the truth value of the atoms already tested on a path,
// indexed by atom fingerprint.
type truthstate map[digest]bool

func (ts truthstate) with(d digest, v bool) truthstate {
	res := make(truthstate, len(ts)+1)
	for k, b := range ts {
		res[k] = b
	}
	res[d] = v
	return res
}

// fingerprint returns a digest of the content of ts that does not depend on
// map iteration order.
func (ts truthstate) fingerprint() digest {
	keys := make([]digest, 0, len(ts))
	for k := range ts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return string(keys[i][:]) < string(keys[j][:])
	})
	buf := make([]byte, 0, len(keys)*(digestSize+1))
	for _, k := range keys {
		buf = append(buf, k[:]...)
		if ts[k] {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return blake2b.Sum256(buf)
}
