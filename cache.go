// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package quast

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/dalzilio/quast/oracle"
)

// ************************************************************

// The answer cache stores the result of emptiness and inclusion queries sent to
// the oracle. It is shared by all the operations of a Forest, so a region that
// is tested again in a later pass, or in another quast, costs a single
// encoding. Keys are fingerprints of the operands, tagged with the kind of
// query.

const (
	opEmpty byte = iota
	opSubset
)

type answerkey struct {
	op   byte
	a, b digest
}

func (f *Forest) lookup(key answerkey) (bool, bool) {
	if f.answers == nil {
		return false, false
	}
	if v, ok := f.answers.Get(key); ok {
		atomic.AddUint64(&f.stats.cachehit, 1)
		return v.(bool), true
	}
	atomic.AddUint64(&f.stats.cachemiss, 1)
	return false, false
}

func (f *Forest) store(key answerkey, res bool) bool {
	if f.answers != nil {
		f.answers.Add(key, res)
	}
	return res
}

// isempty returns whether s is empty, together with the fingerprint of s, which
// callers use to key their own memo tables.
func (f *Forest) isempty(s oracle.Set) (bool, digest, error) {
	d, err := f.digest(s)
	if err != nil {
		return false, d, err
	}
	key := answerkey{op: opEmpty, a: d}
	if res, ok := f.lookup(key); ok {
		return res, d, nil
	}
	atomic.AddUint64(&f.stats.oraclecalls, 1)
	res, err := f.oracle.IsEmpty(s)
	if err != nil {
		return false, d, errors.Wrap(err, "is empty")
	}
	return f.store(key, res), d, nil
}

// issubset returns whether a is included in b.
func (f *Forest) issubset(a, b oracle.Set) (bool, error) {
	da, err := f.digest(a)
	if err != nil {
		return false, err
	}
	db, err := f.digest(b)
	if err != nil {
		return false, err
	}
	key := answerkey{op: opSubset, a: da, b: db}
	if res, ok := f.lookup(key); ok {
		return res, nil
	}
	atomic.AddUint64(&f.stats.oraclecalls, 1)
	res, err := f.oracle.IsSubset(a, b)
	if err != nil {
		return false, errors.Wrap(err, "is subset")
	}
	return f.store(key, res), nil
}

// ************************************************************

// setops groups the oracle calls of a single operation on sets, with a memo
// table for the negation of atoms, which are requested once per visit of a
// node in context-sensitive traversals.
type setops struct {
	*Forest
	neg map[*Node]oracle.Set
}

func (f *Forest) newsetops() *setops {
	return &setops{Forest: f, neg: make(map[*Node]oracle.Set)}
}

// negation returns the complement of the atom of n.
func (s *setops) negation(n *Node) (oracle.Set, error) {
	if res, ok := s.neg[n]; ok {
		return res, nil
	}
	atomic.AddUint64(&s.stats.oraclecalls, 1)
	res, err := s.oracle.Complement(n.atom)
	if err != nil {
		return nil, errors.Wrap(err, "complement")
	}
	s.neg[n] = res
	return res, nil
}

func (s *setops) intersect(a, b oracle.Set) (oracle.Set, error) {
	atomic.AddUint64(&s.stats.oraclecalls, 1)
	res, err := s.oracle.Intersect(a, b)
	if err != nil {
		return nil, errors.Wrap(err, "intersect")
	}
	return res, nil
}

func (s *setops) union(a, b oracle.Set) (oracle.Set, error) {
	atomic.AddUint64(&s.stats.oraclecalls, 1)
	res, err := s.oracle.Union(a, b)
	if err != nil {
		return nil, errors.Wrap(err, "union")
	}
	return res, nil
}

// split returns the intersection of ctx with the atom of n and with its
// negation.
func (s *setops) split(n *Node, ctx oracle.Set) (oracle.Set, oracle.Set, error) {
	pt, err := s.intersect(ctx, n.atom)
	if err != nil {
		return nil, nil, err
	}
	neg, err := s.negation(n)
	if err != nil {
		return nil, nil, err
	}
	pf, err := s.intersect(ctx, neg)
	if err != nil {
		return nil, nil, err
	}
	return pt, pf, nil
}
