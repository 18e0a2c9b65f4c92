// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dalzilio/quast/oracle"
)

// Binary dump of a quast, in the protocol buffer wire format. The message has
// the following structure:
//
//	message Quast {
//	  repeated Node nodes = 1; // successors before their parents
//	  uint64 root = 2;
//	}
//
//	message Node {
//	  uint64 high = 1;
//	  uint64 low = 2;
//	  bytes atom = 3; // canonical encoding given by the oracle
//	}
//
// Node references use the indices of Allnodes: 0 for OUT, 1 for IN and k+2 for
// the k-th node of the list. The space is not part of the dump.

const (
	fieldNodes protowire.Number = 1
	fieldRoot  protowire.Number = 2
	fieldHigh  protowire.Number = 1
	fieldLow   protowire.Number = 2
	fieldAtom  protowire.Number = 3
)

// MarshalBinary returns a binary dump of q. Shared nodes are dumped once.
func (q *Quast) MarshalBinary() ([]byte, error) {
	nodes, index := q.numbering()
	var buf []byte
	for _, n := range nodes {
		atom, err := q.forest.oracle.Encode(n.atom)
		if err != nil {
			return nil, errors.Wrap(err, "marshal")
		}
		var msg []byte
		msg = protowire.AppendTag(msg, fieldHigh, protowire.VarintType)
		msg = protowire.AppendVarint(msg, uint64(index[n.high]))
		msg = protowire.AppendTag(msg, fieldLow, protowire.VarintType)
		msg = protowire.AppendVarint(msg, uint64(index[n.low]))
		msg = protowire.AppendTag(msg, fieldAtom, protowire.BytesType)
		msg = protowire.AppendBytes(msg, atom)
		buf = protowire.AppendTag(buf, fieldNodes, protowire.BytesType)
		buf = protowire.AppendBytes(buf, msg)
	}
	buf = protowire.AppendTag(buf, fieldRoot, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(index[q.root]))
	return buf, nil
}

// Unmarshal rebuilds a quast of space sp from a binary dump produced by
// MarshalBinary. It returns ErrMalformed if data is not a valid dump; when the
// oracle fails to decode an atom, the error also wraps the oracle error.
//
// Atoms are rebuilt from their canonical encoding only. With oracles whose
// encoding does not keep the text of constraints, such as box, PrintLevels and
// WriteDot show the decoded sets and not the constraints they were built from.
func (f *Forest) Unmarshal(sp oracle.Space, data []byte) (*Quast, error) {
	in, out := f.terminal(), f.terminal()
	nodes := []*Node{out, in}
	root := -1
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		data = data[n:]
		switch {
		case num == fieldNodes && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			data = data[n:]
			node, err := f.unmarshalnode(sp, msg, nodes)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		case num == fieldRoot && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			data = data[n:]
			root = int(v)
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			data = data[n:]
		}
	}
	if root < 0 || root >= len(nodes) {
		return nil, errors.Wrapf(ErrMalformed, "root %d out of %d nodes", root, len(nodes))
	}
	return f.newquast(sp, nodes[root], in, out), nil
}

// unmarshalnode decodes a node whose successors must be in nodes.
func (f *Forest) unmarshalnode(sp oracle.Space, data []byte, nodes []*Node) (*Node, error) {
	high, low := -1, -1
	var atom oracle.Set
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		data = data[n:]
		switch {
		case (num == fieldHigh || num == fieldLow) && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			data = data[n:]
			if v >= uint64(len(nodes)) {
				return nil, errors.Wrapf(ErrMalformed, "successor %d of node %d", v, len(nodes))
			}
			if num == fieldHigh {
				high = int(v)
			} else {
				low = int(v)
			}
		case num == fieldAtom && typ == protowire.BytesType:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			data = data[n:]
			var err error
			if atom, err = f.oracle.Decode(sp, b); err != nil {
				return nil, fmt.Errorf("%w: node %d: %w", ErrMalformed, len(nodes), err)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			data = data[n:]
		}
	}
	if high < 0 || low < 0 || atom == nil {
		return nil, errors.Wrapf(ErrMalformed, "incomplete node %d", len(nodes))
	}
	return f.makenode(atom, nodes[high], nodes[low]), nil
}
