// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"fmt"

	"github.com/dalzilio/quast/oracle"
)

// Node is a vertex of a quast. Interior nodes test an atom and have a high
// (true) and a low (false) successor. Terminal nodes carry no atom; a quast
// tells its IN and OUT terminals apart by identity.
//
// Nodes are immutable once built. Operations that need a different successor
// build a new node, which makes it safe to share a node between any number of
// quasts.
type Node struct {
	id       uint64
	atom     oracle.Set
	high     *Node // successor when the atom holds
	low      *Node // successor when the atom does not hold
	terminal bool
}

// ID returns an identifier of n, unique within its Forest.
func (n *Node) ID() uint64 { return n.id }

// Atom returns the constraint tested by n, or nil for a terminal.
func (n *Node) Atom() oracle.Set { return n.atom }

// High returns the successor followed when the atom of n holds.
func (n *Node) High() *Node { return n.high }

// Low returns the successor followed when the atom of n does not hold.
func (n *Node) Low() *Node { return n.low }

// IsTerminal reports whether n is a terminal node.
func (n *Node) IsTerminal() bool { return n.terminal }

func (n *Node) String() string {
	if n.terminal {
		return fmt.Sprintf("terminal(%d)", n.id)
	}
	return fmt.Sprintf("(%d[%s] ? %d : %d)", n.id, n.atom, n.high.id, n.low.id)
}
