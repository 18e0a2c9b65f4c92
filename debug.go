// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

//go:build debug
// +build debug

package quast

import (
	"log"
)

const _DEBUG bool = true

// checkquast verifies that every path of q ends on one of its terminals and
// that its node graph is acyclic. It is called on the result of every
// operation when the library is compiled with the debug tag.
func checkquast(q *Quast) {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[*Node]int)
	var visit func(n *Node)
	visit = func(n *Node) {
		if n.terminal {
			if n != q.in && n != q.out {
				log.Panicf("quast: node %d is a foreign terminal", n.id)
			}
			return
		}
		switch state[n] {
		case visiting:
			log.Panicf("quast: cycle through node %d", n.id)
		case done:
			return
		}
		state[n] = visiting
		visit(n.high)
		visit(n.low)
		state[n] = done
	}
	visit(q.root)
}
