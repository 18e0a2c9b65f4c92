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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/dalzilio/quast/oracle"
)

// Stats returns information about the activity of the Forest.
func (f *Forest) Stats() string {
	res := fmt.Sprintf("Produced:   %s\n", humanize.Comma(int64(atomic.LoadUint64(&f.stats.produced))))
	res += fmt.Sprintf("Oracle:     %s calls\n", humanize.Comma(int64(atomic.LoadUint64(&f.stats.oraclecalls))))
	hit := atomic.LoadUint64(&f.stats.cachehit)
	miss := atomic.LoadUint64(&f.stats.cachemiss)
	if f.answers == nil {
		return res + "Cache:      disabled"
	}
	r := 0.0
	if hit+miss > 0 {
		r = float64(hit) / float64(hit+miss) * 100
	}
	res += fmt.Sprintf("Cache:      %s entries (size %s)\n", humanize.Comma(int64(f.answers.Len())), humanize.Comma(int64(f.cachesize)))
	res += fmt.Sprintf("Hits:       %s  (%.3g %%)\n", humanize.Comma(int64(hit)), r)
	res += fmt.Sprintf("Misses:     %s", humanize.Comma(int64(miss)))
	return res
}

// PrintStats outputs a textual representation of the Forest statistics.
func (f *Forest) PrintStats() {
	fmt.Println("==============")
	fmt.Println(f.Stats())
	fmt.Println("==============")
}

// ******************************************************************************************************

// numbering returns the interior nodes reachable from the root of q in
// post-order (successors before their parents), together with a map giving
// their local index. The OUT terminal has index 0, IN has index 1 and interior
// nodes are numbered from 2, in the order of the slice.
func (q *Quast) numbering() ([]*Node, map[*Node]int) {
	index := map[*Node]int{q.out: 0, q.in: 1}
	nodes := []*Node{}
	var visit func(n *Node)
	visit = func(n *Node) {
		if _, ok := index[n]; ok {
			return
		}
		visit(n.high)
		visit(n.low)
		index[n] = len(nodes) + 2
		nodes = append(nodes, n)
	}
	visit(q.root)
	return nodes, index
}

// Size returns the number of interior nodes reachable from the root of q.
// Shared nodes are counted once.
func (q *Quast) Size() int {
	seen := map[*Node]bool{}
	var visit func(n *Node)
	visit = func(n *Node) {
		if n.terminal || seen[n] {
			return
		}
		seen[n] = true
		visit(n.high)
		visit(n.low)
	}
	visit(q.root)
	return len(seen)
}

// Allnodes iterates over all the nodes reachable from the root of q and calls
// function f on each of them, successors first. Function f takes the index of
// the node, its atom and the index of its high and low successors. Terminals
// are never passed to f: OUT has always index 0 and IN has index 1. We stop
// and return the error if f returns an error at some point.
func (q *Quast) Allnodes(f func(id int, atom oracle.Set, high, low int) error) error {
	nodes, index := q.numbering()
	for _, n := range nodes {
		if err := f(index[n], n.atom, index[n.high], index[n.low]); err != nil {
			return err
		}
	}
	return nil
}

// Levels returns the interior nodes of q in level order: the k-th slice holds
// the nodes at distance k from the root, following the shortest path. A
// shared node appears once.
func (q *Quast) Levels() [][]*Node {
	res := [][]*Node{}
	seen := map[*Node]bool{}
	level := []*Node{q.root}
	for len(level) > 0 {
		cur := []*Node{}
		next := []*Node{}
		for _, n := range level {
			if n.terminal || seen[n] {
				continue
			}
			seen[n] = true
			cur = append(cur, n)
			next = append(next, n.high, n.low)
		}
		if len(cur) > 0 {
			res = append(res, cur)
		}
		level = next
	}
	return res
}

// PrintLevels writes a level-order description of q on w, one node per line.
func (q *Quast) PrintLevels(w io.Writer) error {
	_, index := q.numbering()
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "space:\t%s\n", q.space)
	for k, level := range q.Levels() {
		for _, n := range level {
			fmt.Fprintf(tw, "%d\t%d\t[%s]\t? %s\t: %s\n", k, index[n], n.atom, q.label(n.high, index), q.label(n.low, index))
		}
	}
	return tw.Flush()
}

// label returns the name of node n in textual outputs.
func (q *Quast) label(n *Node, index map[*Node]int) string {
	switch n {
	case q.in:
		return "IN"
	case q.out:
		return "OUT"
	}
	return fmt.Sprint(index[n])
}

// ******************************************************************************************************

// PrintDot prints a graph-like description of q using the DOT format.
func (q *Quast) PrintDot() error {
	return q.WriteDot(os.Stdout)
}

// FPrintDot writes the DOT description of q in file filename. We use the
// standard output if filename is "-".
func (q *Quast) FPrintDot(filename string) error {
	if filename == "-" {
		return q.WriteDot(os.Stdout)
	}
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer out.Close()
	return q.WriteDot(out)
}

// WriteDot writes a GraphViz DOT description of q on w. True arcs are drawn
// with a plain line and labeled T, false arcs are dotted and labeled F.
func (q *Quast) WriteDot(w io.Writer) error {
	nodes, index := q.numbering()
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")
	fmt.Fprintln(bw, "0 [shape=box, label=\"OUT\", style=filled, height=0.3, width=0.3];")
	fmt.Fprintln(bw, "1 [shape=box, label=\"IN\", style=filled, height=0.3, width=0.3];")
	for k := len(nodes) - 1; k >= 0; k-- {
		n := nodes[k]
		v := index[n]
		fmt.Fprintf(bw, "%d %s\n", v, dotlabel(v, n.atom))
		fmt.Fprintf(bw, "%d -> %d [style=filled, label=\"T\"];\n", v, index[n.high])
		fmt.Fprintf(bw, "%d -> %d [style=dotted, label=\"F\"];\n", v, index[n.low])
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func dotlabel(a int, atom oracle.Set) string {
	text := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(atom.String())
	return fmt.Sprintf(`[label=<
	<FONT POINT-SIZE="12">%s</FONT>
	<FONT POINT-SIZE="10">[%d]</FONT>
>];`, text, a)
}
