// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package quast defines a decision-diagram representation for sets of integer
points constrained by linear arithmetic (Presburger sets), called quasi-affine
solution trees, or quasts.

# Basics

A quast is a directed acyclic graph of nodes. Each interior node tests an
atom, a constraint such as x + 2y - 3 >= 0, and has a high successor (followed
when the atom holds) and a low successor (followed otherwise). Each quast has
two terminal nodes, IN and OUT, told apart by identity: a point belongs to the
set represented by a quast when the walk from the root ends on IN.

The meaning of atoms is not defined by this library but by an Oracle (see
package oracle), a linear-arithmetic engine able to intersect, complement and
project sets, and to decide emptiness and inclusion. Package oracle/box
provides an exact oracle for sets living in a bounded box of integers.

All the quasts built by a Forest, created with method New, can be combined.
Nodes are immutable and may be shared by several quasts: union and
intersection graft a copy of their first operand on top of the graph of the
second one, and complement only swaps the two terminals.

# Reduction

Operations never try to reduce their result. The four reduction passes
(PruneRedundantBranches, PruneEmptysetBranches, PruneEqualChildrenNodes and
PruneIsomorphicSubtrees) and their composition, Simplify, are called
explicitly. Method Reduce applies a chosen sequence of passes, named by the
Pass constants. Like all the other operations, they return a new quast and leave
their source untouched.

# Use of build tags

To unlock extra consistency checks on the result of every operation (terminal
ownership and acyclicity), you can compile your executable with the build tag
`debug`.
*/
package quast
