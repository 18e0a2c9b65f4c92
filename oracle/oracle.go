// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package oracle defines the linear-arithmetic engine consumed by package
// quast. The engine owns the meaning of spaces, sets and affine maps; a
// decision diagram only ever stores the sets handed out by an Oracle and asks
// the same Oracle to combine, compare and transform them.
package oracle

// Space identifies the coordinate system of a set: an ordered list of
// parameters followed by an ordered list of set dimensions. Two sets can only
// be combined when their spaces are equal.
type Space interface {
	// Equal reports whether the two spaces describe the same coordinates.
	Equal(Space) bool
	// Dim returns the number of set dimensions.
	Dim() int
	// Params returns the number of parameters.
	Params() int
	String() string
}

// Set is an oracle-owned set of integer points. Atoms stored in a decision
// diagram are Sets, usually built from a single affine constraint.
type Set interface {
	Space() Space
	String() string
}

// Map is an affine map between two spaces.
type Map interface {
	Domain() Space
	Range() Space
	String() string
}

// Oracle is the interface of a Presburger engine. All the sets passed to an
// Oracle must have been produced by that same Oracle. Operations that can fail
// return an error; the caller has no recovery strategy and propagates it.
type Oracle interface {
	// Universe returns the set of all the points in sp.
	Universe(sp Space) Set

	// Empty returns the empty set of sp.
	Empty(sp Space) Set

	// Intersect returns the intersection of a and b.
	Intersect(a, b Set) (Set, error)

	// Union returns the union of a and b.
	Union(a, b Set) (Set, error)

	// Complement returns the complement of a in its space. The result is in
	// general not a conjunction.
	Complement(a Set) (Set, error)

	// IsEmpty reports whether a has no points.
	IsEmpty(a Set) (bool, error)

	// IsSubset reports whether a is included in b.
	IsSubset(a, b Set) (bool, error)

	// IsEqual reports whether a and b contain the same points.
	IsEqual(a, b Set) (bool, error)

	// Equal is the structural equality used to compare atoms: same space and
	// same canonical description.
	Equal(a, b Set) bool

	// ProjectOut eliminates the n set dimensions starting at first. The
	// result lives in the reduced space.
	ProjectOut(a Set, first, n int) (Set, error)

	// DependsOn reports whether a constrains at least one of the n set
	// dimensions starting at first.
	DependsOn(a Set, first, n int) (bool, error)

	// ProjectOutParams eliminates the n parameters starting at first.
	ProjectOutParams(a Set, first, n int) (Set, error)

	// DependsOnParams reports whether a constrains at least one of the n
	// parameters starting at first.
	DependsOnParams(a Set, first, n int) (bool, error)

	// Gist returns a simplified version of a, equal to a on every point of
	// context.
	Gist(a, context Set) (Set, error)

	// Apply returns the image of a by m.
	Apply(a Set, m Map) (Set, error)

	// BasicSets returns the conjunctions whose union is a.
	BasicSets(a Set) ([]Set, error)

	// Constraints returns the atoms of a conjunction.
	Constraints(basic Set) ([]Set, error)

	// Product returns the space whose set dimensions are those of a followed
	// by those of b.
	Product(a, b Space) Space

	// AddDims returns sp with n fresh set dimensions appended.
	AddDims(sp Space, n int) Space

	// Embed lifts a into target, mapping the set dimensions of a onto the
	// dimensions of target starting at offset.
	Embed(a Set, target Space, offset int) (Set, error)

	// Encode returns a canonical binary description of a. Two sets are
	// structurally equal iff their encodings are equal.
	Encode(a Set) ([]byte, error)

	// Decode is the inverse of Encode.
	Decode(sp Space, data []byte) (Set, error)
}
