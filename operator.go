// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"github.com/pkg/errors"
)

// Pass describes the reduction passes that can be applied with Reduce.
type Pass int

const (
	PassEmptyset      Pass = iota // PruneEmptysetBranches
	PassIsomorphic                // PruneIsomorphicSubtrees
	PassEqualChildren             // PruneEqualChildrenNodes
	PassRedundant                 // PruneRedundantBranches
	passSimplify                  // Simplify. Only used in logs
)

var passnames = [5]string{
	PassEmptyset:      "emptyset",
	PassIsomorphic:    "isomorphic",
	PassEqualChildren: "equal children",
	PassRedundant:     "redundant",
	passSimplify:      "simplify",
}

func (p Pass) String() string {
	if p < 0 || int(p) >= len(passnames) {
		return "unknown"
	}
	return passnames[p]
}

// simplifyorder is the sequence of passes used by Simplify.
var simplifyorder = []Pass{PassEmptyset, PassIsomorphic, PassEqualChildren, PassRedundant}

// Reduce applies a sequence of reduction passes to q, in order, and returns
// the last result.
func (q *Quast) Reduce(passes ...Pass) (*Quast, error) {
	res := q
	for _, p := range passes {
		var err error
		switch p {
		case PassEmptyset:
			res, err = res.PruneEmptysetBranches()
		case PassIsomorphic:
			res, err = res.PruneIsomorphicSubtrees()
		case PassEqualChildren:
			res, err = res.PruneEqualChildrenNodes()
		case PassRedundant:
			res, err = res.PruneRedundantBranches()
		default:
			return nil, errors.Errorf("quast: unknown reduction pass %d", p)
		}
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}
