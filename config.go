// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package quast

import (
	"os"

	"github.com/sirupsen/logrus"
)

// _DEFAULTCACHESIZE is the default number of oracle answers kept by a Forest.
const _DEFAULTCACHESIZE int = 10000

// _DEFAULTMAXITER is the default cap on the number of rounds of the iterative
// reduction passes.
const _DEFAULTMAXITER int = 10

// configs is used to store the values of different parameters of a Forest
type configs struct {
	cachesize int            // number of entries in the oracle answer cache (0 if disabled)
	maxiter   int            // maximal number of rounds in fixpoint loops
	maxnodes  int            // maximal number of nodes built by a context-sensitive operation (0 if no limit)
	logger    *logrus.Logger // destination of diagnostic messages
}

func makeconfigs() *configs {
	c := &configs{
		cachesize: _DEFAULTCACHESIZE,
		maxiter:   _DEFAULTMAXITER,
	}
	c.logger = logrus.New()
	c.logger.SetOutput(os.Stderr)
	c.logger.SetLevel(logrus.WarnLevel)
	return c
}

// Cachesize is a configuration option (function). Used as a parameter in New it
// sets the number of entries in the cache of oracle answers (emptiness and
// inclusion tests) shared by all the quasts of a Forest. The default value is
// 10 000. A value of 0 disables the cache.
func Cachesize(size int) func(*configs) {
	return func(c *configs) {
		if size >= 0 {
			c.cachesize = size
		}
	}
}

// Maxiter is a configuration option (function). Used as a parameter in New it
// sets the maximal number of rounds of the reduction passes that iterate to a
// fixpoint (PruneEmptysetBranches and PruneIsomorphicSubtrees). A pass that
// has not converged after this number of rounds returns ErrIterationLimit.
// The default value is 10.
func Maxiter(n int) func(*configs) {
	return func(c *configs) {
		if n > 0 {
			c.maxiter = n
		}
	}
}

// Maxnodes is a configuration option (function). Used as a parameter in New it
// sets a limit to the number of nodes that ProjectOut, PruneEmptysetBranches
// and PruneRedundantBranches can build. These operations follow decision paths
// and may unshare a DAG into a tree; when the limit is reached they return
// ErrNodeLimit. The default value (0) means that there is no limit.
func Maxnodes(n int) func(*configs) {
	return func(c *configs) {
		if n >= 0 {
			c.maxnodes = n
		}
	}
}

// Logger is a configuration option (function). Used as a parameter in New it
// sets the logger used for diagnostic messages. By default we log warnings on
// the standard error.
func Logger(l *logrus.Logger) func(*configs) {
	return func(c *configs) {
		if l != nil {
			c.logger = l
		}
	}
}
