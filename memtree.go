// Package memtree builds in-memory file trees from validated slash-separated
// paths. See the tree package for the model and insertion rules.
package memtree

import (
	"github.com/brettbedarf/memtree/config"
	"github.com/brettbedarf/memtree/tree"
)

// New creates an empty tree given your config. A nil cfg uses defaults.
func New(cfg *config.Config) *tree.Tree {
	return tree.New(cfg)
}
