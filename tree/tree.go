// Package tree is the in-memory file tree: the node model, the insertion
// engine that grows it from validated slash-separated paths, and a printer.
package tree

import (
	"strings"
	"sync"

	"github.com/brettbedarf/memtree/config"
	"github.com/brettbedarf/memtree/internal/validate"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// Tree owns a single Root node and every node appended under it.
//
// Mutations are serialized by a per-tree writer lock. Readers never take it;
// they see per-node snapshots of child lists and may observe a mutation that
// is still in progress.
type Tree struct {
	cfg      *config.Config
	rules    validate.Rules
	root     *Node
	mu       sync.Mutex                   // Serializes writers
	registry *xsync.Map[uuid.UUID, *Node] // maps node IDs to nodes
}

// New creates an empty tree holding only its Root. A nil cfg uses defaults.
func New(cfg *config.Config) *Tree {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	root := newNode(KindRoot, "", nil)
	t := &Tree{
		cfg:      cfg,
		rules:    validate.NewRules(cfg),
		root:     root,
		registry: xsync.NewMap[uuid.UUID, *Node](),
	}
	t.registry.Store(root.id, root)
	return t
}

func (t *Tree) Root() *Node {
	return t.root
}

// Config returns the configuration the tree was built with
func (t *Tree) Config() *config.Config {
	return t.cfg
}

// NodeByID returns the node registered under id
func (t *Tree) NodeByID(id uuid.UUID) (*Node, bool) {
	return t.registry.Load(id)
}

// Len returns the number of nodes in the tree, Root included
func (t *Tree) Len() int {
	return t.registry.Size()
}

// Lookup resolves path to a node. Every segment but the last must name a
// container; the last may name a container or a file, containers winning.
// Invalid paths resolve to nothing. The empty path resolves to Root.
func (t *Tree) Lookup(path string) (*Node, bool) {
	if path == "" {
		return t.root, true
	}
	if !t.rules.IsValidName(path) || t.rules.ValidatePath(path) != nil {
		return nil, false
	}

	cur := t.root
	for _, seg := range strings.Split(path, "/") {
		if !cur.IsContainer() {
			return nil, false
		}
		next, ok := cur.Child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// WalkFunc is called for each node below Root. path is slash-joined from
// Root and depth is 0 for Root's direct children. Returning false skips the
// node's children.
type WalkFunc func(path string, depth int, n *Node) bool

// Walk visits every node below Root depth first, in insertion order
func (t *Tree) Walk(fn WalkFunc) {
	walk(t.root, "", 0, fn)
}

func walk(n *Node, prefix string, depth int, fn WalkFunc) {
	for _, ch := range n.Children() {
		p := ch.name
		if prefix != "" {
			p = prefix + "/" + ch.name
		}
		if fn(p, depth, ch) && ch.IsContainer() {
			walk(ch, p, depth+1, fn)
		}
	}
}

// Stats summarizes a tree's contents
type Stats struct {
	Dirs  int
	Files int
	Bytes int
}

func (t *Tree) Stats() Stats {
	var s Stats
	t.Walk(func(_ string, _ int, n *Node) bool {
		if n.IsFile() {
			s.Files++
			s.Bytes += n.Size()
		} else {
			s.Dirs++
		}
		return true
	})
	return s
}

// register makes a new node reachable by ID. Caller must hold t.mu.
func (t *Tree) register(n *Node) *Node {
	t.registry.Store(n.id, n)
	return n
}
