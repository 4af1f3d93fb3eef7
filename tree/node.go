package tree

import (
	"bytes"
	"sync"

	"github.com/google/uuid"
)

// Kind tags the three node variants
type Kind uint8

const (
	KindRoot Kind = iota
	KindDir
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindDir:
		return "dir"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Node is a single entry in a [Tree]. Root and Dir nodes are containers and
// own an ordered child list; File nodes own an immutable byte buffer.
//
// Everything except the child list is fixed at creation. The child list only
// ever grows, and is guarded by mu so readers can snapshot it while the tree's
// single writer appends.
type Node struct {
	id       uuid.UUID
	kind     Kind
	name     string
	contents []byte // File only

	mu       sync.RWMutex // Protects children
	children []*Node      // Root and Dir only, insertion ordered
}

func newNode(kind Kind, name string, contents []byte) *Node {
	n := &Node{
		id:   uuid.New(),
		kind: kind,
		name: name,
	}
	if kind == KindFile {
		// callers keep their buffer; the tree keeps its own
		n.contents = bytes.Clone(contents)
		if n.contents == nil {
			n.contents = []byte{}
		}
	}
	return n
}

// ID returns the node's registry ID, unique within the process
func (n *Node) ID() uuid.UUID {
	return n.id
}

func (n *Node) Kind() Kind {
	return n.kind
}

// Name returns the node's segment name. The root's name is "".
func (n *Node) Name() string {
	return n.name
}

// IsContainer is true for Root and Dir nodes
func (n *Node) IsContainer() bool {
	return n.kind == KindRoot || n.kind == KindDir
}

func (n *Node) IsFile() bool {
	return n.kind == KindFile
}

// Contents returns a copy of a file's bytes; nil for containers
func (n *Node) Contents() []byte {
	if !n.IsFile() {
		return nil
	}
	return bytes.Clone(n.contents)
}

// Size is the length of a file's contents; 0 for containers
func (n *Node) Size() int {
	return len(n.contents)
}

// Children returns a snapshot of the node's children in insertion order
func (n *Node) Children() []*Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]*Node(nil), n.children...)
}

// Len returns the number of direct children
func (n *Node) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.children)
}

// Child returns the first child named name, preferring a container over a
// file when both exist.
func (n *Node) Child(name string) (*Node, bool) {
	dir, file := n.lookupChild(name)
	if dir != nil {
		return dir, true
	}
	return file, file != nil
}

// lookupChild returns the first container child and the first file child
// named name. Either may be nil.
func (n *Node) lookupChild(name string) (dir, file *Node) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, ch := range n.children {
		if ch.name != name {
			continue
		}
		if ch.IsContainer() {
			return ch, nil
		}
		if file == nil {
			file = ch
		}
	}
	return nil, file
}

// appendChild adds child at the end of the child list.
// Caller must hold the tree's write lock.
func (n *Node) appendChild(child *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children = append(n.children, child)
}
