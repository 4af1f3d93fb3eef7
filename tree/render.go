package tree

import (
	"io"
	"strings"
)

// Render lists the tree depth first, one entry per line, in insertion order.
// Directories carry a trailing '/'. Each depth level is prefixed with the
// configured indent (config.DefaultIndentPrefix unless overridden). Root
// itself is not listed.
func (t *Tree) Render() string {
	return Render(t.root, t.cfg.IndentPrefix)
}

// WriteTo writes [Tree.Render] to w
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.Render())
	return int64(n), err
}

// Render lists everything below n using indent once per depth level
func Render(n *Node, indent string) string {
	var b strings.Builder
	walk(n, "", 0, func(_ string, depth int, ch *Node) bool {
		b.WriteString(strings.Repeat(indent, depth))
		b.WriteString(ch.name)
		if ch.IsContainer() {
			b.WriteByte('/')
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
