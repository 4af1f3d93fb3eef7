package memtree

// TreeBuilder is the mutation surface of a tree consumed by request loaders
// and drivers. *tree.Tree implements it.
type TreeBuilder interface {
	// CreateDirectory creates path and any missing ancestors
	CreateDirectory(path string) error

	// CreateFile appends a file at path; its parent directories must exist
	CreateFile(path string, contents []byte) error
}
