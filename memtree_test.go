package memtree

import (
	"testing"

	"github.com/brettbedarf/memtree/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ TreeBuilder = (*tree.Tree)(nil)

func TestRequests_Apply(t *testing.T) {
	t.Parallel()
	tr := New(nil)

	reqs := []NodeRequestor{
		&DirCreateRequest{NodeRequest: NodeRequest{Path: "a/b", Type: DirNodeType}},
		&FileCreateRequest{NodeRequest: NodeRequest{Path: "a/f.txt", Type: FileNodeType}, Contents: []byte("x")},
	}
	for _, r := range reqs {
		require.NoError(t, r.Apply(tr), r.GetRequest().Path)
	}

	assert.Equal(t, "a/\n| b/\n| f.txt\n", tr.Render())

	err := (&FileCreateRequest{NodeRequest: NodeRequest{Path: "nope/f"}}).Apply(tr)
	assert.ErrorIs(t, err, tree.ErrMissingDirectory)
}
