package tree

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/brettbedarf/memtree/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTree() *Tree {
	return New(config.NewDefaultConfig())
}

// childNames returns the names of n's children in order
func childNames(n *Node) []string {
	var names []string
	for _, ch := range n.Children() {
		names = append(names, ch.Name())
	}
	return names
}

// mustLookup resolves path or fails the test
func mustLookup(t *testing.T, tr *Tree, path string) *Node {
	t.Helper()
	n, ok := tr.Lookup(path)
	require.True(t, ok, "expected %q to exist", path)
	return n
}

func TestCreateDirectory_SiblingsKeepOrder(t *testing.T) {
	t.Parallel()
	tr := createTestTree()

	require.NoError(t, tr.CreateDirectory("a/b"))
	require.NoError(t, tr.CreateDirectory("a/c"))

	a := mustLookup(t, tr, "a")
	assert.Equal(t, []string{"b", "c"}, childNames(a))
	assert.Equal(t, []string{"a"}, childNames(tr.Root()))
}

func TestCreateDirectory_Idempotent(t *testing.T) {
	t.Parallel()
	tr := createTestTree()

	require.NoError(t, tr.CreateDirectory("x/y"))
	before := tr.Len()
	require.NoError(t, tr.CreateDirectory("x/y"))

	assert.Equal(t, before, tr.Len())
	assert.Equal(t, []string{"x"}, childNames(tr.Root()))
	assert.Equal(t, []string{"y"}, childNames(mustLookup(t, tr, "x")))
}

func TestCreateDirectory_Deep(t *testing.T) {
	t.Parallel()
	tr := createTestTree()

	require.NoError(t, tr.CreateDirectory("path/to/nested/dir"))

	n := mustLookup(t, tr, "path/to/nested/dir")
	assert.Equal(t, KindDir, n.Kind())
	assert.Equal(t, 0, n.Len())
	assert.Equal(t, 5, tr.Len(), "root plus four directories")
}

func TestCreateDirectory_ValidationLeavesTreeUntouched(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"empty", "", ErrInvalidName},
		{"bad character", "a/b$c", ErrInvalidName},
		{"too long for a name", strings.Repeat("a", 43), ErrInvalidName},
		{"leading separator", "/a", ErrInvalidPath},
		{"trailing separator", "a/", ErrInvalidPath},
		{"doubled separator", "a//b", ErrInvalidPath},
		{"trailing dot", "a/b.", ErrInvalidPath},
		{"non-ASCII", "a/é", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr := createTestTree()

			err := tr.CreateDirectory(tt.path)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationErr(err))
			assert.Equal(t, 1, tr.Len())
			assert.Empty(t, tr.Render())

			var opErr *OpError
			require.True(t, errors.As(err, &opErr))
			assert.Equal(t, OpMkdir, opErr.Op)
			assert.Equal(t, tt.path, opErr.Path)
		})
	}
}

func TestCreateDirectory_ThroughFile(t *testing.T) {
	t.Parallel()
	tr := createTestTree()
	require.NoError(t, tr.CreateDirectory("a"))
	require.NoError(t, tr.CreateFile("a/f.txt", []byte("x")))

	t.Run("file as prefix", func(t *testing.T) {
		err := tr.CreateDirectory("a/f.txt/sub")
		assert.ErrorIs(t, err, ErrTargetIsFile)
		assert.False(t, IsValidationErr(err))
	})

	t.Run("file as target", func(t *testing.T) {
		err := tr.CreateDirectory("a/f.txt")
		assert.ErrorIs(t, err, ErrTargetIsFile)
	})

	assert.Equal(t, []string{"f.txt"}, childNames(mustLookup(t, tr, "a")))
}

// A structural failure can only come from a node that already existed, and
// directories are appended only below the deepest existing one, so a failing
// call never leaves new directories behind.
func TestCreateDirectory_FailureAppendsNothing(t *testing.T) {
	t.Parallel()
	tr := createTestTree()
	require.NoError(t, tr.CreateDirectory("p/q"))
	require.NoError(t, tr.CreateFile("p/q/r", nil))
	before := tr.Render()

	err := tr.CreateDirectory("p/q/r/s/t")

	require.ErrorIs(t, err, ErrTargetIsFile)
	assert.Equal(t, before, tr.Render())
	assert.Equal(t, 4, tr.Len())
}

func TestMkdirAll_FromFile(t *testing.T) {
	t.Parallel()
	tr := createTestTree()

	file := tr.register(newNode(KindFile, "f", []byte("x")))
	n, err := tr.mkdirAll(file, []string{"a"})

	require.ErrorIs(t, err, ErrTargetIsFile)
	assert.Equal(t, 0, n)

	n, err = tr.mkdirAll(tr.root, []string{"new1", "new2"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCreateDirectoryAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates missing chain", func(t *testing.T) {
		t.Parallel()
		tr := createTestTree()
		require.NoError(t, tr.CreateDirectory("a"))

		require.NoError(t, tr.CreateDirectoryAtomic("a/b/c"))

		mustLookup(t, tr, "a/b/c")
		assert.Equal(t, 4, tr.Len())
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		tr := createTestTree()
		require.NoError(t, tr.CreateDirectoryAtomic("x/y"))
		require.NoError(t, tr.CreateDirectoryAtomic("x/y"))
		assert.Equal(t, 3, tr.Len())
	})

	t.Run("unchanged on failure", func(t *testing.T) {
		t.Parallel()
		tr := createTestTree()
		require.NoError(t, tr.CreateDirectory("a"))
		require.NoError(t, tr.CreateFile("a/f", nil))
		before := tr.Render()

		err := tr.CreateDirectoryAtomic("a/f/g/h")

		require.ErrorIs(t, err, ErrTargetIsFile)
		assert.Equal(t, before, tr.Render())
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		tr := createTestTree()
		assert.ErrorIs(t, tr.CreateDirectoryAtomic("/a"), ErrInvalidPath)
	})

	t.Run("selected by config", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewDefaultConfig()
		cfg.AtomicDirs = true
		tr := New(cfg)
		require.NoError(t, tr.CreateDirectory("a"))
		require.NoError(t, tr.CreateFile("a/f", nil))

		err := tr.CreateDirectory("a/f/g")

		require.ErrorIs(t, err, ErrTargetIsFile)
		assert.Equal(t, "a/\n| f\n", tr.Render())
	})
}

func TestCreateFile(t *testing.T) {
	t.Parallel()

	t.Run("in root", func(t *testing.T) {
		t.Parallel()
		tr := createTestTree()

		require.NoError(t, tr.CreateFile("g.txt", []byte("hello")))

		f := mustLookup(t, tr, "g.txt")
		assert.True(t, f.IsFile())
		assert.Equal(t, []byte("hello"), f.Contents())
		assert.Equal(t, 5, f.Size())
	})

	t.Run("in existing directory", func(t *testing.T) {
		t.Parallel()
		tr := createTestTree()
		require.NoError(t, tr.CreateDirectory("folder-2/hellow/collection"))

		require.NoError(t, tr.CreateFile("folder-2/hellow/collection/virus.exe", []byte("this is cool")))

		f := mustLookup(t, tr, "folder-2/hellow/collection/virus.exe")
		assert.Equal(t, KindFile, f.Kind())
	})

	t.Run("contents are copied", func(t *testing.T) {
		t.Parallel()
		tr := createTestTree()
		buf := []byte("abc")
		require.NoError(t, tr.CreateFile("f", buf))
		buf[0] = 'z'

		f := mustLookup(t, tr, "f")
		assert.Equal(t, []byte("abc"), f.Contents())

		got := f.Contents()
		got[0] = 'y'
		assert.Equal(t, []byte("abc"), f.Contents())
	})

	t.Run("nil contents", func(t *testing.T) {
		t.Parallel()
		tr := createTestTree()
		require.NoError(t, tr.CreateFile("empty", nil))
		assert.Equal(t, []byte{}, mustLookup(t, tr, "empty").Contents())
	})

	t.Run("duplicate names append", func(t *testing.T) {
		t.Parallel()
		tr := createTestTree()
		require.NoError(t, tr.CreateFile("dup", []byte("1")))
		require.NoError(t, tr.CreateFile("dup", []byte("2")))
		assert.Equal(t, []string{"dup", "dup"}, childNames(tr.Root()))
	})
}

func TestCreateFile_MissingDirectory(t *testing.T) {
	t.Parallel()
	tr := createTestTree()

	err := tr.CreateFile("missing/file.txt", []byte("x"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDirectory)
	var missing *MissingDirectoryError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "missing", missing.Segment)
	assert.Contains(t, err.Error(), "directory missing doesn't exist")
	assert.Equal(t, 1, tr.Len(), "tree must be unchanged")

	// deeper miss names the first missing segment
	require.NoError(t, tr.CreateDirectory("a"))
	err = tr.CreateFile("a/b/c/file", nil)
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "b", missing.Segment)
	assert.Empty(t, mustLookup(t, tr, "a").Children())
}

func TestCreateFile_ThroughFile(t *testing.T) {
	t.Parallel()
	tr := createTestTree()
	require.NoError(t, tr.CreateFile("f.txt", []byte("x")))

	err := tr.CreateFile("f.txt/inner", []byte("y"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTargetIsFile)
	assert.NotErrorIs(t, err, ErrMissingDirectory)
	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OpCreate, opErr.Op)
}

func TestCreateFile_Validation(t *testing.T) {
	t.Parallel()
	tr := createTestTree()

	assert.ErrorIs(t, tr.CreateFile("%%ripbozo", nil), ErrInvalidName)
	assert.ErrorIs(t, tr.CreateFile("h//x", nil), ErrInvalidPath)
	assert.ErrorIs(t, tr.CreateFile(".env", nil), ErrInvalidPath)
	assert.Equal(t, 1, tr.Len())
}

// A directory and a file may share a name; directory lookups pick the directory.
func TestCreate_DirAndFileShareName(t *testing.T) {
	t.Parallel()
	tr := createTestTree()
	require.NoError(t, tr.CreateDirectory("same"))
	require.NoError(t, tr.CreateFile("same", []byte("f")))

	require.NoError(t, tr.CreateDirectory("same/child"))
	require.NoError(t, tr.CreateFile("same/child/leaf", nil))

	assert.Equal(t, "same/\n| child/\n| | leaf\nsame\n", tr.Render())
}

func TestCreate_ConcurrentWriters(t *testing.T) {
	t.Parallel()
	tr := createTestTree()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, tr.CreateDirectory("shared/dir"))
			_ = tr.Render()
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, tr.Len(), "concurrent mkdir -p must not duplicate directories")
}
