package tree

import (
	"strings"

	"github.com/brettbedarf/memtree/internal/util"
)

// CreateDirectory creates the directory at path along with any missing
// ancestors, like `mkdir -p`. Existing directories are reused, so calling it
// twice with the same path is a no-op the second time.
//
// Validation failures leave the tree untouched. A structural failure part way
// down (a segment naming a file) is NOT rolled back: directories appended for
// earlier segments of the same call stay in the tree. Set
// config.Config.AtomicDirs, or call [Tree.CreateDirectoryAtomic], to resolve
// the whole path before appending anything.
func (t *Tree) CreateDirectory(path string) error {
	if t.cfg.AtomicDirs {
		return t.CreateDirectoryAtomic(path)
	}
	logger := util.GetLogger("Tree.CreateDirectory")

	segs, err := t.split(OpMkdir, path)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	newCnt, err := t.mkdirAll(t.root, segs)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Int("created", newCnt).Msg("Directory creation stopped part way")
		return &OpError{Op: OpMkdir, Path: path, Err: err}
	}
	if newCnt > 0 {
		logger.Debug().Str("path", path).Int("created", newCnt).Msg("Created new dir(s)")
	}
	return nil
}

// mkdirAll descends from cur one segment at a time, appending any directory
// that is missing, and returns how many it appended.
func (t *Tree) mkdirAll(cur *Node, segs []string) (int, error) {
	if len(segs) == 0 {
		return 0, nil
	}
	if cur.IsFile() {
		return 0, targetIsFile(cur.name)
	}

	name, rest := segs[0], segs[1:]
	dir, file := cur.lookupChild(name)
	if dir != nil {
		return t.mkdirAll(dir, rest)
	}
	if file != nil {
		return 0, targetIsFile(name)
	}

	dir = t.register(newNode(KindDir, name, nil))
	cur.appendChild(dir)
	util.GetLogger("Tree.mkdirAll").Trace().Str("name", name).Msg("Appended dir")

	n, err := t.mkdirAll(dir, rest)
	return n + 1, err
}

// CreateDirectoryAtomic behaves like [Tree.CreateDirectory] but resolves the
// full path first and appends only when every segment can be placed. On
// failure the tree is unchanged.
func (t *Tree) CreateDirectoryAtomic(path string) error {
	logger := util.GetLogger("Tree.CreateDirectoryAtomic")

	segs, err := t.split(OpMkdir, path)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Find the deepest existing container on the path
	cur := t.root
	i := 0
	for ; i < len(segs); i++ {
		dir, file := cur.lookupChild(segs[i])
		if dir == nil {
			if file != nil {
				return &OpError{Op: OpMkdir, Path: path, Err: targetIsFile(segs[i])}
			}
			break
		}
		cur = dir
	}

	// Everything below cur is new so nothing else can fail
	for _, name := range segs[i:] {
		dir := t.register(newNode(KindDir, name, nil))
		cur.appendChild(dir)
		cur = dir
	}
	if newCnt := len(segs) - i; newCnt > 0 {
		logger.Debug().Str("path", path).Int("created", newCnt).Msg("Created new dir(s)")
	}
	return nil
}

// CreateFile appends a file holding a copy of contents at path. Unlike
// [Tree.CreateDirectory] it never creates ancestors: every segment but the
// last must name an existing directory, otherwise a [MissingDirectoryError]
// for the first missing segment is returned. A segment naming a file fails
// with [ErrTargetIsFile]. Nothing is appended on failure.
//
// File names need not be unique; creating the same path twice yields two
// sibling files.
func (t *Tree) CreateFile(path string, contents []byte) error {
	logger := util.GetLogger("Tree.CreateFile")

	segs, err := t.split(OpCreate, path)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.placeFile(t.root, segs, contents); err != nil {
		return &OpError{Op: OpCreate, Path: path, Err: err}
	}
	logger.Debug().Str("path", path).Int("size", len(contents)).Msg("Added new file node")
	return nil
}

func (t *Tree) placeFile(cur *Node, segs []string, contents []byte) error {
	if cur.IsFile() {
		return targetIsFile(cur.name)
	}

	name, rest := segs[0], segs[1:]
	if len(rest) == 0 {
		cur.appendChild(t.register(newNode(KindFile, name, contents)))
		return nil
	}

	dir, file := cur.lookupChild(name)
	switch {
	case dir != nil:
		return t.placeFile(dir, rest, contents)
	case file != nil:
		return targetIsFile(name)
	default:
		return &MissingDirectoryError{Segment: name}
	}
}

// split validates path, name grammar first then path grammar, and returns
// its segments. Any error is wrapped in an *OpError for op.
func (t *Tree) split(op, path string) ([]string, error) {
	if !t.rules.IsValidName(path) {
		return nil, &OpError{Op: op, Path: path, Err: ErrInvalidName}
	}
	if err := t.rules.ValidatePath(path); err != nil {
		return nil, &OpError{Op: op, Path: path, Err: err}
	}
	return strings.Split(path, "/"), nil
}
