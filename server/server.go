// Package server exposes a built tree as a read-only FUSE mount.
package server

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/brettbedarf/memtree/config"
	"github.com/brettbedarf/memtree/internal/util"
	"github.com/brettbedarf/memtree/tree"
)

// Server mounts a snapshot of a [tree.Tree]. The inode tree is built once when
// the kernel first asks for the root, so nodes added afterwards do not show.
type Server struct {
	cfg    *config.Config
	tree   *tree.Tree
	server *fuse.Server
}

// New creates a Server for t. A nil cfg uses t's config.
func New(cfg *config.Config, t *tree.Tree) *Server {
	if cfg == nil {
		cfg = t.Config()
	}
	return &Server{cfg: cfg, tree: t}
}

// Serve mounts the tree at mountPoint and returns once the mount is live.
func (s *Server) Serve(mountPoint string) error {
	logger := util.GetLogger("Server.Serve")

	srv, err := fs.Mount(mountPoint, &mountRoot{tree: s.tree}, mountOptions(s.cfg))
	if err != nil {
		return err
	}
	s.server = srv
	logger.Debug().Str("mountpoint", mountPoint).Msg("Mounted")
	return nil
}

// Wait blocks until the filesystem is unmounted
func (s *Server) Wait() {
	if s.server != nil {
		s.server.Wait()
	}
}

// Unmount cleanly unmounts the filesystem.
func (s *Server) Unmount() error {
	if s.server == nil {
		return nil
	}
	return s.server.Unmount()
}

func mountOptions(cfg *config.Config) *fs.Options {
	opts := cfg.MountOptions
	logger := util.NewLogLogger("FuseServer", util.DebugLevel)
	return &fs.Options{
		MountOptions: fuse.MountOptions{
			Name:       opts.Name,
			FsName:     opts.FsName,
			AllowOther: opts.AllowOther,
			Debug:      opts.Debug || cfg.LogLvl == util.TraceLevel,
			Logger:     logger,
			Options:    []string{"ro"},
		},
		Logger: logger,
	}
}

// mountRoot is the FUSE root; it mirrors the tree's Root
type mountRoot struct {
	fs.Inode
	tree *tree.Tree
}

var (
	_ fs.NodeOnAdder   = (*mountRoot)(nil)
	_ fs.NodeGetattrer = (*mountRoot)(nil)
)

func (r *mountRoot) OnAdd(ctx context.Context) {
	addChildren(ctx, &r.Inode, r.tree.Root())
}

func (r *mountRoot) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = fuse.S_IFDIR | dirMode
	return 0
}

const (
	dirMode  = 0o555
	fileMode = 0o444
)

// addChildren mirrors n's children under parent. A directory sharing its name
// with a file wins, as it does in [tree.Node.Child]; among same-kind
// duplicates the first one wins.
func addChildren(ctx context.Context, parent *fs.Inode, n *tree.Node) {
	logger := util.GetLogger("server.addChildren")

	for _, ch := range containersFirst(n.Children()) {
		var child *fs.Inode
		if ch.IsFile() {
			child = parent.NewPersistentInode(ctx, fileNode(ch), fs.StableAttr{Mode: fuse.S_IFREG})
		} else {
			child = parent.NewPersistentInode(ctx, &fs.Inode{}, fs.StableAttr{Mode: fuse.S_IFDIR})
		}
		if !parent.AddChild(ch.Name(), child, false) {
			logger.Debug().Str("name", ch.Name()).Str("kind", ch.Kind().String()).Msg("Name already taken, node not mounted")
			continue
		}
		if ch.IsContainer() {
			addChildren(ctx, child, ch)
		}
	}
}

func fileNode(n *tree.Node) *fs.MemRegularFile {
	return &fs.MemRegularFile{
		Data: n.Contents(),
		Attr: fuse.Attr{Mode: fileMode},
	}
}

// containersFirst stably reorders nodes so containers precede files
func containersFirst(nodes []*tree.Node) []*tree.Node {
	out := make([]*tree.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.IsContainer() {
			out = append(out, n)
		}
	}
	for _, n := range nodes {
		if n.IsFile() {
			out = append(out, n)
		}
	}
	return out
}
