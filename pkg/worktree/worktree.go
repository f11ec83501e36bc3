// Package worktree builds and restores snapshots of a working directory.
//
// A Worktree is an arena: a slice of nodes that reference each other by
// index. Index 0 is always the commit. Nodes are appended in pre-order, so
// every directory precedes its contents.
package worktree

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/shved/get/pkg/object"
)

// ErrUnsupported is returned for work tree entries that cannot be
// snapshotted, such as symbolic links.
var ErrUnsupported = errors.New("unsupported file type")

const (
	// RepoDir is the repository control directory.
	RepoDir = ".get"
	// ConfigFile is the optional per-repository configuration file.
	ConfigFile = ".get.toml"
)

// NodeID is an index into a Worktree's arena.
type NodeID int

// RootID is the commit node.
const RootID NodeID = 0

// Node is an arena entry.
type Node struct {
	Object   object.Object
	Children []NodeID
}

// Worktree owns every node of one snapshot. It is built for a single
// commit or restore and then discarded.
type Worktree struct {
	root  string
	nodes []Node
}

func newWorktree(root string, commit *object.Commit) *Worktree {
	return &Worktree{
		root:  root,
		nodes: []Node{{Object: commit}},
	}
}

// Root returns the absolute work tree path.
func (wt *Worktree) Root() string {
	return wt.root
}

// Len returns the number of nodes, commit included.
func (wt *Worktree) Len() int {
	return len(wt.nodes)
}

// Node returns the node with the given id.
func (wt *Worktree) Node(id NodeID) *Node {
	return &wt.nodes[id]
}

// Commit returns the root commit.
func (wt *Worktree) Commit() *object.Commit {
	return wt.nodes[RootID].Object.(*object.Commit)
}

// Digest returns the commit digest.
func (wt *Worktree) Digest() object.Digest {
	return wt.Commit().Digest()
}

// push appends obj as a child of parent and returns its id.
func (wt *Worktree) push(parent NodeID, obj object.Object) NodeID {
	wt.nodes = append(wt.nodes, Node{Object: obj})
	id := NodeID(len(wt.nodes) - 1)
	wt.nodes[parent].Children = append(wt.nodes[parent].Children, id)
	return id
}

// Walk calls fn for every node in arena order.
func (wt *Worktree) Walk(fn func(id NodeID, n *Node) error) error {
	for i := range wt.nodes {
		if err := fn(NodeID(i), &wt.nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

// Persist writes every node to the store. Children are written before
// their parent and the commit goes last, so a stored object never refers
// to a digest that is not stored yet.
func (wt *Worktree) Persist(s *object.Store) error {
	if err := wt.persist(s, RootID); err != nil {
		return fmt.Errorf("persist %s: %w", wt.Digest(), err)
	}
	return nil
}

func (wt *Worktree) persist(s *object.Store, id NodeID) error {
	for _, child := range wt.nodes[id].Children {
		if err := wt.persist(s, child); err != nil {
			return err
		}
	}
	return wt.nodes[id].Object.Save(s)
}

// Counts returns the number of trees and blobs in the arena.
func (wt *Worktree) Counts() (trees, blobs int) {
	for _, n := range wt.nodes {
		switch n.Object.(type) {
		case *object.Tree:
			trees++
		case *object.Blob:
			blobs++
		case *object.Commit:
		}
	}
	return trees, blobs
}

// Files maps the slash-separated relative path of every blob to its
// digest. Empty directories do not appear.
func (wt *Worktree) Files() map[string]object.Digest {
	files := make(map[string]object.Digest)
	for _, n := range wt.nodes {
		if b, ok := n.Object.(*object.Blob); ok {
			files[filepath.ToSlash(b.RelPath)] = b.Digest()
		}
	}
	return files
}
