package worktree

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shved/get/pkg/object"
)

// FromCommit rebuilds the arena of commit d from the store. Every tree and
// blob is read, so a successful return means the whole snapshot can be
// replayed. root is the work tree the snapshot is meant for.
func FromCommit(s *object.Store, root string, d object.Digest) (*Worktree, error) {
	root = filepath.Clean(root)
	commit, err := object.ReadCommit(s, root, d)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	wt := newWorktree(root, commit)
	if err := wt.readChildren(s, RootID, "", commit.Content()); err != nil {
		return nil, fmt.Errorf("restore %s: %w", d, err)
	}
	return wt, nil
}

// readChildren recreates the children listed in lines. The shape of the
// snapshot is recovered from the content lines alone.
func (wt *Worktree) readChildren(s *object.Store, current NodeID, relDir string, lines []string) error {
	for _, line := range lines {
		e, err := object.ParseContentLine(line)
		if err != nil {
			return err
		}
		rel := filepath.Join(relDir, e.Name)

		switch e.Kind {
		case object.KindTree:
			tree, err := object.ReadTree(s, rel, e.Digest)
			if err != nil {
				return err
			}
			child := wt.push(current, tree)
			if err := wt.readChildren(s, child, rel, tree.Content()); err != nil {
				return err
			}
		case object.KindBlob:
			blob, err := object.ReadBlob(s, wt.root, rel, e.Digest)
			if err != nil {
				return err
			}
			wt.push(current, blob)
		default:
			return fmt.Errorf("%q: kind %q: %w", rel, e.Kind, object.ErrUnexpectedFormat)
		}
	}
	return nil
}

// Clean removes everything under root that ignore does not match,
// bottom-up. A directory is removed once it is empty; directories that
// still hold ignored entries are kept.
func Clean(root string, ignore *IgnoreSet) error {
	if ignore == nil {
		ignore = NewIgnoreSet()
	}
	_, err := cleanDir(filepath.Clean(root), "", ignore)
	return err
}

// cleanDir reports whether relDir ended up empty.
func cleanDir(root, relDir string, ignore *IgnoreSet) (bool, error) {
	absDir := filepath.Join(root, relDir)
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return false, object.WrapIO("read dir", absDir, err)
	}

	empty := true
	for _, e := range entries {
		rel := filepath.Join(relDir, e.Name())
		abs := filepath.Join(root, rel)
		if ignore.Match(rel) {
			empty = false
			continue
		}

		// Symlinks are removed, never followed.
		if e.IsDir() && e.Type()&os.ModeSymlink == 0 {
			childEmpty, err := cleanDir(root, rel, ignore)
			if err != nil {
				return false, err
			}
			if !childEmpty {
				empty = false
				continue
			}
		}
		if err := os.Remove(abs); err != nil {
			return false, object.WrapIO("remove", abs, err)
		}
	}
	return empty, nil
}

// Replay writes the snapshot into the work tree. Arena order puts every
// directory before its contents.
func (wt *Worktree) Replay() error {
	return wt.Walk(func(id NodeID, n *Node) error {
		switch obj := n.Object.(type) {
		case *object.Commit:
			if err := os.MkdirAll(wt.root, 0o755); err != nil {
				return object.WrapIO("mkdir", wt.root, err)
			}
		case *object.Tree:
			p := filepath.Join(wt.root, obj.RelPath)
			if err := os.MkdirAll(p, 0o755); err != nil {
				return object.WrapIO("mkdir", p, err)
			}
		case *object.Blob:
			if err := os.WriteFile(obj.AbsPath, obj.Data(), 0o644); err != nil {
				return object.WrapIO("write", obj.AbsPath, err)
			}
		}
		return nil
	})
}
