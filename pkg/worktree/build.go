package worktree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shved/get/pkg/object"
)

// BuildOptions describes the commit to snapshot.
type BuildOptions struct {
	Root      string
	Ignore    *IgnoreSet // nil means DefaultIgnore only
	Author    string
	Message   string
	Timestamp int64
	Parent    object.Digest
}

// Build walks opts.Root depth-first and returns the arena with every
// digest computed. Nothing is written to the store; call Persist for that.
//
// Each finished child appends its content line to the parent and the
// parent's digest is recomputed, so a digest only ever covers children
// that are already fully resolved.
func Build(opts BuildOptions) (*Worktree, error) {
	if strings.Contains(opts.Author, "\n") {
		return nil, fmt.Errorf("build: author %q: %w", opts.Author, object.ErrUnexpectedFormat)
	}
	parent := opts.Parent
	if parent == "" {
		parent = object.EmptyDigest
	}
	if !parent.Valid() {
		return nil, fmt.Errorf("build: parent %q: %w", parent, object.ErrUnexpectedFormat)
	}
	ignore := opts.Ignore
	if ignore == nil {
		ignore = NewIgnoreSet()
	}

	root := filepath.Clean(opts.Root)
	commit := object.NewCommit(root, parent, opts.Author, opts.Timestamp, opts.Message)
	wt := newWorktree(root, commit)

	if err := wt.buildDir(RootID, "", ignore); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if err := commit.UpdateDigest(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return wt, nil
}

func (wt *Worktree) buildDir(current NodeID, relDir string, ignore *IgnoreSet) error {
	absDir := filepath.Join(wt.root, relDir)
	entries, err := os.ReadDir(absDir)
	if err != nil {
		return object.WrapIO("read dir", absDir, err)
	}

	for _, e := range entries {
		rel := filepath.Join(relDir, e.Name())
		if ignore.Match(rel) {
			continue
		}
		if !object.ValidName(e.Name()) {
			return fmt.Errorf("%q: file name: %w", rel, ErrUnsupported)
		}

		var child NodeID
		switch mode := e.Type(); {
		case mode&os.ModeSymlink != 0:
			return fmt.Errorf("%q: symbolic link: %w", rel, ErrUnsupported)
		case mode.IsDir():
			child = wt.push(current, object.NewTree(rel))
			if err := wt.buildDir(child, rel, ignore); err != nil {
				return err
			}
			// Covers empty directories, which never had a child appended.
			if err := wt.nodes[child].Object.UpdateDigest(); err != nil {
				return err
			}
		case mode.IsRegular():
			child = wt.push(current, object.NewBlob(wt.root, rel))
			if err := wt.nodes[child].Object.UpdateDigest(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%q: mode %s: %w", rel, mode, ErrUnsupported)
		}

		line, err := wt.nodes[child].Object.ContentLine()
		if err != nil {
			return err
		}
		wt.nodes[current].Object.AppendContent(line)
		if err := wt.nodes[current].Object.UpdateDigest(); err != nil {
			return err
		}
	}
	return nil
}
