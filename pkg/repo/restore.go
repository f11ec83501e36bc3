package repo

import (
	"fmt"
	"time"

	"github.com/shved/get/pkg/object"
	"github.com/shved/get/pkg/worktree"
)

// Restore replaces the work tree with the snapshot of commit d.
//
// Algorithm:
//  1. Read HEAD (the old value goes to LOG).
//  2. Read the whole commit graph into an arena. A missing or malformed
//     object fails here, before anything on disk is touched.
//  3. Delete every non-ignored entry of the work tree.
//  4. Replay directories and files from the arena.
//  5. Move HEAD to d and append to LOG.
func (r *Repo) Restore(d object.Digest, now time.Time) error {
	old, err := r.Head()
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	wt, err := worktree.FromCommit(r.Store, r.State.WorkDir, d)
	if err != nil {
		return err
	}

	if err := worktree.Clean(r.State.WorkDir, r.State.Ignore); err != nil {
		return fmt.Errorf("restore %s: clean: %w", d, err)
	}
	if err := wt.Replay(); err != nil {
		return fmt.Errorf("restore %s: replay: %w", d, err)
	}

	if err := WriteHead(r.RootDir, d); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	if err := r.appendLog(LogEntry{
		OldHead:   old,
		NewHead:   d,
		Timestamp: now.Unix(),
		Op:        "restore",
		Summary:   wt.Commit().Message,
	}); err != nil {
		return &LogAppendError{OldHead: old, NewHead: d, Err: err}
	}
	return nil
}
