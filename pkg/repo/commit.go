package repo

import (
	"fmt"
	"time"

	"github.com/shved/get/pkg/object"
	"github.com/shved/get/pkg/worktree"
)

// BuildCommit snapshots the work tree into an arena with HEAD as parent.
// Nothing is persisted.
func (r *Repo) BuildCommit(message string, now time.Time) (*worktree.Worktree, error) {
	parent, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	wt, err := worktree.Build(worktree.BuildOptions{
		Root:      r.State.WorkDir,
		Ignore:    r.State.Ignore,
		Author:    r.State.Author,
		Message:   message,
		Timestamp: now.Unix(),
		Parent:    parent,
	})
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return wt, nil
}

// Commit records the work tree.
//
//  1. Read HEAD as parent
//  2. Build the arena and compute every digest
//  3. Persist all objects
//  4. Move HEAD to the new commit
//  5. Append to LOG
//
// HEAD is untouched if any of steps 1 to 3 fail.
func (r *Repo) Commit(message string, now time.Time) (object.Digest, error) {
	wt, err := r.BuildCommit(message, now)
	if err != nil {
		return "", err
	}
	parent := wt.Commit().Parent

	if err := wt.Persist(r.Store); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	d := wt.Digest()
	if err := WriteHead(r.RootDir, d); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	if err := r.appendLog(LogEntry{
		OldHead:   parent,
		NewHead:   d,
		Timestamp: now.Unix(),
		Op:        "commit",
		Summary:   message,
	}); err != nil {
		return d, &LogAppendError{OldHead: parent, NewHead: d, Err: err}
	}
	return d, nil
}

// HistoryEntry pairs a commit with its digest.
type HistoryEntry struct {
	Digest object.Digest
	Commit *object.Commit
}

// History follows parent digests from start, newest first, returning at
// most limit commits when limit > 0.
func (r *Repo) History(start object.Digest, limit int) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	cur := start
	for !cur.IsEmpty() {
		if limit > 0 && len(entries) >= limit {
			break
		}
		c, err := object.ReadCommit(r.Store, r.RootDir, cur)
		if err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		entries = append(entries, HistoryEntry{Digest: cur, Commit: c})
		cur = c.Parent
	}
	return entries, nil
}
