package repo

import (
	"fmt"
	"sort"
	"time"

	"github.com/shved/get/pkg/object"
	"github.com/shved/get/pkg/worktree"
)

// FileStatus describes how a work tree file differs from HEAD.
type FileStatus int

const (
	StatusNew      FileStatus = iota // on disk, not in HEAD
	StatusModified                   // same path, different content
	StatusRenamed                    // same content, path changed
	StatusDeleted                    // in HEAD, not on disk
)

func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusRenamed:
		return "renamed"
	case StatusDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("FileStatus(%d)", int(s))
	}
}

// StatusEntry records the status of a single file.
type StatusEntry struct {
	Path        string // slash-separated, relative to the work tree
	RenamedFrom string // set when Status is StatusRenamed
	Status      FileStatus
}

// Status compares the work tree with the HEAD snapshot.
//
// Algorithm:
//  1. Build the work tree arena (nothing is persisted).
//  2. Rebuild the HEAD arena from the store, or use an empty one before
//     the first commit.
//  3. Pair paths by digest to find renames.
//  4. Return entries sorted by path.
//
// Only files are reported. A clean work tree yields no entries.
func (r *Repo) Status(now time.Time) ([]StatusEntry, error) {
	wt, err := r.BuildCommit("", now)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	work := wt.Files()

	head := map[string]object.Digest{}
	parent := wt.Commit().Parent
	if !parent.IsEmpty() {
		hwt, err := worktree.FromCommit(r.Store, r.State.WorkDir, parent)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		head = hwt.Files()
	}

	var added, deleted []string
	var entries []StatusEntry
	for path, d := range work {
		hd, ok := head[path]
		switch {
		case !ok:
			added = append(added, path)
		case hd != d:
			entries = append(entries, StatusEntry{Path: path, Status: StatusModified})
		}
	}
	for path := range head {
		if _, ok := work[path]; !ok {
			deleted = append(deleted, path)
		}
	}
	sort.Strings(added)
	sort.Strings(deleted)

	// Each deleted path can explain at most one rename.
	byDigest := make(map[object.Digest][]string)
	for _, path := range deleted {
		byDigest[head[path]] = append(byDigest[head[path]], path)
	}
	renamedFrom := make(map[string]bool)
	for _, path := range added {
		d := work[path]
		if olds := byDigest[d]; len(olds) > 0 {
			byDigest[d] = olds[1:]
			renamedFrom[olds[0]] = true
			entries = append(entries, StatusEntry{Path: path, RenamedFrom: olds[0], Status: StatusRenamed})
			continue
		}
		entries = append(entries, StatusEntry{Path: path, Status: StatusNew})
	}
	for _, path := range deleted {
		if !renamedFrom[path] {
			entries = append(entries, StatusEntry{Path: path, Status: StatusDeleted})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}
