package repo

import (
	"fmt"

	"github.com/shved/get/pkg/object"
)

// VerifyReport counts the objects checked by Verify.
type VerifyReport struct {
	Roots   int
	Commits int
	Trees   int
	Blobs   int
}

// Verify reads back every object reachable from HEAD and from each digest
// recorded in LOG, checking that each one is present and hashes to its
// name.
func (r *Repo) Verify() (*VerifyReport, error) {
	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	entries, err := r.ReadLog(0)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	roots := []object.Digest{head}
	for _, e := range entries {
		roots = append(roots, e.OldHead, e.NewHead)
	}

	refs, err := r.Store.Reachable(roots)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	report := &VerifyReport{}
	seen := make(map[object.Digest]struct{})
	for _, d := range roots {
		if !d.IsEmpty() {
			seen[d] = struct{}{}
		}
	}
	report.Roots = len(seen)
	for ref := range refs {
		switch ref.Kind {
		case object.KindCommit:
			report.Commits++
		case object.KindTree:
			report.Trees++
		case object.KindBlob:
			report.Blobs++
		}
	}
	return report, nil
}
