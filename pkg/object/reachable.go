package object

import (
	"fmt"
	"sort"
)

// Ref names one stored object.
type Ref struct {
	Kind   Kind
	Digest Digest
}

// Reachable returns every object reachable from the commit digests in roots
// by following parents and content lines. Each object is read back and its
// digest checked, so a nil error means the whole history is intact.
// Empty digests in roots are skipped.
func (s *Store) Reachable(roots []Digest) (map[Ref]struct{}, error) {
	out := make(map[Ref]struct{})
	stack := make([]Ref, 0, len(roots))
	for _, d := range uniqueDigests(roots) {
		stack = append(stack, Ref{Kind: KindCommit, Digest: d})
	}

	for len(stack) > 0 {
		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := out[ref]; ok {
			continue
		}

		refs, err := s.references(ref)
		if err != nil {
			return nil, fmt.Errorf("reachable %s %s: %w", ref.Kind, ref.Digest, err)
		}
		out[ref] = struct{}{}
		stack = append(stack, refs...)
	}
	return out, nil
}

func (s *Store) references(ref Ref) ([]Ref, error) {
	var lines []string
	var refs []Ref
	switch ref.Kind {
	case KindCommit:
		c, err := ReadCommit(s, "", ref.Digest)
		if err != nil {
			return nil, err
		}
		if !c.Parent.IsEmpty() {
			refs = append(refs, Ref{Kind: KindCommit, Digest: c.Parent})
		}
		lines = c.content
	case KindTree:
		t, err := ReadTree(s, "", ref.Digest)
		if err != nil {
			return nil, err
		}
		lines = t.content
	case KindBlob:
		if _, err := ReadBlob(s, "", "", ref.Digest); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("kind %q: %w", ref.Kind, ErrUnexpectedFormat)
	}

	for _, line := range lines {
		e, err := ParseContentLine(line)
		if err != nil {
			return nil, err
		}
		refs = append(refs, Ref{Kind: e.Kind, Digest: e.Digest})
	}
	return refs, nil
}

func uniqueDigests(in []Digest) []Digest {
	seen := make(map[Digest]struct{}, len(in))
	out := make([]Digest, 0, len(in))
	for _, d := range in {
		if d == "" || d.IsEmpty() {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
