package object

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// commitHeaderFields is the number of property lines that open a commit
// body: parent, author, timestamp. The message lives in the archive header
// because it may span several lines.
const commitHeaderFields = 3

// encodeCommit lays out a commit body as its header fields followed by the
// sorted child lines, one per line.
func encodeCommit(c *Commit) []byte {
	lines := make([]string, 0, commitHeaderFields+len(c.content))
	lines = append(lines, string(c.Parent), c.Author, strconv.FormatInt(c.Timestamp, 10))
	lines = append(lines, c.content...)
	return []byte(strings.Join(lines, "\n"))
}

func encodeLines(lines []string) []byte {
	return []byte(strings.Join(lines, "\n"))
}

// decodeLines splits a tree body or the tail of a commit body and checks
// that every line is a well-formed content line.
func decodeLines(body string) ([]string, error) {
	if body == "" {
		return nil, nil
	}
	lines := strings.Split(body, "\n")
	for _, line := range lines {
		if _, err := ParseContentLine(line); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// ReadCommit loads the commit stored under d. root is the work tree the
// commit will be restored into.
func ReadCommit(s *Store, root string, d Digest) (*Commit, error) {
	meta, body, err := s.Read(KindCommit, d)
	if err != nil {
		return nil, fmt.Errorf("read commit: %w", err)
	}

	fields := strings.SplitN(string(body), "\n", commitHeaderFields+1)
	if len(fields) < commitHeaderFields {
		return nil, fmt.Errorf("read commit %s: %d header fields: %w", d, len(fields), ErrUnexpectedFormat)
	}
	parent := Digest(fields[0])
	if !parent.Valid() {
		return nil, fmt.Errorf("read commit %s: parent %q: %w", d, fields[0], ErrUnexpectedFormat)
	}
	ts, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: timestamp %q: %w", d, fields[2], ErrUnexpectedFormat)
	}

	c := NewCommit(root, parent, fields[1], ts, meta.Message)
	if len(fields) > commitHeaderFields {
		lines, err := decodeLines(fields[commitHeaderFields])
		if err != nil {
			return nil, fmt.Errorf("read commit %s: %w", d, err)
		}
		c.content = lines
	}

	if err := c.UpdateDigest(); err != nil {
		return nil, err
	}
	if c.digest != d {
		return nil, fmt.Errorf("read commit %s: content hashes to %s: %w", d, c.digest, ErrUnexpectedFormat)
	}
	return c, nil
}

// ReadTree loads the tree stored under d for the directory relPath.
func ReadTree(s *Store, relPath string, d Digest) (*Tree, error) {
	_, body, err := s.Read(KindTree, d)
	if err != nil {
		return nil, fmt.Errorf("read tree %q: %w", relPath, err)
	}
	lines, err := decodeLines(string(body))
	if err != nil {
		return nil, fmt.Errorf("read tree %q: %w", relPath, err)
	}

	t := NewTree(relPath)
	t.content = lines
	if err := t.UpdateDigest(); err != nil {
		return nil, err
	}
	if t.digest != d {
		return nil, fmt.Errorf("read tree %q: content hashes to %s, want %s: %w", relPath, t.digest, d, ErrUnexpectedFormat)
	}
	return t, nil
}

// ReadBlob loads the blob stored under d for the file relPath in root.
func ReadBlob(s *Store, root, relPath string, d Digest) (*Blob, error) {
	_, body, err := s.Read(KindBlob, d)
	if err != nil {
		return nil, fmt.Errorf("read blob %q: %w", relPath, err)
	}
	if got := HashBytes(body); got != d {
		return nil, fmt.Errorf("read blob %q: content hashes to %s, want %s: %w", relPath, got, d, ErrUnexpectedFormat)
	}
	return &Blob{
		RelPath: relPath,
		AbsPath: filepath.Join(root, relPath),
		data:    body,
		digest:  d,
	}, nil
}
