package object

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies the kind of object stored.
type Kind string

const (
	KindCommit Kind = "commit"
	KindTree   Kind = "tree"
	KindBlob   Kind = "blob"
)

// Kinds lists every object kind in store layout order.
var Kinds = []Kind{KindCommit, KindTree, KindBlob}

// Object is the closed set of {*Commit, *Tree, *Blob}. The unexported
// method keeps other packages from adding variants, so type switches over
// Object stay exhaustive.
type Object interface {
	Kind() Kind
	// Path is the absolute root for a Commit and the root-relative path
	// for a Tree or Blob.
	Path() string
	Digest() Digest
	// UpdateDigest recomputes the digest from the current content.
	UpdateDigest() error
	// AppendContent adds a child content line. No-op for a Blob.
	AppendContent(line string)
	// ContentLine formats the "<kind>\t<digest>\t<name>" line a parent
	// hashes. Fails for a Commit and before the digest is computed.
	ContentLine() (string, error)
	// Save writes the object to s under its own digest.
	Save(s *Store) error

	sealed()
}

// Commit is the root of a snapshot.
type Commit struct {
	Root      string
	Parent    Digest
	Author    string
	Timestamp int64
	Message   string

	content []string
	digest  Digest
}

// NewCommit returns a commit with an empty content accumulator.
func NewCommit(root string, parent Digest, author string, timestamp int64, message string) *Commit {
	return &Commit{
		Root:      root,
		Parent:    parent,
		Author:    author,
		Timestamp: timestamp,
		Message:   message,
	}
}

func (c *Commit) Kind() Kind     { return KindCommit }
func (c *Commit) Path() string   { return c.Root }
func (c *Commit) Digest() Digest { return c.digest }
func (c *Commit) sealed()        {}

// Properties returns parent, author, timestamp and message in hashing order.
func (c *Commit) Properties() []string {
	return []string{
		string(c.Parent),
		c.Author,
		strconv.FormatInt(c.Timestamp, 10),
		c.Message,
	}
}

// Content returns a copy of the child content lines.
func (c *Commit) Content() []string {
	return append([]string(nil), c.content...)
}

func (c *Commit) UpdateDigest() error {
	c.digest = HashContent(c.content, c.Properties()...)
	return nil
}

func (c *Commit) AppendContent(line string) {
	c.content = append(c.content, line)
}

func (c *Commit) ContentLine() (string, error) {
	return "", ErrNoContentLine
}

func (c *Commit) Save(s *Store) error {
	if c.digest == "" {
		return fmt.Errorf("save commit: %w", ErrDigestNotComputed)
	}
	body := encodeCommit(c)
	return s.Write(KindCommit, c.digest, body, Meta{
		Message:   c.Message,
		Timestamp: c.Timestamp,
	})
}

// Tree is a directory listing.
type Tree struct {
	RelPath string

	content []string
	digest  Digest
}

// NewTree returns a tree for the root-relative directory relPath.
func NewTree(relPath string) *Tree {
	return &Tree{RelPath: relPath}
}

func (t *Tree) Kind() Kind     { return KindTree }
func (t *Tree) Path() string   { return t.RelPath }
func (t *Tree) Digest() Digest { return t.digest }
func (t *Tree) sealed()        {}

// Content returns a copy of the child content lines.
func (t *Tree) Content() []string {
	return append([]string(nil), t.content...)
}

func (t *Tree) UpdateDigest() error {
	t.digest = HashContent(t.content)
	return nil
}

func (t *Tree) AppendContent(line string) {
	t.content = append(t.content, line)
}

func (t *Tree) ContentLine() (string, error) {
	return formatContentLine(KindTree, t.digest, t.RelPath)
}

func (t *Tree) Save(s *Store) error {
	if t.digest == "" {
		return fmt.Errorf("save tree %q: %w", t.RelPath, ErrDigestNotComputed)
	}
	return s.Write(KindTree, t.digest, encodeLines(t.content), Meta{
		Name: filepath.Base(t.RelPath),
	})
}

// Blob is a file. Data holds exactly the bytes that were hashed.
type Blob struct {
	RelPath string
	AbsPath string

	data   []byte
	digest Digest
}

// NewBlob returns a blob for root-relative relPath under root.
func NewBlob(root, relPath string) *Blob {
	return &Blob{
		RelPath: relPath,
		AbsPath: filepath.Join(root, relPath),
	}
}

func (b *Blob) Kind() Kind     { return KindBlob }
func (b *Blob) Path() string   { return b.RelPath }
func (b *Blob) Digest() Digest { return b.digest }
func (b *Blob) sealed()        {}

// Data returns the blob content.
func (b *Blob) Data() []byte { return b.data }

// UpdateDigest reads the file once; later calls keep the first result so
// the persisted bytes always match the digest.
func (b *Blob) UpdateDigest() error {
	if b.digest != "" {
		return nil
	}
	data, err := os.ReadFile(b.AbsPath)
	if err != nil {
		return WrapIO("read", b.AbsPath, err)
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("blob %q: %w", b.RelPath, ErrUnsupportedEncoding)
	}
	b.data = data
	b.digest = HashBytes(data)
	return nil
}

// AppendContent is a no-op: a blob's content is the file body.
func (b *Blob) AppendContent(string) {}

func (b *Blob) ContentLine() (string, error) {
	return formatContentLine(KindBlob, b.digest, b.RelPath)
}

func (b *Blob) Save(s *Store) error {
	if b.digest == "" {
		return fmt.Errorf("save blob %q: %w", b.RelPath, ErrDigestNotComputed)
	}
	return s.Write(KindBlob, b.digest, b.data, Meta{
		Name: filepath.Base(b.RelPath),
	})
}

// Entry is a parsed content line.
type Entry struct {
	Kind   Kind
	Digest Digest
	Name   string
}

// String formats e as a content line.
func (e Entry) String() string {
	return string(e.Kind) + "\t" + string(e.Digest) + "\t" + e.Name
}

func formatContentLine(kind Kind, d Digest, relPath string) (string, error) {
	if d == "" {
		return "", fmt.Errorf("content line %q: %w", relPath, ErrDigestNotComputed)
	}
	return Entry{Kind: kind, Digest: d, Name: filepath.Base(relPath)}.String(), nil
}

// ParseContentLine parses "<kind>\t<digest>\t<name>". The name must be a
// single path component so a restore cannot escape the work tree.
func ParseContentLine(line string) (Entry, error) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 {
		return Entry{}, fmt.Errorf("content line %q: %w", line, ErrUnexpectedFormat)
	}
	e := Entry{Kind: Kind(parts[0]), Digest: Digest(parts[1]), Name: parts[2]}
	if e.Kind != KindTree && e.Kind != KindBlob {
		return Entry{}, fmt.Errorf("content line %q: kind %q: %w", line, e.Kind, ErrUnexpectedFormat)
	}
	if !e.Digest.Valid() {
		return Entry{}, fmt.Errorf("content line %q: digest: %w", line, ErrUnexpectedFormat)
	}
	if !ValidName(e.Name) {
		return Entry{}, fmt.Errorf("content line %q: name: %w", line, ErrUnexpectedFormat)
	}
	return e, nil
}

// ValidName reports whether name can appear in a content line.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "\t\n/\\")
}
