package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Meta is the metadata carried in an archive's gzip header: the base
// filename for trees and blobs, message and timestamp for commits.
type Meta struct {
	Name      string
	Message   string
	Timestamp int64
}

// Store is a content-addressed object store partitioned by kind:
// objects/commit/<digest>, objects/tree/<digest>, objects/blob/<digest>.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the objects directory. Kind
// directories are created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the objects directory.
func (s *Store) Root() string {
	return s.root
}

// KindDir returns the directory holding objects of kind.
func (s *Store) KindDir(kind Kind) string {
	return filepath.Join(s.root, string(kind))
}

func (s *Store) objectPath(kind Kind, d Digest) string {
	return filepath.Join(s.root, string(kind), string(d))
}

// Has reports whether the store contains an object of kind under d.
func (s *Store) Has(kind Kind, d Digest) bool {
	if !d.Valid() {
		return false
	}
	_, err := os.Stat(s.objectPath(kind, d))
	return err == nil
}

// Write compresses payload into a gzip archive carrying meta and stores it
// under d. An existing object is never rewritten: identical digests mean
// identical content. Writes are atomic via temp file + rename.
func (s *Store) Write(kind Kind, d Digest, payload []byte, meta Meta) error {
	if !d.Valid() {
		return fmt.Errorf("object write %s %q: %w", kind, d, ErrUnexpectedFormat)
	}
	if s.Has(kind, d) {
		return nil
	}

	archive, err := encodeArchive(payload, meta)
	if err != nil {
		return fmt.Errorf("object write %s %s: %w", kind, d, err)
	}

	dir := s.KindDir(kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return WrapIO("object write mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return WrapIO("object write tmpfile", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(archive); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return WrapIO("object write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return WrapIO("object write close", tmpName, err)
	}

	dest := s.objectPath(kind, d)
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return WrapIO("object write rename", dest, err)
	}
	return nil
}

// Read decompresses the object of kind stored under d.
func (s *Store) Read(kind Kind, d Digest) (Meta, []byte, error) {
	if !d.Valid() {
		return Meta{}, nil, fmt.Errorf("object read %s %q: %w", kind, d, ErrObjectNotFound)
	}
	p := s.objectPath(kind, d)
	raw, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Meta{}, nil, fmt.Errorf("object read %s %s: %w", kind, d, ErrObjectNotFound)
		}
		return Meta{}, nil, WrapIO("object read", p, err)
	}

	meta, payload, err := decodeArchive(raw)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("object read %s %s: %w", kind, d, err)
	}
	return meta, payload, nil
}

// StoreStats summarises the objects of one kind.
type StoreStats struct {
	Objects int
	Bytes   int64
}

// Stats counts the stored objects and their on-disk size per kind.
func (s *Store) Stats() (map[Kind]StoreStats, error) {
	stats := make(map[Kind]StoreStats, len(Kinds))
	for _, kind := range Kinds {
		dir := s.KindDir(kind)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				stats[kind] = StoreStats{}
				continue
			}
			return nil, WrapIO("object stats", dir, err)
		}

		var st StoreStats
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
				continue
			}
			info, err := e.Info()
			if err != nil {
				return nil, WrapIO("object stats", filepath.Join(dir, e.Name()), err)
			}
			st.Objects++
			st.Bytes += info.Size()
		}
		stats[kind] = st
	}
	return stats, nil
}

// gzip header strings are Latin-1, so names and messages are
// percent-escaped to carry arbitrary UTF-8.
func encodeArchive(payload []byte, meta Meta) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return nil, err
	}
	zw.Name = url.PathEscape(meta.Name)
	zw.Comment = url.PathEscape(meta.Message)
	if meta.Timestamp > 0 {
		zw.ModTime = time.Unix(meta.Timestamp, 0)
	}

	if _, err := zw.Write(payload); err != nil {
		zw.Close()
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeArchive(raw []byte) (Meta, []byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return Meta{}, nil, fmt.Errorf("decompress: %v: %w", err, ErrUnexpectedFormat)
	}
	defer zr.Close()

	payload, err := io.ReadAll(zr)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("decompress: %v: %w", err, ErrUnexpectedFormat)
	}

	name, err := url.PathUnescape(zr.Name)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("header name %q: %w", zr.Name, ErrUnexpectedFormat)
	}
	message, err := url.PathUnescape(zr.Comment)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("header comment %q: %w", zr.Comment, ErrUnexpectedFormat)
	}
	meta := Meta{Name: name, Message: message}
	if !zr.ModTime.IsZero() {
		meta.Timestamp = zr.ModTime.Unix()
	}
	return meta, payload, nil
}
