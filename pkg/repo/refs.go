package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shved/get/pkg/object"
)

// ReadHead returns the digest in <root>/.get/HEAD, which is
// object.EmptyDigest before the first commit.
func ReadHead(root string) (object.Digest, error) {
	p := headPath(root)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read head %s: %w", root, ErrNotARepo)
		}
		return "", fmt.Errorf("read head: %w", object.WrapIO("read", p, err))
	}
	d := object.Digest(strings.TrimSpace(string(data)))
	if !d.Valid() {
		return "", fmt.Errorf("read head %q: %w", d, object.ErrUnexpectedFormat)
	}
	return d, nil
}

// WriteHead replaces HEAD with d via temp file + rename. HEAD is not
// locked: concurrent commits or restores must be serialized by the caller.
func WriteHead(root string, d object.Digest) error {
	if !d.Valid() {
		return fmt.Errorf("write head %q: %w", d, object.ErrUnexpectedFormat)
	}
	getDir := filepath.Join(root, RepoDir)
	if info, err := os.Stat(getDir); err != nil || !info.IsDir() {
		return fmt.Errorf("write head %s: %w", root, ErrNotARepo)
	}

	tmp, err := os.CreateTemp(getDir, ".head-tmp-*")
	if err != nil {
		return fmt.Errorf("write head: %w", object.WrapIO("tmpfile", getDir, err))
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(string(d)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write head: %w", object.WrapIO("write", tmpName, err))
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write head: %w", object.WrapIO("chmod", tmpName, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write head: %w", object.WrapIO("close", tmpName, err))
	}
	if err := os.Rename(tmpName, headPath(root)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write head: %w", object.WrapIO("rename", headPath(root), err))
	}
	return nil
}

// Head returns the current HEAD digest of r.
func (r *Repo) Head() (object.Digest, error) {
	return ReadHead(r.RootDir)
}
