package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shved/get/pkg/object"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Init creates a new repository at path: .get/ with HEAD set to the empty
// digest, an empty LOG and one objects/ directory per kind. Returns
// ErrRepoAlreadyExists if .get/ is already there.
func Init(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	getDir := filepath.Join(abs, RepoDir)

	if _, err := os.Stat(getDir); err == nil {
		return nil, fmt.Errorf("init %s: %w", getDir, ErrRepoAlreadyExists)
	}

	dirs := []string{getDir, filepath.Join(getDir, ObjectsDir)}
	for _, kind := range object.Kinds {
		dirs = append(dirs, filepath.Join(getDir, ObjectsDir, string(kind)))
	}
	for _, d := range dirs {
		if err := os.Mkdir(d, dirPerm); err != nil {
			return nil, fmt.Errorf("init: %w", object.WrapIO("mkdir", d, err))
		}
	}

	if err := os.WriteFile(headPath(abs), []byte(object.EmptyDigest), filePerm); err != nil {
		return nil, fmt.Errorf("init: %w", object.WrapIO("write", headPath(abs), err))
	}
	if err := os.WriteFile(logPath(abs), nil, filePerm); err != nil {
		return nil, fmt.Errorf("init: %w", object.WrapIO("write", logPath(abs), err))
	}

	cfg, err := LoadConfig(abs)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return newRepo(abs, cfg), nil
}

// Open searches upward from path for a .get/ directory and opens the
// repository with its configuration resolved.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, RepoDir))
		if err == nil && info.IsDir() {
			cfg, err := LoadConfig(cur)
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return newRepo(cur, cfg), nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w", abs, ErrNotARepo)
		}
		cur = parent
	}
}
