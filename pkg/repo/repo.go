package repo

import (
	"errors"
	"path/filepath"

	"github.com/shved/get/pkg/object"
	"github.com/shved/get/pkg/worktree"
)

var (
	ErrRepoAlreadyExists = errors.New("repository already exists")
	ErrNotARepo          = errors.New("not a get repository (or any parent up to /)")
)

const (
	RepoDir    = worktree.RepoDir
	ConfigFile = worktree.ConfigFile
	HeadFile   = "HEAD"
	LogFile    = "LOG"
	ObjectsDir = "objects"
)

// State is the resolved configuration the engine runs with. It is passed
// by value into every build and restore.
type State struct {
	WorkDir string
	Ignore  *worktree.IgnoreSet
	Author  string
}

// Repo represents an opened get repository.
type Repo struct {
	RootDir string        // working directory root
	GetDir  string        // .get/ directory
	Store   *object.Store // content-addressed object store
	Config  *Config       // parsed .get.toml, empty when absent
	State   State
}

func newRepo(root string, cfg *Config) *Repo {
	getDir := filepath.Join(root, RepoDir)
	return &Repo{
		RootDir: root,
		GetDir:  getDir,
		Store:   object.NewStore(filepath.Join(getDir, ObjectsDir)),
		Config:  cfg,
		State:   cfg.State(root),
	}
}

func headPath(root string) string {
	return filepath.Join(root, RepoDir, HeadFile)
}

func logPath(root string) string {
	return filepath.Join(root, RepoDir, LogFile)
}
