package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shved/get/pkg/object"
	"github.com/shved/get/pkg/worktree"
)

// DefaultAuthor is used when neither .get.toml nor $USER name an author.
const DefaultAuthor = "unknown author"

// Config stores repository-local settings from .get.toml.
type Config struct {
	Author string   `toml:"author"`
	Ignore []string `toml:"ignore"`
}

// LoadConfig reads <root>/.get.toml. A missing file yields an empty
// config; unknown keys are rejected.
func LoadConfig(root string) (*Config, error) {
	p := filepath.Join(root, ConfigFile)
	var cfg Config
	md, err := toml.DecodeFile(p, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("read config: %w", object.WrapIO("read", p, err))
		}
		var parseErr toml.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("read config %s: %s: %w", p, parseErr.Message, object.ErrUnexpectedFormat)
		}
		return nil, fmt.Errorf("read config %s: %v: %w", p, err, object.ErrUnexpectedFormat)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("read config %s: unknown keys %s: %w", p, strings.Join(keys, ", "), object.ErrUnexpectedFormat)
	}

	cfg.Author = strings.TrimSpace(cfg.Author)
	return &cfg, nil
}

// ResolveAuthor returns the configured author, falling back to $USER and
// then DefaultAuthor.
func (c *Config) ResolveAuthor() string {
	if c.Author != "" {
		return c.Author
	}
	if u := strings.TrimSpace(os.Getenv("USER")); u != "" {
		return u
	}
	return DefaultAuthor
}

// State resolves c for the work tree at root.
func (c *Config) State(root string) State {
	return State{
		WorkDir: root,
		Ignore:  worktree.NewIgnoreSet(c.Ignore...),
		Author:  c.ResolveAuthor(),
	}
}
