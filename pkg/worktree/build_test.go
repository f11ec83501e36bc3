package worktree

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shved/get/pkg/object"
)

func TestBuild_GoldenSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test_file.txt", "thats\nall,\nfolks!")

	wt, err := Build(BuildOptions{
		Root:      dir,
		Author:    "tester",
		Message:   "descriptive message",
		Timestamp: 0,
		Parent:    object.EmptyDigest,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := object.Digest("fe31e062afef2229c59da050b023929b1ca6e055"); wt.Digest() != want {
		t.Errorf("commit digest = %s, want %s", wt.Digest(), want)
	}
	if wt.Len() != 2 {
		t.Fatalf("Len = %d, want 2", wt.Len())
	}
	blob, ok := wt.Node(1).Object.(*object.Blob)
	if !ok {
		t.Fatalf("node 1 is %T, want *object.Blob", wt.Node(1).Object)
	}
	if want := object.Digest("e1f0dbaf38d36cf46352b65ed6f07c3fe4563f52"); blob.Digest() != want {
		t.Errorf("blob digest = %s, want %s", blob.Digest(), want)
	}
}

func TestBuild_GoldenNested(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README", "hi")
	writeFile(t, dir, filepath.Join("src", "main.go"), "package main\n")
	mkdir(t, dir, filepath.Join("src", "empty"))

	wt, err := Build(BuildOptions{
		Root:      dir,
		Author:    "tester",
		Message:   "nested",
		Timestamp: 1700000000,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := object.Digest("6d2a2a7fec97113de32bffd4282b06e43fc99efd"); wt.Digest() != want {
		t.Errorf("commit digest = %s, want %s", wt.Digest(), want)
	}

	digests := make(map[string]object.Digest)
	_ = wt.Walk(func(id NodeID, n *Node) error {
		if id != RootID {
			digests[n.Object.Path()] = n.Object.Digest()
		}
		return nil
	})
	if got := digests["src"]; got != "af5344fce3eafe8467327592396807e73f1268f0" {
		t.Errorf("src digest = %s", got)
	}
	if got := digests[filepath.Join("src", "empty")]; got != "da39a3ee5e6b4b0d3255bfef95601890afd80709" {
		t.Errorf("empty dir digest = %s", got)
	}

	trees, blobs := wt.Counts()
	if trees != 2 || blobs != 2 {
		t.Errorf("Counts = (%d, %d), want (2, 2)", trees, blobs)
	}

	files := wt.Files()
	if len(files) != 2 {
		t.Fatalf("Files() = %v, want 2 entries", files)
	}
	if got := files["src/main.go"]; got != "af96a5c06ec8bf0b99b61196b464b2f70533fe93" {
		t.Errorf("src/main.go digest = %s", got)
	}
	if got := files["README"]; got != "c22b5f9178342609428d6f51b2c5af4c0bde6a42" {
		t.Errorf("README digest = %s", got)
	}
}

func TestBuild_ArenaShape(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("a", "b", "c.txt"), "c")
	writeFile(t, dir, "d.txt", "d")

	wt, err := Build(BuildOptions{Root: dir, Author: "tester", Message: "m"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := wt.Node(RootID).Object.(*object.Commit); !ok {
		t.Fatalf("root is %T, want *object.Commit", wt.Node(RootID).Object)
	}

	// Every child appears after its parent in the arena.
	err = wt.Walk(func(id NodeID, n *Node) error {
		for _, c := range n.Children {
			if c <= id {
				t.Errorf("child %d of %d precedes its parent", c, id)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(wt.Node(RootID).Children) != 2 {
		t.Errorf("root children = %v, want 2 entries", wt.Node(RootID).Children)
	}
}

func TestBuild_ContentAddressing(t *testing.T) {
	two := filepath.Join("x", "two.txt")
	three := filepath.Join("x", "y", "three.md")
	files := map[string]string{
		"one.txt": "1",
		two:       "2",
		three:     "3",
		"zeta":    "z",
	}
	order1 := []string{"one.txt", two, three, "zeta"}
	order2 := []string{"zeta", three, "one.txt", two}

	build := func(order []string) object.Digest {
		dir := t.TempDir()
		for _, p := range order {
			writeFile(t, dir, p, files[p])
		}
		wt, err := Build(BuildOptions{Root: dir, Author: "tester", Message: "same", Timestamp: 42})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return wt.Digest()
	}

	d1 := build(order1)
	d2 := build(order2)
	if d1 != d2 {
		t.Errorf("identical trees produced different digests: %s vs %s", d1, d2)
	}
}

func TestBuild_PropertiesChangeDigest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "f", "content")

	base := BuildOptions{Root: dir, Author: "tester", Message: "m", Timestamp: 1}
	variants := []BuildOptions{base, base, base, base}
	variants[1].Author = "someone else"
	variants[2].Message = "other"
	variants[3].Timestamp = 2

	seen := make(map[object.Digest]int)
	for i, opts := range variants {
		wt, err := Build(opts)
		if err != nil {
			t.Fatalf("Build %d: %v", i, err)
		}
		if j, dup := seen[wt.Digest()]; dup {
			t.Errorf("variants %d and %d share digest %s", j, i, wt.Digest())
		}
		seen[wt.Digest()] = i
	}
}

func TestBuild_IgnoresComponents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "targetfile.txt", "keep")
	writeFile(t, dir, filepath.Join("target", "out.bin"), "drop")
	writeFile(t, dir, filepath.Join("src", "target", "gen.go"), "drop")
	writeFile(t, dir, filepath.Join(RepoDir, "HEAD"), string(object.EmptyDigest))
	writeFile(t, dir, ConfigFile, "author = \"x\"\n")

	wt, err := Build(BuildOptions{
		Root:    dir,
		Ignore:  NewIgnoreSet("target"),
		Author:  "tester",
		Message: "m",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var paths []string
	_ = wt.Walk(func(id NodeID, n *Node) error {
		if id != RootID {
			paths = append(paths, n.Object.Path())
		}
		return nil
	})
	want := map[string]bool{"src": true, "targetfile.txt": true}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for _, p := range paths {
		if !want[p] {
			t.Errorf("unexpected path %q in snapshot", p)
		}
	}
}

func TestBuild_SymlinkUnsupported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "real.txt", "real")
	if err := os.Symlink(filepath.Join(dir, "real.txt"), filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks not available: %v", err)
	}

	_, err := Build(BuildOptions{Root: dir, Author: "tester", Message: "m"})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Build: err = %v, want ErrUnsupported", err)
	}
}

func TestBuild_NonUTF8Aborts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.txt", "fine")
	writeFile(t, dir, "bad.bin", string([]byte{0xff, 0xfe}))

	_, err := Build(BuildOptions{Root: dir, Author: "tester", Message: "m"})
	if !errors.Is(err, object.ErrUnsupportedEncoding) {
		t.Fatalf("Build: err = %v, want ErrUnsupportedEncoding", err)
	}
}

func TestBuild_MissingRoot(t *testing.T) {
	_, err := Build(BuildOptions{Root: filepath.Join(t.TempDir(), "missing"), Author: "tester"})
	if !errors.Is(err, object.ErrIO) {
		t.Fatalf("Build: err = %v, want ErrIO", err)
	}
}

func TestBuild_RejectsBadProperties(t *testing.T) {
	dir := t.TempDir()
	if _, err := Build(BuildOptions{Root: dir, Author: "two\nlines"}); !errors.Is(err, object.ErrUnexpectedFormat) {
		t.Errorf("multi-line author: err = %v, want ErrUnexpectedFormat", err)
	}
	if _, err := Build(BuildOptions{Root: dir, Author: "a", Parent: "bogus"}); !errors.Is(err, object.ErrUnexpectedFormat) {
		t.Errorf("bad parent: err = %v, want ErrUnexpectedFormat", err)
	}
}

func TestPersist_WritesEveryNode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("a", "one.txt"), "same")
	writeFile(t, dir, filepath.Join("b", "two.txt"), "same")
	writeFile(t, dir, "three.txt", "other")

	wt, err := Build(BuildOptions{Root: dir, Author: "tester", Message: "m"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	store := object.NewStore(filepath.Join(t.TempDir(), "objects"))
	if err := wt.Persist(store); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	err = wt.Walk(func(id NodeID, n *Node) error {
		if !store.Has(n.Object.Kind(), n.Object.Digest()) {
			t.Errorf("%s %q (%s) not stored", n.Object.Kind(), n.Object.Path(), n.Object.Digest())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	// Both "same" files share one blob; a and b hash differently by name.
	if got := stats[object.KindBlob].Objects; got != 2 {
		t.Errorf("blob objects = %d, want 2", got)
	}
	if got := stats[object.KindTree].Objects; got != 2 {
		t.Errorf("tree objects = %d, want 2", got)
	}
	if got := stats[object.KindCommit].Objects; got != 1 {
		t.Errorf("commit objects = %d, want 1", got)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func mkdir(t *testing.T, root, rel string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, rel), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
}
