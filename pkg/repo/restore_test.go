package repo

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shved/get/pkg/object"
)

func TestRestore_CommitModifyRestore(t *testing.T) {
	dir := t.TempDir()
	writeRepoFile(t, dir, ".get.toml", "author = \"tester\"\nignore = [\"build\"]\n")
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	writeRepoFile(t, dir, "a.txt", "alpha")
	writeRepoFile(t, dir, "b.txt", "beta")
	writeRepoFile(t, dir, filepath.Join("docs", "c.txt"), "gamma")
	if err := os.MkdirAll(filepath.Join(dir, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	first, err := r.Commit("first", time.Unix(10, 0))
	if err != nil {
		t.Fatalf("Commit first: %v", err)
	}
	firstState := snapshotWorkTree(t, dir)

	// Modify one file, rename another.
	writeRepoFile(t, dir, "a.txt", "alpha, revised")
	if err := os.Rename(filepath.Join(dir, "b.txt"), filepath.Join(dir, "docs", "b-renamed.txt")); err != nil {
		t.Fatal(err)
	}
	second, err := r.Commit("second", time.Unix(20, 0))
	if err != nil {
		t.Fatalf("Commit second: %v", err)
	}
	secondState := snapshotWorkTree(t, dir)

	// Ignored content lives outside snapshots and survives restores.
	writeRepoFile(t, dir, filepath.Join("build", "out.log"), "keep me")
	writeRepoFile(t, dir, "scratch.txt", "untracked")

	if err := r.Restore(first, time.Unix(30, 0)); err != nil {
		t.Fatalf("Restore first: %v", err)
	}
	if got := withoutIgnored(snapshotWorkTree(t, dir)); !reflect.DeepEqual(got, firstState) {
		t.Errorf("after restoring first:\n got  %v\n want %v", got, firstState)
	}
	assertHead(t, r, first)
	assertContent(t, filepath.Join(dir, "build", "out.log"), "keep me")
	assertContent(t, filepath.Join(dir, ".get.toml"), "author = \"tester\"\nignore = [\"build\"]\n")
	if _, err := os.Stat(filepath.Join(dir, "scratch.txt")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("untracked file survived restore: %v", err)
	}

	if err := r.Restore(second, time.Unix(40, 0)); err != nil {
		t.Fatalf("Restore second: %v", err)
	}
	if got := withoutIgnored(snapshotWorkTree(t, dir)); !reflect.DeepEqual(got, secondState) {
		t.Errorf("after restoring second:\n got  %v\n want %v", got, secondState)
	}
	assertHead(t, r, second)

	entries, err := r.ReadLog(0)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("LOG has %d entries, want 4", len(entries))
	}
	want := LogEntry{OldHead: first, NewHead: second, Timestamp: 40, Op: "restore", Summary: "second"}
	if entries[0] != want {
		t.Errorf("newest LOG entry = %+v, want %+v", entries[0], want)
	}
	if entries[1].Op != "restore" || entries[1].NewHead != first || entries[1].OldHead != second {
		t.Errorf("LOG entry 1 = %+v", entries[1])
	}

	// Committing an unchanged restored tree with the same properties
	// reproduces the digest.
	if err := os.RemoveAll(filepath.Join(dir, "build")); err != nil {
		t.Fatal(err)
	}
	if err := r.Restore(first, time.Unix(50, 0)); err != nil {
		t.Fatalf("Restore first again: %v", err)
	}
	if err := WriteHead(dir, object.EmptyDigest); err != nil {
		t.Fatal(err)
	}
	again, err := r.Commit("first", time.Unix(10, 0))
	if err != nil {
		t.Fatalf("Commit again: %v", err)
	}
	if again != first {
		t.Errorf("recommit digest = %s, want %s", again, first)
	}
}

func TestRestore_UnknownDigestLeavesWorkTree(t *testing.T) {
	r := newTestRepo(t)
	writeRepoFile(t, r.RootDir, "a.txt", "alpha")
	head, err := r.Commit("first", time.Unix(1, 0))
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	writeRepoFile(t, r.RootDir, "a.txt", "edited")
	before := snapshotWorkTree(t, r.RootDir)

	for _, d := range []object.Digest{"2aae6c35c94fcfb415dbe95f408b9ce91ee846ed", "not-a-digest", ""} {
		if err := r.Restore(d, time.Unix(2, 0)); !errors.Is(err, object.ErrObjectNotFound) {
			t.Errorf("Restore(%q): err = %v, want ErrObjectNotFound", d, err)
		}
	}

	assertHead(t, r, head)
	if got := snapshotWorkTree(t, r.RootDir); !reflect.DeepEqual(got, before) {
		t.Errorf("work tree changed:\n got  %v\n want %v", got, before)
	}
	entries, err := r.ReadLog(0)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("LOG has %d entries, want 1", len(entries))
	}
}

func TestRestore_MissingBlobLeavesWorkTree(t *testing.T) {
	r := newTestRepo(t)
	writeRepoFile(t, r.RootDir, "a.txt", "alpha")
	head, err := r.Commit("first", time.Unix(1, 0))
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	blob := object.HashBytes([]byte("alpha"))
	if err := os.Remove(filepath.Join(r.Store.KindDir(object.KindBlob), string(blob))); err != nil {
		t.Fatal(err)
	}
	before := snapshotWorkTree(t, r.RootDir)

	if err := r.Restore(head, time.Unix(2, 0)); !errors.Is(err, object.ErrObjectNotFound) {
		t.Fatalf("Restore: err = %v, want ErrObjectNotFound", err)
	}
	if got := snapshotWorkTree(t, r.RootDir); !reflect.DeepEqual(got, before) {
		t.Errorf("work tree changed:\n got  %v\n want %v", got, before)
	}
}

// snapshotWorkTree maps root-relative paths to file contents, with "/"
// marking directories. The .get directory is skipped.
func snapshotWorkTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if rel == ".get" {
			return fs.SkipDir
		}
		if d.IsDir() {
			out[filepath.ToSlash(rel)+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot %s: %v", root, err)
	}
	return out
}

func withoutIgnored(snap map[string]string) map[string]string {
	out := make(map[string]string, len(snap))
	for k, v := range snap {
		if k == "build/" || k == "build/out.log" {
			continue
		}
		out[k] = v
	}
	return out
}

func assertHead(t *testing.T, r *Repo, want object.Digest) {
	t.Helper()
	head, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if head != want {
		t.Errorf("HEAD = %s, want %s", head, want)
	}
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("read %s: %v", path, err)
		return
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", path, data, want)
	}
}
