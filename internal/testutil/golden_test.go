package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRepoRootHasGoMod(t *testing.T) {
	root := RepoRoot(t)
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		t.Fatalf("expected go.mod under %s: %v", root, err)
	}
}

func TestAssertGoldenRoundTrip(t *testing.T) {
	name := filepath.Join("testutil", t.Name()+".golden")
	path := filepath.Join(RepoRoot(t), "testdata", name)
	t.Cleanup(func() { _ = os.Remove(path) })
	_ = os.Remove(path)

	AssertGolden(t, name, "first\n")
	AssertGolden(t, name, "first\n")
}
