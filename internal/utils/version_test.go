package utils

import (
	"os"
	"path/filepath"
	"testing"
)

// TestFindGitDirectory verifies the search walks upward to the repository root.
func TestFindGitDirectory(testingHandle *testing.T) {
	repositoryRoot := testingHandle.TempDir()
	nestedDirectory := filepath.Join(repositoryRoot, "a", "b")
	if makeDirError := os.MkdirAll(filepath.Join(repositoryRoot, GitDirectoryName), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir .git: %v", makeDirError)
	}
	if makeDirError := os.MkdirAll(nestedDirectory, 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir nested: %v", makeDirError)
	}

	foundDirectory, findError := findGitDirectory(nestedDirectory)
	if findError != nil {
		testingHandle.Fatalf("findGitDirectory error: %v", findError)
	}
	if foundDirectory != repositoryRoot {
		testingHandle.Fatalf("expected %s, got %s", repositoryRoot, foundDirectory)
	}
}
