package tree

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// errorReadDirectoryFormat is used when a directory cannot be listed.
	errorReadDirectoryFormat = "reading directory %s: %w"
	// errorInspectPathFormat is used when a path cannot be inspected.
	errorInspectPathFormat = "inspecting %s: %w"
)

// DirectoryEntry is a read-only view of a file or directory found while listing.
type DirectoryEntry struct {
	// Name is the base name of the entry.
	Name string
	// IsDirectory is true for directories, including symlinks that resolve to one.
	IsDirectory bool
	// IsSymlink is true when the entry itself is a symbolic link.
	IsSymlink bool
	// FullPath locates the entry for traversal. It is never printed.
	FullPath string
}

// DirectoryReader provides the filesystem access needed to build a tree.
type DirectoryReader interface {
	// Inspect describes the entry at path, following symbolic links.
	Inspect(path string) (DirectoryEntry, error)
	// ReadDirectory lists the direct children of directoryPath in no particular order.
	// Children that are neither directories nor regular files are omitted.
	ReadDirectory(directoryPath string) ([]DirectoryEntry, error)
}

// OSDirectoryReader reads the local filesystem.
type OSDirectoryReader struct{}

// Inspect implements DirectoryReader.
func (OSDirectoryReader) Inspect(path string) (DirectoryEntry, error) {
	info, statError := os.Stat(path)
	if statError != nil {
		return DirectoryEntry{}, fmt.Errorf(errorInspectPathFormat, path, statError)
	}
	return DirectoryEntry{
		Name:        filepath.Base(path),
		IsDirectory: info.IsDir(),
		FullPath:    path,
	}, nil
}

// ReadDirectory implements DirectoryReader. Symbolic links are classified by
// their target; links that cannot be resolved are omitted.
func (OSDirectoryReader) ReadDirectory(directoryPath string) ([]DirectoryEntry, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}

	entries := make([]DirectoryEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		childPath := joinEntryPath(directoryPath, directoryEntry.Name())
		entryType := directoryEntry.Type()
		isSymlink := entryType&fs.ModeSymlink != 0
		if isSymlink {
			targetInfo, statError := os.Stat(childPath)
			if statError != nil {
				continue
			}
			entryType = targetInfo.Mode().Type()
		}

		if !entryType.IsDir() && !entryType.IsRegular() {
			continue
		}

		entries = append(entries, DirectoryEntry{
			Name:        directoryEntry.Name(),
			IsDirectory: entryType.IsDir(),
			IsSymlink:   isSymlink,
			FullPath:    childPath,
		})
	}
	return entries, nil
}

// joinEntryPath appends name to directoryPath without cleaning, so a ".."
// following a symbolic link keeps its meaning.
func joinEntryPath(directoryPath string, name string) string {
	if directoryPath == "" {
		return name
	}
	if os.IsPathSeparator(directoryPath[len(directoryPath)-1]) {
		return directoryPath + name
	}
	return directoryPath + string(filepath.Separator) + name
}

var _ DirectoryReader = OSDirectoryReader{}
