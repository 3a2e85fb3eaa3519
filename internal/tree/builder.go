package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// rootMissingMessageFormat is returned when the root path does not exist.
	rootMissingMessageFormat = "Error: Path '%s' does not exist."
	// rootNotDirectoryMessageFormat is returned when the root path is not a directory.
	rootNotDirectoryMessageFormat = "Error: '%s' is not a directory."

	connectorMiddle    = "├── "
	connectorLast      = "└── "
	continuationMiddle = "│   "
	continuationLast   = "    "
	directorySuffix    = "/"
	hiddenEntryPrefix  = "."
	lineSeparator      = "\n"

	currentDirectoryComponent = "."

	// permissionDeniedMarker annotates a directory that could not be listed due to access restrictions.
	permissionDeniedMarker = "[Permission Denied]"
	// unreadableMarker annotates a directory that could not be listed for any other reason.
	unreadableMarker = "[Unreadable]"

	warningSkipDirectoryFormat = "Warning: unable to list %s: %v"
	warningGitignoreFormat     = "Warning: ignoring .gitignore in %s: %v"
)

// TreeBuilder renders directory trees using a fixed Configuration.
// A TreeBuilder holds no per-call state and may be reused.
type TreeBuilder struct {
	configuration   Configuration
	directoryReader DirectoryReader
	resolvePath     func(path string) (string, error)
	warn            func(message string)
}

// BuilderOption customizes a TreeBuilder.
type BuilderOption func(*TreeBuilder)

// WithDirectoryReader replaces the filesystem access used by the builder.
func WithDirectoryReader(directoryReader DirectoryReader) BuilderOption {
	return func(treeBuilder *TreeBuilder) {
		if directoryReader != nil {
			treeBuilder.directoryReader = directoryReader
		}
	}
}

// WithWarningHandler receives a message for every contained traversal failure
// that is not a permission error.
func WithWarningHandler(handler func(message string)) BuilderOption {
	return func(treeBuilder *TreeBuilder) {
		if handler != nil {
			treeBuilder.warn = handler
		}
	}
}

// NewTreeBuilder constructs a TreeBuilder for the configuration.
func NewTreeBuilder(configuration Configuration, options ...BuilderOption) *TreeBuilder {
	configuration.MaxDepth = cloneDepth(configuration.MaxDepth)
	treeBuilder := &TreeBuilder{
		configuration:   configuration,
		directoryReader: OSDirectoryReader{},
		resolvePath:     filepath.EvalSymlinks,
		warn:            func(string) {},
	}
	for _, option := range options {
		option(treeBuilder)
	}
	return treeBuilder
}

// GenerateTree renders the tree rooted at rootPath. The first line is the root
// path itself, followed by one line per listed entry in pre-order. Invalid
// roots produce a single error line instead of a tree.
//
// The filesystem is always accessed through rootPath as given, so ".." after a
// symbolic link is resolved by the operating system.
func (treeBuilder *TreeBuilder) GenerateTree(rootPath string) string {
	rootEntry, inspectError := treeBuilder.directoryReader.Inspect(rootPath)
	if inspectError != nil {
		return fmt.Sprintf(rootMissingMessageFormat, rootPath)
	}
	if !rootEntry.IsDirectory {
		return fmt.Sprintf(rootNotDirectoryMessageFormat, rootPath)
	}
	rootEntry.FullPath = rootPath

	treeLines := []string{displayRootPath(rootPath)}
	treeLines = treeBuilder.appendSubtree(treeLines, rootEntry)
	return strings.Join(treeLines, lineSeparator)
}

// traversalItem is one pending entry of the explicit traversal stack.
type traversalItem struct {
	entry     DirectoryEntry
	line      string
	prefix    string
	depth     int
	segments  []string
	canonical string
	ancestors []string
	gitignore gitignoreRules
	expand    bool
}

// appendSubtree appends the lines below root. Pending entries are kept on an
// explicit stack; children are pushed in reverse so they are popped in order,
// and each directory is expanded right after its own line is emitted.
func (treeBuilder *TreeBuilder) appendSubtree(treeLines []string, root DirectoryEntry) []string {
	stack := []traversalItem{{
		entry:     root,
		canonical: treeBuilder.canonicalRoot(root.FullPath),
		expand:    true,
	}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.line != "" {
			treeLines = append(treeLines, item.line)
		}
		if !item.entry.IsDirectory || !item.expand {
			continue
		}
		if treeBuilder.configuration.depthExceeded(item.depth) {
			continue
		}

		children, marker := treeBuilder.listChildren(&item)
		if marker != "" {
			treeLines = append(treeLines, item.prefix+connectorMiddle+marker)
			continue
		}

		childAncestors := append(item.ancestors[:len(item.ancestors):len(item.ancestors)], item.canonical)
		for childIndex := len(children) - 1; childIndex >= 0; childIndex-- {
			stack = append(stack, treeBuilder.newChildItem(&item, children[childIndex], childIndex == len(children)-1, childAncestors))
		}
	}

	return treeLines
}

// listChildren enumerates and filters the children of a directory item. When the
// directory cannot be listed it returns the marker to print in place of its children.
func (treeBuilder *TreeBuilder) listChildren(item *traversalItem) ([]DirectoryEntry, string) {
	entries, readError := treeBuilder.directoryReader.ReadDirectory(item.entry.FullPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrPermission) {
			return nil, permissionDeniedMarker
		}
		treeBuilder.warn(fmt.Sprintf(warningSkipDirectoryFormat, item.entry.FullPath, readError))
		return nil, unreadableMarker
	}

	if treeBuilder.configuration.UseGitignore {
		extendedRules, gitignoreError := item.gitignore.extend(item.entry.FullPath, item.segments)
		if gitignoreError != nil {
			treeBuilder.warn(fmt.Sprintf(warningGitignoreFormat, item.entry.FullPath, gitignoreError))
		}
		item.gitignore = extendedRules
	}

	return treeBuilder.filterEntries(entries, item), ""
}

// filterEntries applies display mode, ordering, hidden, ignore and gitignore
// filters in that order.
func (treeBuilder *TreeBuilder) filterEntries(entries []DirectoryEntry, item *traversalItem) []DirectoryEntry {
	var directories, files []DirectoryEntry
	for _, entry := range entries {
		if entry.IsDirectory {
			directories = append(directories, entry)
		} else if treeBuilder.configuration.IncludeFiles {
			files = append(files, entry)
		}
	}
	sortEntriesByName(directories)
	sortEntriesByName(files)

	ordered := append(directories, files...)
	filtered := ordered[:0]
	applyIgnoreRules := !treeBuilder.configuration.IgnoreRules.IsEmpty()
	for _, entry := range ordered {
		if !treeBuilder.configuration.IncludeHidden && strings.HasPrefix(entry.Name, hiddenEntryPrefix) {
			continue
		}
		if applyIgnoreRules && treeBuilder.configuration.IgnoreRules.Matches(entry) {
			continue
		}
		if treeBuilder.configuration.UseGitignore && item.gitignore.excludes(childSegments(item.segments, entry.Name), entry.IsDirectory) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// newChildItem prepares the stack item for one child of parent.
func (treeBuilder *TreeBuilder) newChildItem(parent *traversalItem, child DirectoryEntry, isLast bool, ancestors []string) traversalItem {
	connector, continuation := connectorMiddle, continuationMiddle
	if isLast {
		connector, continuation = connectorLast, continuationLast
	}
	displayName := child.Name
	if child.IsDirectory {
		displayName += directorySuffix
	}

	childItem := traversalItem{
		entry:     child,
		line:      parent.prefix + connector + displayName,
		prefix:    parent.prefix + continuation,
		depth:     parent.depth + 1,
		ancestors: ancestors,
		gitignore: parent.gitignore,
		expand:    child.IsDirectory,
	}
	if !child.IsDirectory {
		return childItem
	}

	childItem.segments = childSegments(parent.segments, child.Name)
	childItem.canonical = filepath.Join(parent.canonical, child.Name)
	if child.IsSymlink {
		resolvedPath, resolveError := treeBuilder.resolvePath(child.FullPath)
		if resolveError == nil {
			childItem.canonical = resolvedPath
		}
		childItem.expand = !containsPath(ancestors, childItem.canonical)
	}
	return childItem
}

// canonicalRoot resolves the root so symlinked children can be compared against it.
// Links are resolved before the path is made absolute, which would drop "..".
func (treeBuilder *TreeBuilder) canonicalRoot(rootPath string) string {
	resolvedPath, resolveError := treeBuilder.resolvePath(rootPath)
	if resolveError != nil {
		resolvedPath = rootPath
	}
	absolutePath, absoluteError := filepath.Abs(resolvedPath)
	if absoluteError != nil {
		return resolvedPath
	}
	return absolutePath
}

// displayRootPath drops repeated separators, "." components and trailing
// separators from the root line. ".." is kept since removing it lexically
// could name a different directory.
func displayRootPath(rootPath string) string {
	volumeName := filepath.VolumeName(rootPath)
	remainder := rootPath[len(volumeName):]
	isAbsolute := remainder != "" && os.IsPathSeparator(remainder[0])

	var components []string
	for _, component := range strings.FieldsFunc(remainder, func(character rune) bool {
		return character < utf8.RuneSelf && os.IsPathSeparator(uint8(character))
	}) {
		if component != currentDirectoryComponent {
			components = append(components, component)
		}
	}

	joined := strings.Join(components, string(filepath.Separator))
	if isAbsolute {
		return volumeName + string(filepath.Separator) + joined
	}
	if joined == "" {
		if volumeName != "" {
			return volumeName
		}
		return currentDirectoryComponent
	}
	return volumeName + joined
}

func sortEntriesByName(entries []DirectoryEntry) {
	sort.Slice(entries, func(left, right int) bool {
		return entries[left].Name < entries[right].Name
	})
}

// childSegments returns a new slice so patterns parsed with it never share backing arrays.
func childSegments(parentSegments []string, name string) []string {
	segments := make([]string, 0, len(parentSegments)+1)
	segments = append(segments, parentSegments...)
	return append(segments, name)
}

func containsPath(paths []string, target string) bool {
	for _, candidate := range paths {
		if candidate == target {
			return true
		}
	}
	return false
}
