// Package tree renders a directory hierarchy as a connector-based text tree.
package tree

// Configuration holds the filters applied while a tree is generated.
// It is built once and never mutated afterwards.
type Configuration struct {
	// IncludeFiles lists regular files after directories when true.
	IncludeFiles bool
	// MaxDepth limits how many directory levels below the root are listed. Nil means unlimited.
	MaxDepth *int
	// IncludeHidden keeps entries whose names start with a dot.
	IncludeHidden bool
	// IgnoreRules excludes folders and files by name.
	IgnoreRules IgnoreRules
	// UseGitignore additionally excludes entries matched by .gitignore files.
	UseGitignore bool
}

// NewConfiguration builds a Configuration, parsing ignoreList with ParseIgnoreList.
func NewConfiguration(includeFiles bool, maxDepth *int, includeHidden bool, ignoreList string) Configuration {
	return Configuration{
		IncludeFiles:  includeFiles,
		MaxDepth:      cloneDepth(maxDepth),
		IncludeHidden: includeHidden,
		IgnoreRules:   ParseIgnoreList(ignoreList),
	}
}

// depthExceeded reports whether a directory at depth must not be expanded.
func (configuration Configuration) depthExceeded(depth int) bool {
	return configuration.MaxDepth != nil && depth >= *configuration.MaxDepth
}

func cloneDepth(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
