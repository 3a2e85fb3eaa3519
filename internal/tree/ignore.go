package tree

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	// ignoreListSeparator separates tokens of an ignore list.
	ignoreListSeparator = ","
	// folderTokenPrefix marks a token that names a folder.
	folderTokenPrefix = "/"
	// globMetaCharacters are the characters that turn a token into a filepath.Match pattern.
	globMetaCharacters = "*?["
)

// IgnoreRules excludes directory entries by base name. Folder rules apply to
// directories only and file rules apply to files only.
type IgnoreRules struct {
	folderNames    map[string]struct{}
	fileNames      map[string]struct{}
	folderPatterns []string
	filePatterns   []string
}

// ParseIgnoreList splits a comma-separated ignore list into folder and file rules.
// Each token is trimmed of surrounding whitespace. Tokens beginning with "/" name
// folders (the prefix is stripped), all others name files. Empty tokens are dropped.
// A token containing *, ? or [ is also evaluated as a filepath.Match pattern.
func ParseIgnoreList(ignoreList string) IgnoreRules {
	rules := IgnoreRules{
		folderNames: map[string]struct{}{},
		fileNames:   map[string]struct{}{},
	}
	for _, rawToken := range strings.Split(ignoreList, ignoreListSeparator) {
		token := strings.TrimSpace(rawToken)
		if strings.HasPrefix(token, folderTokenPrefix) {
			folderName := strings.TrimPrefix(token, folderTokenPrefix)
			if folderName == "" {
				continue
			}
			rules.folderNames[folderName] = struct{}{}
			if isGlobToken(folderName) {
				rules.folderPatterns = append(rules.folderPatterns, folderName)
			}
			continue
		}
		if token == "" {
			continue
		}
		rules.fileNames[token] = struct{}{}
		if isGlobToken(token) {
			rules.filePatterns = append(rules.filePatterns, token)
		}
	}
	return rules
}

// Matches reports whether the entry is excluded by the rules.
func (rules IgnoreRules) Matches(entry DirectoryEntry) bool {
	if entry.IsDirectory {
		return nameMatches(entry.Name, rules.folderNames, rules.folderPatterns)
	}
	return nameMatches(entry.Name, rules.fileNames, rules.filePatterns)
}

// IsEmpty reports whether the rules exclude nothing.
func (rules IgnoreRules) IsEmpty() bool {
	return len(rules.folderNames) == 0 && len(rules.fileNames) == 0
}

// FolderNames returns the ignored folder names in sorted order.
func (rules IgnoreRules) FolderNames() []string {
	return sortedKeys(rules.folderNames)
}

// FileNames returns the ignored file names in sorted order.
func (rules IgnoreRules) FileNames() []string {
	return sortedKeys(rules.fileNames)
}

func nameMatches(name string, exactNames map[string]struct{}, patterns []string) bool {
	if _, isExact := exactNames[name]; isExact {
		return true
	}
	for _, pattern := range patterns {
		isMatched, matchError := filepath.Match(pattern, name)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}

func isGlobToken(token string) bool {
	return strings.ContainsAny(token, globMetaCharacters)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
