package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const (
	// GitignoreFileName is the name of the per-directory Git ignore file.
	GitignoreFileName = ".gitignore"
	// gitignoreCommentPrefix starts a comment line in a .gitignore file.
	gitignoreCommentPrefix = "#"
	// errorReadGitignoreFormat is used when a .gitignore file cannot be read.
	errorReadGitignoreFormat = "reading %s: %w"
)

// gitignoreRules holds the patterns in effect for one directory: the patterns
// of every ancestor followed by the directory's own.
type gitignoreRules struct {
	patterns []gitignore.Pattern
	matcher  gitignore.Matcher
}

// extend returns the rules for a child directory located at domain relative to
// the root, adding the patterns of its .gitignore file if present.
func (rules gitignoreRules) extend(directoryPath string, domain []string) (gitignoreRules, error) {
	ownPatterns, loadError := loadGitignorePatterns(directoryPath, domain)
	if loadError != nil {
		return rules, loadError
	}
	if len(ownPatterns) == 0 {
		return rules, nil
	}
	combined := make([]gitignore.Pattern, 0, len(rules.patterns)+len(ownPatterns))
	combined = append(combined, rules.patterns...)
	combined = append(combined, ownPatterns...)
	return gitignoreRules{patterns: combined, matcher: gitignore.NewMatcher(combined)}, nil
}

// excludes reports whether the entry at relativeSegments is ignored.
func (rules gitignoreRules) excludes(relativeSegments []string, isDirectory bool) bool {
	if rules.matcher == nil {
		return false
	}
	return rules.matcher.Match(relativeSegments, isDirectory)
}

// loadGitignorePatterns parses the .gitignore file in directoryPath. A missing
// file yields no patterns.
//
// #nosec G304
func loadGitignorePatterns(directoryPath string, domain []string) ([]gitignore.Pattern, error) {
	gitignorePath := joinEntryPath(directoryPath, GitignoreFileName)
	fileHandle, openFileError := os.Open(gitignorePath)
	if openFileError != nil {
		if errors.Is(openFileError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorReadGitignoreFormat, gitignorePath, openFileError)
	}
	defer fileHandle.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, gitignoreCommentPrefix) {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorReadGitignoreFormat, gitignorePath, scanError)
	}
	return patterns, nil
}
