// Package discovery enumerates the source files to index.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"
)

// compiledPattern holds both the pattern string and the compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Scanner walks a project root and returns files matching the configured
// extensions, in lexical walk order. Hidden directories are included;
// ignore globs and (optionally) the project's .gitignore filter the result.
type Scanner struct {
	root           string
	extensions     map[string]struct{}
	ignorePatterns []compiledPattern
	gitignore      *gitignore.GitIgnore
}

// NewScanner compiles the ignore patterns and, when respectGitignore is
// set, loads the root .gitignore if one exists.
func NewScanner(root string, extensions []string, ignorePatterns []string, respectGitignore bool) (*Scanner, error) {
	s := &Scanner{
		root:       root,
		extensions: make(map[string]struct{}, len(extensions)),
	}

	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extensions[ext] = struct{}{}
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", pattern, err)
		}
		s.ignorePatterns = append(s.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	if respectGitignore {
		matcher, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
		if err == nil {
			s.gitignore = matcher
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load .gitignore: %w", err)
		}
	}

	return s, nil
}

// Discover walks the tree and returns the matching file paths.
func (s *Scanner) Discover() ([]string, error) {
	files := []string{}

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && s.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := s.extensions[filepath.Ext(path)]; !ok {
			return nil
		}
		if s.shouldIgnore(relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// shouldIgnore checks the ignore globs and the .gitignore matcher.
func (s *Scanner) shouldIgnore(relPath string) bool {
	for _, cp := range s.ignorePatterns {
		if cp.glob.Match(relPath) {
			return true
		}
		// A directory pattern like "target/**" should also suppress the
		// directory itself so the walk can skip it wholesale.
		if cp.glob.Match(relPath + "/**") {
			return true
		}
	}

	if s.gitignore != nil && s.gitignore.MatchesPath(relPath) {
		return true
	}
	return false
}
