package search

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// defaultSkipDirs are directories that are nearly always noise when
// searching a project tree.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"target":       true,
}

// Walker lists the files under a root directory.
type Walker struct {
	root     string
	maxDepth int
	skipDirs map[string]bool
}

func NewWalker(root string) *Walker {
	return &Walker{
		root:     root,
		skipDirs: defaultSkipDirs,
	}
}

// WithMaxDepth limits traversal to the given number of directory
// levels below the root. Zero means unlimited.
func (w *Walker) WithMaxDepth(depth int) *Walker {
	w.maxDepth = depth
	return w
}

// WithSkipDirs replaces the default set of skipped directory names.
func (w *Walker) WithSkipDirs(names ...string) *Walker {
	w.skipDirs = make(map[string]bool, len(names))
	for _, name := range names {
		w.skipDirs[name] = true
	}
	return w
}

// Walk returns every regular file under the root, sorted. Unreadable
// directories are skipped rather than failing the walk.
func (w *Walker) Walk() ([]string, error) {
	var files []string

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != w.root && w.skipDirs[d.Name()] {
				return fs.SkipDir
			}
			if w.maxDepth > 0 && w.depth(path) >= w.maxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (w *Walker) depth(path string) int {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// FindByExtension returns files under root with the given extension,
// compared case-insensitively without the leading dot.
func FindByExtension(root, extension string) ([]string, error) {
	files, err := NewWalker(root).Walk()
	if err != nil {
		return nil, err
	}

	extension = strings.ToLower(strings.TrimPrefix(extension, "."))
	var matched []string
	for _, file := range files {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file), "."))
		if ext == extension {
			matched = append(matched, file)
		}
	}
	return matched, nil
}

// FindByName returns files under root whose base name contains the
// given substring, case-insensitively.
func FindByName(root, substring string) ([]string, error) {
	files, err := NewWalker(root).Walk()
	if err != nil {
		return nil, err
	}

	substring = strings.ToLower(substring)
	var matched []string
	for _, file := range files {
		if strings.Contains(strings.ToLower(filepath.Base(file)), substring) {
			matched = append(matched, file)
		}
	}
	return matched, nil
}

// Glob returns files under root whose path relative to the root
// matches the pattern.
func Glob(root, pattern string) ([]string, error) {
	files, err := NewWalker(root).Walk()
	if err != nil {
		return nil, err
	}

	matcher := NewGlobMatcher(pattern)
	var matched []string
	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			continue
		}
		if matcher.Matches(rel) {
			matched = append(matched, file)
		}
	}
	return matched, nil
}
