package search

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Match is one occurrence of a pattern. Line and Column are 1-based.
type Match struct {
	File   string
	Line   int
	Column int
	Text   string
}

// Searcher finds substring occurrences in text and files.
type Searcher struct {
	caseSensitive bool
	wholeWord     bool
	maxLineBytes  int
	workers       int
}

func NewSearcher() *Searcher {
	return &Searcher{
		caseSensitive: true,
		maxLineBytes:  1 << 20,
		workers:       8,
	}
}

func (s *Searcher) CaseInsensitive() *Searcher {
	s.caseSensitive = false
	return s
}

func (s *Searcher) WholeWord() *Searcher {
	s.wholeWord = true
	return s
}

// WithWorkers sets how many files are searched concurrently.
func (s *Searcher) WithWorkers(n int) *Searcher {
	if n > 0 {
		s.workers = n
	}
	return s
}

// SearchLine returns the 1-based columns where the pattern occurs in
// a single line.
func (s *Searcher) SearchLine(line, pattern string) []int {
	if pattern == "" {
		return nil
	}

	haystack, needle := line, pattern
	if !s.caseSensitive {
		haystack = strings.ToLower(haystack)
		needle = strings.ToLower(needle)
	}

	var columns []int
	for start := 0; ; {
		pos := strings.Index(haystack[start:], needle)
		if pos < 0 {
			break
		}
		at := start + pos
		if !s.wholeWord || isWordBoundary(line, at, len(needle)) {
			columns = append(columns, utf8.RuneCountInString(line[:at])+1)
		}
		start = at + 1
	}
	return columns
}

func isWordBoundary(text string, pos, length int) bool {
	before, _ := utf8.DecodeLastRuneInString(text[:pos])
	after, _ := utf8.DecodeRuneInString(text[pos+length:])

	isWord := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
	}
	return (pos == 0 || !isWord(before)) &&
		(pos+length >= len(text) || !isWord(after))
}

// SearchFile scans a file line by line and returns all matches.
func (s *Searcher) SearchFile(path, pattern string) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []Match
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), s.maxLineBytes)

	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		for _, col := range s.SearchLine(text, pattern) {
			matches = append(matches, Match{
				File:   path,
				Line:   line,
				Column: col,
				Text:   text,
			})
		}
	}
	return matches, scanner.Err()
}

// SearchFiles searches the given files concurrently. Unreadable
// files are skipped. Results come back ordered by file, then line.
func (s *Searcher) SearchFiles(ctx context.Context, files []string, pattern string) ([]Match, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var mu sync.Mutex
	var all []Match

	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			matches, err := s.SearchFile(file, pattern)
			if err != nil {
				return nil
			}
			if len(matches) > 0 {
				mu.Lock()
				all = append(all, matches...)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].File != all[j].File {
			return all[i].File < all[j].File
		}
		if all[i].Line != all[j].Line {
			return all[i].Line < all[j].Line
		}
		return all[i].Column < all[j].Column
	})
	return all, nil
}

// SearchDir walks the root and searches every file under it.
func (s *Searcher) SearchDir(ctx context.Context, root, pattern string) ([]Match, error) {
	files, err := NewWalker(root).Walk()
	if err != nil {
		return nil, err
	}
	return s.SearchFiles(ctx, files, pattern)
}
