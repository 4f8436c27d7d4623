package readline

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultHistorySize bounds the history when no explicit capacity is
// given.
const DefaultHistorySize = 1000

// History is a bounded ordered log of accepted input lines with
// bidirectional navigation and case-insensitive substring search.
type History struct {
	Enabled bool

	lines []string
	limit int

	// pos indexes the entry currently shown while navigating with the
	// arrow keys; -1 means the live buffer is showing.
	pos int

	search *historySearch
}

// historySearch is the transient state of one reverse search: the
// pattern, the matching indices ordered most recent first, and the
// position within that list.
type historySearch struct {
	pattern string
	matches []int
	current int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{
		Enabled: true,
		lines:   make([]string, 0, limit),
		limit:   limit,
		pos:     -1,
	}
}

func (h *History) Size() int { return len(h.lines) }

// Entries returns the log oldest to newest.
func (h *History) Entries() []string {
	return append([]string(nil), h.lines...)
}

// Add appends a line. Blank lines and immediate repeats of the newest
// entry are dropped; the oldest entry is evicted once the capacity is
// reached. Any in-flight navigation or search is reset.
func (h *History) Add(line string) {
	if !h.Enabled || strings.TrimSpace(line) == "" {
		return
	}
	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		h.ResetNavigation()
		return
	}

	if len(h.lines) >= h.limit {
		h.lines = h.lines[1:]
	}
	h.lines = append(h.lines, line)
	h.ResetNavigation()
}

// Prev steps one entry older, entering navigation at the newest entry
// first. At the oldest entry it keeps returning that entry.
func (h *History) Prev() (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}

	switch {
	case h.pos < 0:
		h.pos = len(h.lines) - 1
	case h.pos > 0:
		h.pos--
	}
	return h.lines[h.pos], true
}

// Next steps one entry newer. Stepping past the newest entry exits
// navigation and returns false: the caller restores the live buffer.
func (h *History) Next() (string, bool) {
	if h.pos < 0 {
		return "", false
	}
	if h.pos < len(h.lines)-1 {
		h.pos++
		return h.lines[h.pos], true
	}
	h.pos = -1
	return "", false
}

// Navigating reports whether the arrow keys are currently walking the
// log rather than showing the live buffer.
func (h *History) Navigating() bool { return h.pos >= 0 }

func (h *History) ResetNavigation() {
	h.pos = -1
	h.search = nil
}

// StartSearch collects the indices of all entries containing pattern as
// a case-insensitive substring, most recent first, and rewinds the
// search position.
func (h *History) StartSearch(pattern string) {
	pattern = strings.ToLower(pattern)

	var matches []int
	for i := len(h.lines) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(h.lines[i]), pattern) {
			matches = append(matches, i)
		}
	}

	h.search = &historySearch{pattern: pattern, matches: matches}
}

// SearchPrev yields the next older match for the active search, or
// false once the matches are exhausted.
func (h *History) SearchPrev() (string, bool) {
	s := h.search
	if s == nil || s.current >= len(s.matches) {
		return "", false
	}
	line := h.lines[s.matches[s.current]]
	s.current++
	return line, true
}

// SearchNext steps back toward newer matches, or false at the newest.
func (h *History) SearchNext() (string, bool) {
	s := h.search
	if s == nil || s.current <= 0 {
		return "", false
	}
	s.current--
	return h.lines[s.matches[s.current]], true
}

// Suggestions returns up to max distinct entries starting with prefix,
// most recent first.
func (h *History) Suggestions(prefix string, max int) []string {
	if prefix == "" {
		return nil
	}

	prefix = strings.ToLower(prefix)
	seen := make(map[string]struct{})
	var out []string
	for i := len(h.lines) - 1; i >= 0 && len(out) < max; i-- {
		line := h.lines[i]
		if _, dup := seen[line]; dup {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), prefix) {
			seen[line] = struct{}{}
			out = append(out, line)
		}
	}
	return out
}

// Save writes the log to path, one entry per line, creating parent
// directories as needed.
func (h *History) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var sb strings.Builder
	for _, line := range h.lines {
		fmt.Fprintln(&sb, line)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o600)
}

// Load replaces the log with the contents of path and resets
// navigation. A missing file is not an error.
func (h *History) Load(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()

	h.lines = h.lines[:0]
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if len(h.lines) >= h.limit {
			h.lines = h.lines[1:]
		}
		h.lines = append(h.lines, line)
	}

	h.ResetNavigation()
	return scanner.Err()
}
