// Package search finds files by name pattern and text by content.
// Directory scans run concurrently; glob patterns support *, ?,
// character sets, and ** for matching across directories.
package search

import "strings"

// GlobMatcher matches slash-separated paths against a glob pattern.
type GlobMatcher struct {
	pattern []rune
}

func NewGlobMatcher(pattern string) *GlobMatcher {
	return &GlobMatcher{pattern: []rune(pattern)}
}

func (m *GlobMatcher) Matches(path string) bool {
	return matchGlob(m.pattern, []rune(strings.ReplaceAll(path, "\\", "/")), 0, 0)
}

func matchGlob(pattern, text []rune, p, t int) bool {
	if p >= len(pattern) {
		return t >= len(text)
	}

	// ** spans directory boundaries
	if p+1 < len(pattern) && pattern[p] == '*' && pattern[p+1] == '*' {
		next := p + 2
		for next < len(pattern) && pattern[next] == '/' {
			next++
		}
		for i := t; i <= len(text); i++ {
			if i == len(text) || i == t || text[i-1] == '/' {
				if matchGlob(pattern, text, next, i) {
					return true
				}
			}
		}
		return false
	}

	switch pattern[p] {
	case '*':
		if matchGlob(pattern, text, p+1, t) {
			return true
		}
		for i := t; i < len(text); i++ {
			if text[i] == '/' {
				break
			}
			if matchGlob(pattern, text, p+1, i+1) {
				return true
			}
		}
		return false
	case '?':
		if t >= len(text) || text[t] == '/' {
			return false
		}
		return matchGlob(pattern, text, p+1, t+1)
	case '[':
		end := -1
		for i := p + 1; i < len(pattern); i++ {
			if pattern[i] == ']' {
				end = i
				break
			}
		}
		if end < 0 {
			break // unterminated set, treat '[' as a literal
		}
		if t >= len(text) {
			return false
		}
		if !matchSet(pattern[p+1:end], text[t]) {
			return false
		}
		return matchGlob(pattern, text, end+1, t+1)
	}

	if t >= len(text) || pattern[p] != text[t] {
		return false
	}
	return matchGlob(pattern, text, p+1, t+1)
}

func matchSet(set []rune, r rune) bool {
	negated := false
	i := 0
	if len(set) > 0 && (set[0] == '^' || set[0] == '!') {
		negated = true
		i = 1
	}

	matched := false
	for i < len(set) {
		if i+2 < len(set) && set[i+1] == '-' {
			if r >= set[i] && r <= set[i+2] {
				matched = true
				break
			}
			i += 3
		} else {
			if r == set[i] {
				matched = true
				break
			}
			i++
		}
	}
	return matched != negated
}

// IsGlob reports whether a string contains glob metacharacters.
func IsGlob(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
