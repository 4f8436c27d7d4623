package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobSimpleWildcard(t *testing.T) {
	m := NewGlobMatcher("*.go")

	assert.True(t, m.Matches("main.go"))
	assert.True(t, m.Matches("util.go"))
	assert.False(t, m.Matches("main.txt"))
	assert.False(t, m.Matches("cmd/main.go"), "* must not cross directories")
}

func TestGlobDoubleWildcard(t *testing.T) {
	m := NewGlobMatcher("**/*.go")

	assert.True(t, m.Matches("cmd/main.go"))
	assert.True(t, m.Matches("internal/server/routes.go"))
	assert.True(t, m.Matches("main.go"))
	assert.False(t, m.Matches("README.md"))
}

func TestGlobQuestionMark(t *testing.T) {
	m := NewGlobMatcher("test?.go")

	assert.True(t, m.Matches("test1.go"))
	assert.True(t, m.Matches("testa.go"))
	assert.False(t, m.Matches("test12.go"))
	assert.False(t, m.Matches("test.go"))
	assert.False(t, m.Matches("test/.go"), "? must not match a separator")
}

func TestGlobCharacterSets(t *testing.T) {
	m := NewGlobMatcher("test[0-9].go")
	assert.True(t, m.Matches("test1.go"))
	assert.True(t, m.Matches("test9.go"))
	assert.False(t, m.Matches("testa.go"))

	negated := NewGlobMatcher("test[^0-9].go")
	assert.False(t, negated.Matches("test1.go"))
	assert.True(t, negated.Matches("testa.go"))

	literals := NewGlobMatcher("[abc].txt")
	assert.True(t, literals.Matches("b.txt"))
	assert.False(t, literals.Matches("d.txt"))
}

func TestGlobPrefixedDoubleWildcard(t *testing.T) {
	m := NewGlobMatcher("src/**/*.go")

	assert.True(t, m.Matches("src/main.go"))
	assert.True(t, m.Matches("src/cli/commands/root.go"))
	assert.False(t, m.Matches("lib/main.go"))
}

func TestGlobWindowsSeparators(t *testing.T) {
	m := NewGlobMatcher("**/*.go")
	assert.True(t, m.Matches(`cmd\main.go`))
}

func TestIsGlob(t *testing.T) {
	assert.True(t, IsGlob("*.go"))
	assert.True(t, IsGlob("file?.txt"))
	assert.True(t, IsGlob("[ab].txt"))
	assert.False(t, IsGlob("plain/path.go"))
}
