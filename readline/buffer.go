package readline

import (
	"os"
	"strings"
	"unicode"

	"github.com/emirpasic/gods/v2/lists/arraylist"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Buffer is the line being composed: an ordered rune sequence plus the
// cursor offset. Pos always stays within [0, Size]; every mutation
// preserves that. Painting is the editor's job, the buffer only tracks
// state.
type Buffer struct {
	Pos    int
	Buf    *arraylist.List[rune]
	Width  int
	Height int
}

func NewBuffer() *Buffer {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	return &Buffer{
		Buf:    arraylist.New[rune](),
		Width:  width,
		Height: height,
	}
}

func (b *Buffer) Size() int { return b.Buf.Size() }

func (b *Buffer) IsEmpty() bool { return b.Buf.Empty() }

func (b *Buffer) String() string {
	return b.StringN(0)
}

// StringN returns the buffer content from rune offset n.
func (b *Buffer) StringN(n int) string {
	var sb strings.Builder
	for i := n; i < b.Buf.Size(); i++ {
		r, _ := b.Buf.Get(i)
		sb.WriteRune(r)
	}
	return sb.String()
}

// DisplaySize is the total display width of the buffer in terminal
// columns, accounting for double-width runes.
func (b *Buffer) DisplaySize() int {
	return b.widthBetween(0, b.Buf.Size())
}

// DisplayPos is the display column of the cursor.
func (b *Buffer) DisplayPos() int {
	return b.widthBetween(0, b.Pos)
}

func (b *Buffer) widthBetween(from, to int) int {
	sum := 0
	for i := from; i < to; i++ {
		if r, ok := b.Buf.Get(i); ok {
			sum += runewidth.RuneWidth(r)
		}
	}
	return sum
}

// Replace swaps the whole content and leaves the cursor at the end.
func (b *Buffer) Replace(rs []rune) {
	b.Buf.Clear()
	for _, r := range rs {
		b.Buf.Add(r)
	}
	b.Pos = b.Buf.Size()
}

// CurrentWord returns the contiguous non-whitespace run ending at the
// cursor, along with the rune offset where it starts.
func (b *Buffer) CurrentWord() (string, int) {
	start := b.Pos
	for start > 0 {
		r, _ := b.Buf.Get(start - 1)
		if unicode.IsSpace(r) {
			break
		}
		start--
	}

	var sb strings.Builder
	for i := start; i < b.Pos; i++ {
		r, _ := b.Buf.Get(i)
		sb.WriteRune(r)
	}
	return sb.String(), start
}
