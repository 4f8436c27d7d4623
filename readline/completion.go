package readline

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Completer supplies candidates for the word ending at the cursor.
// Implementations are pure data sources; the editor owns all display
// and buffer mutation.
type Completer interface {
	Complete(prefix string) []string
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(prefix string) []string

func (f CompleterFunc) Complete(prefix string) []string { return f(prefix) }

// completeWord handles the tab key. A single candidate replaces the
// word in place; several candidates are listed below the line, which is
// then repainted unchanged. Without a completer, tab indents.
func (i *Instance) completeWord(buf *Buffer) {
	if i.Completer == nil {
		for range 8 {
			buf.Add(' ')
		}
		i.refresh(buf)
		return
	}

	word, _ := buf.CurrentWord()
	if word == "" {
		return
	}

	candidates := i.Completer.Complete(word)
	switch len(candidates) {
	case 0:
	case 1:
		buf.ReplaceWord(candidates[0])
		i.refresh(buf)
	default:
		i.listCandidates(buf, candidates)
		fmt.Fprint(i.out, i.Prompt.prompt()+buf.String())
		if back := buf.DisplaySize() - buf.DisplayPos(); back > 0 {
			fmt.Fprint(i.out, CursorLeftN(back))
		}
	}
}

// listCandidates prints the candidates in columns sized to the longest
// entry, using the terminal width known to the buffer.
func (i *Instance) listCandidates(buf *Buffer, candidates []string) {
	colWidth := 0
	for _, c := range candidates {
		if w := runewidth.StringWidth(c); w > colWidth {
			colWidth = w
		}
	}
	colWidth += 2

	cols := max(buf.Width/colWidth, 1)

	fmt.Fprintln(i.out)
	for n, c := range candidates {
		fmt.Fprintf(i.out, "%-*s", colWidth, c)
		if (n+1)%cols == 0 {
			fmt.Fprintln(i.out)
		}
	}
	if len(candidates)%cols != 0 {
		fmt.Fprintln(i.out)
	}
}
