package readline

import "fmt"

// reverseSearch runs the ctrl+r sub-loop. Typed characters grow the
// pattern and re-query the history for the most recent match; repeated
// ctrl+r steps to older matches; backspace shrinks the pattern. Enter,
// escape or ctrl+c leave the sub-loop with the last shown match (if
// any) loaded into the buffer.
func (i *Instance) reverseSearch(buf *Buffer) error {
	var pattern []rune
	var match string
	var found bool

	i.paintSearch(string(pattern), match, found)

	for {
		key, err := i.Terminal.ReadKey()
		if err != nil {
			return err
		}

		switch {
		case key.Printable():
			pattern = append(pattern, key.Insertable())
			match, found = i.bestMatch(string(pattern))
			i.paintSearch(string(pattern), match, found)

		case key.Kind == KindBackspace:
			if len(pattern) > 0 {
				pattern = pattern[:len(pattern)-1]
			}
			match, found = i.bestMatch(string(pattern))
			i.paintSearch(string(pattern), match, found)

		case key.Kind == KindCtrl && key.Rune == 'r':
			if m, ok := i.History.SearchPrev(); ok {
				match, found = m, true
			}
			i.paintSearch(string(pattern), match, found)

		case key.Kind == KindEnter,
			key.Kind == KindEscape,
			key.Kind == KindCtrl && key.Rune == 'c':
			if found {
				buf.Replace([]rune(match))
			}
			fmt.Fprint(i.out, ClearLine)
			i.refresh(buf)
			return nil
		}
	}
}

// bestMatch restarts the search for pattern and returns the most recent
// matching entry. An empty pattern matches nothing.
func (i *Instance) bestMatch(pattern string) (string, bool) {
	if pattern == "" {
		return "", false
	}
	i.History.StartSearch(pattern)
	return i.History.SearchPrev()
}

func (i *Instance) paintSearch(pattern, match string, found bool) {
	if found {
		fmt.Fprintf(i.out, "%s(reverse-i-search)`%s': %s", ClearLine, pattern, match)
	} else {
		fmt.Fprintf(i.out, "%s(failed reverse-i-search)`%s': ", ClearLine, pattern)
	}
}
