// Package readline implements interactive line editing on a raw-mode
// terminal: history navigation, reverse incremental search, tab
// completion and multiline input.
package readline

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompt configures the strings shown before the input line.
type Prompt struct {
	Prompt         string
	AltPrompt      string
	Placeholder    string
	AltPlaceholder string
	UseAlt         bool
}

func (p *Prompt) prompt() string {
	if p.UseAlt {
		return p.AltPrompt
	}
	return p.Prompt
}

func (p *Prompt) placeholder() string {
	if p.UseAlt {
		return p.AltPlaceholder
	}
	return p.Placeholder
}

// Instance reads edited lines from the terminal, one Readline call per
// line. A single Instance is meant to live for a whole session so that
// history accumulates across calls.
type Instance struct {
	Prompt    *Prompt
	Terminal  *Terminal
	History   *History
	Completer Completer
	Multiline bool

	out     io.Writer
	pending []string
}

func New(prompt Prompt) (*Instance, error) {
	term, err := NewTerminal()
	if err != nil {
		return nil, err
	}

	return &Instance{
		Prompt:   &prompt,
		Terminal: term,
		History:  NewHistory(DefaultHistorySize),
		out:      os.Stdout,
	}, nil
}

func (i *Instance) HistoryEnable()  { i.History.Enabled = true }
func (i *Instance) HistoryDisable() { i.History.Enabled = false }

func (i *Instance) MultilineEnable()  { i.Multiline = true }
func (i *Instance) MultilineDisable() { i.Multiline = false }

// LoadHistory seeds the session history from path. A missing file is
// fine.
func (i *Instance) LoadHistory(path string) error {
	return i.History.Load(path)
}

// SaveHistory persists the session history to path.
func (i *Instance) SaveHistory(path string) error {
	return i.History.Save(path)
}

// Readline reads one line of input. It returns the committed line, or
// ErrInterrupt on ctrl+c, io.EOF on ctrl+d with an empty buffer, and
// propagates terminal-control and read failures as-is. Raw mode is
// always restored on the way out.
func (i *Instance) Readline() (string, error) {
	if err := i.Terminal.enableRawMode(); err != nil {
		return "", err
	}
	defer i.Terminal.disableRawMode() //nolint:errcheck

	buf := NewBuffer()
	i.History.ResetNavigation()
	i.pending = i.pending[:0]
	i.Prompt.UseAlt = false

	var savedLine []rune

	fmt.Fprint(i.out, i.Prompt.prompt())

	for {
		if buf.IsEmpty() {
			if ph := i.Prompt.placeholder(); ph != "" {
				fmt.Fprint(i.out, ColorGrey+ph+CursorLeftN(len(ph))+ColorDefault)
			}
		}

		key, err := i.Terminal.ReadKey()
		if err != nil {
			return "", err
		}

		if buf.IsEmpty() {
			fmt.Fprint(i.out, ClearToEOL)
		}

		switch key.Kind {
		case KindChar, KindSpace:
			buf.Add(key.Insertable())
			i.refresh(buf)

		case KindEnter:
			content := i.assemble(buf)
			if i.Multiline && shouldContinue(content) {
				i.pending = append(i.pending, buf.String())
				buf.Replace(nil)
				i.Prompt.UseAlt = true
				fmt.Fprintf(i.out, "\n%s", i.Prompt.prompt())
				continue
			}
			fmt.Fprintln(i.out)
			i.Prompt.UseAlt = false
			i.History.Add(content)
			return content, nil

		case KindBackspace:
			if buf.Remove() {
				i.refresh(buf)
			}

		case KindDelete:
			if buf.Delete() {
				i.refresh(buf)
			}

		case KindArrowLeft:
			i.moveCursor(buf, (*Buffer).MoveLeft)

		case KindArrowRight:
			i.moveCursor(buf, (*Buffer).MoveRight)

		case KindArrowUp:
			if !i.History.Navigating() {
				savedLine = []rune(buf.String())
			}
			if line, ok := i.History.Prev(); ok {
				buf.Replace([]rune(line))
				i.refresh(buf)
			}

		case KindArrowDown:
			if line, ok := i.History.Next(); ok {
				buf.Replace([]rune(line))
			} else {
				buf.Replace(savedLine)
			}
			i.refresh(buf)

		case KindHome:
			buf.MoveToStart()
			i.refresh(buf)

		case KindEnd:
			buf.MoveToEnd()
			i.refresh(buf)

		case KindTab:
			i.completeWord(buf)

		case KindCtrl:
			done, err := i.handleControl(key.Rune, buf, &savedLine)
			if done {
				return "", err
			}

		case KindAlt:
			switch key.Rune {
			case 'b':
				buf.MoveLeftWord()
				i.refresh(buf)
			case 'f':
				buf.MoveRightWord()
				i.refresh(buf)
			case rune(CharBackspace):
				if buf.DeleteWord() {
					i.refresh(buf)
				}
			}

		case KindEscape, KindPageUp, KindPageDown, KindFunction, KindUnknown:
			// no binding
		}
	}
}

// handleControl dispatches ctrl+letter chords. It reports done=true
// when Readline must return with the given error.
func (i *Instance) handleControl(r rune, buf *Buffer, savedLine *[]rune) (bool, error) {
	switch r {
	case 'c':
		fmt.Fprintln(i.out, "^C")
		i.pending = nil
		i.Prompt.UseAlt = false
		return true, ErrInterrupt

	case 'd':
		if buf.IsEmpty() && len(i.pending) == 0 {
			return true, io.EOF
		}
		if buf.Delete() {
			i.refresh(buf)
		}

	case 'a':
		buf.MoveToStart()
		i.refresh(buf)

	case 'e':
		buf.MoveToEnd()
		i.refresh(buf)

	case 'b':
		i.moveCursor(buf, (*Buffer).MoveLeft)

	case 'f':
		i.moveCursor(buf, (*Buffer).MoveRight)

	case 'p':
		if !i.History.Navigating() {
			*savedLine = []rune(buf.String())
		}
		if line, ok := i.History.Prev(); ok {
			buf.Replace([]rune(line))
			i.refresh(buf)
		}

	case 'n':
		if line, ok := i.History.Next(); ok {
			buf.Replace([]rune(line))
		} else {
			buf.Replace(*savedLine)
		}
		i.refresh(buf)

	case 'k':
		if buf.DeleteRemaining() {
			i.refresh(buf)
		}

	case 'u':
		if buf.DeleteBefore() {
			i.refresh(buf)
		}

	case 'w':
		if buf.DeleteWord() {
			i.refresh(buf)
		}

	case 'l':
		fmt.Fprint(i.out, ClearScreen)
		i.refresh(buf)

	case 'r':
		if err := i.reverseSearch(buf); err != nil {
			return true, err
		}
	}

	return false, nil
}

// refresh repaints the edit line: column zero, clear, prompt, content,
// then walk the cursor back to its logical position.
func (i *Instance) refresh(buf *Buffer) {
	fmt.Fprint(i.out, CursorBOL+ClearToEOL+i.Prompt.prompt()+buf.String())
	if back := buf.DisplaySize() - buf.DisplayPos(); back > 0 {
		fmt.Fprint(i.out, CursorLeftN(back))
	}
}

// moveCursor applies a pure cursor motion with a single cursor move
// instead of a repaint.
func (i *Instance) moveCursor(buf *Buffer, move func(*Buffer) bool) {
	before := buf.DisplayPos()
	if !move(buf) {
		return
	}
	switch after := buf.DisplayPos(); {
	case after < before:
		fmt.Fprint(i.out, CursorLeftN(before-after))
	case after > before:
		fmt.Fprint(i.out, CursorRightN(after-before))
	}
}

// assemble joins any pending multiline segments with the live buffer
// into the full content under composition.
func (i *Instance) assemble(buf *Buffer) string {
	if len(i.pending) == 0 {
		return buf.String()
	}
	return strings.Join(i.pending, "\n") + "\n" + buf.String()
}

// shouldContinue reports whether the content is an unterminated
// construct: a trailing line continuation, or unbalanced brackets
// counted over the whole buffer.
func shouldContinue(content string) bool {
	if strings.HasSuffix(strings.TrimRight(content, " \t"), "\\") {
		return true
	}

	var parens, braces, brackets int
	for _, r := range content {
		switch r {
		case '(':
			parens++
		case ')':
			parens--
		case '{':
			braces++
		case '}':
			braces--
		case '[':
			brackets++
		case ']':
			brackets--
		}
	}
	return parens > 0 || braces > 0 || brackets > 0
}
