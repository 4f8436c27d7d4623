package readline

import "unicode"

// Add inserts r at the cursor and advances past it.
func (b *Buffer) Add(r rune) {
	if b.Pos == b.Buf.Size() {
		b.Buf.Add(r)
	} else {
		b.Buf.Insert(b.Pos, r)
	}
	b.Pos++
}

// Remove deletes the rune before the cursor (backspace). No-op at the
// start of the buffer.
func (b *Buffer) Remove() bool {
	if b.Pos == 0 {
		return false
	}
	b.Pos--
	b.Buf.Remove(b.Pos)
	return true
}

// Delete removes the rune under the cursor, if any remains.
func (b *Buffer) Delete() bool {
	if b.Pos >= b.Buf.Size() {
		return false
	}
	b.Buf.Remove(b.Pos)
	return true
}

// DeleteBefore removes everything before the cursor (ctrl+u).
func (b *Buffer) DeleteBefore() bool {
	if b.Pos == 0 {
		return false
	}
	for b.Pos > 0 {
		b.Pos--
		b.Buf.Remove(b.Pos)
	}
	return true
}

// DeleteRemaining truncates the buffer at the cursor (ctrl+k).
func (b *Buffer) DeleteRemaining() bool {
	if b.Pos >= b.Buf.Size() {
		return false
	}
	for b.Pos < b.Buf.Size() {
		b.Buf.Remove(b.Pos)
	}
	return true
}

// DeleteWord removes the word before the cursor: trailing whitespace
// first, then the non-whitespace run (ctrl+w).
func (b *Buffer) DeleteWord() bool {
	if b.Pos == 0 {
		return false
	}

	for b.Pos > 0 {
		r, _ := b.Buf.Get(b.Pos - 1)
		if !unicode.IsSpace(r) {
			break
		}
		b.Pos--
		b.Buf.Remove(b.Pos)
	}
	for b.Pos > 0 {
		r, _ := b.Buf.Get(b.Pos - 1)
		if unicode.IsSpace(r) {
			break
		}
		b.Pos--
		b.Buf.Remove(b.Pos)
	}
	return true
}

// ReplaceWord swaps the word ending at the cursor for s and leaves the
// cursor after the inserted text. Used by tab completion.
func (b *Buffer) ReplaceWord(s string) {
	_, start := b.CurrentWord()
	for b.Pos > start {
		b.Pos--
		b.Buf.Remove(b.Pos)
	}
	for _, r := range s {
		b.Add(r)
	}
}
