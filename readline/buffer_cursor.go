package readline

// Cursor motion. Each method reports whether the cursor actually moved
// so the editor can decide between a cheap column move and a repaint.

func (b *Buffer) MoveLeft() bool {
	if b.Pos > 0 {
		b.Pos--
		return true
	}
	return false
}

func (b *Buffer) MoveRight() bool {
	if b.Pos < b.Buf.Size() {
		b.Pos++
		return true
	}
	return false
}

func (b *Buffer) MoveToStart() bool {
	if b.Pos > 0 {
		b.Pos = 0
		return true
	}
	return false
}

func (b *Buffer) MoveToEnd() bool {
	if b.Pos < b.Buf.Size() {
		b.Pos = b.Buf.Size()
		return true
	}
	return false
}

// MoveLeftWord skips trailing spaces, then the word before the cursor.
func (b *Buffer) MoveLeftWord() bool {
	if b.Pos == 0 {
		return false
	}

	var foundNonspace bool
	for b.Pos > 0 {
		r, _ := b.Buf.Get(b.Pos - 1)
		if r == ' ' {
			if foundNonspace {
				break
			}
		} else {
			foundNonspace = true
		}
		b.Pos--
	}
	return true
}

// MoveRightWord advances to the end of the word under the cursor.
func (b *Buffer) MoveRightWord() bool {
	if b.Pos >= b.Buf.Size() {
		return false
	}

	for b.Pos < b.Buf.Size() {
		b.Pos++
		if b.Pos == b.Buf.Size() {
			break
		}
		if r, _ := b.Buf.Get(b.Pos); r == ' ' {
			break
		}
	}
	return true
}
