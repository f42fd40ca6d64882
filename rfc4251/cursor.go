package rfc4251

// Cursor is a borrowed view over an immutable byte buffer with a movable
// front. Take only shrinks the remaining view; there is no way to seek
// backward. The buffer a Cursor is built from must outlive the Cursor.
type Cursor struct {
	buf []byte
}

// NewCursor returns a Cursor over buf. buf is not copied.
func NewCursor(buf []byte) Cursor {
	return Cursor{buf: buf}
}

// Take returns the next n bytes as a borrowed view and advances the
// front of the cursor past them. It fails with ErrInsufficientData if
// fewer than n bytes remain.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf) {
		return nil, ErrInsufficientData
	}
	b := c.buf[:n]
	c.buf = c.buf[n:]
	return b, nil
}

// Remaining returns the current view without consuming it.
func (c *Cursor) Remaining() []byte {
	return c.buf
}

// Empty reports whether the cursor's front has reached its end.
func (c *Cursor) Empty() bool {
	return len(c.buf) == 0
}

// Len returns the number of bytes remaining in the cursor.
func (c *Cursor) Len() int {
	return len(c.buf)
}
