package ssrc

import "bytes"

// Buffer is a growable byte queue: Write appends, Next consumes from the
// front, and GetBuffer exposes the pending bytes for in-place reading
// (spec.md §4.11). bytes.Buffer already grows geometrically on Write and
// supports consuming from the front via Next/Truncate-style operations, so
// wrapping it here reproduces the reference Buffer class's contract without
// hand-rolling malloc/realloc-doubling logic (see DESIGN.md).
type Buffer struct {
	buf bytes.Buffer
}

// Write appends p to the buffer.
func (b *Buffer) Write(p []byte) {
	b.buf.Write(p)
}

// Size returns the number of pending bytes.
func (b *Buffer) Size() int { return b.buf.Len() }

// GetBuffer returns the pending bytes without consuming them.
func (b *Buffer) GetBuffer() []byte { return b.buf.Bytes() }

// Read removes size bytes from the front of the buffer.
func (b *Buffer) Read(size int) {
	if size <= 0 {
		return
	}
	b.buf.Next(size)
}

// Flush discards all pending bytes.
func (b *Buffer) Flush() { b.buf.Reset() }
