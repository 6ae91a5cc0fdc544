// Package vecbuf provides an append-only, grow-by-doubling integer buffer.
//
// It backs the mode table's records the way a hand-rolled C vector would: a
// single contiguous store addressed by integer offset, grown in place
// rather than replaced by pointer-linked chunks, so that offsets handed out
// before a growth remain valid handles. The other tables do not use it: the
// AST arena and the identifier and representation tables keep their own
// Go slices.
package vecbuf

const initialCapacity = 64

// Buffer is a growable sequence of machine words, indexed by integer offset.
type Buffer struct {
	data []int
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{data: make([]int, 0, initialCapacity)}
}

// Len returns the number of words currently stored.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Append adds w to the end of the buffer and returns its offset.
func (b *Buffer) Append(w int) int {
	off := len(b.data)
	b.data = append(b.data, w)
	return off
}

// AppendAll appends ws in order, returning the offset of the first word.
func (b *Buffer) AppendAll(ws ...int) int {
	off := len(b.data)
	b.data = append(b.data, ws...)
	return off
}

// Get returns the word at off.
func (b *Buffer) Get(off int) int {
	return b.data[off]
}

// Set overwrites the word at off, the one in-place change the buffer
// offers; no table in the front-end calls it.
func (b *Buffer) Set(off, w int) {
	b.data[off] = w
}

// Slice returns the words in [start, end) as a freshly allocated copy, so
// callers may not observe or cause mutation through the returned slice.
func (b *Buffer) Slice(start, end int) []int {
	out := make([]int, end-start)
	copy(out, b.data[start:end])
	return out
}
