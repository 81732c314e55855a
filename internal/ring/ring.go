// Package ring provides a fixed-capacity line buffer that keeps the most
// recent lines of captured output.
package ring

// DefaultCapacity is the number of lines retained when no capacity is
// configured.
const DefaultCapacity = 1024

// Buffer holds the most recent lines pushed into it, in arrival order.
// When full, a push evicts the oldest line first.
//
// Buffer is not safe for concurrent use.
type Buffer struct {
	lines [][]byte
	// start is the index of the oldest retained line.
	start   int
	count   int
	evicted uint64
}

// New creates a buffer retaining at most capacity lines. A capacity
// below 1 is treated as 1.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{lines: make([][]byte, capacity)}
}

// Push stores a copy of line, evicting the oldest line if the buffer is
// at capacity.
func (b *Buffer) Push(line []byte) {
	stored := make([]byte, len(line))
	copy(stored, line)

	capacity := len(b.lines)
	if b.count < capacity {
		b.lines[(b.start+b.count)%capacity] = stored
		b.count++
		return
	}
	b.lines[b.start] = stored
	b.start = (b.start + 1) % capacity
	b.evicted++
}

// Snapshot returns the retained lines, oldest first. The returned slice
// is freshly allocated; the lines themselves must not be modified.
func (b *Buffer) Snapshot() [][]byte {
	out := make([][]byte, 0, b.count)
	for i := 0; i < b.count; i++ {
		out = append(out, b.lines[(b.start+i)%len(b.lines)])
	}
	return out
}

// Len returns the number of retained lines.
func (b *Buffer) Len() int { return b.count }

// Cap returns the maximum number of retained lines.
func (b *Buffer) Cap() int { return len(b.lines) }

// Evicted returns how many lines have been dropped to make room.
func (b *Buffer) Evicted() uint64 { return b.evicted }
