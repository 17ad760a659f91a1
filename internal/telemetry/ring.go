package telemetry

// ring is a fixed-capacity FIFO buffer; add evicts the oldest entry once full.
type ring[T any] struct {
	buf   []T
	idx   int
	count int
}

func newRing[T any](n int) *ring[T] {
	if n < 1 {
		n = 1
	}
	return &ring[T]{buf: make([]T, n)}
}

func (r *ring[T]) add(v T) {
	r.buf[r.idx] = v
	r.idx++
	if r.idx >= len(r.buf) {
		r.idx = 0
	}
	if r.count < len(r.buf) {
		r.count++
	}
}

func (r *ring[T]) len() int { return r.count }
func (r *ring[T]) cap() int { return len(r.buf) }

func (r *ring[T]) reset() {
	clear(r.buf)
	r.idx = 0
	r.count = 0
}

// oldestFirst returns the contents in arrival order.
func (r *ring[T]) oldestFirst() []T {
	out := make([]T, r.count)
	start := r.idx - r.count
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// newestFirst returns the contents in reverse arrival order.
func (r *ring[T]) newestFirst() []T {
	out := r.oldestFirst()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
