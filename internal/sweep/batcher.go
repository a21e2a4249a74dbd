package sweep

// Batcher chunks an incoming key stream into batches no larger than the
// backend's delete limit. It never reorders, filters, or deduplicates.
type Batcher struct {
	limit int
	buf   []string
}

// NewBatcher returns a batcher emitting batches of at most limit keys.
// The limit must be at least 1.
func NewBatcher(limit int) *Batcher {
	return &Batcher{
		limit: limit,
		buf:   make([]string, 0, limit),
	}
}

// Add buffers a key and returns a completed batch once the limit is reached,
// nil otherwise. Ownership of a returned batch passes to the caller.
func (b *Batcher) Add(key string) []string {
	b.buf = append(b.buf, key)
	if len(b.buf) < b.limit {
		return nil
	}
	batch := b.buf
	b.buf = make([]string, 0, b.limit)
	return batch
}

// Flush returns the final partial batch, or nil when nothing is buffered.
func (b *Batcher) Flush() []string {
	if len(b.buf) == 0 {
		return nil
	}
	batch := b.buf
	b.buf = make([]string, 0, b.limit)
	return batch
}

// Pending returns the number of buffered keys not yet emitted.
func (b *Batcher) Pending() int {
	return len(b.buf)
}
