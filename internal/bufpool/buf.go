package bufpool

import (
	"bytes"
	"sync"
)

// maxPooledSize keeps a single huge frame from pinning its
// buffer in the pool forever.
const maxPooledSize = 1 << 16

var pool sync.Pool

// Get returns an empty buffer from the pool, or a new one if the pool
// is empty, with room for at least n bytes.
func Get(n int) *bytes.Buffer {
	b, ok := pool.Get().(*bytes.Buffer)
	if !ok {
		b = &bytes.Buffer{}
	}
	b.Grow(n)
	return b
}

// Put returns a buffer into the pool.
func Put(b *bytes.Buffer) {
	if b.Cap() > maxPooledSize {
		return
	}
	b.Reset()
	pool.Put(b)
}
