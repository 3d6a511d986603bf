// Package pool provides object pooling and string interning for the
// decode and encode paths.
//
// The package provides:
//   - Generic type-safe object pooling with Pool[T]
//   - A shared bytes.Buffer pool for encoders
//   - String interning for record keys that repeat across rows
//
// Example usage:
//
//	buf := pool.GetBuffer()
//	defer pool.PutBuffer(buf)
//
//	keys := pool.NewStringInternPool(10000)
//	name := keys.Intern(raw)
package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and an optional reset
// function. The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		inUse  int64
		gets   int64
		misses int64
	}
}

// New creates a new typed pool. The new function is called when the pool is
// empty; reset, when non-nil, runs before an object goes back to the pool.
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.misses, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, allocating when it is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	atomic.AddInt64(&p.stats.gets, 1)
	return p.pool.Get().(T)
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns the objects currently checked out, the total number of Get
// calls and how many of them had to allocate.
func (p *Pool[T]) Stats() (inUse, gets, misses int64) {
	return atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.gets),
		atomic.LoadInt64(&p.stats.misses)
}

// maxPooledBuffer caps the capacity of buffers kept for reuse.
const maxPooledBuffer = 4 << 20

var bufferPool = New(
	func() *bytes.Buffer { return new(bytes.Buffer) },
	func(b *bytes.Buffer) { b.Reset() },
)

// GetBuffer returns an empty buffer from the global pool.
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get()
}

// PutBuffer returns a buffer to the global pool. Oversized buffers are left
// to the garbage collector.
func PutBuffer(b *bytes.Buffer) {
	if b == nil {
		return
	}
	if b.Cap() > maxPooledBuffer {
		atomic.AddInt64(&bufferPool.stats.inUse, -1)
		return
	}
	bufferPool.Put(b)
}

// BufferStats returns statistics of the global buffer pool.
func BufferStats() (inUse, gets, misses int64) {
	return bufferPool.Stats()
}
