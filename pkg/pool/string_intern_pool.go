package pool

import (
	"sync"
	"sync/atomic"
)

// StringInternPool provides string interning to reduce memory held by
// strings that repeat many times, such as the keys of a list of records.
type StringInternPool struct {
	mu      sync.RWMutex
	strings map[string]string
	maxSize int
	hits    int64
	misses  int64
}

// NewStringInternPool creates a pool holding at most maxSize strings.
func NewStringInternPool(maxSize int) *StringInternPool {
	return &StringInternPool{
		strings: make(map[string]string, min(maxSize, 1024)),
		maxSize: maxSize,
	}
}

// Intern returns an interned version of the string
func (p *StringInternPool) Intern(s string) string {
	// Fast path: check if already interned
	p.mu.RLock()
	if interned, ok := p.strings[s]; ok {
		p.mu.RUnlock()
		atomic.AddInt64(&p.hits, 1)
		return interned
	}
	p.mu.RUnlock()

	// Slow path: add to intern pool
	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if interned, ok := p.strings[s]; ok {
		atomic.AddInt64(&p.hits, 1)
		return interned
	}

	atomic.AddInt64(&p.misses, 1)
	if len(p.strings) >= p.maxSize {
		// Return original string if pool is full
		return s
	}
	p.strings[s] = s
	return s
}

// Stats returns intern pool statistics
func (p *StringInternPool) Stats() (size, hits, misses int64) {
	p.mu.RLock()
	size = int64(len(p.strings))
	p.mu.RUnlock()
	return size, atomic.LoadInt64(&p.hits), atomic.LoadInt64(&p.misses)
}
