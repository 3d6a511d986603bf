package pool

import (
	"sync"
	"testing"
)

func TestPoolResetsObjects(t *testing.T) {
	p := New(
		func() []int { return make([]int, 0, 4) },
		func(s []int) { clear(s) },
	)

	s := p.Get()
	s = append(s, 1, 2)
	p.Put(s)

	inUse, gets, misses := p.Stats()
	if inUse != 0 {
		t.Errorf("inUse = %d, want 0", inUse)
	}
	if gets != 1 || misses != 1 {
		t.Errorf("gets, misses = %d, %d, want 1, 1", gets, misses)
	}
}

func TestBufferPool(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("hello")
	PutBuffer(buf)

	again := GetBuffer()
	defer PutBuffer(again)
	if again.Len() != 0 {
		t.Errorf("pooled buffer not reset: %q", again.String())
	}

	big := GetBuffer()
	big.Grow(maxPooledBuffer + 1)
	PutBuffer(big)
	PutBuffer(nil)
}

func TestStringIntern(t *testing.T) {
	p := NewStringInternPool(2)

	a := p.Intern(string([]byte("name")))
	b := p.Intern(string([]byte("name")))
	if a != b {
		t.Fatalf("Intern changed the value: %q != %q", a, b)
	}
	p.Intern("age")
	p.Intern("overflow")

	size, hits, misses := p.Stats()
	if size != 2 {
		t.Errorf("size = %d, want 2", size)
	}
	if hits != 1 || misses != 3 {
		t.Errorf("hits, misses = %d, %d, want 1, 3", hits, misses)
	}
}

func TestStringInternConcurrent(t *testing.T) {
	p := NewStringInternPool(100)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := p.Intern("key"); got != "key" {
					t.Errorf("Intern = %q", got)
				}
			}
		}()
	}
	wg.Wait()

	if size, _, _ := p.Stats(); size != 1 {
		t.Errorf("size = %d, want 1", size)
	}
}
