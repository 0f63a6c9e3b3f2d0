// Package scratch is the per-frame bump allocator.
//
// Everything handed out by an Arena stays valid until the next Clear, and
// only until then. Clear is called once per frame by the UI context. Values
// placed in an arena must not contain Go pointers: the memory is plain
// bytes and the garbage collector does not scan it.
package scratch

import (
	"unsafe"
)

const wordSize = int(unsafe.Sizeof(uintptr(0)))

// Arena hands out zeroed, pointer-aligned memory from a single block and
// doubles the block when it runs out. Superseded blocks are retired, not
// freed, so earlier allocations of the same frame stay readable.
type Arena struct {
	block   []byte
	off     int
	last    int // start of the most recent allocation, -1 when none
	retired [][]byte
	gen     uint64
	peak    int
}

// Stats is a snapshot used for tuning the initial capacity.
type Stats struct {
	Used       int
	Capacity   int
	Retired    int
	Peak       int
	Generation uint64
}

// New creates an arena with the given initial capacity in bytes.
func New(capacity int) *Arena {
	if capacity <= 0 {
		panic("scratch: arena capacity must be positive")
	}
	return &Arena{block: newBlock(capacity), last: -1}
}

// newBlock returns n bytes (rounded up to a word) backed by a []uint64 so
// the base address is word aligned.
func newBlock(n int) []byte {
	words := (n + 7) / 8
	backing := make([]uint64, words)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(backing))), words*8)
}

func alignUp(n int) int {
	return (n + wordSize - 1) &^ (wordSize - 1)
}

// Clear makes all memory handed out so far reusable and drops the blocks
// that were outgrown during the frame that just ended.
func (a *Arena) Clear() {
	for i := range a.retired {
		a.retired[i] = nil
	}
	a.retired = a.retired[:0]
	a.off = 0
	a.last = -1
	a.gen++
}

// Generation counts Clear calls. A value captured before a Clear no longer
// matches afterwards.
func (a *Arena) Generation() uint64 { return a.gen }

func (a *Arena) Stats() Stats {
	return Stats{
		Used:       a.off,
		Capacity:   len(a.block),
		Retired:    len(a.retired),
		Peak:       a.peak,
		Generation: a.gen,
	}
}

// alloc reserves size bytes and returns a pointer to their zeroed start.
func (a *Arena) alloc(size int) unsafe.Pointer {
	if size <= 0 {
		panic("scratch: allocation size must be positive")
	}
	n := alignUp(size)
	if a.off+n > len(a.block) {
		a.grow(n)
	}
	start := a.off
	clear(a.block[start : start+n])
	a.off = start + n
	a.last = start
	if a.off > a.peak {
		a.peak = a.off
	}
	return unsafe.Pointer(&a.block[start])
}

func (a *Arena) grow(n int) {
	newCap := max(2*len(a.block), n)
	a.retired = append(a.retired, a.block)
	a.block = newBlock(newCap)
	a.off = 0
	a.last = -1
}

// endsAtCursor reports whether p..p+n is the latest allocation.
func (a *Arena) endsAtCursor(p unsafe.Pointer, n int) bool {
	if a.last < 0 || p == nil {
		return false
	}
	return p == unsafe.Pointer(&a.block[a.last]) && a.last+alignUp(n) == a.off
}

// AllocateValue returns a zeroed T that lives until the next Clear.
func AllocateValue[T any](a *Arena) *T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T)
	}
	return (*T)(a.alloc(size))
}

// AllocateArray returns a zeroed slice of n elements with cap n.
func AllocateArray[T any](a *Arena, n int) []T {
	if n < 0 {
		panic("scratch: negative array length")
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if n == 0 {
		return nil
	}
	if elem == 0 {
		return make([]T, n)
	}
	return unsafe.Slice((*T)(a.alloc(elem*n)), n)
}

// ReallocateArray resizes s to n elements. If s is the most recent
// allocation and the block has room it grows in place; otherwise the
// contents are copied into a fresh allocation. New elements are zero.
func ReallocateArray[T any](a *Arena, s []T, n int) []T {
	if n < 0 {
		panic("scratch: negative array length")
	}
	if n <= cap(s) {
		out := s[:n]
		if n > len(s) {
			clear(out[len(s):])
		}
		return out
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if elem == 0 {
		return make([]T, n)
	}
	p := unsafe.Pointer(unsafe.SliceData(s))
	if a.endsAtCursor(p, cap(s)*elem) {
		need := alignUp(n * elem)
		if a.last+need <= len(a.block) {
			clear(a.block[a.off : a.last+need])
			a.off = a.last + need
			if a.off > a.peak {
				a.peak = a.off
			}
			return unsafe.Slice((*T)(p), n)
		}
	}
	out := AllocateArray[T](a, n)
	copy(out, s)
	return out
}

// Ref is a generation-tagged pointer into an arena. Get panics once the
// arena has been cleared, which catches pointers kept across frames.
type Ref[T any] struct {
	a   *Arena
	p   *T
	gen uint64
}

// NewRef allocates a zeroed T and tags it with the current generation.
func NewRef[T any](a *Arena) Ref[T] {
	return Ref[T]{a: a, p: AllocateValue[T](a), gen: a.gen}
}

func (r Ref[T]) Valid() bool { return r.a != nil && r.a.gen == r.gen }

func (r Ref[T]) Get() *T {
	if !r.Valid() {
		panic("scratch: arena reference used after Clear")
	}
	return r.p
}
