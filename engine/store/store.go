// Package store keeps small per-control values alive across frames.
//
// Values are keyed by (control id, byte size) and stored as raw bytes, so a
// control may keep several values of different sizes under one id. An entry
// that is not touched between two ReclaimUnused calls is dropped; the next
// access recreates it from the caller's default. Stored types must not
// contain Go pointers.
package store

import (
	"fmt"
	"unsafe"

	"github.com/hubastard/canopy/engine/ids"
)

const (
	align   = 8
	maxSize = 255
)

type key struct {
	id   ids.ID
	size uint8
}

type entry struct {
	key
	used bool
	seg  int32
	off  int32
}

// Store is a keyed table of fixed-size values with mark-and-sweep
// reclamation. It is not safe for concurrent use.
type Store struct {
	entries []entry
	index   map[key]int
	// segs[0] is the compacted buffer; later segments are appended when a
	// frame outgrows it so references handed out this frame never move.
	segs    [][]byte
	tail    int // write offset in the last segment
	initial int
}

// Stats reports occupancy for diagnostics.
type Stats struct {
	Entries  int
	Bytes    int
	Capacity int
	Segments int
}

// New creates a store whose payload buffer starts at capacity bytes.
func New(capacity int) *Store {
	if capacity <= 0 {
		panic("store: capacity must be positive")
	}
	return &Store{
		index:   make(map[key]int, 64),
		segs:    [][]byte{newSegment(capacity)},
		initial: capacity,
	}
}

func newSegment(n int) []byte {
	words := (n + align - 1) / align
	backing := make([]uint64, words)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(backing))), words*align)
}

func sizeKey(size uintptr) uint8 {
	if size > maxSize {
		panic(fmt.Sprintf("store: value of %d bytes exceeds the %d byte limit", size, maxSize))
	}
	return uint8(size)
}

// GetOrCreate returns the value stored for id, creating it from def when
// absent. The returned pointer stays valid until the next ReclaimUnused.
func GetOrCreate[T any](s *Store, id ids.ID, def T) *T {
	k := key{id: id, size: sizeKey(unsafe.Sizeof(def))}
	if i, ok := s.index[k]; ok {
		s.entries[i].used = true
		return (*T)(s.payload(i))
	}
	i := s.insert(k)
	p := (*T)(s.payload(i))
	*p = def
	return p
}

// TryGet returns the value stored for id if there is one.
func TryGet[T any](s *Store, id ids.ID) (*T, bool) {
	var zero T
	k := key{id: id, size: sizeKey(unsafe.Sizeof(zero))}
	i, ok := s.index[k]
	if !ok {
		return nil, false
	}
	s.entries[i].used = true
	return (*T)(s.payload(i)), true
}

var zeroBase uint64

func (s *Store) payload(i int) unsafe.Pointer {
	e := &s.entries[i]
	if e.size == 0 {
		return unsafe.Pointer(&zeroBase)
	}
	return unsafe.Pointer(&s.segs[e.seg][e.off])
}

func (s *Store) insert(k key) int {
	n := roundUp(int(k.size))
	last := len(s.segs) - 1
	if s.tail+n > len(s.segs[last]) {
		s.segs = append(s.segs, newSegment(max(2*s.capacity(), n)))
		s.tail = 0
		last++
	}
	e := entry{key: k, used: true, seg: int32(last), off: int32(s.tail)}
	clear(s.segs[last][s.tail : s.tail+n])
	s.tail += n
	s.entries = append(s.entries, e)
	s.index[k] = len(s.entries) - 1
	return len(s.entries) - 1
}

func (s *Store) capacity() int {
	total := 0
	for _, seg := range s.segs {
		total += len(seg)
	}
	return total
}

func roundUp(n int) int {
	return (n + align - 1) &^ (align - 1)
}

// ReclaimUnused drops every entry that was not accessed since the previous
// call, compacts the survivors into one buffer and clears the usage marks.
// Run it once per frame after all widget code. It returns how many entries
// were dropped.
func (s *Store) ReclaimUnused() int {
	removed := 0
	for _, e := range s.entries {
		if !e.used {
			removed++
		}
	}
	if removed == 0 && len(s.segs) == 1 {
		for i := range s.entries {
			s.entries[i].used = false
		}
		return 0
	}

	live := 0
	for _, e := range s.entries {
		if e.used {
			live += roundUp(int(e.size))
		}
	}
	// keep the grown capacity; a frame that needed it will likely need it again
	dst := newSegment(max(s.capacity(), live, s.initial))
	kept := s.entries[:0]
	off := 0
	clear(s.index)
	for _, e := range s.entries {
		if !e.used {
			continue
		}
		n := roundUp(int(e.size))
		copy(dst[off:off+n], s.segs[e.seg][e.off:int(e.off)+n])
		e.seg, e.off, e.used = 0, int32(off), false
		off += n
		kept = append(kept, e)
		s.index[e.key] = len(kept) - 1
	}
	clear(s.entries[len(kept):])
	s.entries = kept
	s.segs = [][]byte{dst}
	s.tail = off
	return removed
}

// Len reports the number of live entries.
func (s *Store) Len() int { return len(s.entries) }

func (s *Store) Stats() Stats {
	bytes := 0
	for _, e := range s.entries {
		bytes += roundUp(int(e.size))
	}
	return Stats{Entries: len(s.entries), Bytes: bytes, Capacity: s.capacity(), Segments: len(s.segs)}
}
