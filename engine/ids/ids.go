// Package ids derives stable control identities by chaining 32-bit hashes.
//
// A child id is the hash of its key seeded with the parent id, so the
// identity of a control is a function of the path of keys leading to it.
// Nothing is stored as a tree; callers keep the current path as a stack.
package ids

import (
	"encoding/binary"
	"strconv"
	"unsafe"

	"github.com/spaolacci/murmur3"
)

// ID identifies one control across frames. Zero means "no control".
type ID uint32

// None is the sentinel id. Queries made with it always report false.
const None ID = 0

// Root seeds every frame's identity stack.
const Root ID = 0x2f6d_7a91

// Hash mixes data into seed with MurmurHash3 (x86, 32-bit).
func Hash(seed uint32, data []byte) uint32 {
	return murmur3.Sum32WithSeed(data, seed)
}

// HashString derives the child of seed named s.
func HashString(seed ID, s string) ID {
	if len(s) == 0 {
		return nonZero(Hash(uint32(seed), nil))
	}
	// zero-copy view; Hash never retains data
	b := unsafe.Slice(unsafe.StringData(s), len(s))
	return nonZero(Hash(uint32(seed), b))
}

// HashBytes derives the child of seed keyed by b.
func HashBytes(seed ID, b []byte) ID {
	return nonZero(Hash(uint32(seed), b))
}

// HashInt derives the child of seed keyed by v (little-endian, 8 bytes).
func HashInt(seed ID, v uint64) ID {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return nonZero(Hash(uint32(seed), tmp[:]))
}

func nonZero(h uint32) ID {
	if h == 0 {
		return 1
	}
	return ID(h)
}

func (id ID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 16)
}
