package tl2stm

import (
	"encoding/binary"
	"unsafe"

	"github.com/spaolacci/murmur3"
)

// bloomBits and bloomK follow the reference sizing of spec.md §4.3
// ("128 bits / 1% false-positive rate" for the write set's expected
// cardinality). k is fixed at compile time rather than derived per
// instance, matching the reference's fixed-width filter.
const (
	bloomBits  = 128
	bloomWords = bloomBits / 64
	bloomK     = 7
)

// addressBloom is a fixed-width Bloom filter over the set of addresses
// present in a write set. It must report "possibly present" for every
// address actually present (no false negatives); false positives just
// fall through to the linear scan in writeSet.lookup.
type addressBloom struct {
	bits [bloomWords]uint64
}

func (b *addressBloom) reset() {
	b.bits = [bloomWords]uint64{}
}

// bloomHashes derives two independent 64-bit hashes of addr via
// murmur3.Sum128, combined with Kirsch-Mitzenmacher double hashing to
// produce bloomK probe positions without bloomK separate hash passes.
func bloomHashes(addr unsafe.Pointer) (h1, h2 uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(uintptr(addr)))
	return murmur3.Sum128(buf[:])
}

func (b *addressBloom) add(addr unsafe.Pointer) {
	h1, h2 := bloomHashes(addr)
	for i := uint64(0); i < bloomK; i++ {
		bit := (h1 + i*h2) % bloomBits
		b.bits[bit/64] |= 1 << (bit % 64)
	}
}

func (b *addressBloom) mayContain(addr unsafe.Pointer) bool {
	h1, h2 := bloomHashes(addr)
	for i := uint64(0); i < bloomK; i++ {
		bit := (h1 + i*h2) % bloomBits
		if b.bits[bit/64]&(1<<(bit%64)) == 0 {
			return false
		}
	}
	return true
}
