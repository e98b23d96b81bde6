// Package pmm implements the physical memory map: an ordered list of
// typed, non-overlapping, page-aligned physical ranges covering the
// entire known physical address space (spec §3, §4.2).
package pmm

import (
	"fmt"

	"bootmem/bitfield"
	"bootmem/heap"
)

// RangeType is one of the range type tags spec §3 defines. Values are
// fixed and match the finalized map's kernel ABI (spec §6): "the exact
// numeric values are part of the kernel ABI and must match whichever
// payload protocol is in use."
type RangeType uint8

const (
	Free RangeType = iota
	Allocated
	Reclaimable
	PageTables
	Stack
	Modules
	Internal
)

func (t RangeType) String() string {
	switch t {
	case Free:
		return "FREE"
	case Allocated:
		return "ALLOCATED"
	case Reclaimable:
		return "RECLAIMABLE"
	case PageTables:
		return "PAGETABLES"
	case Stack:
		return "STACK"
	case Modules:
		return "MODULES"
	case Internal:
		return "INTERNAL"
	default:
		return fmt.Sprintf("RangeType(%d)", uint8(t))
	}
}

func (t RangeType) valid() bool { return t <= Internal }

// rangeTag is the struct bitfield.Pack/Unpack uses to build the single
// uint32 ABI tag a finalized Range carries, the same mechanism the
// teacher used to pack PageFlags into a page-table entry.
type rangeTag struct {
	Type     uint8  `bitfield:",4"`
	Reserved uint32 `bitfield:",28"`
}

// Range is a contiguous, page-aligned physical address span with a
// single type (spec §3's MemoryRange).
type Range struct {
	Start uint64
	Size  uint64
	Type  RangeType
}

// End returns the address one past the last byte in the range.
func (r Range) End() uint64 { return r.Start + r.Size }

// Last returns the final inclusive byte of the range. Callers must not
// call Last on a zero-size range.
func (r Range) Last() uint64 { return r.Start + r.Size - 1 }

// ABITag packs Type (and reserved flag bits, currently unused but part
// of the stable wire shape) into the uint32 the kernel hand-off uses.
func (r Range) ABITag() uint32 {
	packed, err := bitfield.Pack(rangeTag{Type: uint8(r.Type)}, &bitfield.Config{NumBits: 32})
	if err != nil {
		// rangeTag's own shape always fits 32 bits; a failure here is a
		// programming error in this package, not caller input.
		panic(err)
	}
	return uint32(packed)
}

// rangeNode is a Range plus the heap allocation backing its bookkeeping.
// Spec §4.2 and §9 describe range records as living on the Heap and being
// explicitly transferred/released on merge, split, and finalize; rec is
// the accounting handle for that cost, freed whenever the node is
// destroyed (absorbed by a later insert, merged away, or replaced).
type rangeNode struct {
	Range
	rec heap.Ptr
}

// recordSize is the nominal bookkeeping footprint of one range record,
// used only to charge the Heap the right number of bytes; the actual
// Range value lives in ordinary Go memory for traversal and testing.
const recordSize = 32
