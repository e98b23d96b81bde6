//go:build !pmm_thin

package pmm

// This file implements the constraint-aware allocator, protect, init, and
// finalize operations. It is compiled only when the platform owns its own
// MMU/allocator analogue is false — i.e. the common case. Builds tagged
// pmm_thin (spec §4.2's TARGET_HAS_MM configuration boundary) compile
// alloc_thin.go instead, which only exposes Insert/Dump and reports every
// other call as unavailable. This is a build-time partition, not a
// runtime switch, per spec §9's Design Notes.

import (
	"bootmem/platform"
)

// Flag modifies constraint-aware allocation behavior (spec §4.2.2).
type Flag uint8

const (
	// High places the allocation at the highest legal address within
	// constraints instead of the lowest.
	High Flag = 1 << iota
	// CanFail returns a failure sentinel instead of invoking boot_error
	// when no range satisfies the request.
	CanFail
)

func (f Flag) has(bit Flag) bool { return f&bit != 0 }

// roundUpAlign rounds v up to the next multiple of align (align must be a
// power of two).
func roundUpAlign(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}

func roundDownAlign(v, align uint64) uint64 {
	return v &^ (align - 1)
}

// Alloc is alloc(size, align, min_addr, max_addr, type, flags) from spec
// §4.2.2: constraint-aware allocation from FREE ranges. It returns
// (virt_ptr, phys_addr) exactly as the spec's signature names them — the
// virtual pointer callers dereference and the physical address they stamp
// into page tables — translated through platform.Translator.PhysToVirt,
// plus whether an allocation was found. A false ok with flags.CanFail set
// is the documented non-fatal failure path; a false ok without CanFail
// never happens; Alloc raises fatal.Boot first.
func (m *Manager) Alloc(size, align, minAddr, maxAddr uint64, typ RangeType, flags Flag) (virt uintptr, phys uint64, ok bool) {
	if typ == Free {
		m.fatal.Internal("pmm: alloc: type must not be FREE")
	}
	if size == 0 || !m.pageAligned(size) {
		m.fatal.Internal("pmm: alloc: size 0x%x is not a non-zero multiple of the page size", size)
	}
	if align == 0 {
		align = m.pageSize
	}
	if !m.pageAligned(align) || align&(align-1) != 0 {
		m.fatal.Internal("pmm: alloc: align 0x%x must be a page-aligned power of two", align)
	}

	lo := m.platform.Profile.EffectiveMin(minAddr)
	hi := m.platform.Profile.EffectiveMax(maxAddr)

	placement, found := m.findPlacement(size, align, lo, hi, flags.has(High))
	if !found {
		if flags.has(CanFail) {
			return 0, 0, false
		}
		m.fatal.Boot("pmm: alloc: no FREE range satisfies size=0x%x align=0x%x window=[0x%x,0x%x]", size, align, lo, hi)
	}

	m.rawInsert(placement, size, typ)
	return m.platform.Translator.PhysToVirt(placement), placement, true
}

// findPlacement implements the low-to-high / high-to-low scan spec
// §4.2.2 describes, returning the chosen physical start address.
func (m *Manager) findPlacement(size, align, lo, hi uint64, high bool) (uint64, bool) {
	indices := make([]int, 0, len(m.ranges))
	for i := range m.ranges {
		indices = append(indices, i)
	}
	if high {
		for l, r := 0, len(indices)-1; l < r; l, r = l+1, r-1 {
			indices[l], indices[r] = indices[r], indices[l]
		}
	}

	for _, i := range indices {
		n := m.ranges[i]
		if n.Type != Free {
			continue
		}
		iStart, iEnd, ok := intersect(n.Start, n.Last(), lo, hi)
		if !ok {
			continue
		}

		if high {
			placement := roundDownAlign(iEnd-size+1, align)
			if placement < iStart || placement > iEnd {
				continue
			}
			return placement, true
		}
		placement := roundUpAlign(iStart, align)
		if placement+size-1 > iEnd {
			continue
		}
		return placement, true
	}
	return 0, false
}

// intersect returns the inclusive overlap of [aStart,aEnd] and
// [bStart,bEnd], or ok=false if they don't overlap.
func intersect(aStart, aEnd, bStart, bEnd uint64) (start, end uint64, ok bool) {
	if aStart > bEnd || bStart > aEnd {
		return 0, 0, false
	}
	start = aStart
	if bStart > start {
		start = bStart
	}
	end = aEnd
	if bEnd < end {
		end = bEnd
	}
	return start, end, true
}

// Free is free(virt_ptr, size) from spec §4.2.3: the inverse of Alloc for
// consumers that over-reserved. virt is converted back to a physical
// address via platform.Translator.VirtToPhys before the containment
// check, per spec §4.2.3. The freed region must be fully contained within
// a single non-FREE existing range.
func (m *Manager) Free(virt uintptr, size uint64) {
	phys := m.platform.Translator.VirtToPhys(virt)
	m.assertPageAligned(phys, size, "free")

	end := phys + size
	for _, n := range m.ranges {
		if n.Type == Free {
			continue
		}
		if n.Start <= phys && end <= n.End() {
			m.rawInsert(phys, size, Free)
			return
		}
	}
	m.fatal.Internal("pmm: free: [0x%x,0x%x) is not fully contained in any non-FREE range", phys, end)
}

// Protect is protect(start, size) from spec §4.2.5: every overlapping
// FREE range in [start, start+size) (page-aligned outward) is
// reclassified as INTERNAL, reserving it from Alloc while still letting
// Finalize hand it back to the OS as free.
func (m *Manager) Protect(start, size uint64) {
	if size == 0 {
		m.fatal.Internal("pmm: protect: zero-size range is invalid")
	}
	alignedStart := m.alignDown(start)
	alignedEnd := m.alignUp(start + size)

	// Only FREE sub-ranges of the window are reclassified; non-FREE
	// sub-ranges are left exactly as they are.
	for _, n := range m.snapshotOverlapping(alignedStart, alignedEnd) {
		if n.Type != Free {
			continue
		}
		s, e, ok := intersect(n.Start, n.End()-1, alignedStart, alignedEnd-1)
		if !ok {
			continue
		}
		m.rawInsert(s, e-s+1, Internal)
	}
}

// snapshotOverlapping returns a copy of the ranges overlapping
// [start, end) at the time of the call; Protect iterates this snapshot
// rather than m.ranges directly since rawInsert mutates m.ranges as it
// goes.
func (m *Manager) snapshotOverlapping(start, end uint64) []Range {
	var out []Range
	for _, n := range m.ranges {
		if n.Start < end && n.End() > start {
			out = append(out, n.Range)
		}
	}
	return out
}

// Init is init() from spec §4.2.6: calls the platform probe to populate
// the map, then protects the loader's own image extent so Alloc never
// hands out memory the loader itself occupies, then emits a debug dump.
func (m *Manager) Init() {
	if m.platform.Probe != nil {
		m.platform.Probe(func(r platform.MemoryRegion) bool {
			m.Add(r.Start, r.Size, RangeType(r.Type))
			return true
		})
	}

	img := m.platform.Image
	if img.End > img.Start {
		start := m.alignDown(uint64(img.Start))
		end := m.alignUp(uint64(img.End))
		m.Protect(start, end-start)
	}

	m.Dump()
}

// Finalize is finalize(out_map) from spec §4.2.7: every INTERNAL range is
// retyped FREE and re-merged with its neighbors, then the range list is
// handed to the caller; the Manager's own list becomes empty ("transfer
// ownership").
func (m *Manager) Finalize() []Range {
	// Collect INTERNAL ranges first: retyping in place while iterating
	// m.ranges (which rawInsert mutates) would be unsafe.
	var internalRanges []Range
	for _, n := range m.ranges {
		if n.Type == Internal {
			internalRanges = append(internalRanges, n.Range)
		}
	}
	for _, r := range internalRanges {
		m.rawInsert(r.Start, r.Size, Free)
	}

	out := m.Ranges()
	for _, n := range m.ranges {
		m.destroyNode(n)
	}
	m.ranges = nil
	return out
}
