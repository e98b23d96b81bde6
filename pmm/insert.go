package pmm

// Insert is insert(map, start, size, type), the central primitive spec
// §4.2.1 describes: the new range overwrites any overlapping portions of
// existing ranges, then merges with same-type neighbors. Every other
// mutating PMM operation (add, protect, finalize's INTERNAL->FREE pass,
// alloc/free's stamping) reduces to this call.
func (m *Manager) Insert(start, size uint64, typ RangeType) {
	m.assertPageAligned(start, size, "insert")
	if !typ.valid() {
		m.fatal.Internal("pmm: insert: invalid range type %d", typ)
	}
	m.rawInsert(start, size, typ)
}

// rawInsert performs the insert without the public entry point's
// assertions, so internal callers that already validated their inputs
// (finalize's retype pass, alloc's stamping) can skip redundant checks.
func (m *Manager) rawInsert(start, size uint64, typ RangeType) {
	newEnd := start + size

	var before, after []*rangeNode

	for _, n := range m.ranges {
		switch {
		case n.End() <= start:
			// Entirely before the new range: untouched.
			before = append(before, n)
		case n.Start >= newEnd:
			// Entirely after the new range: untouched.
			after = append(after, n)
		default:
			// n overlaps [start, newEnd) in some way. It is replaced by
			// whichever trimmed fragments survive; the original node's
			// bookkeeping allocation is released either way.
			if n.Start < start {
				// Left trim: the part of n before start survives with
				// n's original type (spec §4.2.1 step 3).
				before = append(before, m.newNode(Range{Start: n.Start, Size: start - n.Start, Type: n.Type}))
			}
			if n.End() > newEnd {
				// Right sweep truncation: the part of n after newEnd
				// survives with n's original type (spec §4.2.1 step 4).
				// When the same n also satisfied the left-trim branch
				// above, n entirely contained the new range and this is
				// exactly the "split off the portion beyond new.end"
				// case step 3 describes.
				after = append(after, m.newNode(Range{Start: newEnd, Size: n.End() - newEnd, Type: n.Type}))
			}
			m.destroyNode(n)
		}
	}

	mid := m.newNode(Range{Start: start, Size: size, Type: typ})

	merged := make([]*rangeNode, 0, len(before)+1+len(after))
	merged = append(merged, before...)
	merged = append(merged, mid)
	merged = append(merged, after...)

	m.ranges = m.coalesceAdjacentEqualType(merged)
}

// coalesceAdjacentEqualType merges any adjacent ranges sharing a type
// (spec §4.2.1 step 5, and spec §3 invariant 3: "adjacent ranges with the
// same type are merged"). It is run over the whole list after every
// insert; since insert only ever touches one contiguous region, this is
// a no-op everywhere else, but running it globally means P1 holds
// unconditionally without having to reason about exactly which of the
// three merge sites (left of new, right of new, predecessor-and-tail)
// apply in a given call.
func (m *Manager) coalesceAdjacentEqualType(in []*rangeNode) []*rangeNode {
	if len(in) == 0 {
		return in
	}
	out := make([]*rangeNode, 0, len(in))
	out = append(out, in[0])
	for _, n := range in[1:] {
		last := out[len(out)-1]
		if last.End() == n.Start && last.Type == n.Type {
			last.Size += n.Size
			m.destroyNode(n)
			continue
		}
		out = append(out, n)
	}
	return out
}

// Add is add(start, size, type): a thin wrapper used by platform probes
// to seed the map (spec §4.2.4).
func (m *Manager) Add(start, size uint64, typ RangeType) {
	m.Insert(start, size, typ)
}
