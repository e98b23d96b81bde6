package pmm

import (
	"bootmem/bootlog"
	"bootmem/fatal"
	"bootmem/heap"
	"bootmem/platform"
)

// Manager owns the single global ordered range list spec §4.2 describes.
// It replaces the teacher's process-wide `memory_ranges` global with an
// explicit value, per spec §9's Design Notes.
type Manager struct {
	ranges   []*rangeNode // strictly ordered by Start, no overlaps (spec §3 invariants)
	pageSize uint64
	heap     *heap.Heap
	fatal    fatal.Reporter
	log      *bootlog.Console
	platform platform.Platform
}

// New constructs an empty Manager for the given platform. The backing
// Heap is used for range-record bookkeeping (spec §4.2, §9); callers
// typically share one Heap between the loader's Manager and its other
// transient allocations.
func New(p platform.Platform, h *heap.Heap, log *bootlog.Console) *Manager {
	pageSize := p.Profile.PageSize
	if pageSize == 0 {
		pageSize = 4096
	}
	if p.Translator == nil {
		// Every platform this spec targets identity-maps physical memory
		// during the loader's own execution (platform.go:28); callers that
		// don't supply a Translator get that default rather than a nil
		// interface Alloc/Free would otherwise have to guard against.
		p.Translator = platform.Identity{}
	}
	return &Manager{
		pageSize: pageSize,
		heap:     h,
		log:      log,
		platform: p,
		fatal:    fatal.Reporter{Sink: logSink{log}},
	}
}

// logSink adapts *bootlog.Console to fatal.Reporter's minimal interface.
type logSink struct{ log *bootlog.Console }

func (s logSink) Errorf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Errorf(format, args...)
	}
}

// PageSize returns the configured page size (PAGE_SIZE in spec terms).
func (m *Manager) PageSize() uint64 { return m.pageSize }

func (m *Manager) pageAligned(v uint64) bool { return v%m.pageSize == 0 }

func (m *Manager) alignDown(v uint64) uint64 { return v - v%m.pageSize }

func (m *Manager) alignUp(v uint64) uint64 {
	if r := v % m.pageSize; r != 0 {
		return v + (m.pageSize - r)
	}
	return v
}

// Ranges returns a defensive copy of the current range list, ordered by
// Start ascending, for callers (dump, tests, finalize) that want to
// observe the map without risking a mutation through internal pointers.
func (m *Manager) Ranges() []Range {
	out := make([]Range, len(m.ranges))
	for i, n := range m.ranges {
		out[i] = n.Range
	}
	return out
}

// newNode allocates a fresh rangeNode, charging its bookkeeping cost to
// the Heap per spec §4.2/§9.
func (m *Manager) newNode(r Range) *rangeNode {
	var rec heap.Ptr
	if m.heap != nil {
		rec = m.heap.Alloc(recordSize)
	}
	return &rangeNode{Range: r, rec: rec}
}

// destroyNode releases a rangeNode's bookkeeping allocation. Called
// whenever a node is absorbed by merge, covered by a later insert, or
// swept away — "absorption during merge/sweep releases it back to the
// Heap" (spec §5).
func (m *Manager) destroyNode(n *rangeNode) {
	if m.heap != nil {
		m.heap.Free(n.rec)
	}
}

func (m *Manager) assertPageAligned(start, size uint64, op string) {
	if size == 0 {
		m.fatal.Internal("pmm: %s: zero-size range is invalid", op)
	}
	if !m.pageAligned(start) || !m.pageAligned(size) {
		m.fatal.Internal("pmm: %s: start=0x%x size=0x%x is not page-aligned", op, start, size)
	}
}

// checkInvariants is a cheap, test-oriented assertion of spec §3's
// ordering/overlap/merge invariants (P1). It is not called on every
// mutation in production code paths (that would make every insert O(n)
// twice over for no behavioral benefit); the package's property tests
// call it after arbitrary operation sequences.
func (m *Manager) checkInvariants() error {
	for i := 1; i < len(m.ranges); i++ {
		prev, cur := m.ranges[i-1], m.ranges[i]
		if cur.Start < prev.End() {
			return overlapError(prev.Range, cur.Range)
		}
		if cur.Start == prev.End() && cur.Type == prev.Type {
			return adjacentSameTypeError(prev.Range, cur.Range)
		}
	}
	for _, n := range m.ranges {
		if !m.pageAligned(n.Start) || !m.pageAligned(n.Size) {
			return unalignedError(n.Range)
		}
	}
	return nil
}
