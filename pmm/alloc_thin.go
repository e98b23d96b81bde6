//go:build pmm_thin

package pmm

// Thin build: the platform owns its own physical allocator (spec §4.2's
// TARGET_HAS_MM case). Only Insert/Add/Dump remain meaningful; the
// constraint-aware allocator, Free, Protect, Init, and Finalize are
// compiled out of the full implementation and replaced with reporters
// that fail loudly rather than silently no-op, so a caller that reaches
// one of these through a platform-detection bug is told immediately
// instead of corrupting state.

// Flag exists in both builds so callers can be written once.
type Flag uint8

const (
	High    Flag = 1 << iota
	CanFail
)

func (m *Manager) Alloc(size, align, minAddr, maxAddr uint64, typ RangeType, flags Flag) (uintptr, uint64, bool) {
	m.fatal.Internal("pmm: alloc: unavailable in thin build; platform owns allocation")
	return 0, 0, false
}

func (m *Manager) Free(virt uintptr, size uint64) {
	m.fatal.Internal("pmm: free: unavailable in thin build; platform owns allocation")
}

func (m *Manager) Protect(start, size uint64) {
	m.fatal.Internal("pmm: protect: unavailable in thin build; platform owns allocation")
}

func (m *Manager) Init() {
	m.fatal.Internal("pmm: init: unavailable in thin build; platform owns allocation")
}

func (m *Manager) Finalize() []Range {
	m.fatal.Internal("pmm: finalize: unavailable in thin build; platform owns allocation")
	return nil
}
