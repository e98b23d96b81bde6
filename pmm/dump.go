package pmm

// Dump is dump(map) from spec §4.2.8: for each range, print [start,
// start+size), size in KiB, and the type label; an unknown type is a
// fatal internal error. It also reports running per-type totals, an
// additive diagnostic modeled on the pack's gopher-os/goos-e
// printMemoryMap/printStats summaries.
func (m *Manager) Dump() {
	if m.log == nil {
		return
	}
	m.log.Infof("physical memory map (%d ranges):", len(m.ranges))

	totals := map[RangeType]uint64{}
	for _, n := range m.ranges {
		if !n.Type.valid() {
			m.fatal.Internal("pmm: dump: range [0x%x,0x%x) has unknown type %d", n.Start, n.End(), n.Type)
		}
		m.log.Infof("  [0x%010x, 0x%010x) %10d KiB  %s", n.Start, n.End(), n.Size/1024, n.Type)
		totals[n.Type] += n.Size
	}
	for t := Free; t <= Internal; t++ {
		if b, ok := totals[t]; ok {
			m.log.Infof("  total %-11s %10d KiB", t, b/1024)
		}
	}
}

// Stats summarizes the current map by type, in bytes: the same per-type
// totals Dump prints in its summary lines, returned as a map instead of
// logged.
func (m *Manager) Stats() map[RangeType]uint64 {
	totals := make(map[RangeType]uint64, 7)
	for _, n := range m.ranges {
		totals[n.Type] += n.Size
	}
	return totals
}
