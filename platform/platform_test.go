package platform

import "testing"

func TestIdentityTranslator(t *testing.T) {
	var tr Translator = Identity{}
	if got := tr.VirtToPhys(0x4000); got != 0x4000 {
		t.Errorf("VirtToPhys(0x4000) = 0x%x, want 0x4000", got)
	}
	if got := tr.PhysToVirt(0x4000); got != 0x4000 {
		t.Errorf("PhysToVirt(0x4000) = 0x%x, want 0x4000", got)
	}
}

func TestProbeVisitsEachRegion(t *testing.T) {
	regions := []MemoryRegion{
		{Start: 0, Size: 0x1000, Type: 0},
		{Start: 0x1000, Size: 0x1000, Type: 1},
		{Start: 0x2000, Size: 0x1000, Type: 0},
	}
	var probe Probe = func(visit func(MemoryRegion) bool) {
		for _, r := range regions {
			if !visit(r) {
				return
			}
		}
	}

	var seen []MemoryRegion
	probe(func(r MemoryRegion) bool {
		seen = append(seen, r)
		return true
	})
	if len(seen) != len(regions) {
		t.Fatalf("visited %d regions, want %d", len(seen), len(regions))
	}

	// Returning false stops iteration early.
	seen = nil
	probe(func(r MemoryRegion) bool {
		seen = append(seen, r)
		return false
	})
	if len(seen) != 1 {
		t.Fatalf("expected early stop after 1 region, got %d", len(seen))
	}
}
