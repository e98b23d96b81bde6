// Package platform holds the spec's external collaborators: the probe
// that seeds the physical memory map, the virt/phys translation the
// platform defines, and the platform constants (page size, accessible
// physical address window). Spec §9's Design Notes ask for the teacher's
// process-wide globals to become "a single MemoryManager value
// constructed at loader init and passed ... to all consumers"; Platform
// is that seam for everything the PMM does not own itself.
package platform

// MemoryRegion is what a probe reports for one contiguous span of
// physical memory it found. Type uses the same numbering the PMM does;
// probes populate it directly rather than going through a translation
// layer, since the probe already knows whether a BIOS/EFI/device-tree
// region is usable, reserved, or reclaimable ACPI data.
type MemoryRegion struct {
	Start uint64
	Size  uint64
	Type  uint8
}

// Probe is target_memory_probe(): platform-specific code that discovers
// physical memory regions (from an E820 map, an EFI memory map, or a
// device tree /memory node) and reports them to the callback. The
// callback corresponds to add(); returning false from visit stops
// iteration early.
type Probe func(visit func(MemoryRegion) bool)

// Translator implements virt_to_phys/phys_to_virt. On every platform this
// spec targets, physical memory is identity-mapped during the loader's
// own execution, so the default translator is the identity function; a
// platform with a non-identity early mapping supplies its own.
type Translator interface {
	VirtToPhys(v uintptr) uint64
	PhysToVirt(p uint64) uintptr
}

// Identity is the default Translator: virtual and physical addresses
// coincide, which holds for every BIOS/EFI loader stage this spec covers
// (page tables proper are the caller's job, per spec §1's Non-goals).
type Identity struct{}

func (Identity) VirtToPhys(v uintptr) uint64 { return uint64(v) }
func (Identity) PhysToVirt(p uint64) uintptr { return uintptr(p) }

// ImageBounds reports the loader's own linked image extent — the
// linker-exported __start/__end symbols spec §6 lists. init() page-aligns
// these outward and calls protect() on the result (spec §4.2.6).
type ImageBounds struct {
	Start uintptr
	End   uintptr
}

// Platform bundles everything init() and the constraint-aware allocator
// need from outside the PMM.
type Platform struct {
	Probe      Probe
	Translator Translator
	Image      ImageBounds
	Profile    Profile
}
