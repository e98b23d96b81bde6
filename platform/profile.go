package platform

import (
	"github.com/BurntSushi/toml"
)

// Profile carries the platform constants spec §6 lists as external
// collaborators: TARGET_PHYS_MIN, TARGET_PHYS_MAX, PAGE_SIZE, and the
// heap's backing region size (spec §4.1's "128 KiB (tunable constant)").
// The loader compiles these in; Profile exists as a Go type mainly so
// cmd/bootsim and the tests can exercise more than one platform without
// recompiling, and because BurntSushi/toml gives us a ready-made way to
// describe a platform profile on disk for that harness.
type Profile struct {
	PageSize    uint64 `toml:"page_size"`
	PhysMin     uint64 `toml:"phys_min"`
	PhysMax     uint64 `toml:"phys_max"`
	HeapSize    uint64 `toml:"heap_size"`
	Name        string `toml:"name"`
}

// DefaultProfile matches the PAGE_SIZE = 4096 convention spec §8's
// end-to-end scenarios use, with a physical address window wide enough
// for a 64-bit BIOS/EFI target and the teacher's 128 KiB heap constant.
var DefaultProfile = Profile{
	Name:     "generic-x86_64",
	PageSize: 4096,
	PhysMin:  0,
	PhysMax:  0xFFFFFFFFFFFF, // 48-bit physical address ceiling
	HeapSize: 128 * 1024,
}

// LoadProfile reads a TOML platform profile, e.g. one shipped alongside
// cmd/bootsim for a BIOS or EFI target. Fields left unset in the file
// keep their DefaultProfile value.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile
	_, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// EffectiveMax clamps max to TARGET_PHYS_MAX the way spec §4.2.2
// prescribes: "max_addr=0 or above TARGET_PHYS_MAX clamps to
// TARGET_PHYS_MAX."
func (p Profile) EffectiveMax(max uint64) uint64 {
	if max == 0 || max > p.PhysMax {
		return p.PhysMax
	}
	return max
}

// EffectiveMin applies the "min_addr=0 defaults to TARGET_PHYS_MIN" rule.
func (p Profile) EffectiveMin(min uint64) uint64 {
	if min == 0 {
		return p.PhysMin
	}
	return min
}
