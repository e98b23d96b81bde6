package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEffectiveMax(t *testing.T) {
	p := Profile{PhysMax: 0x1000}
	tests := []struct {
		name string
		max  uint64
		want uint64
	}{
		{"zero clamps to PhysMax", 0, 0x1000},
		{"above PhysMax clamps", 0x2000, 0x1000},
		{"within window passes through", 0x800, 0x800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.EffectiveMax(tt.max); got != tt.want {
				t.Errorf("EffectiveMax(0x%x) = 0x%x, want 0x%x", tt.max, got, tt.want)
			}
		})
	}
}

func TestEffectiveMin(t *testing.T) {
	p := Profile{PhysMin: 0x100}
	if got := p.EffectiveMin(0); got != 0x100 {
		t.Errorf("EffectiveMin(0) = 0x%x, want 0x%x", got, p.PhysMin)
	}
	if got := p.EffectiveMin(0x500); got != 0x500 {
		t.Errorf("EffectiveMin(0x500) = 0x%x, want 0x500", got)
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.toml")
	contents := `
name = "qemu-aarch64"
page_size = 65536
phys_max = 4294967295
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing test profile: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.Name != "qemu-aarch64" {
		t.Errorf("Name = %q, want %q", p.Name, "qemu-aarch64")
	}
	if p.PageSize != 65536 {
		t.Errorf("PageSize = %d, want 65536", p.PageSize)
	}
	if p.PhysMax != 4294967295 {
		t.Errorf("PhysMax = %d, want 4294967295", p.PhysMax)
	}
	// Fields left unset in the file keep DefaultProfile's value.
	if p.HeapSize != DefaultProfile.HeapSize {
		t.Errorf("HeapSize = %d, want default %d", p.HeapSize, DefaultProfile.HeapSize)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected an error loading a nonexistent profile")
	}
}
