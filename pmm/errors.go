package pmm

import "fmt"

func overlapError(a, b Range) error {
	return fmt.Errorf("pmm: invariant violated: [0x%x,0x%x) overlaps [0x%x,0x%x)", a.Start, a.End(), b.Start, b.End())
}

func adjacentSameTypeError(a, b Range) error {
	return fmt.Errorf("pmm: invariant violated: adjacent ranges [0x%x,0x%x) and [0x%x,0x%x) share type %s", a.Start, a.End(), b.Start, b.End(), a.Type)
}

func unalignedError(r Range) error {
	return fmt.Errorf("pmm: invariant violated: [0x%x,0x%x) is not page-aligned", r.Start, r.End())
}
