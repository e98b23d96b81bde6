// Package render draws a pmm range list to a debug PNG. It repurposes the
// teacher's github.com/fogleman/gg framebuffer drawing (see
// src/mazboot/golang/main/gg_circle_qemu.go's ggCtx/DrawCircle/Stroke
// pattern) from "draw to the screen" to "draw the memory map to a file,"
// per spec §4.2.8's dump() and SPEC_FULL.md §11.
package render

import (
	"fmt"

	"github.com/fogleman/gg"

	"bootmem/pmm"
)

// band colors, one per pmm.RangeType, chosen for contrast rather than any
// particular palette convention.
var bandColor = map[pmm.RangeType][3]float64{
	pmm.Free:        {0.15, 0.65, 0.15},
	pmm.Allocated:   {0.70, 0.20, 0.20},
	pmm.Reclaimable: {0.80, 0.60, 0.10},
	pmm.PageTables:  {0.30, 0.30, 0.75},
	pmm.Stack:       {0.55, 0.15, 0.65},
	pmm.Modules:     {0.15, 0.55, 0.70},
	pmm.Internal:    {0.45, 0.45, 0.45},
}

// Options controls the rendered image's dimensions.
type Options struct {
	Width     int
	Height    int
	LabelFont float64 // not read by PNG; labels always use gg's default face
}

// DefaultOptions is a reasonable strip size for a handful to a few dozen
// ranges.
var DefaultOptions = Options{Width: 1200, Height: 160}

// PNG renders ranges as a horizontal strip, one colored band per range
// proportional to its size, labeled by type, and writes it to path. An
// empty range list still produces a valid (all-background) image.
func PNG(ranges []pmm.Range, path string, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = DefaultOptions.Width
	}
	if opts.Height <= 0 {
		opts.Height = DefaultOptions.Height
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	total := uint64(0)
	for _, r := range ranges {
		total += r.Size
	}
	if total == 0 {
		if err := dc.SavePNG(path); err != nil {
			return fmt.Errorf("render: save %s: %w", path, err)
		}
		return nil
	}

	const barTop = 20.0
	barHeight := float64(opts.Height) - barTop - 40.0
	x := 0.0
	for _, r := range ranges {
		w := float64(r.Size) / float64(total) * float64(opts.Width)
		c, ok := bandColor[r.Type]
		if !ok {
			c = [3]float64{0, 0, 0}
		}
		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawRectangle(x, barTop, w, barHeight)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(x, barTop, w, barHeight)
		dc.SetLineWidth(1)
		dc.Stroke()

		if w > 40 {
			dc.SetRGB(0, 0, 0)
			label := fmt.Sprintf("%s\n%d KiB", r.Type, r.Size/1024)
			dc.DrawStringWrapped(label, x+4, barTop+barHeight+4, 0, 0, w-8, 1.2, gg.AlignLeft)
		}
		x += w
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
