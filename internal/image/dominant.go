package image

import (
	"errors"
	"image"

	"github.com/jmylchreest/wcagtint/internal/colour"
)

// ErrNoOpaquePixels is returned when every sampled pixel is transparent.
var ErrNoOpaquePixels = errors.New("image has no opaque pixels")

const (
	// maxSamples bounds the number of pixels inspected per image.
	maxSamples = 1 << 16

	// quantBits is the per-channel precision of the colour histogram.
	quantBits = 4

	// Pixels lighter or darker than these HSL lightness bounds count as
	// extremes (paper white, ink black).
	extremeLow  = 5.0
	extremeHigh = 95.0
)

type bucket struct {
	count   int
	r, g, b int
}

// DominantOptions tunes DominantColour.
type DominantOptions struct {
	// SkipExtremes ignores near-black and near-white pixels unless nothing else remains.
	SkipExtremes bool
}

// DominantColour returns the average colour of the most populated bucket in a
// 4096-bucket RGB histogram. Pixels with alpha below 50% are ignored. Large
// images are sampled on a regular grid.
func DominantColour(img image.Image, opts DominantOptions) (colour.RGB, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return colour.RGB{}, ErrNoOpaquePixels
	}

	step := 1
	for (width/step)*(height/step) > maxSamples {
		step++
	}

	var all, mid [1 << (3 * quantBits)]bucket
	var opaque, midCount int

	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r32, g32, b32, a32 := img.At(x, y).RGBA()
			if a32 < 0x8000 {
				continue
			}
			// Un-premultiply to 8-bit channels.
			r := int(r32 * 0xffff / a32 >> 8)
			g := int(g32 * 0xffff / a32 >> 8)
			b := int(b32 * 0xffff / a32 >> 8)

			idx := r>>(8-quantBits)<<(2*quantBits) | g>>(8-quantBits)<<quantBits | b>>(8-quantBits)
			add(&all[idx], r, g, b)
			opaque++

			if opts.SkipExtremes {
				l := colour.RGBToHSL(r, g, b).L
				if l >= extremeLow && l <= extremeHigh {
					add(&mid[idx], r, g, b)
					midCount++
				}
			}
		}
	}

	if opaque == 0 {
		return colour.RGB{}, ErrNoOpaquePixels
	}
	if opts.SkipExtremes && midCount > 0 {
		return busiest(mid[:]), nil
	}
	return busiest(all[:]), nil
}

func add(b *bucket, r, g, bl int) {
	b.count++
	b.r += r
	b.g += g
	b.b += bl
}

// busiest averages the bucket with the highest count; ties go to the lowest index.
func busiest(buckets []bucket) colour.RGB {
	best := -1
	for i := range buckets {
		if buckets[i].count == 0 {
			continue
		}
		if best < 0 || buckets[i].count > buckets[best].count {
			best = i
		}
	}
	b := buckets[best]
	return colour.RGB{
		R: uint8(b.r / b.count), // #nosec G115 -- average of 8-bit values
		G: uint8(b.g / b.count), // #nosec G115 -- average of 8-bit values
		B: uint8(b.b / b.count), // #nosec G115 -- average of 8-bit values
	}
}
