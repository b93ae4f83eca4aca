package colour

import (
	mathrand "math/rand/v2"
)

// Sampler yields uniform values in [0, 1). *math/rand/v2.Rand satisfies it.
type Sampler interface {
	Float64() float64
}

// globalSampler draws from the concurrency-safe math/rand/v2 top-level source.
type globalSampler struct{}

func (globalSampler) Float64() float64 {
	// #nosec G404 -- colour sampling, not cryptography
	return mathrand.Float64()
}

// NewSeededSampler returns a deterministic sampler for the given seed.
func NewSeededSampler(seed uint64) Sampler {
	var key [32]byte
	for i := range 8 {
		key[i] = byte(seed >> (8 * i))
	}
	// #nosec G404 -- deterministic colour sampling, not cryptography
	return mathrand.New(mathrand.NewChaCha8(key))
}

// RandomColour returns a vivid random colour as a hex string.
// Hue is drawn from [0, 360), saturation from [60, 100) and lightness from [30, 70).
// A nil sampler uses the process-wide random source.
func RandomColour(rng Sampler) string {
	return RandomRGB(rng).Hex()
}

// RandomRGB is RandomColour returning the RGB value.
func RandomRGB(rng Sampler) RGB {
	if rng == nil {
		rng = globalSampler{}
	}

	h := rng.Float64() * 360
	s := 60 + rng.Float64()*40
	l := 30 + rng.Float64()*40

	return HSLToRGB(h, s, l)
}
