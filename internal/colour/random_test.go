package colour

import (
	"regexp"
	"sync"
	"testing"
)

// fixedSampler replays values in order, repeating the last one.
type fixedSampler struct {
	values []float64
	i      int
}

func (f *fixedSampler) Float64() float64 {
	v := f.values[min(f.i, len(f.values)-1)]
	f.i++
	return v
}

func TestRandomColourFixed(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{name: "lower bounds", values: []float64{0, 0, 0}, want: "#7a1f1f"},
		{name: "green midpoint", values: []float64{1.0 / 3, 1, 0.5}, want: "#00ff00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RandomColour(&fixedSampler{values: tt.values})
			if got != tt.want {
				t.Errorf("RandomColour() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRandomColourRanges(t *testing.T) {
	hexRe := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	rng := NewSeededSampler(42)

	for range 500 {
		hex := RandomColour(rng)
		if !hexRe.MatchString(hex) {
			t.Fatalf("RandomColour() = %q, not a lowercase hex colour", hex)
		}

		hsl := HexToRGB(hex).HSL()
		// Channel rounding moves saturation and lightness slightly off the sampled values.
		if hsl.S < 55 || hsl.S > 100 {
			t.Errorf("%s: saturation %.2f outside the vivid range", hex, hsl.S)
		}
		if hsl.L < 29 || hsl.L > 71 {
			t.Errorf("%s: lightness %.2f outside the mid range", hex, hsl.L)
		}
	}
}

func TestNewSeededSamplerDeterministic(t *testing.T) {
	a := NewSeededSampler(7)
	b := NewSeededSampler(7)
	c := NewSeededSampler(8)

	same := true
	for range 10 {
		x, y, z := RandomColour(a), RandomColour(b), RandomColour(c)
		if x != y {
			t.Fatalf("same seed produced %s and %s", x, y)
		}
		if x != z {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical sequences")
	}
}

func TestRandomColourGlobal(t *testing.T) {
	if got := RandomColour(nil); len(got) != 7 || got[0] != '#' {
		t.Errorf("RandomColour(nil) = %q", got)
	}
}

// The nil-sampler path shares the math/rand/v2 top-level source, which must
// be usable from several goroutines at once.
func TestRandomRGBGlobalConcurrent(t *testing.T) {
	const workers, draws = 8, 200

	var wg sync.WaitGroup
	results := make([][]RGB, workers)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range draws {
				results[w] = append(results[w], RandomRGB(nil))
			}
		}()
	}
	wg.Wait()

	seen := make(map[RGB]bool)
	for _, rs := range results {
		for _, c := range rs {
			if hsl := c.HSL(); hsl.L < 29 || hsl.L > 71 {
				t.Errorf("%s: lightness %.2f outside the mid range", c.Hex(), hsl.L)
			}
			seen[c] = true
		}
	}
	if len(seen) < workers*draws/2 {
		t.Errorf("only %d distinct colours in %d draws", len(seen), workers*draws)
	}
}
