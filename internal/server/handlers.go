package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jmylchreest/wcagtint/internal/colour"
	jsonoutput "github.com/jmylchreest/wcagtint/internal/plugin/output/json"
	"github.com/jmylchreest/wcagtint/internal/version"
)

// expertParams switch palette generation to expert mode when present.
var expertParams = []string{"minContrast", "maxContrast", "saturationRange", "lightnessRange", "harmony"}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type colourResponse struct {
	Hex string     `json:"hex"`
	RGB colour.RGB `json:"rgb"`
	HSL colour.HSL `json:"hsl"`
}

type contrastResponse struct {
	Foreground string       `json:"fg"`
	Background string       `json:"bg"`
	Ratio      float64      `json:"ratio"`
	Normal     colour.Level `json:"normal"`
	Large      colour.Level `json:"large"`
}

type levelResponse struct {
	Ratio float64      `json:"ratio"`
	Large bool         `json:"large"`
	Level colour.Level `json:"level"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: version.Short()})
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	base, err := colourParam(q, "base")
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	settings, err := expertSettings(q)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	report, err := colour.NewReport(base, settings)
	if err != nil {
		if errors.Is(err, colour.ErrInvalidSettings) {
			s.badRequest(w, r, err)
			return
		}
		s.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonoutput.NewDocument(report, requestID(r.Context())))
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	var rng colour.Sampler
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			s.badRequest(w, r, fmt.Errorf("invalid seed %q: must be an unsigned integer", raw))
			return
		}
		rng = colour.NewSeededSampler(seed)
	}

	c := colour.RandomRGB(rng)
	writeJSON(w, http.StatusOK, colourResponse{Hex: c.Hex(), RGB: c, HSL: c.HSL()})
}

func (s *Server) handleContrast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	fg, err := colourParam(q, "fg")
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	bg, err := colourParam(q, "bg")
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	ratio := colour.Contrast(fg, bg)
	writeJSON(w, http.StatusOK, contrastResponse{
		Foreground: fg.Hex(),
		Background: bg.Hex(),
		Ratio:      ratio,
		Normal:     colour.WCAGLevel(ratio, false),
		Large:      colour.WCAGLevel(ratio, true),
	})
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ratio, err := strconv.ParseFloat(q.Get("ratio"), 64)
	if err != nil || ratio < 1 || ratio > 21 {
		s.badRequest(w, r, fmt.Errorf("invalid ratio %q: must be a number between 1 and 21", q.Get("ratio")))
		return
	}

	large := false
	if raw := q.Get("large"); raw != "" {
		large, err = strconv.ParseBool(raw)
		if err != nil {
			s.badRequest(w, r, fmt.Errorf("invalid large %q: must be a boolean", raw))
			return
		}
	}

	writeJSON(w, http.StatusOK, levelResponse{Ratio: ratio, Large: large, Level: colour.WCAGLevel(ratio, large)})
}

func colourParam(q url.Values, name string) (colour.RGB, error) {
	raw := q.Get(name)
	if raw == "" {
		return colour.RGB{}, fmt.Errorf("missing %s parameter", name)
	}
	c, err := colour.ParseHex(raw)
	if err != nil {
		return colour.RGB{}, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

// expertSettings returns nil unless expert mode was requested, either with
// expert=true or by passing any expert parameter. Unset parameters keep
// their defaults.
func expertSettings(q url.Values) (*colour.ExpertSettings, error) {
	expert := false
	if raw := q.Get("expert"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid expert %q: must be a boolean", raw)
		}
		expert = v
	}
	for _, p := range expertParams {
		if q.Has(p) {
			expert = true
		}
	}
	if !expert {
		return nil, nil
	}

	s := colour.DefaultExpertSettings()
	var err error
	if raw := q.Get("minContrast"); raw != "" {
		if s.MinContrast, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("%w: minContrast %q is not a number", colour.ErrInvalidSettings, raw)
		}
	}
	if raw := q.Get("maxContrast"); raw != "" {
		if s.MaxContrast, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("%w: maxContrast %q is not a number", colour.ErrInvalidSettings, raw)
		}
	}
	if raw := q.Get("saturationRange"); raw != "" {
		if s.SaturationRange, err = colour.ParseRange(raw); err != nil {
			return nil, err
		}
	}
	if raw := q.Get("lightnessRange"); raw != "" {
		if s.LightnessRange, err = colour.ParseRange(raw); err != nil {
			return nil, err
		}
	}
	if raw := q.Get("harmony"); raw != "" {
		if s.Harmony, err = colour.ParseHarmony(raw); err != nil {
			return nil, err
		}
	}
	return &s, nil
}
