package colour

import (
	"errors"
	"testing"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*ExpertSettings)
		wantErr bool
	}{
		{name: "defaults", modify: func(*ExpertSettings) {}},
		{name: "min below 1", modify: func(s *ExpertSettings) { s.MinContrast = 0.5 }, wantErr: true},
		{name: "max below min", modify: func(s *ExpertSettings) { s.MinContrast, s.MaxContrast = 7, 4.5 }, wantErr: true},
		{name: "max above 21", modify: func(s *ExpertSettings) { s.MaxContrast = 22 }, wantErr: true},
		{name: "reversed saturation", modify: func(s *ExpertSettings) { s.SaturationRange = [2]float64{80, 20} }, wantErr: true},
		{name: "lightness above 100", modify: func(s *ExpertSettings) { s.LightnessRange = [2]float64{0, 101} }, wantErr: true},
		{name: "unknown harmony", modify: func(s *ExpertSettings) { s.Harmony = "tetradic" }, wantErr: true},
		{name: "narrow but valid", modify: func(s *ExpertSettings) {
			s.MinContrast, s.MaxContrast = 7, 7
			s.SaturationRange = [2]float64{60, 60}
			s.Harmony = HarmonyTriadic
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultExpertSettings()
			tt.modify(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("Validate() error %v does not wrap ErrInvalidSettings", err)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    [2]float64
		wantErr bool
	}{
		{in: "40,90", want: [2]float64{40, 90}},
		{in: " 0 , 100 ", want: [2]float64{0, 100}},
		{in: "20-80", want: [2]float64{20, 80}},
		{in: "12.5,50", want: [2]float64{12.5, 50}},
		{in: "50", wantErr: true},
		{in: "a,b", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseRange(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if tt.wantErr && !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("ParseRange(%q) error %v does not wrap ErrInvalidSettings", tt.in, err)
		}
	}
}
