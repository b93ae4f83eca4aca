package plugin

// InputOptions is the request sent to an input plugin.
type InputOptions struct {
	Verbose    bool           `json:"verbose"`
	DryRun     bool           `json:"dry_run"`
	PluginArgs map[string]any `json:"plugin_args,omitempty"`
}

// InputResult is what a json-stdio input plugin writes to stdout.
type InputResult struct {
	Base string `json:"base"`
}

// PaletteData is the request sent to an output plugin.
type PaletteData struct {
	ReportID     string            `json:"report_id,omitempty"`
	Base         string            `json:"base"`
	BaseRGB      RGBColour         `json:"base_rgb"`
	Expert       bool              `json:"expert"`
	Combinations []CombinationData `json:"combinations"`
	PluginArgs   map[string]any    `json:"plugin_args,omitempty"`
	DryRun       bool              `json:"dry_run"`
}

// CombinationData is one accessible background/text pair.
type CombinationData struct {
	Background string  `json:"background"`
	Text       string  `json:"text"`
	Name       string  `json:"name"`
	Ratio      float64 `json:"ratio"`
	Level      string  `json:"wcagLevel"`
}

type RGBColour struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}
