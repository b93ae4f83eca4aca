package protocol

import (
	"github.com/jmylchreest/wcagtint/pkg/plugin"
)

// Handshake is the go-plugin handshake shared with external plugins.
// go-plugin only compares the major version; IsCompatible does the full
// semantic check against the version reported by --plugin-info.
var Handshake = plugin.Handshake

// PluginType defines the type of plugin communication protocol.
type PluginType = plugin.PluginType

const (
	PluginTypeGoPlugin = plugin.PluginTypeGoPlugin
	PluginTypeJSON     = plugin.PluginTypeJSON
)

// Wire types re-exported for host-side code.
type (
	PluginInfo      = plugin.PluginInfo
	FlagHelp        = plugin.FlagHelp
	InputOptions    = plugin.InputOptions
	InputResult     = plugin.InputResult
	PaletteData     = plugin.PaletteData
	CombinationData = plugin.CombinationData
	RGBColour       = plugin.RGBColour
)
