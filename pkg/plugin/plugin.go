// Package plugin is the public surface for writing wcagtint plugins in Go.
// Plugins import this package only; everything under internal/ is private
// to the host.
//
// A plugin binary answers --plugin-info with a JSON PluginInfo and then
// either speaks go-plugin (call ServeInput or ServeOutput) or reads one JSON
// request from stdin and writes one JSON reply to stdout.
package plugin

import (
	"context"

	goplugin "github.com/hashicorp/go-plugin"
)

// Protocol versions use MAJOR.MINOR.PATCH. A new major breaks plugins, a
// new minor only adds fields.
const (
	ProtocolVersion      = "0.1.0"
	MinCompatibleVersion = "0.1.0"
)

// Handshake guards go-plugin connections. Its ProtocolVersion is the major
// part of ProtocolVersion.
var Handshake = goplugin.HandshakeConfig{
	ProtocolVersion:  0,
	MagicCookieKey:   "WCAGTINT_PLUGIN",
	MagicCookieValue: "wcagtint_accessible_palette",
}

// PluginType names the transport a plugin speaks.
type PluginType string

const (
	PluginTypeGoPlugin PluginType = "go-plugin"
	PluginTypeJSON     PluginType = "json-stdio"
)

// PluginInfo is printed by a plugin run with --plugin-info.
type PluginInfo struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Description     string `json:"description"`
	// PluginProtocol is a PluginType; empty means json-stdio.
	PluginProtocol string `json:"plugin_protocol"`
}

// FlagHelp documents one plugin flag for "wcagtint generate --help".
type FlagHelp struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand"`
	Type        string `json:"type"`
	Default     string `json:"default"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

type describer interface {
	GetMetadata() PluginInfo
	GetFlagHelp() []FlagHelp
}

// InputPlugin supplies the base colour, formatted "#rrggbb".
type InputPlugin interface {
	describer
	Generate(ctx context.Context, opts InputOptions) (string, error)
}

// OutputPlugin renders a palette to files keyed by name. PreExecute may ask
// to be skipped; PostExecute sees the paths that were written.
type OutputPlugin interface {
	describer
	Generate(ctx context.Context, palette PaletteData) (map[string][]byte, error)
	PreExecute(ctx context.Context) (skip bool, reason string, err error)
	PostExecute(ctx context.Context, written []string) error
}
