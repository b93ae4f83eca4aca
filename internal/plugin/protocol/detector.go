package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DetectTimeout bounds the --plugin-info query.
const DetectTimeout = 5 * time.Second

// ErrUnknownProtocol is returned for a plugin_protocol value the host
// cannot speak.
var ErrUnknownProtocol = errors.New("unknown plugin protocol")

// DetectorResult is what a plugin said about itself.
type DetectorResult struct {
	Type             PluginType
	SupportsGoPlugin bool
	PluginInfo       PluginInfo
}

// DetectProtocol runs the plugin with --plugin-info and works out which
// transport to use. Plugins that leave plugin_protocol empty are treated as
// json-stdio.
func DetectProtocol(ctx context.Context, path string) (*DetectorResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DetectTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--plugin-info")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("query %s: %w: %s", path, err, msg)
		}
		return nil, fmt.Errorf("query %s: %w", path, err)
	}

	res := &DetectorResult{}
	if err := json.Unmarshal(stdout.Bytes(), &res.PluginInfo); err != nil {
		return nil, fmt.Errorf("decode plugin info from %s: %w", path, err)
	}

	switch p := PluginType(res.PluginInfo.PluginProtocol); p {
	case PluginTypeGoPlugin:
		res.Type, res.SupportsGoPlugin = p, true
	case PluginTypeJSON, "":
		res.Type = PluginTypeJSON
	default:
		return nil, fmt.Errorf("%w %q from %s", ErrUnknownProtocol, p, path)
	}
	return res, nil
}
