package executor

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/wcagtint/internal/plugin/protocol"
	"github.com/jmylchreest/wcagtint/pkg/plugin"
)

// rpcTransport keeps one go-plugin process alive across calls. The process
// is started on first use.
type rpcTransport struct {
	path string
	kind string // "input" or "output", from --plugin-info
	log  hclog.Logger

	client *goplugin.Client
	raw    any
}

func (r *rpcTransport) dispense() (any, error) {
	if r.raw != nil {
		return r.raw, nil
	}

	key, impl := plugin.OutputKey, goplugin.Plugin(&plugin.OutputRPCPlugin{})
	if r.kind == "input" {
		key, impl = plugin.InputKey, &plugin.InputRPCPlugin{}
	}
	r.client = goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  protocol.Handshake,
		Plugins:          goplugin.PluginSet{key: impl},
		Cmd:              exec.Command(r.path), // #nosec G204 -- registered plugin executable
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           r.log,
	})

	conn, err := r.client.Client()
	if err != nil {
		r.close()
		return nil, fmt.Errorf("connect to %s: %w", r.path, err)
	}
	raw, err := conn.Dispense(key)
	if err != nil {
		r.close()
		return nil, fmt.Errorf("dispense %s from %s: %w", key, r.path, err)
	}
	r.raw = raw
	return raw, nil
}

func (r *rpcTransport) inputClient() (*plugin.InputRPCClient, error) {
	raw, err := r.dispense()
	if err != nil {
		return nil, err
	}
	c, ok := raw.(*plugin.InputRPCClient)
	if !ok {
		return nil, fmt.Errorf("%s is not an input plugin", r.path)
	}
	return c, nil
}

func (r *rpcTransport) outputClient() (*plugin.OutputRPCClient, error) {
	raw, err := r.dispense()
	if err != nil {
		return nil, err
	}
	c, ok := raw.(*plugin.OutputRPCClient)
	if !ok {
		return nil, fmt.Errorf("%s is not an output plugin", r.path)
	}
	return c, nil
}

func (r *rpcTransport) input(ctx context.Context, opts protocol.InputOptions) (string, error) {
	c, err := r.inputClient()
	if err != nil {
		return "", err
	}
	return c.Generate(ctx, opts)
}

func (r *rpcTransport) output(ctx context.Context, palette protocol.PaletteData) (map[string][]byte, error) {
	c, err := r.outputClient()
	if err != nil {
		return nil, err
	}
	return c.Generate(ctx, palette)
}

func (r *rpcTransport) preExecute(ctx context.Context) (bool, string, error) {
	c, err := r.outputClient()
	if err != nil {
		return false, "", err
	}
	return c.PreExecute(ctx)
}

func (r *rpcTransport) postExecute(ctx context.Context, written []string) error {
	c, err := r.outputClient()
	if err != nil {
		return err
	}
	return c.PostExecute(ctx, written)
}

func (r *rpcTransport) flagHelp(context.Context) ([]protocol.FlagHelp, error) {
	raw, err := r.dispense()
	if err != nil {
		return nil, err
	}
	d, ok := raw.(interface{ GetFlagHelp() []plugin.FlagHelp })
	if !ok {
		return nil, fmt.Errorf("%s: unexpected plugin client %T", r.path, raw)
	}
	return d.GetFlagHelp(), nil
}

func (r *rpcTransport) close() {
	if r.client != nil {
		r.client.Kill()
	}
	r.client, r.raw = nil, nil
}
