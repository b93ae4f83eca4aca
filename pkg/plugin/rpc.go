package plugin

import (
	"context"
	"net/rpc"

	goplugin "github.com/hashicorp/go-plugin"
)

// Keys of the go-plugin plugin set.
const (
	InputKey  = "input"
	OutputKey = "output"
)

// ServeInput runs impl as a go-plugin input plugin. It blocks until the
// host disconnects.
func ServeInput(impl InputPlugin) {
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         map[string]goplugin.Plugin{InputKey: &InputRPCPlugin{Impl: impl}},
	})
}

// ServeOutput runs impl as a go-plugin output plugin.
func ServeOutput(impl OutputPlugin) {
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         map[string]goplugin.Plugin{OutputKey: &OutputRPCPlugin{Impl: impl}},
	})
}

// InputRPCPlugin adapts an InputPlugin to go-plugin's net/rpc transport.
type InputRPCPlugin struct {
	Impl InputPlugin
}

// Server implements goplugin.Plugin.
func (p *InputRPCPlugin) Server(*goplugin.MuxBroker) (any, error) {
	return &InputRPCServer{metadataServer: metadataServer{p.Impl}, Impl: p.Impl}, nil
}

// Client implements goplugin.Plugin.
func (p *InputRPCPlugin) Client(_ *goplugin.MuxBroker, c *rpc.Client) (any, error) {
	return &InputRPCClient{rpcClient{c}}, nil
}

// OutputRPCPlugin adapts an OutputPlugin to go-plugin's net/rpc transport.
type OutputRPCPlugin struct {
	Impl OutputPlugin
}

// Server implements goplugin.Plugin.
func (p *OutputRPCPlugin) Server(*goplugin.MuxBroker) (any, error) {
	return &OutputRPCServer{metadataServer: metadataServer{p.Impl}, Impl: p.Impl}, nil
}

// Client implements goplugin.Plugin.
func (p *OutputRPCPlugin) Client(_ *goplugin.MuxBroker, c *rpc.Client) (any, error) {
	return &OutputRPCClient{rpcClient{c}}, nil
}

// metadataServer serves the methods every plugin kind shares.
type metadataServer struct {
	d describer
}

// GetMetadata is the RPC form of describer.GetMetadata.
func (s metadataServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.d.GetMetadata()
	return nil
}

// GetFlagHelp is the RPC form of describer.GetFlagHelp.
func (s metadataServer) GetFlagHelp(_ any, resp *[]FlagHelp) error {
	*resp = s.d.GetFlagHelp()
	return nil
}

// InputRPCServer runs on the plugin side.
type InputRPCServer struct {
	metadataServer
	Impl InputPlugin
}

// Generate answers a base colour request.
func (s *InputRPCServer) Generate(opts InputOptions, resp *InputResult) error {
	base, err := s.Impl.Generate(context.Background(), opts)
	if err != nil {
		return err
	}
	resp.Base = base
	return nil
}

// HookResult carries a hook outcome. Hook failures travel in Error so the
// host can tell them apart from transport errors.
type HookResult struct {
	Skip   bool
	Reason string
	Error  string
}

// OutputRPCServer runs on the plugin side.
type OutputRPCServer struct {
	metadataServer
	Impl OutputPlugin
}

// Generate renders the palette into files.
func (s *OutputRPCServer) Generate(palette PaletteData, resp *map[string][]byte) error {
	files, err := s.Impl.Generate(context.Background(), palette)
	if err != nil {
		return err
	}
	*resp = files
	return nil
}

// PreExecute runs the plugin's pre-execute hook.
func (s *OutputRPCServer) PreExecute(_ any, resp *HookResult) error {
	skip, reason, err := s.Impl.PreExecute(context.Background())
	*resp = HookResult{Skip: skip, Reason: reason}
	if err != nil {
		resp.Error = err.Error()
	}
	return nil
}

// PostExecute runs the plugin's post-execute hook.
func (s *OutputRPCServer) PostExecute(files []string, resp *HookResult) error {
	if err := s.Impl.PostExecute(context.Background(), files); err != nil {
		resp.Error = err.Error()
	}
	return nil
}

// rpcClient is the host side of a plugin connection.
type rpcClient struct {
	c *rpc.Client
}

// call invokes Plugin.<method>, giving up when ctx ends. The plugin process
// keeps running the abandoned call; the executor kills it on Close.
func (r rpcClient) call(ctx context.Context, method string, args, reply any) error {
	done := r.c.Go("Plugin."+method, args, reply, make(chan *rpc.Call, 1)).Done
	select {
	case call := <-done:
		return call.Error
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetMetadata fetches the plugin's metadata.
func (r rpcClient) GetMetadata() (PluginInfo, error) {
	var info PluginInfo
	err := r.call(context.Background(), "GetMetadata", new(any), &info)
	return info, err
}

// GetFlagHelp fetches the plugin's flag help, or nil on failure.
func (r rpcClient) GetFlagHelp() []FlagHelp {
	var help []FlagHelp
	if err := r.call(context.Background(), "GetFlagHelp", new(any), &help); err != nil {
		return nil
	}
	return help
}

// InputRPCClient runs on the host side.
type InputRPCClient struct {
	rpcClient
}

// Generate asks the plugin for a base colour.
func (c *InputRPCClient) Generate(ctx context.Context, opts InputOptions) (string, error) {
	var resp InputResult
	if err := c.call(ctx, "Generate", opts, &resp); err != nil {
		return "", err
	}
	return resp.Base, nil
}

// OutputRPCClient runs on the host side.
type OutputRPCClient struct {
	rpcClient
}

// Generate asks the plugin to render the palette.
func (c *OutputRPCClient) Generate(ctx context.Context, palette PaletteData) (map[string][]byte, error) {
	var files map[string][]byte
	err := c.call(ctx, "Generate", palette, &files)
	return files, err
}

// PreExecute runs the plugin's pre-execute hook.
func (c *OutputRPCClient) PreExecute(ctx context.Context) (bool, string, error) {
	var resp HookResult
	if err := c.call(ctx, "PreExecute", new(any), &resp); err != nil {
		return false, "", err
	}
	if resp.Error != "" {
		return resp.Skip, resp.Reason, &RPCError{Message: resp.Error}
	}
	return resp.Skip, resp.Reason, nil
}

// PostExecute runs the plugin's post-execute hook.
func (c *OutputRPCClient) PostExecute(ctx context.Context, files []string) error {
	var resp HookResult
	if err := c.call(ctx, "PostExecute", files, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return &RPCError{Message: resp.Error}
	}
	return nil
}

// RPCError is a hook failure reported by the plugin.
type RPCError struct {
	Message string
}

func (e *RPCError) Error() string {
	return e.Message
}
