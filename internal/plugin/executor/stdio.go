package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/wcagtint/internal/plugin/protocol"
)

// preExecuteSkip is the --pre-execute exit code meaning "leave me out";
// any other failure is an error.
const preExecuteSkip = 1

// stdio runs the executable once per call, writing the request as JSON to
// stdin and reading the reply from stdout.
type stdio struct {
	path string
	run  Runner
	log  hclog.Logger
}

func (s *stdio) call(ctx context.Context, args []string, req any) ([]byte, error) {
	var stdin io.Reader
	if req != nil {
		b, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}
		stdin = bytes.NewReader(b)
	}
	out, errOut, err := s.run.Run(ctx, s.path, args, stdin)
	if err != nil {
		return out, &runError{path: s.path, err: err, stderr: strings.TrimSpace(string(errOut))}
	}
	return out, nil
}

// runError keeps the exit status reachable through errors.As and shows the
// plugin's stderr.
type runError struct {
	path   string
	err    error
	stderr string
}

func (e *runError) Error() string {
	if e.stderr == "" {
		return fmt.Sprintf("%s: %v", e.path, e.err)
	}
	return fmt.Sprintf("%s: %v: %s", e.path, e.err, e.stderr)
}

func (e *runError) Unwrap() error { return e.err }

func (s *stdio) input(ctx context.Context, opts protocol.InputOptions) (string, error) {
	out, err := s.call(ctx, nil, opts)
	if err != nil {
		return "", err
	}
	var res protocol.InputResult
	if err := json.Unmarshal(out, &res); err != nil || res.Base == "" {
		return "", fmt.Errorf(`%s: want {"base": "#rrggbb"} on stdout, got %q`, s.path, bytes.TrimSpace(out))
	}
	return res.Base, nil
}

func (s *stdio) output(ctx context.Context, palette protocol.PaletteData) (map[string][]byte, error) {
	out, err := s.call(ctx, nil, palette)
	if err != nil {
		return nil, err
	}

	files := map[string][]byte{}
	var reply struct {
		Files map[string]string `json:"files"`
	}
	if json.Unmarshal(out, &reply) == nil && len(reply.Files) > 0 {
		for name, body := range reply.Files {
			files[name] = []byte(body)
		}
	} else if len(out) > 0 {
		files[DefaultOutputFile] = out
	}
	return files, nil
}

func (s *stdio) preExecute(ctx context.Context) (bool, string, error) {
	out, err := s.call(ctx, []string{"--pre-execute"}, nil)
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return false, "", nil
	case errors.As(err, &exitErr) && exitErr.ExitCode() == preExecuteSkip:
		reason := strings.TrimSpace(string(out))
		if reason == "" {
			reason = "plugin asked to be skipped"
		}
		return true, reason, nil
	default:
		return false, "", fmt.Errorf("pre-execute: %w", err)
	}
}

func (s *stdio) postExecute(ctx context.Context, written []string) error {
	req := map[string][]string{"written_files": written}
	if _, err := s.call(ctx, []string{"--post-execute"}, req); err != nil {
		return fmt.Errorf("post-execute: %w", err)
	}
	return nil
}

// flagHelp runs --flag-help. Plugins that fail it or print something other
// than a JSON array have no documented flags.
func (s *stdio) flagHelp(ctx context.Context) ([]protocol.FlagHelp, error) {
	help := []protocol.FlagHelp{}
	out, err := s.call(ctx, []string{"--flag-help"}, nil)
	if err != nil {
		s.log.Debug("no flag help", "error", err)
		return help, nil
	}
	if err := json.Unmarshal(out, &help); err != nil {
		return []protocol.FlagHelp{}, nil
	}
	return help, nil
}

func (s *stdio) close() {}
