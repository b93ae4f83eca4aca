package executor

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// maxStderr bounds how much plugin stderr is kept for error messages.
const maxStderr = 64 << 10

// Runner starts a json-stdio plugin process and collects its output.
type Runner interface {
	Run(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	return f(ctx, path, args, stdin)
}

// ExecRunner runs plugins with os/exec. The process is killed when ctx ends.
var ExecRunner Runner = RunnerFunc(execRun)

func execRun(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	var stdout bytes.Buffer
	stderr := &cappedBuffer{limit: maxStderr}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// cappedBuffer keeps the first limit bytes written and discards the rest.
type cappedBuffer struct {
	bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.Len(); room > 0 {
		if len(p) > room {
			b.Buffer.Write(p[:room])
		} else {
			b.Buffer.Write(p)
		}
	}
	return len(p), nil
}
