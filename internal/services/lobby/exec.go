package lobby

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// ExecLauncher spawns game servers as real OS processes. The entry
// point is invoked with the allocated port as its single argument, in
// the package version's install directory.
type ExecLauncher struct {
	// PythonBin runs .py entry points. Defaults to "python3".
	PythonBin string
}

var _ Launcher = (*ExecLauncher)(nil)

func (l *ExecLauncher) Launch(ctx context.Context, spec LaunchSpec) (Process, error) {
	pythonBin := l.PythonBin
	if pythonBin == "" {
		pythonBin = "python3"
	}

	var cmd *exec.Cmd
	if filepath.Ext(spec.Entry) == ".py" {
		cmd = exec.Command(pythonBin, spec.Entry, strconv.Itoa(spec.Port))
	} else {
		cmd = exec.Command(spec.Entry, strconv.Itoa(spec.Port))
	}
	cmd.Dir = spec.Dir

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", spec.Entry, err)
	}
	return &execProcess{cmd: cmd, addr: net.JoinHostPort("127.0.0.1", strconv.Itoa(spec.Port))}, nil
}

type execProcess struct {
	cmd  *exec.Cmd
	addr string
}

// Ready polls the game server's port with backoff until it accepts a
// connection or the context expires
func (p *execProcess) Ready(ctx context.Context) error {
	delay := 50 * time.Millisecond
	for {
		dialer := net.Dialer{Timeout: delay}
		conn, err := dialer.DialContext(ctx, "tcp", p.addr)
		if err == nil {
			_ = conn.Close()
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", p.addr, ctx.Err())
		case <-time.After(delay):
		}
		if delay < 500*time.Millisecond {
			delay *= 2
		}
	}
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

func (p *execProcess) Kill() error {
	return p.cmd.Process.Kill()
}
