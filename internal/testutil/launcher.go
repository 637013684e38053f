package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/mcoot/gamehub/internal/services/lobby"
)

// FakeLauncher records launches and hands out FakeProcesses instead of
// spawning real game servers
type FakeLauncher struct {
	mu sync.Mutex

	// LaunchErr, when set, makes every Launch call fail
	LaunchErr error
	// ReadyErr, when set, is returned by each spawned process's Ready
	ReadyErr error

	launches  []lobby.LaunchSpec
	processes []*FakeProcess
}

var _ lobby.Launcher = (*FakeLauncher)(nil)

func (l *FakeLauncher) Launch(ctx context.Context, spec lobby.LaunchSpec) (lobby.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}

	proc := &FakeProcess{
		Spec:     spec,
		readyErr: l.ReadyErr,
		exited:   make(chan struct{}),
	}
	l.launches = append(l.launches, spec)
	l.processes = append(l.processes, proc)
	return proc, nil
}

// Launches returns a copy of every LaunchSpec seen so far
func (l *FakeLauncher) Launches() []lobby.LaunchSpec {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]lobby.LaunchSpec(nil), l.launches...)
}

// LastProcess returns the most recently spawned process, or nil
func (l *FakeLauncher) LastProcess() *FakeProcess {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.processes) == 0 {
		return nil
	}
	return l.processes[len(l.processes)-1]
}

// FakeProcess stands in for a running game server. It stays "running"
// until Exit or Kill is called.
type FakeProcess struct {
	Spec lobby.LaunchSpec

	readyErr error

	exitOnce sync.Once
	exited   chan struct{}
	exitErr  error

	mu     sync.Mutex
	killed bool
}

func (p *FakeProcess) Ready(ctx context.Context) error {
	if p.readyErr != nil {
		return p.readyErr
	}
	select {
	case <-p.exited:
		return errors.New("process already exited")
	default:
		return nil
	}
}

func (p *FakeProcess) Wait() error {
	<-p.exited
	return p.exitErr
}

func (p *FakeProcess) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	p.Exit(errors.New("killed"))
	return nil
}

// Exit simulates the game server exiting with the given error,
// unblocking Wait
func (p *FakeProcess) Exit(err error) {
	p.exitOnce.Do(func() {
		p.exitErr = err
		close(p.exited)
	})
}

// Killed reports whether Kill was called
func (p *FakeProcess) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}
