package factory

import (
	"os"
	"time"

	"github.com/mcoot/gamehub/internal/dependencies/mocks"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/services/lobby"
	"github.com/mcoot/gamehub/internal/storage/memory"
	"github.com/mcoot/gamehub/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock    *mocks.MockClock
	FakeLauncher *testutil.FakeLauncher

	packageDir string
}

// NewTestApp creates an App configured for testing: in-memory storage, a
// fixed clock, a fake game-server launcher, and a throwaway package dir
func NewTestApp() (*TestApp, error) {
	packageDir, err := os.MkdirTemp("", "gamehub-packages-*")
	if err != nil {
		return nil, err
	}

	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	launcher := &testutil.FakeLauncher{}

	app := newWithDependencies(
		store,
		mockClock,
		random.New(),
		launcher,
		lobby.Config{PortStart: 10000, PortEnd: 10999, ReadyTimeout: time.Second},
		packageDir,
		testutil.NopLogger(),
	)

	return &TestApp{
		App:          app,
		MockClock:    mockClock,
		FakeLauncher: launcher,
		packageDir:   packageDir,
	}, nil
}

// Cleanup removes the temporary package directory
func (t *TestApp) Cleanup() {
	_ = os.RemoveAll(t.packageDir)
}
