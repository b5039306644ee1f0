package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papersim/internal/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Data.Bars = 120
	cfg.Strategy.Window = 5
	cfg.Strategy.Threshold = 0.002
	return cfg
}

func TestTryStartBusyLeavesNoRun(t *testing.T) {
	svc := NewService(testConfig(), 1)

	block := make(chan struct{})
	require.True(t, svc.group.TryGo(func() error {
		<-block
		return nil
	}))

	run, started, err := svc.TryStart(RunRequest{Mode: "close"})
	require.NoError(t, err)
	assert.False(t, started)
	assert.Empty(t, run.ID)

	// A rejected submission must not linger in the registry.
	assert.Empty(t, svc.Registry().List(0))

	close(block)
	svc.Wait()

	// With the slot free again the same request goes through.
	run, started, err = svc.TryStart(RunRequest{Mode: "close"})
	require.NoError(t, err)
	require.True(t, started)
	svc.Wait()

	runs := svc.Registry().List(0)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestUpdateBaseAppliesToNewRuns(t *testing.T) {
	svc := NewService(testConfig(), 1)

	next := testConfig()
	next.Data.Bars = 60
	svc.UpdateBase(next)

	run, started, err := svc.TryStart(RunRequest{Mode: "close"})
	require.NoError(t, err)
	require.True(t, started)
	svc.Wait()

	got, ok := svc.Registry().Get(run.ID)
	require.True(t, ok)
	require.Equal(t, StatusDone, got.Status)
	assert.Equal(t, 60, got.Summary.Bars)
}

func TestUpdateBaseIgnoresNil(t *testing.T) {
	svc := NewService(testConfig(), 1)
	svc.UpdateBase(nil)

	_, started, err := svc.TryStart(RunRequest{Mode: "close"})
	require.NoError(t, err)
	assert.True(t, started)
	svc.Wait()
}
