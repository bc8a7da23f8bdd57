package main

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/katalvlaran/lockdown/config"
	"github.com/katalvlaran/lockdown/valueiter"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// execute runs the CLI with a no-op logger and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{newLogger: func(bool) (*zap.Logger, error) { return zap.NewNop(), nil }}
	cmd := newRootCmdWith(a)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := a.execute(cmd)

	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lockdown version dev\n", out)
}

func TestConfigPrintsLoadableScenario(t *testing.T) {
	out, err := execute(t, "config", "--grid-size", "5")
	require.NoError(t, err)

	sc, err := config.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, 5, sc.Grid.Size)

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))
	out2, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, out, out2)
}

func TestSolve(t *testing.T) {
	dir := t.TempDir()
	policy := filepath.Join(dir, "policy.csv")
	history := filepath.Join(dir, "history.png")

	out, err := execute(t, "solve", "--grid-size", "3", "--max-iterations", "2",
		"--policy-csv", policy, "--history-plot", history)
	require.NoError(t, err)
	assert.Contains(t, out, "termination: exhausted")
	assert.Contains(t, out, "iterations:  2")
	assert.FileExists(t, policy)
	assert.FileExists(t, history)
}

func TestSolveStrict(t *testing.T) {
	_, err := execute(t, "solve", "--grid-size", "3", "--max-iterations", "1", "--strict")
	require.ErrorIs(t, err, valueiter.ErrNonConvergence)
}

func TestSimulate(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "trajectory.csv")
	plotPath := filepath.Join(dir, "trajectory.png")

	out, err := execute(t, "simulate", "--grid-size", "3", "--max-iterations", "2",
		"--csv", csvPath, "--plot", plotPath)
	require.NoError(t, err)
	assert.Contains(t, out, "periods:        52")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 53, bytes.Count(data, []byte("\n")))
	assert.FileExists(t, plotPath)
}

func TestInvalidOverrides(t *testing.T) {
	_, err := execute(t, "solve", "--grid-size", "1")
	require.ErrorIs(t, err, config.ErrInvalidScenario)

	_, err = execute(t, "solve", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestMetricsServerStops checks the metrics server is shut down after the command.
func TestMetricsServerStops(t *testing.T) {
	out, err := execute(t, "version", "--metrics-addr", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Contains(t, out, "lockdown version")
	goleak.VerifyNone(t)
}

// TestMetricsServerStopsOnFailure checks a failing command still releases the server.
func TestMetricsServerStopsOnFailure(t *testing.T) {
	_, err := execute(t, "solve", "--grid-size", "3", "--max-iterations", "1",
		"--strict", "--metrics-addr", "127.0.0.1:0")
	require.ErrorIs(t, err, valueiter.ErrNonConvergence)
	goleak.VerifyNone(t)

	_, err = execute(t, "solve", "--grid-size", "1", "--metrics-addr", "127.0.0.1:0")
	require.ErrorIs(t, err, config.ErrInvalidScenario)
	goleak.VerifyNone(t)
}

// TestStartStopMetrics checks the server is serving once startMetrics returns.
func TestStartStopMetrics(t *testing.T) {
	a := &app{logger: zap.NewNop(), metricsAddr: "127.0.0.1:0"}
	require.NoError(t, a.startMetrics())
	require.NotNil(t, a.recorder)

	tr := &http.Transport{DisableKeepAlives: true}
	resp, err := (&http.Client{Transport: tr}).Get("http://" + a.listen + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	tr.CloseIdleConnections()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))

	a.stopMetrics()
	assert.Nil(t, a.server)
	goleak.VerifyNone(t)
}

// TestMetricsBadAddress surfaces listener errors before the command runs.
func TestMetricsBadAddress(t *testing.T) {
	_, err := execute(t, "version", "--metrics-addr", "not-an-address")
	require.Error(t, err)
	goleak.VerifyNone(t)
}
