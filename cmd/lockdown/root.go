package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/lockdown/config"
	"github.com/katalvlaran/lockdown/metrics"
)

// app carries flag values and the per-invocation services.
type app struct {
	configPath  string
	verbose     bool
	metricsAddr string
	strict      bool

	gridSize      int
	maxIterations int
	tolerance     float64

	// newLogger builds the logger in PersistentPreRunE; tests replace it.
	newLogger func(verbose bool) (*zap.Logger, error)

	logger   *zap.Logger
	recorder *metrics.Recorder
	server   *http.Server
	served   chan struct{} // closed when Serve returns
	listen   string        // bound metrics address, e.g. 127.0.0.1:41234
}

func productionLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return cfg.Build()
}

// execute runs cmd and releases the metrics server and logger afterwards,
// including when a command fails. cobra skips PersistentPostRun on error.
func (a *app) execute(cmd *cobra.Command) error {
	defer a.finish()

	return cmd.Execute()
}

func (a *app) finish() {
	a.stopMetrics()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newRootCmdWith(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "lockdown",
		Short: "Optimal targeted lockdowns by value iteration",
		Long: `lockdown computes a time-consistent lockdown policy for a two-group
(young/old) SIR epidemic by value iteration on a 4-D grid of susceptible and
infected shares, then replays the policy forward from an initial state.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := a.newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger.With(zap.String("run_id", uuid.NewString()))

			return a.startMetrics()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "scenario YAML file (defaults when empty)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log every sweep at debug level")
	pf.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :2112")
	pf.BoolVar(&a.strict, "strict", false, "exit non-zero when value iteration does not converge")
	pf.IntVar(&a.gridSize, "grid-size", 0, "override grid points per axis")
	pf.IntVar(&a.maxIterations, "max-iterations", 0, "override the sweep budget")
	pf.Float64Var(&a.tolerance, "tolerance", 0, "override the sup-norm tolerance")

	root.AddCommand(
		newSolveCmd(a),
		newSimulateCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return root
}

// scenario loads the configured scenario and applies flag overrides.
func (a *app) scenario() (*config.Scenario, error) {
	sc := config.Default()
	if a.configPath != "" {
		var err error
		if sc, err = config.Load(a.configPath); err != nil {
			return nil, err
		}
	}
	if a.gridSize != 0 {
		sc.Grid.Size = a.gridSize
	}
	if a.maxIterations != 0 {
		sc.Solver.MaxIterations = a.maxIterations
	}
	if a.tolerance != 0 {
		sc.Solver.Tolerance = a.tolerance
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	return sc, nil
}

// startMetrics registers a recorder and serves it when --metrics-addr is set.
func (a *app) startMetrics() error {
	if a.metricsAddr == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return err
	}
	a.recorder = rec

	ln, err := net.Listen("tcp", a.metricsAddr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	a.server = &http.Server{Handler: metrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
	a.served = make(chan struct{})
	a.listen = ln.Addr().String()
	a.logger.Info("serving metrics", zap.String("addr", a.listen))

	go func(srv *http.Server, done chan<- struct{}) {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", zap.Error(err))
		}
	}(a.server, a.served)

	return nil
}

func (a *app) stopMetrics() {
	if a.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Warn("metrics server shutdown", zap.Error(err))
	}
	<-a.served
	a.server, a.served = nil, nil
}
