package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/odvcencio/trellis/pkg/config"
	"github.com/odvcencio/trellis/pkg/logging"
	"github.com/odvcencio/trellis/pkg/telemetry"
	"github.com/odvcencio/trellis/pkg/ui/app"
	"github.com/odvcencio/trellis/pkg/ui/backend"
	"github.com/odvcencio/trellis/pkg/ui/backend/tcell"
)

// Version is set during build with -ldflags.
var version = "dev"

var (
	configPath string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:          "trellis-demo",
	Short:        "Interactive demo of the trellis terminal UI framework",
	Long:         `Runs a small counter screen with an eased progress bar, a looping tween and a background greeting.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("trellis-demo needs an interactive terminal")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		be, err := tcell.New()
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, be)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "trellis-demo %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.trellis/config.yaml, then ./.trellis/config.yaml)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}
	return cfg, nil
}

// run drives the demo on be until the user quits or ctx ends. Metrics and
// tracing run alongside when the config enables them.
func run(ctx context.Context, cfg *config.Config, be backend.Backend) error {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := logging.Discard()
	if cfg.Logging.File != "" {
		l, closer, err := logging.NewFileLogger(cfg.Logging.File, "trellis-demo", level)
		if err != nil {
			return err
		}
		defer closer.Close()
		logger = l
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	appCfg := app.Config[demoState, demoAction]{
		Backend: be,
		Update:  update,
		OnKey:   onKey,
		Options: app.OptionsFromConfig(cfg),
		Logger:  logger,
	}

	if cfg.Telemetry.Metrics {
		reg := prometheus.NewRegistry()
		appCfg.Metrics = telemetry.NewMetrics(reg)
		srv, err := telemetry.ListenMetrics(cfg.Telemetry.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		g.Go(func() error { return srv.Serve(runCtx) })
	}

	if cfg.Telemetry.Tracing {
		tp, closer, err := openTracer(cfg.Telemetry.TraceFile)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
			_ = closer.Close()
		}()
		appCfg.Tracer = tp.Tracer()
	}

	d := demo{greet: slowGreeting(800 * time.Millisecond), quitKeys: appCfg.Options.QuitKeys}
	appCfg.View = d.view

	a, err := app.New(appCfg)
	if err != nil {
		return err
	}

	// Telemetry goroutines stop with the app.
	g.Go(func() error {
		defer cancel()
		if err := a.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	return g.Wait()
}

func openTracer(path string) (*telemetry.TracerProvider, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	tp, err := telemetry.NewTracerProvider(f, "trellis-demo")
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return tp, f, nil
}
