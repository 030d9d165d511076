// Command nfsshell is an interactive NFSv3/MOUNT3 client speaking
// ONC-RPC directly over the network, independently of any kernel NFS
// client.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/marmos91/nfsshell/internal/config"
	"github.com/marmos91/nfsshell/internal/logger"
	"github.com/marmos91/nfsshell/internal/metrics"
	"github.com/marmos91/nfsshell/internal/repl"
)

var (
	flagVerbose     bool
	flagNoPrompt    bool
	flagConfigPath  string
	flagMetricsAddr string
	flagHost        string
)

// rootCmd is nfsshell's entire CLI surface: the REPL is the only
// "subcommand" this program has, so root's RunE starts it directly
// instead of dispatching to children.
var rootCmd = &cobra.Command{
	Use:           "nfsshell [host]",
	Short:         "interactive NFSv3/MOUNT3 client",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, posArgs []string) error {
		if len(posArgs) == 1 {
			flagHost = posArgs[0]
		}
		return run()
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().BoolVarP(&flagNoPrompt, "interactive", "i", false, "disable interactive confirmation prompts")
	rootCmd.Flags().StringVar(&flagConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/nfsshell/config.yaml)")
	rootCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (default: disabled)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nfsshell: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	watcher, err := config.Watch(flagConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg := watcher.Config()

	level := cfg.Logging.Level
	if flagVerbose {
		level = "DEBUG"
	}
	if err := logger.Init(logger.Config{Level: level, Format: cfg.Logging.Format, Output: cfg.Logging.Output}); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	metricsAddr := flagMetricsAddr
	if metricsAddr == "" && cfg.Metrics.Enabled {
		metricsAddr = cfg.Metrics.Addr
	}
	metricsSrv := metrics.NewServer(metricsAddr, reg)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		metricsSrv.Shutdown(ctx)
	}()

	r := repl.New(cfg.DefaultUID, cfg.DefaultGID, repl.Options{
		Verbose:     flagVerbose,
		Interactive: !flagNoPrompt,
	})
	r.Watcher = watcher
	r.Metrics = m

	if flagHost != "" {
		ctx, cancel := context.WithTimeout(context.Background(), watcher.CallTimeout())
		err := r.Session.Host(ctx, flagHost, true)
		cancel()
		if err != nil {
			return fmt.Errorf("host %s: %w", flagHost, err)
		}
	}

	os.Exit(r.Loop())
	return nil
}
