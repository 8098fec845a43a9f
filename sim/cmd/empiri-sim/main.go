package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"empirikit/protocol"
	"empirikit/sim"

	"github.com/spf13/cobra"
)

var (
	configFile string
	listenAddr string
	logLevel   string
	variant    string
)

var rootCmd = &cobra.Command{
	Use:     "empiri-sim",
	Short:   "Simulated empiriKit device",
	Version: protocol.Version,
	Long: `empiri-sim runs the device firmware engine with simulated sensors.

A host connects over WebSocket at /ws (one at a time). The touch sensor is
driven with POST /touch?value=N, the indicator state is at /indicator and
Prometheus metrics are served at /metrics.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	rootCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address (overrides config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.Flags().StringVar(&variant, "variant", "", "Indicator variant: rgb or text (overrides config)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg := sim.DefaultConfig()
	if configFile != "" {
		loaded, err := sim.LoadConfig(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if listenAddr != "" {
		cfg.Server.Listen = listenAddr
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if variant != "" {
		cfg.Device.Variant = variant
	}

	log := sim.NewLogger(cfg.Log)

	simulator, err := sim.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start simulator: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return simulator.ListenAndServe(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
