package main

import (
	"fmt"
	"os"
	"time"

	"empirikit/host/link"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags (simulator)
	wsURL string

	timeout time.Duration
	verbose bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "empiri-host",
	Short: "empiriKit host tool",
	Long: `empiri-host talks to an empiriKit board or simulator.

Connection modes:
  Serial:    --port /dev/ttyACM0 (found automatically when omitted)
  WebSocket: --url ws://localhost:8080/ws`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "Simulator WebSocket URL (ws://)")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 5*time.Second, "Response timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every frame")
}

// connect opens the selected connection and wraps it in a client
func connect() (*link.Client, error) {
	conn, info, err := link.Open(link.Options{
		Port:    portName,
		Baud:    baudRate,
		URL:     wsURL,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	log.WithField("connection", info).Info("connected")
	return link.NewClient(conn, log), nil
}
