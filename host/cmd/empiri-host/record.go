package main

import (
	"time"

	"empirikit/host/link"
	"empirikit/protocol"

	"github.com/spf13/cobra"
)

var armTimeout time.Duration

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Arm a gesture-triggered recording and download it",
	Long: `Arm the device (LOGACC), wait for the hand gesture to start and stop the
recording, then download it as CSV.

Hold a hand over the touch sensor to start the countdown. Recording ends when
the log is full or the sensor is touched again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connect()
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Send(protocol.CodeNotify, 1); err != nil {
			return err
		}
		if err := client.Send(protocol.CodeLogAccel, 1); err != nil {
			return err
		}
		log.Info("armed, waiting for gesture")

		isEvent := func(event string) func(*link.Response) bool {
			return func(r *link.Response) bool { return r.IsEvent(event) }
		}

		if _, err := client.WaitFor(isEvent(protocol.EventLoggingStarted), armTimeout); err != nil {
			return err
		}
		log.Info(eventStyle.Render("recording"))

		if _, err := client.WaitFor(isEvent(protocol.EventLoggingEnded), armTimeout); err != nil {
			return err
		}
		log.Info(eventStyle.Render("recording finished"))

		return downloadLog(client)
	},
}

func init() {
	recordCmd.Flags().DurationVar(&armTimeout, "arm-timeout", time.Minute, "How long to wait for each gesture")
	recordCmd.Flags().StringVarP(&outPath, "out", "o", "", "CSV output file (default stdout)")
	rootCmd.AddCommand(recordCmd)
}
