package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"empirikit/host/link"
	"empirikit/protocol"

	"github.com/spf13/cobra"
)

var listenFor time.Duration

var sendCmd = &cobra.Command{
	Use:   "send CODE [ARG]",
	Short: "Send one raw command and print the responses",
	Long: `Send one command frame and print whatever the device answers.

ARG is sent as a number, a triple (255,0,0) or a string. Without ARG the
value 1 is sent. Examples:

  empiri-host send GETINF
  empiri-host send SETRTE 25
  empiri-host send SETRGB 255,0,0
  empiri-host send SETLCD HI`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var arg any
		if len(args) == 2 {
			arg = link.ParseArg(args[1])
		}

		client, err := connect()
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Send(strings.ToUpper(args[0]), arg); err != nil {
			return err
		}

		deadline := time.Now().Add(listenFor)
		for time.Now().Before(deadline) {
			r, err := client.Next(time.Until(deadline))
			if errors.Is(err, link.ErrTimeout) {
				return nil
			}
			if err != nil {
				return err
			}
			printResponse(r)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().DurationVarP(&listenFor, "listen", "l", time.Second, "How long to print responses")
	rootCmd.AddCommand(sendCmd)
}

// printResponse renders one response for a human
func printResponse(r *link.Response) {
	switch r.Kind() {
	case link.KindHelp:
		for _, line := range r.Lines() {
			fmt.Println(line)
		}
	case link.KindMessage:
		fmt.Println(dimStyle.Render(r.Text()))
	case protocol.DatatypeNotification:
		fmt.Println(eventStyle.Render(r.Text()))
	case protocol.DatatypeStatusMessage:
		fmt.Println(errorStyle.Render(r.Text()))
	case protocol.DatatypeStreamData:
		fmt.Println(formatSample(r))
	default:
		fmt.Println(string(r.Raw))
	}
}
