package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"empirikit/host/link"
	"empirikit/protocol"

	"github.com/spf13/cobra"
)

var (
	streamRate  int
	streamAccel bool
	streamTouch bool
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream live sensor data until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runStream,
}

func init() {
	streamCmd.Flags().IntVarP(&streamRate, "rate", "r", 50, "Sampling rate in Hz (1-100)")
	streamCmd.Flags().BoolVar(&streamAccel, "accel", true, "Stream accelerometer data")
	streamCmd.Flags().BoolVar(&streamTouch, "touch", false, "Stream touch sensor data")
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	if !streamAccel && !streamTouch {
		return errors.New("nothing to stream: enable --accel or --touch")
	}

	client, err := connect()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := client.Send(protocol.CodeSetRate, streamRate); err != nil {
		return err
	}
	if streamTouch {
		if err := client.Send(protocol.CodeStreamTouch, 1); err != nil {
			return err
		}
	}
	if streamAccel {
		if err := client.Send(protocol.CodeStreamAccel, 1); err != nil {
			return err
		}
	}

	styled := stdoutIsTerminal()
	if !styled {
		fmt.Println("rate,touch,x,y,z")
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			log.WithField("samples", count).Info("stopping stream")
			return client.Send(protocol.CodeSetIdle, 1)

		case r, ok := <-client.Responses():
			if !ok {
				return link.ErrClosed
			}
			if r.Kind() != protocol.DatatypeStreamData {
				printResponse(r)
				continue
			}
			count++
			if styled {
				fmt.Println(formatSample(r))
			} else {
				fmt.Println(sampleCSV(r))
			}
		}
	}
}

// formatSample renders a StreamData response with styles
func formatSample(r *link.Response) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("%3d Hz", r.SamplingRate)))
	if r.Touch != nil {
		b.WriteString("  " + labelStyle.Render("touch") + " " + valueStyle.Render(fmt.Sprintf("%3d", *r.Touch)))
	}
	if r.Accel != nil {
		a := *r.Accel
		b.WriteString("  " + labelStyle.Render("accel") + " " +
			valueStyle.Render(fmt.Sprintf("%6d %6d %6d", a[0], a[1], a[2])))
	}
	return b.String()
}

// sampleCSV renders a StreamData response as one CSV row
func sampleCSV(r *link.Response) string {
	fields := []string{strconv.Itoa(r.SamplingRate), "", "", "", ""}
	if r.Touch != nil {
		fields[1] = strconv.Itoa(*r.Touch)
	}
	if r.Accel != nil {
		for i, v := range r.Accel {
			fields[2+i] = strconv.Itoa(v)
		}
	}
	return strings.Join(fields, ",")
}
