package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"empirikit/host/link"
	"empirikit/protocol"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var outPath string

var getlogCmd = &cobra.Command{
	Use:   "getlog",
	Short: "Download the last accelerometer recording as CSV (GETLOG)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connect()
		if err != nil {
			return err
		}
		defer client.Close()

		return downloadLog(client)
	},
}

func init() {
	getlogCmd.Flags().StringVarP(&outPath, "out", "o", "", "CSV output file (default stdout)")
	rootCmd.AddCommand(getlogCmd)
}

// downloadLog fetches the log and writes it to --out
func downloadLog(client *link.Client) error {
	r, err := client.Request(protocol.CodeGetLog, nil, protocol.DatatypeAccelerometerLog, timeout)
	if err != nil {
		return err
	}
	samples, err := r.Samples()
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"samples":      len(samples),
		"samplingrate": r.SamplingRate,
		"accelrange":   r.AccelRange,
	}).Info("log received")

	out := io.Writer(os.Stdout)
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}
	return writeLogCSV(out, r, samples)
}

// writeLogCSV writes one row per sample with time and g-scaled columns
func writeLogCSV(w io.Writer, r *link.Response, samples [][3]int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t_s", "x", "y", "z", "x_g", "y_g", "z_g"}); err != nil {
		return err
	}

	factor := float64(r.AccelFactor)
	if factor == 0 {
		factor = 1
	}
	rate := float64(r.SamplingRate)
	if rate == 0 {
		rate = 1
	}

	for i, s := range samples {
		row := []string{
			strconv.FormatFloat(float64(i)/rate, 'f', 3, 64),
			strconv.Itoa(s[0]), strconv.Itoa(s[1]), strconv.Itoa(s[2]),
			strconv.FormatFloat(float64(s[0])/factor, 'f', 4, 64),
			strconv.FormatFloat(float64(s[1])/factor, 'f', 4, 64),
			strconv.FormatFloat(float64(s[2])/factor, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
