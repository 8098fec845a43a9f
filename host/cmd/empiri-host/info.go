package main

import (
	"fmt"
	"strings"

	"empirikit/protocol"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the device's hardware info (GETINF)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connect()
		if err != nil {
			return err
		}
		defer client.Close()

		r, err := client.Request(protocol.CodeGetInfo, nil, protocol.DatatypeHardwareInfo, timeout)
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", labelStyle.Render("Device:      "), r.DeviceType)
		fmt.Printf("%s %s\n", labelStyle.Render("Version:     "), r.Version)
		fmt.Printf("%s %s\n", labelStyle.Render("UID:         "), r.UID)
		fmt.Printf("%s %s\n", labelStyle.Render("Capabilities:"), strings.Join(r.Capabilities, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
