package main

import (
	"fmt"

	"empirikit/host/serial"

	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports, empiriKit boards first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.ListPorts()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("No serial ports found")
			return nil
		}

		for _, p := range ports {
			marker := " "
			if p.IsBoard() {
				marker = "*"
			}
			if p.USB {
				fmt.Printf("%s %-20s %s:%s %s %s\n", marker, p.Name, p.VID, p.PID, p.SerialNumber, p.Product)
			} else {
				fmt.Printf("%s %s\n", marker, p.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
