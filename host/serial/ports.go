//go:build !wasm

package serial

import (
	"fmt"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// USB IDs the firmware enumerates with (TinyGo RP2040 CDC defaults)
const (
	BoardVID = "2E8A"
	BoardPID = "000A"
)

// PortInfo describes one serial device on the host
type PortInfo struct {
	Name         string
	USB          bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// IsBoard reports whether the port looks like an empiriKit board
func (p PortInfo) IsBoard() bool {
	return p.USB && strings.EqualFold(p.VID, BoardVID) && strings.EqualFold(p.PID, BoardPID)
}

// ListPorts enumerates serial devices, boards first
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:         d.Name,
			USB:          d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}

	sort.SliceStable(ports, func(i, j int) bool {
		return ports[i].IsBoard() && !ports[j].IsBoard()
	})
	return ports, nil
}

// FindBoard returns the first attached board's device path
func FindBoard() (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", err
	}
	for _, p := range ports {
		if p.IsBoard() {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("no empiriKit board found (looking for USB %s:%s)", BoardVID, BoardPID)
}
