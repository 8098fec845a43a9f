package serial

import "testing"

func TestPortInfoIsBoard(t *testing.T) {
	tests := []struct {
		name string
		port PortInfo
		want bool
	}{
		{"board", PortInfo{USB: true, VID: "2E8A", PID: "000A"}, true},
		{"lowercase ids", PortInfo{USB: true, VID: "2e8a", PID: "000a"}, true},
		{"other pid", PortInfo{USB: true, VID: "2E8A", PID: "0003"}, false},
		{"not usb", PortInfo{VID: "2E8A", PID: "000A"}, false},
		{"ftdi", PortInfo{USB: true, VID: "0403", PID: "6001"}, false},
	}

	for _, tt := range tests {
		if got := tt.port.IsBoard(); got != tt.want {
			t.Errorf("%s: IsBoard() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
