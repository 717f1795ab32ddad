package fbusb

import (
	"context"
	"errors"
	"testing"

	"github.com/google/gousb"
)

func TestPacketSizeForSpeed(t *testing.T) {
	tests := []struct {
		name    string
		speed   gousb.Speed
		want    int
		wantErr bool
	}{
		{"low", gousb.SpeedLow, 64, false},
		{"full", gousb.SpeedFull, 64, false},
		{"high", gousb.SpeedHigh, 512, false},
		{"super", gousb.SpeedSuper, 1024, false},
		{"super plus", speedSuperPlus, 1024, false},
		{"unknown", gousb.SpeedUnknown, 0, true},
		{"out of range", gousb.Speed(42), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := packetSizeForSpeed(tt.speed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("packetSizeForSpeed() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("packetSizeForSpeed() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveBulkEndpoints(t *testing.T) {
	bulkIn := gousb.EndpointDesc{
		Number:       1,
		Direction:    gousb.EndpointDirectionIn,
		TransferType: gousb.TransferTypeBulk,
	}
	bulkOut := gousb.EndpointDesc{
		Number:       2,
		Direction:    gousb.EndpointDirectionOut,
		TransferType: gousb.TransferTypeBulk,
	}
	interruptIn := gousb.EndpointDesc{
		Number:       3,
		Direction:    gousb.EndpointDirectionIn,
		TransferType: gousb.TransferTypeInterrupt,
	}

	tests := []struct {
		name      string
		endpoints []gousb.EndpointDesc
		wantIn    int
		wantOut   int
		wantErr   bool
	}{
		{"both present", []gousb.EndpointDesc{bulkIn, bulkOut}, 1, 2, false},
		{"extra non-bulk ignored", []gousb.EndpointDesc{interruptIn, bulkIn, bulkOut}, 1, 2, false},
		{"missing bulk-IN", []gousb.EndpointDesc{bulkOut, interruptIn}, 0, 0, true},
		{"missing bulk-OUT", []gousb.EndpointDesc{bulkIn}, 0, 0, true},
		{"none", nil, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eps := make(map[gousb.EndpointAddress]gousb.EndpointDesc, len(tt.endpoints))
			for i, ep := range tt.endpoints {
				eps[gousb.EndpointAddress(i)] = ep
			}

			in, out, err := resolveBulkEndpoints(eps)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveBulkEndpoints() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if in != tt.wantIn || out != tt.wantOut {
				t.Errorf("resolveBulkEndpoints() = %d, %d, want %d, %d", in, out, tt.wantIn, tt.wantOut)
			}
		})
	}
}

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"libusb timeout", gousb.ErrorTimeout, true},
		{"transfer timed out", gousb.TransferTimedOut, true},
		{"transfer cancelled", gousb.TransferCancelled, true},
		{"stall", gousb.TransferStall, false},
		{"no device", gousb.ErrorNoDevice, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTimeout(tt.err); got != tt.want {
				t.Errorf("isTimeout(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// Integration test - only runs with real hardware attached.
func TestOpenIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	devices, err := List()
	if err != nil {
		t.Skipf("enumeration unavailable: %v", err)
	}
	if len(devices) == 0 {
		t.Skip("no fastboot-mode device attached")
	}

	di := devices[0]
	dev, err := Open(di.VID, di.PID)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", di.Label(), err)
	}
	defer dev.Close()

	if ps := dev.PacketSize(); ps != 64 && ps != 512 && ps != 1024 {
		t.Errorf("PacketSize() = %d, want one of 64/512/1024", ps)
	}
}
