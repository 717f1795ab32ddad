package fbusb

import (
	"testing"

	"github.com/google/gousb"
)

func TestDeviceInfoLabel(t *testing.T) {
	tests := []struct {
		name string
		di   DeviceInfo
		want string
	}{
		{
			name: "described",
			di:   DeviceInfo{VID: 0x0451, PID: 0xd022, Description: "Texas Instruments OMAP"},
			want: "Texas Instruments OMAP (0451:d022)",
		},
		{
			name: "bare",
			di:   DeviceInfo{VID: 0x18d1, PID: 0x4ee0},
			want: "device 18d1:4ee0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.di.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		vid, pid  uint16
		wantKnown bool
	}{
		{"TI OMAP", 0x0451, 0xd022, true},
		{"SpacemiT K1x", 0x361c, 0x1001, true},
		{"Android bootloader", 0x18d1, 0x4ee0, true},
		{"random device", 0x1234, 0x5678, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := &gousb.DeviceDesc{
				Vendor:  gousb.ID(tt.vid),
				Product: gousb.ID(tt.pid),
			}
			di, ok := classify(desc)
			if ok != tt.wantKnown {
				t.Fatalf("classify() known = %v, want %v", ok, tt.wantKnown)
			}
			if ok && di.Description == "" {
				t.Error("classify() returned a known device without a description")
			}
		})
	}
}

// Integration test - safe without hardware, enumeration may just come back
// empty.
func TestListIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	devices, err := List()
	if err != nil {
		t.Skipf("enumeration unavailable: %v", err)
	}
	for i, di := range devices {
		t.Logf("  device %d: %s bus %d addr %d", i, di.Label(), di.Bus, di.Address)
	}
}
