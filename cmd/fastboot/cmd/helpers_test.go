package cmd

import (
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint16
		wantErr bool
	}{
		{"plain hex", "0451", 0x0451, false},
		{"0x prefix", "0x18d1", 0x18d1, false},
		{"uppercase", "D022", 0xd022, false},
		{"short", "1", 0x1, false},
		{"too large", "12345", 0, true},
		{"not hex", "zzzz", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseID(%q) = %#x, want %#x", tt.in, got, tt.want)
			}
		})
	}
}

func TestDownloadPayload(t *testing.T) {
	t.Cleanup(func() { downloadSize = 0 })

	downloadSize = 128
	data, err := downloadPayload(nil)
	if err != nil {
		t.Fatalf("downloadPayload() error = %v", err)
	}
	if len(data) != 128 {
		t.Errorf("payload length = %d, want 128", len(data))
	}

	downloadSize = 0
	if _, err := downloadPayload(nil); err == nil {
		t.Error("downloadPayload() with no source expected an error")
	}

	downloadSize = 16
	if _, err := downloadPayload([]string{"file.img"}); err == nil {
		t.Error("downloadPayload() with both sources expected an error")
	}
}
