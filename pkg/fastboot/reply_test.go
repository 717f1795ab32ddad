package fastboot

import (
	"testing"
)

func TestDecodeReply(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want Reply
	}{
		{
			name: "okay with value",
			raw:  []byte("OKAY1.0"),
			want: Reply{Kind: ReplyOkay, Message: "1.0"},
		},
		{
			name: "okay empty",
			raw:  []byte("OKAY"),
			want: Reply{Kind: ReplyOkay},
		},
		{
			name: "info",
			raw:  []byte("INFOerasing flash"),
			want: Reply{Kind: ReplyInfo, Message: "erasing flash"},
		},
		{
			name: "fail",
			raw:  []byte("FAILunknown variable"),
			want: Reply{Kind: ReplyFail, Message: "unknown variable"},
		},
		{
			name: "data",
			raw:  []byte("DATA00000200"),
			want: Reply{Kind: ReplyData, Size: 512},
		},
		{
			name: "data nul padded",
			raw:  []byte("DATA000002\x00\x00"),
			want: Reply{Kind: ReplyData, Size: 512},
		},
		{
			name: "data max length",
			raw:  []byte("DATAffffffff"),
			want: Reply{Kind: ReplyData, Size: 0xffffffff},
		},
		{
			name: "data not hex",
			raw:  []byte("DATAzzzzzzzz"),
			want: Reply{Kind: ReplyFail, Message: "DATA: failed to decode size"},
		},
		{
			name: "data empty size",
			raw:  []byte("DATA"),
			want: Reply{Kind: ReplyFail, Message: "DATA: failed to decode size"},
		},
		{
			name: "unknown tag",
			raw:  []byte("WARNsomething odd"),
			want: Reply{Kind: ReplyFail, Message: "something odd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeReply(tt.raw)
			if err != nil {
				t.Fatalf("DecodeReply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeReply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeReplyShortBuffer(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte("OK")} {
		if _, err := DecodeReply(raw); err == nil {
			t.Errorf("DecodeReply(%q) expected error for short buffer", raw)
		}
	}
}

func TestDecodeReplyInvalidUTF8(t *testing.T) {
	got, err := DecodeReply([]byte("FAILbad \xff\xfe bytes"))
	if err != nil {
		t.Fatalf("DecodeReply() error = %v", err)
	}
	if got.Kind != ReplyFail {
		t.Fatalf("DecodeReply() kind = %v, want %v", got.Kind, ReplyFail)
	}
	// Invalid sequences are replaced, never rejected.
	if got.Message != "bad �� bytes" && got.Message != "bad � bytes" {
		t.Errorf("DecodeReply() message = %q, replacement expected", got.Message)
	}
}

func TestReplyTagRoundTrip(t *testing.T) {
	kinds := []ReplyKind{ReplyOkay, ReplyInfo, ReplyFail}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			raw := []byte(kind.String() + "payload")
			got, err := DecodeReply(raw)
			if err != nil {
				t.Fatalf("DecodeReply() error = %v", err)
			}
			if got.Kind != kind {
				t.Errorf("round trip: got %v, want %v", got.Kind, kind)
			}
		})
	}

	got, err := DecodeReply([]byte(ReplyData.String() + "00000040"))
	if err != nil {
		t.Fatalf("DecodeReply() error = %v", err)
	}
	if got.Kind != ReplyData || got.Size != 64 {
		t.Errorf("round trip: got %+v, want DATA size 64", got)
	}
}
