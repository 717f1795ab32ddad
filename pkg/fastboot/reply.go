package fastboot

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Reply tags defined by the fastboot protocol. Every reply starts with
// exactly one of these four ASCII literals.
const (
	tagOkay = "OKAY"
	tagInfo = "INFO"
	tagFail = "FAIL"
	tagData = "DATA"

	replyTagLen = 4
)

// ReplyKind identifies the reply variant.
type ReplyKind int

const (
	ReplyOkay ReplyKind = iota
	ReplyInfo
	ReplyFail
	ReplyData
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyOkay:
		return tagOkay
	case ReplyInfo:
		return tagInfo
	case ReplyFail:
		return tagFail
	case ReplyData:
		return tagData
	}
	return fmt.Sprintf("ReplyKind(%d)", int(k))
}

// Reply is one decoded fastboot response.
//
// Message carries the payload for OKAY/INFO/FAIL replies; Size carries the
// byte count the device is prepared to receive for DATA replies.
type Reply struct {
	Kind    ReplyKind
	Message string
	Size    uint32
}

// DecodeReply parses a raw reply buffer into a Reply. The buffer must be at
// least 4 bytes; anything shorter is a framing violation by the caller.
// Unknown tags and malformed DATA sizes decode to FAIL replies rather than
// errors, since the device has still answered something.
func DecodeReply(raw []byte) (Reply, error) {
	return decodeReply(raw, slog.Default())
}

func decodeReply(raw []byte, log *slog.Logger) (Reply, error) {
	if len(raw) < replyTagLen {
		return Reply{}, fmt.Errorf("fastboot: reply too short (%d bytes)", len(raw))
	}

	tag := string(raw[:replyTagLen])
	// The payload is decoded lossily; devices are not required to send
	// valid UTF-8 and a broken message must not break the exchange.
	payload := strings.ToValidUTF8(string(raw[replyTagLen:]), "�")

	switch tag {
	case tagOkay:
		return Reply{Kind: ReplyOkay, Message: payload}, nil
	case tagInfo:
		return Reply{Kind: ReplyInfo, Message: payload}, nil
	case tagFail:
		return Reply{Kind: ReplyFail, Message: payload}, nil
	case tagData:
		// An oversized read buffer leaves trailing NULs after the
		// 8 hex digits. Strip them before parsing.
		digits := strings.Trim(payload, "\x00")
		size, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return Reply{Kind: ReplyFail, Message: "DATA: failed to decode size"}, nil
		}
		return Reply{Kind: ReplyData, Size: uint32(size)}, nil
	default:
		log.Warn("unknown reply tag", "tag", fmt.Sprintf("% x", raw[:replyTagLen]), "payload", payload)
		return Reply{Kind: ReplyFail, Message: payload}, nil
	}
}
