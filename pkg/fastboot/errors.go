package fastboot

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrFailed marks a FAIL reply from the device.
	ErrFailed = errors.New("fastboot: command failed")

	// ErrUnexpectedReply marks a reply kind that is not valid for the
	// current stage of an operation, e.g. DATA where OKAY was expected.
	ErrUnexpectedReply = errors.New("fastboot: unexpected reply")
)

// ProtocolError carries the human-readable reason from a FAIL reply.
type ProtocolError struct {
	Op      string // operation that failed ("getvar", "flash", ...)
	Message string // device-supplied reason, may be empty
}

func (e *ProtocolError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fastboot: %s failed", e.Op)
	}
	return fmt.Sprintf("fastboot: %s failed: %s", e.Op, e.Message)
}

func (e *ProtocolError) Unwrap() error {
	return ErrFailed
}

func unexpectedReply(op string, kind ReplyKind) error {
	return fmt.Errorf("fastboot: %s: %w: %s", op, ErrUnexpectedReply, kind)
}
