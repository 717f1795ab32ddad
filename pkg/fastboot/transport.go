package fastboot

import (
	"errors"
	"io"
)

// Transport is a blocking byte-duplex channel to a device in fastboot mode.
// This abstraction keeps the protocol engine independent of USB and allows
// testing with scripted implementations.
//
// Contract:
//   - Read issues one bounded-time receive and returns the bytes that fit in
//     p. A per-call timeout must surface as an error matching ErrTimeout via
//     errors.Is; any other error is fatal for the operation in flight.
//   - Write sends p and returns the number of bytes the device accepted,
//     under the same timeout classification. A write timeout is fatal.
//   - Read and Write with an empty buffer return 0 immediately without
//     touching the device.
//
// The protocol is half-duplex with one outstanding request at a time; a
// Transport is owned by a single Client and must not be shared.
type Transport interface {
	io.ReadWriteCloser
}

// ErrTimeout classifies a single bounded transfer that did not complete in
// time. The exchange loop retries reads that fail with it.
var ErrTimeout = errors.New("fastboot: transfer timed out")
