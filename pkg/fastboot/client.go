// Package fastboot implements the host side of the fastboot bootloader
// protocol: command encoding, reply decoding, and the synchronous
// request/reply exchange including the two-phase download handshake.
//
// The protocol itself is transport-agnostic; anything satisfying Transport
// (usually a claimed USB interface from package fbusb) can back a Client.
// See the U-Boot doc/README.android-fastboot-protocol for the wire format.
package fastboot

import (
	"errors"
	"fmt"
	"log/slog"
)

// DefaultMaxReplySize is the reply read buffer size used when the transport
// packet size is not larger. Not protocol-mandated, just a sane upper bound
// for the textual replies devices actually send.
const DefaultMaxReplySize = 512

// Client drives the fastboot protocol over a Transport it exclusively owns.
// The protocol is strictly half-duplex: a Client must not be used from more
// than one goroutine at a time.
type Client struct {
	transport    Transport
	log          *slog.Logger
	maxReplySize int
	onInfo       func(string)
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for protocol tracing and
// anomaly reporting. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMaxReplySize sets the reply read buffer size. Values below the 4-byte
// tag length are ignored.
func WithMaxReplySize(n int) Option {
	return func(c *Client) {
		if n >= replyTagLen {
			c.maxReplySize = n
		}
	}
}

// WithInfoHandler sets the callback invoked for each INFO reply received
// mid-operation. INFO replies are progress messages, not terminal replies;
// the exchange keeps waiting for a definitive OKAY/FAIL/DATA after invoking
// the handler. The default handler logs at info level.
func WithInfoHandler(fn func(message string)) Option {
	return func(c *Client) {
		if fn != nil {
			c.onInfo = fn
		}
	}
}

// NewClient wraps a transport in a protocol client. The client takes
// ownership of the transport; Close releases it.
func NewClient(t Transport, opts ...Option) *Client {
	c := &Client{
		transport:    t,
		log:          slog.Default(),
		maxReplySize: DefaultMaxReplySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.onInfo == nil {
		c.onInfo = func(msg string) {
			c.log.Info("device info", "message", msg)
		}
	}
	return c
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

// exchange performs one half-duplex round trip: write the payload in full,
// then read until a terminal reply arrives. Fastboot is a synchronous
// protocol, so a read timeout only bounds a single attempt and is retried;
// there is no overall deadline here, callers needing one impose it outside.
// A write error, including a write timeout, is fatal.
func (c *Client) exchange(payload []byte) (Reply, error) {
	for off := 0; off < len(payload); {
		n, err := c.transport.Write(payload[off:])
		if err != nil {
			return Reply{}, fmt.Errorf("fastboot: write: %w", err)
		}
		if n == 0 {
			return Reply{}, errors.New("fastboot: device accepted no data")
		}
		off += n
	}
	c.log.Debug("sent", "bytes", len(payload))

	buf := make([]byte, c.maxReplySize)
	for {
		n, err := c.transport.Read(buf)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				// The device is allowed to be slow; only the
				// transport's per-call timeout bounds each attempt.
				c.log.Debug("read timed out, retrying")
				continue
			}
			return Reply{}, fmt.Errorf("fastboot: read: %w", err)
		}

		reply, err := decodeReply(buf[:n], c.log)
		if err != nil {
			return Reply{}, err
		}
		c.log.Debug("reply", "kind", reply.Kind, "bytes", n)

		if reply.Kind == ReplyInfo {
			c.onInfo(reply.Message)
			continue
		}
		return reply, nil
	}
}

// Getvar queries a fastboot variable and returns its value.
//
// Fastboot variables are not U-Boot environment variables.
func (c *Client) Getvar(name string) (string, error) {
	reply, err := c.exchange(getvarCommand(name))
	if err != nil {
		return "", err
	}
	switch reply.Kind {
	case ReplyOkay:
		return reply.Message, nil
	case ReplyFail:
		return "", &ProtocolError{Op: "getvar", Message: reply.Message}
	default:
		return "", unexpectedReply("getvar", reply.Kind)
	}
}

// Download transfers data into the device's memory. The device must first
// acknowledge the announced size with DATA before the payload is streamed;
// the payload is never sent when the acknowledged size does not match
// exactly, which protects the device from overrunning its receive buffer.
func (c *Client) Download(data []byte) error {
	reply, err := c.exchange(downloadCommand(len(data)))
	if err != nil {
		return err
	}
	switch reply.Kind {
	case ReplyData:
		if int64(reply.Size) != int64(len(data)) {
			return fmt.Errorf("fastboot: download: device expects %#x bytes, have %#x", reply.Size, len(data))
		}
	case ReplyFail:
		return &ProtocolError{Op: "download", Message: reply.Message}
	default:
		return unexpectedReply("download", reply.Kind)
	}

	reply, err = c.exchange(data)
	if err != nil {
		return err
	}
	switch reply.Kind {
	case ReplyOkay:
		return nil
	case ReplyFail:
		return &ProtocolError{Op: "download", Message: reply.Message}
	default:
		return unexpectedReply("download", reply.Kind)
	}
}

// Flash writes previously downloaded data to the named partition.
func (c *Client) Flash(partition string) error {
	return c.simple("flash", flashCommand(partition))
}

// Erase erases the named partition.
func (c *Client) Erase(partition string) error {
	return c.simple("erase", eraseCommand(partition))
}

// ContinueBoot tells the device to continue booting as normal, if possible.
func (c *Client) ContinueBoot() error {
	return c.simple("continue", []byte(cmdContinue))
}

// Reboot reboots the device.
func (c *Client) Reboot() error {
	return c.simple("reboot", []byte(cmdReboot))
}

// RebootBootloader reboots the device back into its bootloader.
func (c *Client) RebootBootloader() error {
	return c.simple("reboot-bootloader", []byte(cmdRebootBootloader))
}

// simple runs a single-exchange command whose only terminal replies are
// OKAY and FAIL.
func (c *Client) simple(op string, cmd []byte) error {
	reply, err := c.exchange(cmd)
	if err != nil {
		return err
	}
	switch reply.Kind {
	case ReplyOkay:
		return nil
	case ReplyFail:
		return &ProtocolError{Op: op, Message: reply.Message}
	default:
		return unexpectedReply(op, reply.Kind)
	}
}
