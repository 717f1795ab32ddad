// Package fbusb adapts a USB device in fastboot mode into the blocking
// byte-duplex transport the protocol engine expects, and provides typed
// device discovery by VID/PID.
package fbusb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"

	"github.com/OpenTraceLab/fastboot/pkg/fastboot"
)

// DefaultTimeout bounds each individual bulk transfer. Not protocol-mandated;
// override with WithTimeout for slow links.
const DefaultTimeout = 3 * time.Second

// libusb reports super-speed-plus as the enum value after super speed;
// gousb has no named constant for it.
const speedSuperPlus = gousb.SpeedSuper + 1

// Device is a claimed USB interface exposed as a fastboot.Transport. It owns
// the gousb context, device, configuration, and interface claim for its
// lifetime; Close releases them in reverse order of acquisition.
type Device struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface

	epIn  *gousb.InEndpoint
	epOut *gousb.OutEndpoint

	packetSize int
	timeout    time.Duration
}

// Option configures a Device at construction.
type Option func(*Device)

// WithTimeout sets the per-transfer timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(dev *Device) {
		if d > 0 {
			dev.timeout = d
		}
	}
}

// Open locates the device by VID/PID, claims its interface, and resolves the
// bulk endpoints and packet size. Every configuration problem (device
// missing, no bulk endpoint in either direction, unrecognized link speed)
// fails here so that an opened Device is always usable.
func Open(vid, pid uint16, opts ...Option) (*Device, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("fbusb: open %04x:%04x: %w", vid, pid, err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("fbusb: %04x:%04x: %w", vid, pid, ErrDeviceNotFound)
	}

	// Detach a bound kernel driver if the platform supports it; not all do.
	_ = dev.SetAutoDetach(true)

	d := &Device{
		ctx:     ctx,
		dev:     dev,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.packetSize, err = packetSizeForSpeed(dev.Desc.Speed)
	if err != nil {
		d.Close()
		return nil, err
	}

	if err := d.claimInterface(); err != nil {
		d.Close()
		return nil, err
	}

	return d, nil
}

// packetSizeForSpeed maps the negotiated link speed to the bulk packet size
// the fastboot spec requires for that speed class.
func packetSizeForSpeed(speed gousb.Speed) (int, error) {
	switch speed {
	case gousb.SpeedLow, gousb.SpeedFull:
		return 64, nil
	case gousb.SpeedHigh:
		return 512, nil
	case gousb.SpeedSuper, speedSuperPlus:
		return 1024, nil
	default:
		return 0, fmt.Errorf("fbusb: unrecognized link speed %d", int(speed))
	}
}

// claimInterface claims the fastboot interface on the first configuration and
// resolves one bulk endpoint per direction.
func (d *Device) claimInterface() error {
	cfg, err := d.dev.Config(1)
	if err != nil {
		return fmt.Errorf("fbusb: get configuration: %w", err)
	}
	d.cfg = cfg

	// Fastboot devices expose a vendor-specific interface; fall back to
	// interface 0 when none is marked as such.
	intfNum := 0
	for _, intf := range cfg.Desc.Interfaces {
		if len(intf.AltSettings) > 0 && intf.AltSettings[0].Class == gousb.ClassVendorSpec {
			intfNum = intf.Number
			break
		}
	}

	intf, err := cfg.Interface(intfNum, 0)
	if err != nil {
		return fmt.Errorf("fbusb: claim interface %d: %w", intfNum, err)
	}
	d.intf = intf

	inNum, outNum, err := resolveBulkEndpoints(intf.Setting.Endpoints)
	if err != nil {
		return err
	}

	if d.epIn, err = intf.InEndpoint(inNum); err != nil {
		return fmt.Errorf("fbusb: open bulk-IN endpoint: %w", err)
	}
	if d.epOut, err = intf.OutEndpoint(outNum); err != nil {
		return fmt.Errorf("fbusb: open bulk-OUT endpoint: %w", err)
	}
	return nil
}

// resolveBulkEndpoints picks the bulk endpoint in each direction. The
// fastboot spec requires the interface to expose exactly one of each;
// a missing endpoint fails construction rather than producing a handle
// that cannot read or write.
func resolveBulkEndpoints(endpoints map[gousb.EndpointAddress]gousb.EndpointDesc) (in, out int, err error) {
	in, out = -1, -1
	for _, ep := range endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		switch ep.Direction {
		case gousb.EndpointDirectionIn:
			if in < 0 {
				in = ep.Number
			}
		case gousb.EndpointDirectionOut:
			if out < 0 {
				out = ep.Number
			}
		}
	}
	if in < 0 {
		return 0, 0, errors.New("fbusb: no bulk-IN endpoint on interface")
	}
	if out < 0 {
		return 0, 0, errors.New("fbusb: no bulk-OUT endpoint on interface")
	}
	return in, out, nil
}

// PacketSize returns the negotiated bulk packet size.
func (d *Device) PacketSize() int {
	return d.packetSize
}

// Read issues one bulk-IN transfer of the negotiated packet size, bounded by
// the per-call timeout, and copies what fits into p.
func (d *Device) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	buf := make([]byte, d.packetSize)
	n, err := d.epIn.ReadContext(ctx, buf)
	if err != nil {
		if isTimeout(err) {
			return 0, fmt.Errorf("fbusb: bulk-IN: %w", fastboot.ErrTimeout)
		}
		return 0, fmt.Errorf("fbusb: bulk-IN transfer: %w", err)
	}
	return copy(p, buf[:n]), nil
}

// Write issues one bulk-OUT transfer of the whole buffer, bounded by the
// per-call timeout, and returns the count the device accepted.
func (d *Device) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	n, err := d.epOut.WriteContext(ctx, p)
	if err != nil {
		if isTimeout(err) {
			return n, fmt.Errorf("fbusb: bulk-OUT: %w", fastboot.ErrTimeout)
		}
		return n, fmt.Errorf("fbusb: bulk-OUT transfer: %w", err)
	}
	return n, nil
}

// isTimeout reports whether a transfer error means the per-call deadline
// elapsed rather than the pipe breaking. gousb surfaces this either as the
// cancelled context or as libusb's own timeout codes.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, gousb.TransferTimedOut) ||
		errors.Is(err, gousb.TransferCancelled) ||
		errors.Is(err, gousb.ErrorTimeout)
}

// Close releases the interface claim, configuration, device, and USB context.
// Safe to call on a partially constructed Device.
func (d *Device) Close() error {
	if d.intf != nil {
		d.intf.Close()
		d.intf = nil
	}
	if d.cfg != nil {
		d.cfg.Close()
		d.cfg = nil
	}
	if d.dev != nil {
		d.dev.Close()
		d.dev = nil
	}
	if d.ctx != nil {
		d.ctx.Close()
		d.ctx = nil
	}
	return nil
}
