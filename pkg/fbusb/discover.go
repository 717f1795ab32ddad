package fbusb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
)

// ErrDeviceNotFound means enumeration completed without a match. It is
// distinct from enumeration backend failures so callers can decide to poll,
// prompt, or abort.
var ErrDeviceNotFound = errors.New("fbusb: device not found")

// DeviceInfo describes an enumerated USB device without opening it.
type DeviceInfo struct {
	VID         uint16
	PID         uint16
	Bus         int
	Address     int
	Speed       gousb.Speed
	Description string
}

// Label returns a user-friendly description for the device.
func (di DeviceInfo) Label() string {
	if di.Description != "" {
		return fmt.Sprintf("%s (%04x:%04x)", di.Description, di.VID, di.PID)
	}
	return fmt.Sprintf("device %04x:%04x", di.VID, di.PID)
}

type knownDevice struct {
	VID         uint16
	PID         uint16
	Description string
}

// VID/PID pairs known to appear in fastboot mode. VID/PID need not be unique
// to fastboot, so this table is a convenience for listing, not a filter for
// Open.
var knownFastbootDevices = []knownDevice{
	{0x0451, 0xd022, "Texas Instruments OMAP"},
	{0x361c, 0x1001, "SpacemiT K1x"},
	{0x18d1, 0x4ee0, "Android bootloader"},
}

// Find enumerates attached devices once and returns the first match for
// vid:pid, or ErrDeviceNotFound.
func Find(vid, pid uint16) (DeviceInfo, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()
	return findIn(ctx, vid, pid)
}

func findIn(ctx *gousb.Context, vid, pid uint16) (DeviceInfo, error) {
	var found *DeviceInfo
	_, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if found == nil && uint16(desc.Vendor) == vid && uint16(desc.Product) == pid {
			di := describe(desc)
			found = &di
		}
		// Never open devices during enumeration.
		return false
	})
	if err != nil && err != gousb.ErrorAccess {
		return DeviceInfo{}, fmt.Errorf("fbusb: enumerate devices: %w", err)
	}
	if found == nil {
		return DeviceInfo{}, fmt.Errorf("fbusb: %04x:%04x: %w", vid, pid, ErrDeviceNotFound)
	}
	return *found, nil
}

// Poll repeats enumeration until vid:pid appears or ctx is done. Some devices
// stay in fastboot mode only briefly after reset, so the period should be
// short. Enumeration backend failures abort the poll.
func Poll(ctx context.Context, vid, pid uint16, period time.Duration) (DeviceInfo, error) {
	usb := gousb.NewContext()
	defer usb.Close()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		di, err := findIn(usb, vid, pid)
		if err == nil {
			return di, nil
		}
		if !errors.Is(err, ErrDeviceNotFound) {
			return DeviceInfo{}, err
		}

		select {
		case <-ctx.Done():
			return DeviceInfo{}, fmt.Errorf("fbusb: waiting for %04x:%04x: %w", vid, pid, ctx.Err())
		case <-ticker.C:
		}
	}
}

// List enumerates attached devices matching the known fastboot-mode table.
func List() ([]DeviceInfo, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	var results []DeviceInfo
	_, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if di, ok := classify(desc); ok {
			results = append(results, di)
		}
		return false
	})
	if err != nil && err != gousb.ErrorAccess {
		return results, fmt.Errorf("fbusb: enumerate devices: %w", err)
	}
	return results, nil
}

func classify(desc *gousb.DeviceDesc) (DeviceInfo, bool) {
	for _, known := range knownFastbootDevices {
		if uint16(desc.Vendor) == known.VID && uint16(desc.Product) == known.PID {
			di := describe(desc)
			di.Description = known.Description
			return di, true
		}
	}
	return DeviceInfo{}, false
}

func describe(desc *gousb.DeviceDesc) DeviceInfo {
	return DeviceInfo{
		VID:     uint16(desc.Vendor),
		PID:     uint16(desc.Product),
		Bus:     desc.Bus,
		Address: desc.Address,
		Speed:   desc.Speed,
	}
}
