package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/OpenTraceLab/fastboot/internal/config"
	"github.com/OpenTraceLab/fastboot/pkg/fastboot"
	"github.com/OpenTraceLab/fastboot/pkg/fbusb"
)

const pollPeriod = 10 * time.Millisecond

// parseID parses a hex VID or PID, with or without a 0x prefix.
func parseID(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid USB ID %q: expected up to 4 hex digits", s)
	}
	return uint16(v), nil
}

// resolveTarget picks the device to talk to: a named preset, explicit
// --vid/--pid, or the single attached device in fastboot mode.
func resolveTarget() (vid, pid uint16, err error) {
	if deviceFlag != "" {
		paths, err := config.GetPaths()
		if err != nil {
			return 0, 0, err
		}
		presets, err := config.LoadPresets(paths.Devices)
		if err != nil {
			return 0, 0, err
		}
		p, ok := config.FindPreset(presets, deviceFlag)
		if !ok {
			return 0, 0, fmt.Errorf("no preset %q in %s", deviceFlag, paths.Devices)
		}
		return p.VendorID, p.ProductID, nil
	}

	if vidFlag != "" || pidFlag != "" {
		if vidFlag == "" || pidFlag == "" {
			return 0, 0, fmt.Errorf("--vid and --pid must be given together")
		}
		if vid, err = parseID(vidFlag); err != nil {
			return 0, 0, err
		}
		if pid, err = parseID(pidFlag); err != nil {
			return 0, 0, err
		}
		return vid, pid, nil
	}

	devices, err := fbusb.List()
	if err != nil {
		return 0, 0, err
	}
	switch len(devices) {
	case 0:
		return 0, 0, fmt.Errorf("no fastboot device found; is it connected and in the right mode? (use --vid/--pid for unlisted devices)")
	case 1:
		return devices[0].VID, devices[0].PID, nil
	default:
		names := make([]string, len(devices))
		for i, di := range devices {
			names[i] = di.Label()
		}
		return 0, 0, fmt.Errorf("multiple fastboot devices found (%s); select one with --vid/--pid or --device", strings.Join(names, ", "))
	}
}

// openClient resolves the target, waits for it if requested, and wraps the
// claimed USB interface in a protocol client.
func openClient() (*fastboot.Client, error) {
	vid, pid, err := resolveTarget()
	if err != nil {
		return nil, err
	}

	if wait > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), wait)
		defer cancel()
		if _, err := fbusb.Poll(ctx, vid, pid, pollPeriod); err != nil {
			return nil, err
		}
	}

	dev, err := fbusb.Open(vid, pid, fbusb.WithTimeout(timeout))
	if err != nil {
		return nil, err
	}

	replySize := fastboot.DefaultMaxReplySize
	if ps := dev.PacketSize(); ps > replySize {
		replySize = ps
	}

	return fastboot.NewClient(dev,
		fastboot.WithLogger(log),
		fastboot.WithMaxReplySize(replySize),
		fastboot.WithInfoHandler(printInfo),
	), nil
}

func printInfo(msg string) {
	fmt.Printf("%s %s\n", color.YellowString("(bootloader)"), msg)
}

func printOkay(format string, args ...any) {
	fmt.Printf("%s %s\n", color.GreenString("OKAY"), fmt.Sprintf(format, args...))
}
