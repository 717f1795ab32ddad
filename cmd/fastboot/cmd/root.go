package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/fastboot/internal/config"
	"github.com/OpenTraceLab/fastboot/internal/logging"
)

var (
	// Global flags
	vidFlag    string
	pidFlag    string
	deviceFlag string
	timeout    time.Duration
	wait       time.Duration
	verbose    bool
	logFile    string

	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fastboot",
	Short: "Host-side client for the fastboot bootloader protocol",
	Long: `Talk to a device in fastboot mode over USB: query variables, push
firmware images, flash or erase partitions, and reboot.

The target device is selected by --vid/--pid, by a named preset from
~/.fastboot/devices.yaml via --device, or, when neither is given, by
scanning for a single attached device in fastboot mode.

Examples:
  fastboot devices                         # list attached fastboot devices
  fastboot getvar version                  # read a bootloader variable
  fastboot flash boot boot.img             # download and flash an image
  fastboot --vid 0451 --pid d022 reboot    # address a device explicitly`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vidFlag, "vid", "", "vendor ID (hex)")
	rootCmd.PersistentFlags().StringVar(&pidFlag, "pid", "", "product ID (hex)")
	rootCmd.PersistentFlags().StringVarP(&deviceFlag, "device", "d", "", "device preset name from devices.yaml")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 3*time.Second, "per-transfer USB timeout")
	rootCmd.PersistentFlags().DurationVarP(&wait, "wait", "w", 0, "poll this long for the device to appear")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also log to this file (rotated)")
}

func setupLogger() error {
	if logFile == "" {
		log = logging.NewLogger(os.Stderr, verbose)
		return nil
	}

	paths, err := config.GetPaths()
	if err == nil {
		err = paths.EnsureDirectories()
	}
	if err != nil {
		return fmt.Errorf("prepare log directory: %w", err)
	}

	w := logging.NewRotatingWriter(logging.DefaultFileConfig(logFile))
	log = logging.NewLogger(w, verbose)
	return nil
}
