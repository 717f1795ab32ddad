package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/fastboot/pkg/fbusb"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List attached devices in fastboot mode",
	Long: `List attached USB devices matching known fastboot-mode VID/PID
pairs. Devices with unlisted IDs still work; address them with --vid/--pid
or add a preset to devices.yaml.`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	devices, err := fbusb.List()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("no fastboot devices found")
		return nil
	}

	for _, di := range devices {
		fmt.Printf("%-40s bus %d addr %d\n", di.Label(), di.Bus, di.Address)
	}
	return nil
}
