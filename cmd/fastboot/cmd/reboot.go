package cmd

import (
	"github.com/spf13/cobra"
)

var rebootToBootloader bool

var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot the device",
	Args:  cobra.NoArgs,
	RunE:  runReboot,
}

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Continue booting as normal, if possible",
	Args:  cobra.NoArgs,
	RunE:  runContinue,
}

func init() {
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(continueCmd)

	rebootCmd.Flags().BoolVar(&rebootToBootloader, "bootloader", false,
		"reboot back into the bootloader")
}

func runReboot(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if rebootToBootloader {
		if err := client.RebootBootloader(); err != nil {
			return err
		}
		printOkay("rebooting to bootloader")
		return nil
	}

	if err := client.Reboot(); err != nil {
		return err
	}
	printOkay("rebooting")
	return nil
}

func runContinue(cmd *cobra.Command, args []string) error {
	client, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.ContinueBoot(); err != nil {
		return err
	}
	printOkay("continuing boot")
	return nil
}
