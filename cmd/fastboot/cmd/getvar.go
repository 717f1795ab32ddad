package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getvarCmd = &cobra.Command{
	Use:   "getvar [variable]",
	Short: "Read a bootloader variable",
	Long: `Read a fastboot variable from the device. Defaults to "version"
when no variable is named.

Fastboot variables are not U-Boot environment variables.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGetvar,
}

func init() {
	rootCmd.AddCommand(getvarCmd)
}

func runGetvar(cmd *cobra.Command, args []string) error {
	variable := "version"
	if len(args) == 1 {
		variable = args[0]
	}

	client, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	value, err := client.Getvar(variable)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", variable, value)
	return nil
}
