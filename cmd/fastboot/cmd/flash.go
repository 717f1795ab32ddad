package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flashCmd = &cobra.Command{
	Use:   "flash <partition> [image]",
	Short: "Flash a partition",
	Long: `Write an image to the named partition. With an image file, the
data is downloaded first and then flashed; without one, the device flashes
whatever was staged by a previous download.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFlash,
}

func init() {
	rootCmd.AddCommand(flashCmd)
}

func runFlash(cmd *cobra.Command, args []string) error {
	partition := args[0]

	client, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if len(args) == 2 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		if err := client.Download(data); err != nil {
			return err
		}
		printOkay("downloaded %d bytes", len(data))
	}

	if err := client.Flash(partition); err != nil {
		return err
	}
	printOkay("flashed %s", partition)
	return nil
}
