package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var downloadSize int

var downloadCmd = &cobra.Command{
	Use:   "download [file]",
	Short: "Download data into the device's memory",
	Long: `Stage data on the device without flashing it. Reads the payload
from a file, or sends a zero-filled test payload of --size bytes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().IntVar(&downloadSize, "size", 0,
		"send a zero-filled payload of this many bytes instead of a file")
}

func runDownload(cmd *cobra.Command, args []string) error {
	data, err := downloadPayload(args)
	if err != nil {
		return err
	}

	client, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Download(data); err != nil {
		return err
	}
	printOkay("downloaded %d bytes", len(data))
	return nil
}

func downloadPayload(args []string) ([]byte, error) {
	switch {
	case len(args) == 1 && downloadSize > 0:
		return nil, fmt.Errorf("give either a file or --size, not both")
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		return data, nil
	case downloadSize > 0:
		return make([]byte, downloadSize), nil
	default:
		return nil, fmt.Errorf("nothing to download: give a file or --size")
	}
}
