package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <key>",
	Short: "Archive a field's bytes under a fully-specified key",
	Long:  `Reads field bytes from --file (or stdin if omitted) and archives them under <key>, a mars-style "name=value,..." clause naming every level of the configured schema.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseFullKey(args[0])
		if err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("file")
		var data []byte
		if file == "" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return err
		}

		h, err := openFDB()
		if err != nil {
			return err
		}
		defer h.Close()

		if err := h.Archive(context.Background(), key, data); err != nil {
			return err
		}
		fmt.Printf("archived %d bytes under %s\n", len(data), key.String())
		return nil
	},
}

func init() {
	archiveCmd.Flags().String("file", "", "path to the field's bytes (defaults to stdin)")
}
