package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <key>",
	Short: "Retrieve a field's bytes and write them to stdout (or --out)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseFullKey(args[0])
		if err != nil {
			return err
		}

		h, err := openFDB()
		if err != nil {
			return err
		}
		defer h.Close()

		data, err := h.Retrieve(context.Background(), key)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		return os.WriteFile(out, data, 0o644)
	},
}

func init() {
	dumpCmd.Flags().String("out", "", "write the retrieved bytes here instead of stdout")
}
