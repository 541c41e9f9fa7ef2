package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	wxfdb "github.com/wxfdb/fdb"
)

var moveCmd = &cobra.Command{
	Use:   "move <db-request> <dest-root>",
	Short: "Copy a database's TOC to a new root under an exclusive index-file lock",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := wxfdb.ParseRequest(args[0])
		if err != nil {
			return userErr("%v", err)
		}
		destRoot := args[1]
		keep, _ := cmd.Flags().GetBool("keep")

		h, err := openFDB()
		if err != nil {
			return err
		}
		defer h.Close()

		dbKeys := h.Schema().FirstLevel(req)
		if len(dbKeys) == 0 {
			return userErr("request %q matches no schema rule", args[0])
		}

		ctx := context.Background()
		for _, dbKey := range dbKeys {
			report, err := h.Move(ctx, dbKey, destRoot, wxfdb.MoveOptions{Keep: keep})
			if err != nil {
				fmt.Printf("%s: %v\n", dbKey.String(), err)
				continue
			}
			fmt.Printf("%s -> %s (%d bytes)\n", dbKey.String(), report.Destination, report.BytesCopied)
		}
		return nil
	},
}

func init() {
	moveCmd.Flags().Bool("keep", false, "leave the source TOC in place after copying")
}
