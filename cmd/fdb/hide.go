package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	wxfdb "github.com/wxfdb/fdb"
)

var hideCmd = &cobra.Command{
	Use:   "hide <db-request>",
	Short: "Mask every field in the matching database(s) without touching store data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := wxfdb.ParseRequest(args[0])
		if err != nil {
			return userErr("%v", err)
		}

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
			if err := h.Hide(ctx, dbKey); err != nil {
				fmt.Printf("%s: %v\n", dbKey.String(), err)
				continue
			}
			fmt.Printf("%s: hidden\n", dbKey.String())
		}
		return nil
	},
}
