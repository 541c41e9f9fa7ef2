package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	wxfdb "github.com/wxfdb/fdb"
)

var purgeCmd = &cobra.Command{
	Use:   "purge <request>",
	Short: "Report or commit duplicate-fingerprint removal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := wxfdb.ParseRequest(args[0])
		if err != nil {
			return userErr("%v", err)
		}
		doit, _ := cmd.Flags().GetBool("doit")

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
			report, err := h.Purge(ctx, dbKey, doit)
			if err != nil {
				fmt.Printf("%s: %v\n", dbKey.String(), err)
				continue
			}
			fmt.Printf("%s: reachable=%d unreachable=%d dup_indexes=%d freed=%d\n",
				dbKey.String(), report.ReachableCount, report.UnreachableCount, report.DuplicateIndexes, report.BytesFreed)
		}
		return nil
	},
}

func init() {
	purgeCmd.Flags().Bool("doit", false, "actually commit the purge (default: dry run)")
}
