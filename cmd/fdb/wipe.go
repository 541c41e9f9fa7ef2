package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	wxfdb "github.com/wxfdb/fdb"
)

var wipeCmd = &cobra.Command{
	Use:   "wipe <request>",
	Short: "Report or commit deletion of every database matching a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := wxfdb.ParseRequest(args[0])
		if err != nil {
			return userErr("%v", err)
		}

		doit, _ := cmd.Flags().GetBool("doit")
		unsafe, _ := cmd.Flags().GetBool("unsafe-wipe-all")
		porcelain, _ := cmd.Flags().GetBool("porcelain")

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
			report, err := h.Wipe(ctx, dbKey, req, wxfdb.WipeOptions{Unsafe: unsafe, DoIt: doit})
			if err != nil {
				fmt.Printf("%s: %v\n", dbKey.String(), err)
				continue
			}
			printWipeReport(dbKey, report, porcelain)
		}
		return nil
	},
}

func printWipeReport(dbKey wxfdb.Key, r *wxfdb.WipeReport, porcelain bool) {
	if porcelain {
		fmt.Printf("%s\t%v\t%d\t%d\t%d\t%v\n", dbKey.String(), r.Full, r.MatchedIndexes, r.ExcludedIndexes, r.UnknownCount, r.Committed)
		return
	}
	fmt.Printf("%s: full=%v matched=%d excluded=%d unknown=%d committed=%v\n",
		dbKey.String(), r.Full, r.MatchedIndexes, r.ExcludedIndexes, r.UnknownCount, r.Committed)
}

func init() {
	wipeCmd.Flags().Bool("doit", false, "actually commit the wipe (default: dry run)")
	wipeCmd.Flags().Bool("unsafe-wipe-all", false, "allow a full wipe despite unrecognised files")
	wipeCmd.Flags().Bool("porcelain", false, "machine-readable, tab-separated output")
}
