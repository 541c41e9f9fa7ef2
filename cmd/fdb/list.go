package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	wxfdb "github.com/wxfdb/fdb"
)

var listCmd = &cobra.Command{
	Use:   "list <request>",
	Short: "List fields matching a mars-style request",
	Long:  `<request> is a mars-style "name=v1/v2,name2=v3" clause; every database-level name of a schema rule must be present in it, while names absent from it at the index and field levels are treated as wildcards.`,
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

		entries, err := h.List(context.Background(), req)
		if err != nil {
			return err
		}

		porcelain, _ := cmd.Flags().GetBool("porcelain")
		for _, e := range entries {
			if porcelain {
				fmt.Printf("%s\t%s\n", e.Key.String(), e.Location.URI())
			} else {
				fmt.Printf("%s -> %s\n", e.Key.String(), e.Location.URI())
			}
		}
		if !porcelain {
			fmt.Printf("%d field(s)\n", len(entries))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("porcelain", false, "machine-readable, tab-separated output")
}
