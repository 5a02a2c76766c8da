package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var truncateYes bool

var truncateCmd = &cobra.Command{
	Use:   "truncate",
	Short: "Delete every article in the store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !truncateYes {
			fatal("Refusing to truncate", errors.New("pass --yes to confirm"))
		}
		svc := openService()
		defer svc.Close()

		if err := svc.Truncate(context.Background(), nil); err != nil {
			fatal("Failed to truncate", err)
		}
		fmt.Println("All articles deleted.")
	},
}

func init() {
	rootCmd.AddCommand(truncateCmd)
	truncateCmd.Flags().BoolVar(&truncateYes, "yes", false, "Confirm deleting every article")
}
