package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Read every article, seeding the store first if it is empty",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := fetch(context.Background())
		defer svc.Close()

		fmt.Printf("%d articles loaded.\n", svc.Collection().Len())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
