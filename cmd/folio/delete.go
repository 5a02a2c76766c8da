package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an article from the store",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		defer svc.Close()

		a := core.NewArticle(core.Metadata{core.KeyID: args[0]})
		if err := svc.Delete(context.Background(), a, nil); err != nil {
			fatal("Failed to delete article", err)
		}
		fmt.Printf("Article deleted: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
