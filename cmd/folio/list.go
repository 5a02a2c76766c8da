package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var (
	listJSON       bool
	filterCategory string
	filterAuthor   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles, newest first and drafts last",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := fetch(context.Background())
		defer svc.Close()

		articles := svc.Collection().Filter(func(a *core.Article) bool {
			if filterCategory != "" && a.Category != filterCategory {
				return false
			}
			return filterAuthor == "" || a.Author == filterAuthor
		})

		now := time.Now()
		for _, a := range articles {
			core.Derive(a, now, nil)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(articles); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, a := range articles {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.PublishStatus, a.Category, a.Title)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterCategory, "category", "", "Only articles in this category")
	listCmd.Flags().StringVar(&filterAuthor, "author", "", "Only articles by this author")
}
