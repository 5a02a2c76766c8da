package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/core"
)

var (
	writeID        string
	writeTitle     string
	writeAuthor    string
	writeAuthorURL string
	writeCategory  string
	writePublished string
	writeBody      string
	writeBodyFile  string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Create an article, or replace one with --id",
	Long: `Write sends one article to the store. Without --id a new article is
inserted and the store assigns its identifier. With --id the stored article
is replaced by the given fields; fields left out are cleared.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		body := writeBody
		if writeBodyFile != "" {
			data, err := os.ReadFile(writeBodyFile)
			if err != nil {
				fatal("Failed to read body", err)
			}
			body = string(data)
		}

		a := core.NewArticle(core.Metadata{})
		a.ID = writeID
		a.Title = writeTitle
		a.Author = writeAuthor
		a.AuthorURL = writeAuthorURL
		a.Category = writeCategory
		a.PublishedOn = writePublished
		a.Body = body

		if a.PublishedOn != "" {
			if _, ok := core.ParseTimestamp(a.PublishedOn); !ok {
				fatal("Invalid --published", fmt.Errorf("unrecognized timestamp %q", a.PublishedOn))
			}
		}

		svc := openService()
		defer svc.Close()

		ctx := context.Background()
		if writeID == "" {
			if err := svc.Insert(ctx, a, nil); err != nil {
				fatal("Failed to insert article", err)
			}
			fmt.Printf("Article '%s' inserted.\n", a.ID)
			return
		}
		if err := svc.Update(ctx, a, nil); err != nil {
			fatal("Failed to update article", err)
		}
		fmt.Printf("Article '%s' updated.\n", a.ID)
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeID, "id", "", "Identifier of the article to replace")
	writeCmd.Flags().StringVar(&writeTitle, "title", "", "Article title")
	writeCmd.Flags().StringVar(&writeAuthor, "author", "", "Author name")
	writeCmd.Flags().StringVar(&writeAuthorURL, "author-url", "", "Author URL")
	writeCmd.Flags().StringVar(&writeCategory, "category", "", "Category")
	writeCmd.Flags().StringVar(&writePublished, "published", "", "Publication date (e.g. 2015-02-17); empty for a draft")
	writeCmd.Flags().StringVar(&writeBody, "body", "", "Markdown body")
	writeCmd.Flags().StringVar(&writeBodyFile, "body-file", "", "Read the markdown body from a file")
	writeCmd.MarkFlagRequired("title")
	writeCmd.MarkFlagsMutuallyExclusive("body", "body-file")
}
