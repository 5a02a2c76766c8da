package main

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/adapters/render"
)

var (
	renderOut   string
	renderTitle string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the article collection as an HTML page",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := fetch(context.Background())
		defer svc.Close()

		r, err := render.New(nil)
		if err != nil {
			fatal("Failed to load templates", err)
		}

		out := os.Stdout
		if renderOut != "" {
			f, err := os.Create(renderOut)
			if err != nil {
				fatal("Failed to create output", err)
			}
			defer f.Close()
			out = f
		}

		w := bufio.NewWriter(out)
		if err := r.Page(w, renderTitle, svc.Collection().All(), time.Now()); err != nil {
			fatal("Failed to render", err)
		}
		if err := w.Flush(); err != nil {
			fatal("Failed to write output", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write to this file instead of stdout")
	renderCmd.Flags().StringVar(&renderTitle, "title", "Articles", "Page title")
}
