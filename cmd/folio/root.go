package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/core"
)

var (
	verbose   bool
	storeURI  string
	dataset   string
	seedLimit int
	env       folio.Env
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Keep an ordered article collection in step with a remote store",
	Long: `Folio reads every article from a store (a REST endpoint, a directory of
markdown files or a SQLite database), seeds the store from a bootstrap
dataset when it is empty, and writes single articles back.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		loaded, err := folio.LoadEnv()
		if err != nil {
			fatal("Invalid environment", err)
		}
		env = loaded
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&storeURI, "store", "s", "", "Store URI: http(s) URL, sqlite://file or directory (default $FOLIO_STORE, then the nearest .folio directory, then ./articles)")
	rootCmd.PersistentFlags().StringVar(&dataset, "bootstrap", "", "Seed dataset: file, directory, glob or \"embedded\" (default $FOLIO_BOOTSTRAP)")
	rootCmd.PersistentFlags().IntVar(&seedLimit, "max-seed-passes", -1, "Stop after this many seeding passes, 0 for no bound (default $FOLIO_MAX_SEED_PASSES)")
}

// resolveStore applies flag > environment > discovered root > ./articles.
func resolveStore() string {
	if storeURI != "" {
		return storeURI
	}
	if env.Store != "" {
		return env.Store
	}
	if wd, err := os.Getwd(); err == nil {
		if root, err := folio.FindRoot(wd); err == nil {
			return root
		}
	}
	return "articles"
}

// openService builds the service for the resolved store.
func openService(extra ...folio.Option) *core.Service {
	opts := append(env.Options(), folio.WithLogger(slog.Default()))
	if dataset != "" {
		opts = append(opts, folio.WithDataset(dataset))
	}
	if seedLimit >= 0 {
		opts = append(opts, folio.WithMaxSeedPasses(seedLimit))
	}
	opts = append(opts, extra...)

	svc, err := folio.New(resolveStore(), opts...)
	if err != nil {
		fatal("Failed to initialize folio", err)
	}
	return svc
}

// fetch opens the service and populates its collection.
func fetch(ctx context.Context) *core.Service {
	svc := openService()
	if err := svc.FetchAll(ctx, nil); err != nil {
		_ = svc.Close()
		fatal("Failed to fetch articles", err)
	}
	return svc
}
