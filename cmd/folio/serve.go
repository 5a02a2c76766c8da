package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/internal/server"
	"github.com/aretw0/folio/internal/storage/sqlite"
)

var (
	serveAddr string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the articles API backed by SQLite",
	Long: `Serve exposes GET/POST/DELETE /articles and PUT/DELETE /articles/{id}
on top of a SQLite database, so that other folio commands can use it
as a REST store.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		addr := serveAddr
		if addr == "" {
			addr = env.Addr
		}
		dbPath := serveDB
		if dbPath == "" {
			dbPath = env.DB
		}

		store, err := sqlite.Open(dbPath)
		if err != nil {
			fatal("Failed to open database", err)
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.Info("serving articles", "db", dbPath)
		if err := server.New(store, slog.Default()).Run(ctx, addr); err != nil {
			fatal("Server failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default $FOLIO_ADDR)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database file (default $FOLIO_DB)")
}
