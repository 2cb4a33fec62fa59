package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openrentals/listingdesk/internal/identity"
	"github.com/openrentals/listingdesk/internal/record"
	"github.com/openrentals/listingdesk/internal/server"
)

func main() {
	root := &cobra.Command{
		Use:   "listingdesk",
		Short: "Property listing wizard server",
	}
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the listing wizard API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)

			if err := godotenv.Load(); err != nil {
				log.Warn().Msg("no .env file found, using environment variables")
			}
			if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
				zerolog.SetGlobalLevel(level)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var records record.Store
			if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
				store, err := record.OpenSQLite(ctx, dsn)
				if err != nil {
					return err
				}
				defer store.Close()
				records = store
				log.Info().Str("dsn", dsn).Msg("using sqlite record store")
			} else {
				records = record.NewMemoryStore()
				log.Warn().Msg("DATABASE_URL not set, using in-memory record store")
			}

			landlordID := os.Getenv("LANDLORD_ID")
			if landlordID == "" {
				landlordID = "landlord-dev"
			}
			ident := identity.NewStatic(landlordID, os.Getenv("LANDLORD_NAME"))

			port := 8080
			if p := os.Getenv("PORT"); p != "" {
				if v, err := strconv.Atoi(p); err == nil {
					port = v
				}
			}

			return server.Run(ctx, server.Config{
				Port:     port,
				Records:  records,
				Identity: ident,
				Logger:   log.Logger,
			})
		},
	}
}
