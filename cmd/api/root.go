package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/logging"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Library API: authors and their books with shaped, sortable, pageable listings",
	Long: `Library API serves /api/authors and /api/authors/{id}/books.

Settings come from the environment, optionally seeded from a .env file:
  DATABASE_URL          Postgres DSN (required)
  API_ADDR              listen address (default :3000)
  REDIS_URL/REDIS_ADDR  enables rate limiting
  TRUSTED_PROXIES       proxies whose X-Forwarded-For is believed
  LOG_LEVEL, LOG_FORMAT zerolog level and json|console

Commands:
  api serve   start the HTTP server
  api seed    replace the stored authors with sample data`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

// loadConfig reads settings and builds the root logger from them.
func loadConfig() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("config: %w", err)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat).With().Str("env", cfg.AppEnv).Logger()
	return cfg, log, nil
}
