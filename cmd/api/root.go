package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/config"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "gigboard marketplace API",
	Long: `gigboard serves the freelance marketplace REST API.

Examples:
  api serve               # run the HTTP server (default)
  api serve --migrate     # apply schema changes, then serve
  api migrate             # apply schema changes and exit`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")
}

// bootstrap loads the environment and builds the config and logger shared by
// every command.
func bootstrap() (config.Config, *logrus.Logger) {
	_ = godotenv.Load(envFile)

	cfg := config.Load()
	log := logger.New()
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))
	return cfg, log
}
