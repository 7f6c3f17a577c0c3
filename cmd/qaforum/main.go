package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/qaforum/internal/config"
	"github.com/saltyorg/qaforum/internal/database"
	"github.com/saltyorg/qaforum/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	dbPath    string
	logFile   string
	verbosity int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qaforum",
		Short: "qaforum - Q&A forum database toolkit",
		Long:  `qaforum reads and writes a SQLite Q&A forum database: questions, users, threaded replies, follows and likes.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", config.DefaultDBPath, "SQLite database path (or set QAFORUM_DB)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file, rotated; \"auto\" puts it next to the database (or set QAFORUM_LOG_FILE)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(
		initCmd(),
		seedCmd(),
		showCmd(),
		topCmd(),
		karmaCmd(),
		maintainCmd(),
		serveCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("qaforum %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves flags and environment into a Config and applies logging
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.Default()
	cfg.DBPath = dbPath
	cfg.Log.File = logFile
	if verbosity > 0 {
		cfg.Log.Level = logging.LevelFromVerbosity(verbosity)
	}

	if f := cmd.Flags().Lookup("listen"); f != nil {
		cfg.Listen = f.Value.String()
	}
	if f := cmd.Flags().Lookup("allow-subnet"); f != nil {
		cfg.AllowSubnet = f.Value.String()
	}
	if f := cmd.Flags().Lookup("optimize-schedule"); f != nil {
		cfg.OptimizeSchedule = f.Value.String()
	}

	explicit := func(key string) bool {
		if key == "log-level" {
			return verbosity > 0
		}
		return cmd.Flags().Changed(key)
	}
	cfg = config.Apply(cfg, config.NewLoader(config.EnvGetter{Prefix: config.EnvPrefix}), explicit)
	if cfg.Log.File == "auto" {
		cfg.Log.File = logging.FilePathForDB(cfg.DBPath)
	}

	logging.Apply(cfg.Log)
	return cfg
}

// openDB opens the configured database. Failing to open it is fatal.
func openDB(cfg config.Config) *database.DB {
	db, err := database.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open database")
	}
	return db
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the forum tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			db := openDB(cfg)
			defer db.Close()

			if err := db.EnsureSchema(); err != nil {
				return fmt.Errorf("failed to create schema: %w", err)
			}
			log.Info().Str("database", cfg.DBPath).Msg("Schema ready")
			return nil
		},
	}
}
