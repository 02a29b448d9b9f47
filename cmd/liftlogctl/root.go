package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/db"
	"github.com/2beens/liftlog/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

const connectTimeout = 10 * time.Second

var (
	flagEnv        string
	flagConfigPath string

	dbPool *pgxpool.Pool
)

var rootCmd = &cobra.Command{
	Use:   "liftlogctl",
	Short: "Admin tool for the liftlog backend",
	Long: `liftlogctl manages the liftlog database.

  $ liftlogctl migrate                                 # Apply the schema
  $ liftlogctl user add --username ana --password ...  # Create a user

Database password is read from LIFTLOG_DB_PASS.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		cfg, err := config.Load(flagEnv, flagConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logging.Setup(logging.LoggerSetupParams{
			LogLevel:    cfg.LogLevel,
			LogToStdout: true,
			Environment: cfg.Environment,
		})

		ctx, cancel := context.WithTimeout(cmd.Context(), connectTimeout)
		defer cancel()

		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: os.Getenv("LIFTLOG_DB_PASS"),
		})
		if err != nil {
			return fmt.Errorf("db pool: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbPool != nil {
			dbPool.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnv, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "./config.toml", "path for the TOML config file")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
}
