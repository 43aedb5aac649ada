package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/meridianbank/ledgercore"
	"github.com/meridianbank/ledgercore/config"
	"github.com/meridianbank/ledgercore/domain"
	"github.com/meridianbank/ledgercore/driver/postgres"
	extlogrus "github.com/meridianbank/ledgercore/extension/logrus"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create the event store tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			db, err := sql.Open("postgres", cfg.Postgres.DSN)
			if err != nil {
				return fmt.Errorf("open postgres: %w", err)
			}
			defer db.Close()

			registry := ledgercore.NewPayloadRegistry()
			if err := domain.RegisterPayloads(registry); err != nil {
				return err
			}

			logger := extlogrus.StandardLogger()
			store, err := postgres.NewEventStore(db, registry, logger, nil)
			if err != nil {
				return err
			}
			if err := store.Create(cmd.Context()); err != nil {
				return err
			}

			logger.Info("event store schema created")

			return nil
		},
	}
}
