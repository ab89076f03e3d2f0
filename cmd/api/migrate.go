package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jryandunlap/brain-dump/internal/config"
	"github.com/jryandunlap/brain-dump/internal/logger"
	"github.com/jryandunlap/brain-dump/internal/repository/postgres"
)

func migrateCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}

	withStorage := func(ctx context.Context, fn func(*postgres.Storage) error) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		defer logger.Sync()
		if cfg.Repository.Type != config.RepositoryPostgres {
			return fmt.Errorf("migrations need repository.type %q, got %q", config.RepositoryPostgres, cfg.Repository.Type)
		}
		storage, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer storage.Close()
		return fn(storage)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(s *postgres.Storage) error {
				return s.Migrate(cmd.Context())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(s *postgres.Storage) error {
				return s.Down(cmd.Context())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "to <version>",
		Short: "Migrate up or down to a specific version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return withStorage(cmd.Context(), func(s *postgres.Storage) error {
				return s.MigrateTo(cmd.Context(), uint(version))
			})
		},
	})
	return cmd
}
