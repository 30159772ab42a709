package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldScope/internal/app"
	"yieldScope/internal/config"
	"yieldScope/internal/storage"
	"yieldScope/internal/storage/postgres"
)

func loadOnce(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app.Loaded, error) {
	startupCtx, cancel := context.WithTimeout(ctx, cfg.StartupTimeout)
	defer cancel()
	return app.LoadPools(startupCtx, cfg, logger, nil)
}

func runPools(cmd *cobra.Command, _ []string) error {
	cfg, logger, ctx, stop, err := setup(cmd)
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	loaded, err := loadOnce(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer loaded.Client.Close()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(loaded.Registry.List())
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, logger, ctx, stop, err := setup(cmd)
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	out, _ := cmd.Flags().GetString("out")
	dsn, _ := cmd.Flags().GetString("pg-dsn")
	if out == "" && dsn == "" {
		return errors.New("export needs --out or --pg-dsn")
	}

	loaded, err := loadOnce(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer loaded.Client.Close()

	snap := storage.NewSnapshot(loaded.ChainID, loaded.Registry.List())

	var sinks []storage.Sink
	if out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(out))
	}
	if dsn != "" {
		store, err := postgres.NewStore(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		sinks = append(sinks, store)
	}

	for _, sink := range sinks {
		if err := sink.PutSnapshot(ctx, snap); err != nil {
			return err
		}
	}

	logger.Info("snapshot exported",
		zap.String("snapshot_id", snap.ID.String()),
		zap.Uint64("chain_id", snap.ChainID),
		zap.Int("pools", len(snap.Pools)),
		zap.String("out", out),
		zap.Bool("postgres", dsn != ""),
	)
	return nil
}
