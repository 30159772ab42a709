package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldScope/internal/app"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, ctx, stop, err := setup(cmd)
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	logger.Info("yieldscope start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("contract", cfg.ContractAddress),
		zap.Int("pools", len(cfg.Pools)),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Int("port", cfg.Port),
	)

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Error("yieldscope stopped", zap.Error(err))
		return err
	}
	logger.Info("yieldscope stopped")
	return nil
}
