package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"yieldScope/internal/config"
)

// @title        yieldScope API
// @version      1.0
// @description  Liquidity pool metadata loaded from the yield contract at startup.
// @BasePath     /
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = os.Stderr.WriteString("load .env: " + err.Error() + "\n")
	}

	root := &cobra.Command{
		Use:          "yieldscope",
		Short:        "Liquidity pool state service backed by the yield contract",
		SilenceUsage: true,
		RunE:         runServe,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("rpc", "", "EVM RPC URL")
	flags.Uint64("chain-id", 0, "expected chain id, 0 skips the check")
	flags.String("contract-address", "", "yield contract address")
	flags.Int("max-concurrency", 8, "maximum concurrent pool loads")
	flags.Float64("rpc-rate-limit", 20, "RPC requests per second, 0 disables limiting")
	flags.Int("rpc-burst", 10, "RPC rate limiter burst")
	flags.Duration("rpc-timeout", 10*time.Second, "timeout per RPC attempt")
	flags.Int("max-retries", 3, "maximum retry attempts per RPC call")
	flags.Duration("retry-backoff", 250*time.Millisecond, "initial retry backoff")
	flags.Duration("startup-timeout", 60*time.Second, "deadline for loading every pool")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("trace", false, "print OpenTelemetry spans to stderr")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Load all pools, then serve the HTTP API",
		RunE:  runServe,
	}
	addServeFlags(root.Flags())
	addServeFlags(serveCmd.Flags())
	root.AddCommand(serveCmd)

	poolsCmd := &cobra.Command{
		Use:   "pools",
		Short: "Load all pools once and print them as JSON",
		RunE:  runPools,
	}
	root.AddCommand(poolsCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Load all pools once and write a snapshot",
		RunE:  runExport,
	}
	exportCmd.Flags().String("out", "", "output JSONL path")
	exportCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	root.AddCommand(exportCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect [pool...]",
		Short: "Read pool details and cross-check token metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().String("dex", "uniswapv3", "dex type recorded for inspected pools")
	root.AddCommand(inspectCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addServeFlags(set *pflag.FlagSet) {
	set.Int("port", 8080, "HTTP listen port")
	set.String("coingecko-url", "https://api.coingecko.com/api/v3", "CoinGecko API base URL")
	set.String("coingecko-network", "eth", "CoinGecko onchain network id")
	set.String("coingecko-api-key", "", "CoinGecko demo API key")
	set.Duration("coingecko-cache-ttl", 5*time.Minute, "OHLCV cache TTL, 0 disables caching")
}

// setup loads config and builds the logger and a signal-aware context.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, context.Context, context.CancelFunc, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, nil, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, nil, nil, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return cfg, logger, ctx, stop, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
