package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldScope/internal/chain"
	"yieldScope/internal/dex"
	"yieldScope/internal/model"
	"yieldScope/internal/pool"
)

type inspectReport struct {
	Pool     model.Pool       `json:"pool"`
	Token0   *model.TokenMeta `json:"token0_meta,omitempty"`
	Token1   *model.TokenMeta `json:"token1_meta,omitempty"`
	Mismatch []string         `json:"mismatch,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, logger, ctx, stop, err := setup(cmd)
	if err != nil {
		return err
	}
	defer stop()
	defer logger.Sync()

	dexName, _ := cmd.Flags().GetString("dex")
	dexType, err := model.ParseDexType(dexName)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL, chain.Options{
		RateLimit:    cfg.RPCRateLimit,
		Burst:        cfg.RPCBurst,
		Timeout:      cfg.RPCTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	contract := common.HexToAddress(cfg.ContractAddress)
	hasCode, err := client.HasCode(ctx, contract)
	if err != nil {
		return fmt.Errorf("check contract code: %w", err)
	}
	if !hasCode {
		return fmt.Errorf("no contract deployed at %s", contract.Hex())
	}

	reader := dex.NewReader(client, contract, logger)
	cache := dex.NewTokenMetaCache()
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	var failed int
	for _, arg := range args {
		report := inspectPool(ctx, reader, client, cache, arg, dexType, logger)
		if report.Error != "" || len(report.Mismatch) > 0 {
			failed++
		}
		if err := enc.Encode(report); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pools failed inspection", failed, len(args))
	}
	return nil
}

func inspectPool(ctx context.Context, reader *dex.Reader, caller dex.ContractCaller, cache *dex.TokenMetaCache, input string, dexType model.DexType, logger *zap.Logger) inspectReport {
	var report inspectReport

	address, err := pool.ParseAddress(input)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Pool.Address = address
	report.Pool.DexType = dexType

	details, err := reader.FetchPoolDetails(ctx, address)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	record, err := pool.BuildRecord(details, address, dexType)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Pool = record

	var errs []error
	if meta, err := dex.CachedTokenMeta(ctx, cache, caller, details.Token0, logger); err != nil {
		errs = append(errs, fmt.Errorf("token0 metadata: %w", err))
	} else {
		report.Token0 = &meta
		report.Mismatch = append(report.Mismatch, compareToken("token0", record.Token0, meta)...)
	}
	if meta, err := dex.CachedTokenMeta(ctx, cache, caller, details.Token1, logger); err != nil {
		errs = append(errs, fmt.Errorf("token1 metadata: %w", err))
	} else {
		report.Token1 = &meta
		report.Mismatch = append(report.Mismatch, compareToken("token1", record.Token1, meta)...)
	}
	if err := errors.Join(errs...); err != nil {
		report.Error = err.Error()
	}
	return report
}

// compareToken reports where the contract's view of a token disagrees with
// the token's own ERC20 metadata.
func compareToken(side string, got model.Token, meta model.TokenMeta) []string {
	var out []string
	if got.Decimals != meta.Decimals {
		out = append(out, fmt.Sprintf("%s decimals: contract %d, token %d", side, got.Decimals, meta.Decimals))
	}
	if meta.Symbol != "" && got.Symbol != meta.Symbol {
		out = append(out, fmt.Sprintf("%s symbol: contract %q, token %q", side, got.Symbol, meta.Symbol))
	}
	return out
}
