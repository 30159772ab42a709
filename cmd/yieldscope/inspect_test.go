package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"yieldScope/internal/model"
)

func TestCompareToken(t *testing.T) {
	got := model.Token{Address: "0xa0b8", Symbol: "USDC", Decimals: 6}

	require.Empty(t, compareToken("token0", got, model.TokenMeta{Symbol: "USDC", Decimals: 6}))
	require.Empty(t, compareToken("token0", got, model.TokenMeta{Decimals: 6}), "empty symbol is not a mismatch")

	diff := compareToken("token1", got, model.TokenMeta{Symbol: "USDC.e", Decimals: 18})
	require.Len(t, diff, 2)
	require.Contains(t, diff[0], "token1 decimals")
	require.Contains(t, diff[1], "token1 symbol")
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = newLogger("loud")
	require.Error(t, err)
}
