package pool

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"yieldScope/internal/ammmath"
	"yieldScope/internal/model"
)

// FeeScale converts the contract's integer fee (hundredths of a bip) to a
// percent: 3000 becomes 0.3.
const FeeScale = 10_000

var feeScale = decimal.NewFromInt(FeeScale)

// BuildRecord normalizes a raw getPoolDetails response into a pool record.
func BuildRecord(raw model.PoolDetails, address model.PoolAddress, dex model.DexType) (model.Pool, error) {
	malformed := func(format string, args ...interface{}) (model.Pool, error) {
		return model.Pool{}, newError(KindMalformedResponse, address.String(), fmt.Errorf(format, args...))
	}

	if raw.Token0 == (common.Address{}) {
		return malformed("missing token0 address")
	}
	if raw.Token1 == (common.Address{}) {
		return malformed("missing token1 address")
	}
	if strings.TrimSpace(raw.Token0Symbol) == "" {
		return malformed("missing token0 symbol")
	}
	if strings.TrimSpace(raw.Token1Symbol) == "" {
		return malformed("missing token1 symbol")
	}
	if raw.Fee == nil {
		return malformed("missing fee")
	}
	if raw.Fee.Sign() < 0 {
		return malformed("negative fee %s", raw.Fee)
	}
	if raw.TickSpacing == nil {
		return malformed("missing tick spacing")
	}
	if raw.CurrentTick == nil {
		return malformed("missing current tick")
	}

	tickSpacing, err := int24FromBig(raw.TickSpacing)
	if err != nil {
		return malformed("tick spacing: %v", err)
	}
	currentTick, err := int24FromBig(raw.CurrentTick)
	if err != nil {
		return malformed("current tick: %v", err)
	}

	fee, _ := decimal.NewFromBigInt(raw.Fee, 0).Div(feeScale).Float64()

	price1 := ammmath.TickToPrice(currentTick, raw.Token0Decimals, raw.Token1Decimals)
	if price1 == 0 || math.IsInf(price1, 0) || math.IsNaN(price1) {
		return malformed("price1 %v out of range for tick %d", price1, currentTick)
	}
	price0 := 1 / price1
	if math.IsInf(price0, 0) || math.IsNaN(price0) {
		return malformed("price0 %v out of range for tick %d", price0, currentTick)
	}

	return model.Pool{
		Address: address,
		DexType: dex,
		Token0: model.Token{
			Address:  strings.ToLower(raw.Token0.Hex()),
			Symbol:   raw.Token0Symbol,
			Decimals: raw.Token0Decimals,
		},
		Token1: model.Token{
			Address:  strings.ToLower(raw.Token1.Hex()),
			Symbol:   raw.Token1Symbol,
			Decimals: raw.Token1Decimals,
		},
		Fee:         fee,
		TickSpacing: tickSpacing,
		CurrentTick: currentTick,
		Price0:      price0,
		Price1:      price1,
	}, nil
}

func int24FromBig(value *big.Int) (int32, error) {
	min := big.NewInt(-1 << 23)
	max := big.NewInt((1 << 23) - 1)
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		return 0, fmt.Errorf("int24 overflow: %s", value.String())
	}
	return int32(value.Int64()), nil
}
