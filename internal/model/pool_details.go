package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolDetails is the raw getPoolDetails response of the yield contract.
// Integer fields keep their on-chain width: fee is uint24, tick spacing and
// current tick are int24.
type PoolDetails struct {
	Token0         common.Address
	Token0Symbol   string
	Token0Decimals uint8
	Token1         common.Address
	Token1Symbol   string
	Token1Decimals uint8
	Fee            *big.Int
	TickSpacing    *big.Int
	CurrentTick    *big.Int
}
