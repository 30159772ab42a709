package ammmath

import "math"

// Tick bounds of concentrated-liquidity pools.
const (
	MinTick = -887272
	MaxTick = 887272
)

const tickBase = 1.0001

// TickToPrice converts a tick into the price of token1 denominated in token0,
// adjusted for the decimals of both tokens.
func TickToPrice(tick int32, decimals0, decimals1 uint8) float64 {
	priceTick := math.Pow(tickBase, float64(tick))
	adjust := int(decimals1) - int(decimals0)
	return priceTick / math.Pow10(adjust)
}
