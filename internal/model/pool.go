package model

// PoolAddress is a lowercase, 0x-prefixed pool contract address.
type PoolAddress string

func (a PoolAddress) String() string {
	return string(a)
}

// Token describes one side of a pool.
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// Pool is the normalized pool record served to clients.
type Pool struct {
	Address     PoolAddress `json:"address"`
	DexType     DexType     `json:"dex_type"`
	Token0      Token       `json:"token0"`
	Token1      Token       `json:"token1"`
	Fee         float64     `json:"fee"`
	TickSpacing int32       `json:"tick_spacing"`
	CurrentTick int32       `json:"current_tick"`
	Price0      float64     `json:"price0"`
	Price1      float64     `json:"price1"`
}

// PoolEntry is a configured pool to load at startup.
type PoolEntry struct {
	Address PoolAddress
	DexType DexType
}
