package model

// TokenMeta captures ERC20 metadata read directly from a token contract.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
}

// Token returns the pool-facing view of the metadata.
func (m TokenMeta) Token() Token {
	return Token{Address: m.Address, Symbol: m.Symbol, Decimals: m.Decimals}
}
