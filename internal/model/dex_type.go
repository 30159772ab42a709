package model

import (
	"fmt"
	"strings"
)

// DexType tags the exchange protocol a pool belongs to.
type DexType string

const (
	DexUniswapV3     DexType = "UniswapV3"
	DexPancakeSwapV3 DexType = "PancakeSwapV3"
)

// ParseDexType accepts the canonical names case-insensitively, with or
// without separators ("uniswap-v3", "pancakeswap_v3").
func ParseDexType(input string) (DexType, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "uniswapv3":
		return DexUniswapV3, nil
	case "pancakeswapv3":
		return DexPancakeSwapV3, nil
	default:
		return "", fmt.Errorf("unsupported dex type: %q", input)
	}
}

func (d DexType) String() string {
	return string(d)
}

// UnmarshalText lets config and JSON decoders accept any spelling ParseDexType does.
func (d *DexType) UnmarshalText(text []byte) error {
	parsed, err := ParseDexType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
