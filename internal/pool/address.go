package pool

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"yieldScope/internal/config"
	"yieldScope/internal/model"
)

// ParseAddress validates a 0x-prefixed hex address and returns its lowercase form.
func ParseAddress(input string) (model.PoolAddress, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "0x") && !strings.HasPrefix(input, "0X") {
		return "", newError(KindInvalidAddress, input, fmt.Errorf("missing 0x prefix"))
	}
	if !common.IsHexAddress(input) {
		return "", newError(KindInvalidAddress, input, fmt.Errorf("not a 20-byte hex address"))
	}
	return model.PoolAddress(strings.ToLower(common.HexToAddress(input).Hex())), nil
}

// ParseEntries converts configured pools into validated entries, keeping order.
func ParseEntries(pools []config.PoolConfig) ([]model.PoolEntry, error) {
	entries := make([]model.PoolEntry, 0, len(pools))
	seen := make(map[model.PoolAddress]struct{}, len(pools))
	for i, p := range pools {
		addr, err := ParseAddress(p.Address)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[addr]; ok {
			return nil, newError(KindInvalidAddress, addr.String(), fmt.Errorf("duplicate pool entry"))
		}
		seen[addr] = struct{}{}

		dex, err := model.ParseDexType(p.Dex)
		if err != nil {
			return nil, fmt.Errorf("pool %d (%s): %w", i, addr, err)
		}
		entries = append(entries, model.PoolEntry{Address: addr, DexType: dex})
	}
	return entries, nil
}
