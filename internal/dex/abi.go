package dex

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const yieldABIJSON = `[
  {
    "inputs": [{"internalType": "address", "name": "pool", "type": "address"}],
    "name": "getPoolDetails",
    "outputs": [
      {
        "components": [
          {"internalType": "address", "name": "token0", "type": "address"},
          {"internalType": "string", "name": "token0Symbol", "type": "string"},
          {"internalType": "uint8", "name": "token0Decimals", "type": "uint8"},
          {"internalType": "address", "name": "token1", "type": "address"},
          {"internalType": "string", "name": "token1Symbol", "type": "string"},
          {"internalType": "uint8", "name": "token1Decimals", "type": "uint8"},
          {"internalType": "uint24", "name": "fee", "type": "uint24"},
          {"internalType": "int24", "name": "tickSpacing", "type": "int24"},
          {"internalType": "int24", "name": "currentTick", "type": "int24"}
        ],
        "internalType": "struct Yield.PoolDetails",
        "name": "",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

// ERC20 ABIs: some older tokens return bytes32 instead of string for
// symbol and name.
const erc20StringABIJSON = `[
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "name", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"}
]`

const erc20Bytes32ABIJSON = `[
  {"inputs": [], "name": "symbol", "outputs": [{"type": "bytes32"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "name", "outputs": [{"type": "bytes32"}], "stateMutability": "view", "type": "function"}
]`

// lazyABI parses its JSON on first use.
type lazyABI struct {
	json   string
	once   sync.Once
	parsed abi.ABI
	err    error
}

func (l *lazyABI) get() (abi.ABI, error) {
	l.once.Do(func() {
		l.parsed, l.err = abi.JSON(strings.NewReader(l.json))
	})
	return l.parsed, l.err
}

var (
	yieldABI        = &lazyABI{json: yieldABIJSON}
	erc20StringABI  = &lazyABI{json: erc20StringABIJSON}
	erc20Bytes32ABI = &lazyABI{json: erc20Bytes32ABIJSON}
)

// YieldABI returns the parsed yield contract ABI.
func YieldABI() (abi.ABI, error) {
	return yieldABI.get()
}
