package dex

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

func erc20Caller(t *testing.T, calls *int) *fakeCaller {
	t.Helper()
	stringABI, err := erc20StringABI.get()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	bytes32ABI, err := erc20Bytes32ABI.get()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	return &fakeCaller{respond: func(msg ethereum.CallMsg) ([]byte, error) {
		*calls++
		selector := msg.Data[:4]
		switch {
		case bytes.Equal(selector, stringABI.Methods["decimals"].ID):
			return stringABI.Methods["decimals"].Outputs.Pack(uint8(6))
		case bytes.Equal(selector, stringABI.Methods["symbol"].ID):
			return stringABI.Methods["symbol"].Outputs.Pack("USDC")
		case bytes.Equal(selector, stringABI.Methods["name"].ID):
			var name [32]byte
			copy(name[:], "Maker")
			return bytes32ABI.Methods["name"].Outputs.Pack(name)
		default:
			return nil, errors.New("unknown selector")
		}
	}}
}

func TestFetchTokenMeta(t *testing.T) {
	calls := 0
	token := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")

	meta, err := FetchTokenMeta(context.Background(), erc20Caller(t, &calls), token, nil)
	if err != nil {
		t.Fatalf("FetchTokenMeta: %v", err)
	}
	if meta.Decimals != 6 || meta.Symbol != "USDC" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.Name != "Maker" {
		t.Fatalf("bytes32 name fallback failed: %q", meta.Name)
	}
	if meta.Address != token.Hex() {
		t.Fatalf("address mismatch: %s", meta.Address)
	}
}

func TestCachedTokenMeta(t *testing.T) {
	calls := 0
	caller := erc20Caller(t, &calls)
	cache := NewTokenMetaCache()
	token := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")

	if _, err := CachedTokenMeta(context.Background(), cache, caller, token, nil); err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	first := calls
	if _, err := CachedTokenMeta(context.Background(), cache, caller, token, nil); err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if calls != first {
		t.Fatalf("cache miss on second lookup: %d calls, want %d", calls, first)
	}
}

func TestFetchTokenMetaDecimalsRequired(t *testing.T) {
	caller := &fakeCaller{respond: func(ethereum.CallMsg) ([]byte, error) { return nil, errors.New("reverted") }}
	if _, err := FetchTokenMeta(context.Background(), caller, common.Address{}, nil); err == nil {
		t.Fatalf("expected error when decimals call fails")
	}
}
