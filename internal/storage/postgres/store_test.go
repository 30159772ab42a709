package postgres

import (
	"context"
	"strings"
	"testing"

	"yieldScope/internal/model"
	"yieldScope/internal/storage"
)

func TestUpsertArgsMatchPlaceholders(t *testing.T) {
	snap := storage.NewSnapshot(56, nil)
	p := model.Pool{
		Address:     "0x36696169c63e42cd08ce11f5deebbcebae652050",
		DexType:     model.DexPancakeSwapV3,
		Token0:      model.Token{Address: "0x55d398326f99059ff775485246999027b3197955", Symbol: "USDT", Decimals: 18},
		Token1:      model.Token{Address: "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c", Symbol: "WBNB", Decimals: 18},
		Fee:         0.05,
		TickSpacing: 10,
		CurrentTick: -57000,
	}

	args := upsertArgs(snap, p)
	if got, want := len(args), strings.Count(upsertPool, "$"); got != want {
		t.Fatalf("args = %d, placeholders = %d", got, want)
	}
	if args[0] != int64(56) || args[1] != p.Address.String() || args[2] != "PancakeSwapV3" {
		t.Fatalf("identity args mismatch: %v", args[:3])
	}
	if args[14] != snap.ID {
		t.Fatalf("snapshot id not bound")
	}
}

func TestNewStoreRequiresDSN(t *testing.T) {
	if _, err := NewStore(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}
