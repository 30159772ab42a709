package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"yieldScope/internal/model"
)

func TestJsonlStoragePutSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "pools.jsonl")
	store := NewJsonlStorage(path)

	snap := NewSnapshot(1, []model.Pool{
		{Address: "0x01", DexType: model.DexUniswapV3, Fee: 0.3, Price0: 2, Price1: 0.5},
		{Address: "0x02", DexType: model.DexPancakeSwapV3, Fee: 0.05, Price0: 1, Price1: 1},
	})
	if err := store.PutSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}
	if err := store.PutSnapshot(context.Background(), NewSnapshot(1, snap.Pools[:1])); err != nil {
		t.Fatalf("second PutSnapshot: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		lines = append(lines, line)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0]["snapshot_id"] != snap.ID.String() || lines[1]["snapshot_id"] != snap.ID.String() {
		t.Fatalf("snapshot id missing: %v", lines[0])
	}
	if lines[2]["snapshot_id"] == snap.ID.String() {
		t.Fatalf("second snapshot reused the first id")
	}
	if lines[0]["address"] != "0x01" || lines[1]["dex_type"] != "PancakeSwapV3" {
		t.Fatalf("pool fields not inlined: %v", lines[0])
	}
}

func TestJsonlStorageEmptySnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.jsonl")
	if err := NewJsonlStorage(path).PutSnapshot(context.Background(), NewSnapshot(1, nil)); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("empty snapshot should not create a file")
	}
}
