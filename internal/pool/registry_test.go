package pool

import (
	"testing"

	"yieldScope/internal/model"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, addr := range []model.PoolAddress{"0x03", "0x01", "0x02"} {
		if err := r.insert(model.Pool{Address: addr}); err != nil {
			t.Fatalf("insert %s: %v", addr, err)
		}
	}
	if err := r.insert(model.Pool{Address: "0x02"}); err == nil {
		t.Fatalf("expected duplicate insert to fail")
	}

	if r.Len() != 3 {
		t.Fatalf("len = %d, want 3", r.Len())
	}
	if _, ok := r.Get("0x02"); !ok {
		t.Fatalf("missing 0x02")
	}
	if _, ok := r.Get("0x04"); ok {
		t.Fatalf("unexpected 0x04")
	}

	list := r.List()
	addrs := r.Addresses()
	for i, want := range []model.PoolAddress{"0x01", "0x02", "0x03"} {
		if list[i].Address != want || addrs[i] != want {
			t.Fatalf("position %d: got %s/%s, want %s", i, list[i].Address, addrs[i], want)
		}
	}
}
