package model

import (
	"encoding/json"
	"testing"
)

func TestOHLCVEntryFromArray(t *testing.T) {
	payload := `{"data":{"id":"eth_0xabc","attributes":{"ohlcv_list":[[1700000000,1.5,2,1.25,1.75,12345.5],[1699913600.0,1,1,1,1,0]]}}}`

	var resp OHLCVResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	list := resp.Data.Attributes.OHLCVList
	if len(list) != 2 {
		t.Fatalf("entries: got %d, want 2", len(list))
	}
	want := OHLCVEntry{Timestamp: 1700000000, Open: 1.5, High: 2, Low: 1.25, Close: 1.75, Volume: 12345.5}
	if list[0] != want {
		t.Fatalf("entry mismatch: %+v != %+v", list[0], want)
	}
	if list[1].Timestamp != 1699913600 {
		t.Fatalf("float timestamp not converted: %d", list[1].Timestamp)
	}
}

func TestOHLCVEntryRejectsShortArray(t *testing.T) {
	var entry OHLCVEntry
	if err := json.Unmarshal([]byte(`[1700000000,1,2]`), &entry); err == nil {
		t.Fatalf("expected error for short entry")
	}
}

func TestOHLCVEntryEncodesAsArray(t *testing.T) {
	data, err := json.Marshal(OHLCVEntry{Timestamp: 10, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 3})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `[10,1,2,0.5,1.5,3]` {
		t.Fatalf("unexpected encoding: %s", data)
	}
}
