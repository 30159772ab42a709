package model

import (
	"encoding/json"
	"fmt"
)

// OHLCVResponse mirrors the CoinGecko onchain pool OHLCV payload.
type OHLCVResponse struct {
	Data OHLCVData `json:"data"`
}

type OHLCVData struct {
	ID         string          `json:"id"`
	Attributes OHLCVAttributes `json:"attributes"`
}

type OHLCVAttributes struct {
	OHLCVList []OHLCVEntry `json:"ohlcv_list"`
}

// OHLCVEntry is one candle. On the wire it is a six element array:
// [unix timestamp, open, high, low, close, volume].
type OHLCVEntry struct {
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

func (e OHLCVEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.Timestamp, e.Open, e.High, e.Low, e.Close, e.Volume})
}

func (e *OHLCVEntry) UnmarshalJSON(data []byte) error {
	var raw []json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("ohlcv entry: %w", err)
	}
	if len(raw) != 6 {
		return fmt.Errorf("ohlcv entry: expected 6 values, got %d", len(raw))
	}

	ts, err := raw[0].Int64()
	if err != nil {
		// Some responses carry the timestamp as a float.
		f, ferr := raw[0].Float64()
		if ferr != nil {
			return fmt.Errorf("ohlcv timestamp: %w", err)
		}
		ts = int64(f)
	}

	values := make([]float64, 5)
	for i := range values {
		v, err := raw[i+1].Float64()
		if err != nil {
			return fmt.Errorf("ohlcv value %d: %w", i+1, err)
		}
		values[i] = v
	}

	*e = OHLCVEntry{
		Timestamp: ts,
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}
	return nil
}
