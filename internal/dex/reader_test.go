package dex

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"yieldScope/internal/model"
	"yieldScope/internal/pool"
)

type poolDetailsOutput struct {
	Token0         common.Address
	Token0Symbol   string
	Token0Decimals uint8
	Token1         common.Address
	Token1Symbol   string
	Token1Decimals uint8
	Fee            *big.Int
	TickSpacing    *big.Int
	CurrentTick    *big.Int
}

type fakeCaller struct {
	respond func(msg ethereum.CallMsg) ([]byte, error)
	msgs    []ethereum.CallMsg
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.msgs = append(f.msgs, msg)
	return f.respond(msg)
}

var (
	testContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	testPool     = model.PoolAddress("0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640")
)

func packDetails(t *testing.T, out poolDetailsOutput) []byte {
	t.Helper()
	parsed, err := YieldABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	data, err := parsed.Methods["getPoolDetails"].Outputs.Pack(out)
	if err != nil {
		t.Fatalf("pack outputs: %v", err)
	}
	return data
}

func TestReaderFetchPoolDetails(t *testing.T) {
	out := poolDetailsOutput{
		Token0:         common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		Token0Symbol:   "USDC",
		Token0Decimals: 6,
		Token1:         common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		Token1Symbol:   "WETH",
		Token1Decimals: 18,
		Fee:            big.NewInt(500),
		TickSpacing:    big.NewInt(10),
		CurrentTick:    big.NewInt(-201234),
	}
	encoded := packDetails(t, out)
	caller := &fakeCaller{respond: func(ethereum.CallMsg) ([]byte, error) { return encoded, nil }}

	details, err := NewReader(caller, testContract, nil).FetchPoolDetails(context.Background(), testPool)
	if err != nil {
		t.Fatalf("FetchPoolDetails: %v", err)
	}

	if details.Token0 != out.Token0 || details.Token1 != out.Token1 {
		t.Fatalf("token addresses mismatch: %+v", details)
	}
	if details.Token0Symbol != "USDC" || details.Token1Symbol != "WETH" {
		t.Fatalf("symbols mismatch: %+v", details)
	}
	if details.Token0Decimals != 6 || details.Token1Decimals != 18 {
		t.Fatalf("decimals mismatch: %+v", details)
	}
	if details.Fee.Int64() != 500 || details.TickSpacing.Int64() != 10 || details.CurrentTick.Int64() != -201234 {
		t.Fatalf("integers mismatch: fee=%s spacing=%s tick=%s", details.Fee, details.TickSpacing, details.CurrentTick)
	}

	if len(caller.msgs) != 1 {
		t.Fatalf("expected 1 call, got %d", len(caller.msgs))
	}
	msg := caller.msgs[0]
	if msg.To == nil || *msg.To != testContract {
		t.Fatalf("call sent to %v, want contract", msg.To)
	}
	parsed, _ := YieldABI()
	if !bytes.Equal(msg.Data[:4], parsed.Methods["getPoolDetails"].ID) {
		t.Fatalf("unexpected selector %x", msg.Data[:4])
	}
	wantArg := common.LeftPadBytes(common.HexToAddress(testPool.String()).Bytes(), 32)
	if !bytes.Equal(msg.Data[4:], wantArg) {
		t.Fatalf("unexpected argument %x", msg.Data[4:])
	}
}

func TestReaderTransportError(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	caller := &fakeCaller{respond: func(ethereum.CallMsg) ([]byte, error) { return nil, boom }}

	_, err := NewReader(caller, testContract, nil).FetchPoolDetails(context.Background(), testPool)
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if pool.KindOf(err) != pool.KindUnknown {
		t.Fatalf("transport error should be left for the caller to classify, got %s", pool.KindOf(err))
	}
}

func TestReaderMalformedOutput(t *testing.T) {
	caller := &fakeCaller{respond: func(ethereum.CallMsg) ([]byte, error) { return []byte{0x01, 0x02}, nil }}

	_, err := NewReader(caller, testContract, nil).FetchPoolDetails(context.Background(), testPool)
	if !errors.Is(err, pool.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestDecodePoolDetailsRejectsWrongShape(t *testing.T) {
	if _, err := decodePoolDetails(42); err == nil {
		t.Fatalf("expected error for non-struct tuple")
	}
	partial := struct {
		Token0 common.Address
	}{}
	if _, err := decodePoolDetails(partial); err == nil {
		t.Fatalf("expected error for missing fields")
	}
}
