package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"yieldScope/internal/model"
	"yieldScope/internal/pool"
)

const tracerName = "yieldScope/internal/dex"

// Reader reads pool details from the yield contract.
type Reader struct {
	caller   ContractCaller
	contract common.Address
	tracer   trace.Tracer
	logger   *zap.Logger
}

func NewReader(caller ContractCaller, contract common.Address, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		caller:   caller,
		contract: contract,
		tracer:   otel.Tracer(tracerName),
		logger:   logger,
	}
}

// FetchPoolDetails calls getPoolDetails(pool). Transport failures are returned
// as is; a response that cannot be decoded is a malformed-response error.
func (r *Reader) FetchPoolDetails(ctx context.Context, address model.PoolAddress) (model.PoolDetails, error) {
	ctx, span := r.tracer.Start(ctx, "yield.getPoolDetails",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("pool.address", address.String()),
			attribute.String("contract.address", r.contract.Hex()),
		),
	)
	defer span.End()

	details, err := r.fetch(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Debug("getPoolDetails failed", zap.String("pool", address.String()), zap.Error(err))
		return model.PoolDetails{}, err
	}
	span.SetAttributes(
		attribute.String("token0.symbol", details.Token0Symbol),
		attribute.String("token1.symbol", details.Token1Symbol),
	)
	return details, nil
}

func (r *Reader) fetch(ctx context.Context, address model.PoolAddress) (model.PoolDetails, error) {
	if r.caller == nil {
		return model.PoolDetails{}, fmt.Errorf("contract caller is nil")
	}
	parsed, err := YieldABI()
	if err != nil {
		return model.PoolDetails{}, fmt.Errorf("parse yield abi: %w", err)
	}

	values, err := callMethod(ctx, r.caller, r.contract, parsed, "getPoolDetails", nil, common.HexToAddress(address.String()))
	if err != nil {
		var unpackErr *unpackError
		if errors.As(err, &unpackErr) {
			return model.PoolDetails{}, &pool.Error{Kind: pool.KindMalformedResponse, Address: address.String(), Err: err}
		}
		return model.PoolDetails{}, err
	}

	details, err := decodePoolDetails(values[0])
	if err != nil {
		return model.PoolDetails{}, &pool.Error{Kind: pool.KindMalformedResponse, Address: address.String(), Err: err}
	}
	return details, nil
}

// decodePoolDetails reads the tuple go-ethereum unpacks into an anonymous
// struct whose fields are the camel-cased component names.
func decodePoolDetails(tuple interface{}) (model.PoolDetails, error) {
	v := reflect.ValueOf(tuple)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return model.PoolDetails{}, fmt.Errorf("unexpected tuple type %T", tuple)
	}
	field := func(name string) (interface{}, error) {
		f := v.FieldByName(name)
		if !f.IsValid() {
			return nil, fmt.Errorf("tuple field %s missing", name)
		}
		return f.Interface(), nil
	}

	var (
		details model.PoolDetails
		errs    []error
		raw     interface{}
		err     error
	)
	address := func(name string, dst *common.Address) {
		if raw, err = field(name); err == nil {
			*dst, err = asAddress(raw)
		}
		errs = append(errs, wrapField(name, err))
	}
	text := func(name string, dst *string) {
		if raw, err = field(name); err == nil {
			s, ok := raw.(string)
			if !ok {
				err = fmt.Errorf("unsupported string type %T", raw)
			}
			*dst = s
		}
		errs = append(errs, wrapField(name, err))
	}
	small := func(name string, dst *uint8) {
		if raw, err = field(name); err == nil {
			*dst, err = asUint8(raw)
		}
		errs = append(errs, wrapField(name, err))
	}
	integer := func(name string, dst **big.Int) {
		if raw, err = field(name); err == nil {
			*dst, err = asBigInt(raw)
		}
		errs = append(errs, wrapField(name, err))
	}

	address("Token0", &details.Token0)
	text("Token0Symbol", &details.Token0Symbol)
	small("Token0Decimals", &details.Token0Decimals)
	address("Token1", &details.Token1)
	text("Token1Symbol", &details.Token1Symbol)
	small("Token1Decimals", &details.Token1Decimals)
	integer("Fee", &details.Fee)
	integer("TickSpacing", &details.TickSpacing)
	integer("CurrentTick", &details.CurrentTick)

	if err := errors.Join(errs...); err != nil {
		return model.PoolDetails{}, err
	}
	return details, nil
}

func wrapField(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
