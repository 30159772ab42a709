package pool

import (
	"errors"
	"fmt"
)

// Kind classifies initialization failures. Every kind is fatal to startup.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidAddress
	KindRPCFailure
	KindMalformedResponse
	KindConcurrencyLimit
)

func (k Kind) String() string {
	switch k {
	case KindInvalidAddress:
		return "invalid address"
	case KindRPCFailure:
		return "rpc failure"
	case KindMalformedResponse:
		return "malformed response"
	case KindConcurrencyLimit:
		return "concurrency limit"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrInvalidAddress    = &Error{Kind: KindInvalidAddress}
	ErrRPCFailure        = &Error{Kind: KindRPCFailure}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrConcurrencyLimit  = &Error{Kind: KindConcurrencyLimit}
)

// Error is a classified pool error, optionally bound to a pool address.
type Error struct {
	Kind    Kind
	Address string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Address != "" {
		msg = fmt.Sprintf("%s (pool %s)", msg, e.Address)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, address string, err error) *Error {
	return &Error{Kind: kind, Address: address, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var poolErr *Error
	if errors.As(err, &poolErr) {
		return poolErr.Kind
	}
	return KindUnknown
}
