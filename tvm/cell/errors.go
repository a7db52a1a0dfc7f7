package cell

import "errors"

var (
	ErrTooBigValue    = errors.New("too big value")
	ErrNegative       = errors.New("value should be non negative")
	ErrTooBigSize     = errors.New("too big size")
	ErrTooMuchRefs    = errors.New("too much refs")
	ErrNotFit1023     = errors.New("cell data size should fit into 1023 bits")
	ErrSmallSlice     = errors.New("too small slice for this size")
	ErrNoMoreRefs     = errors.New("no more refs exists")
	ErrNotEnoughData  = errors.New("not enough data")
	ErrRefCannotBeNil = errors.New("ref cannot be nil")
	ErrAddrType       = errors.New("address type is not supported")

	// ErrInvalidBOC wraps every decode failure, with byte offset context where known.
	ErrInvalidBOC = errors.New("invalid boc")
)
