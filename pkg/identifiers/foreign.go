package identifiers

import (
	"unicode/utf8"

	"github.com/Aidin1998/finalex-ids/pkg/errors"
)

// ForeignString is a string object owned by another runtime.
//
// Bytes returns the UTF-8 payload of the object. The slice may alias memory
// the foreign runtime owns and frees on its own schedule, so callers must
// copy it before the call that received the handle returns. ok is false
// when the handle no longer refers to a live string object.
type ForeignString interface {
	Bytes() (b []byte, ok bool)
}

// RawString is a ForeignString over a byte buffer owned elsewhere.
// A nil RawString reports a dead handle.
type RawString []byte

// Bytes implements ForeignString
func (r RawString) Bytes() ([]byte, bool) {
	if r == nil {
		return nil, false
	}
	return r, true
}

var (
	ErrNilHandle       = errors.Invalid.WithCode("nil_handle").Explain("foreign string handle is nil")
	ErrDeadHandle      = errors.Invalid.WithCode("dead_handle").Explain("foreign string handle does not reference a live object")
	ErrInvalidEncoding = errors.Invalid.WithCode("invalid_encoding").Explain("foreign string is not valid UTF-8")
)

// OrderListIDFromForeign copies the text of a foreign string object into a
// new identifier. The result never shares memory with src.
//
// Callers outside the boundary layer must not reach this function with
// unchecked input: the handle is trusted to be a string object of the
// foreign runtime, and only nil, dead, and non-UTF-8 handles are detected.
func OrderListIDFromForeign(src ForeignString) (OrderListID, error) {
	if src == nil {
		return OrderListID{}, ErrNilHandle
	}
	b, ok := src.Bytes()
	if !ok {
		return OrderListID{}, ErrDeadHandle
	}
	if !utf8.Valid(b) {
		return OrderListID{}, ErrInvalidEncoding
	}
	// string conversion allocates, so the identifier owns its own copy
	return OrderListID{value: string(b)}, nil
}

// MustOrderListIDFromForeign is like OrderListIDFromForeign but panics on a
// contract violation
func MustOrderListIDFromForeign(src ForeignString) OrderListID {
	id, err := OrderListIDFromForeign(src)
	if err != nil {
		panic(err)
	}
	return id
}
