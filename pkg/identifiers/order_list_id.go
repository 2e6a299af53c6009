package identifiers

import (
	"database/sql/driver"
	"fmt"

	"github.com/Aidin1998/finalex-ids/pkg/errors"
)

// OrderListID identifies a list of orders submitted together.
// The zero value has an empty payload.
type OrderListID struct {
	value string
}

// NewOrderListID creates an identifier holding s
func NewOrderListID(s string) OrderListID {
	return OrderListID{value: s}
}

// String returns the identifier text
func (id OrderListID) String() string { return id.value }

// IsZero reports whether the identifier has an empty payload
func (id OrderListID) IsZero() bool { return id.value == "" }

// Equal reports whether both identifiers carry the same text
func (id OrderListID) Equal(other OrderListID) bool {
	return id.value == other.value
}

// MarshalText implements encoding.TextMarshaler
func (id OrderListID) MarshalText() ([]byte, error) {
	return []byte(id.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *OrderListID) UnmarshalText(text []byte) error {
	id.value = string(text)
	return nil
}

// Value implements driver.Valuer so the identifier can be stored as a text column
func (id OrderListID) Value() (driver.Value, error) {
	return id.value, nil
}

// Scan implements sql.Scanner
func (id *OrderListID) Scan(src any) error {
	switch v := src.(type) {
	case string:
		id.value = v
	case []byte:
		id.value = string(v)
	case nil:
		id.value = ""
	default:
		return errors.Invalid.Explain("cannot scan %T into OrderListID", src)
	}
	return nil
}

// GoString implements fmt.GoStringer
func (id OrderListID) GoString() string {
	return fmt.Sprintf("identifiers.NewOrderListID(%q)", id.value)
}
