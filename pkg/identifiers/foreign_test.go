package identifiers

import (
	"testing"

	"github.com/Aidin1998/finalex-ids/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// releasedString behaves like a foreign object whose owner has already freed it
type releasedString struct{}

func (releasedString) Bytes() ([]byte, bool) { return nil, false }

func TestOrderListIDFromForeign(t *testing.T) {
	id, err := OrderListIDFromForeign(RawString("RiskEngine"))
	require.NoError(t, err)
	assert.Equal(t, NewOrderListID("RiskEngine"), id)
}

func TestOrderListIDFromForeign_CopiesPayload(t *testing.T) {
	buf := []byte("RiskEngine")

	id, err := OrderListIDFromForeign(RawString(buf))
	require.NoError(t, err)

	// the foreign runtime reuses its buffer after the call returns
	copy(buf, "XXXXXXXXXX")

	assert.Equal(t, "RiskEngine", id.String())
}

func TestOrderListIDFromForeign_Empty(t *testing.T) {
	id, err := OrderListIDFromForeign(RawString{})
	require.NoError(t, err)
	assert.True(t, id.IsZero())
}

func TestOrderListIDFromForeign_ContractViolations(t *testing.T) {
	testCases := []struct {
		name string
		src  ForeignString
		want error
	}{
		{name: "nil handle", src: nil, want: ErrNilHandle},
		{name: "nil buffer", src: RawString(nil), want: ErrDeadHandle},
		{name: "released object", src: releasedString{}, want: ErrDeadHandle},
		{name: "invalid utf8", src: RawString{0xff, 0xfe, 'a'}, want: ErrInvalidEncoding},
		{name: "truncated rune", src: RawString("ab\xe4\xb8"), want: ErrInvalidEncoding},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := OrderListIDFromForeign(tc.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want))
			// every contract violation is invalid input
			assert.True(t, errors.Is(err, errors.Invalid))
			for _, other := range []error{ErrNilHandle, ErrDeadHandle, ErrInvalidEncoding} {
				if other != tc.want {
					assert.False(t, errors.Is(err, other), "%v matched %v", err, other)
				}
			}
			assert.True(t, id.IsZero())
		})
	}
}

func TestMustOrderListIDFromForeign(t *testing.T) {
	assert.Equal(t, NewOrderListID("DataEngine"), MustOrderListIDFromForeign(RawString("DataEngine")))
	assert.PanicsWithValue(t, ErrNilHandle, func() { MustOrderListIDFromForeign(nil) })
}
