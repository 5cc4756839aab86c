package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"99.895", "99.90"},
		{"99.894", "99.89"},
		{"0.005", "0.01"},
		{"-0.005", "-0.01"},
		{"10", "10.00"},
		{"2.675", "2.68"},
	}

	for _, tc := range cases {
		in, err := decimal.NewFromString(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, Round(in).StringFixed(2), "Round(%s)", tc.in)
	}
}

func TestConvert(t *testing.T) {
	usd := decimal.NewFromFloat(9.90)

	mnt, err := Convert(usd, "USD", "MNT")
	require.NoError(t, err)
	assert.Equal(t, "34155.00", mnt.StringFixed(2))

	same, err := Convert(usd, "USD", "USD")
	require.NoError(t, err)
	assert.True(t, same.Equal(usd))

	_, err = Convert(usd, "USD", "EUR")
	assert.Error(t, err)
}

func TestIsCurrencyValid(t *testing.T) {
	assert.True(t, IsCurrencyValid("USD"))
	assert.True(t, IsCurrencyValid("MNT"))
	assert.False(t, IsCurrencyValid("usd"))
	assert.True(t, IsCurrencyInvalid("EUR"))
}
