package confirm

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	rates := DefaultRateTable()
	thresholds := DefaultThresholds()

	cases := []struct {
		amount   string
		currency string
		want     Level
	}{
		{"1", "USD", LevelLow},
		{"99.99", "USD", LevelLow},
		{"100", "USD", LevelMedium},
		{"999.99", "USD", LevelMedium},
		{"1000", "USD", LevelHigh},
		{"10000", "USD", LevelCritical},
		{"0.5", "ETH", LevelHigh},       // 1500 reference units
		{"0.001", "BTC", LevelLow},      // 65
		{"1", "BTC", LevelCritical},     // 65000
		{"100", "EUR", LevelMedium},     // 108
		{"1", "ZZZ", LevelCritical},      // unknown currency
		{"0.0001", "ZZZ", LevelCritical}, // amount is irrelevant when unknown
	}
	for _, tc := range cases {
		got := thresholds.levelFor(rates, decimal.RequireFromString(tc.amount), tc.currency)
		assert.Equal(t, tc.want, got, "%s %s", tc.amount, tc.currency)
	}
}

func TestValidateConfirmationInput(t *testing.T) {
	amount := decimal.RequireFromString("0.5")

	t.Run("low and medium accept any acknowledgement", func(t *testing.T) {
		for _, level := range []Level{LevelLow, LevelMedium} {
			assert.NoError(t, validateConfirmationInput(level, amount, "yes"))
			assert.NoError(t, validateConfirmationInput(level, amount, "confirm"))
			assert.ErrorIs(t, validateConfirmationInput(level, amount, ""), ErrInvalidConfirmation)
			assert.ErrorIs(t, validateConfirmationInput(level, amount, "   "), ErrInvalidConfirmation)
		}
	})

	t.Run("high and critical require the exact amount", func(t *testing.T) {
		for _, level := range []Level{LevelHigh, LevelCritical} {
			assert.NoError(t, validateConfirmationInput(level, amount, "0.5"))
			assert.NoError(t, validateConfirmationInput(level, amount, "0.50"))
			assert.NoError(t, validateConfirmationInput(level, amount, " 0.5 "))
			assert.ErrorIs(t, validateConfirmationInput(level, amount, "yes"), ErrInvalidConfirmation)
			assert.ErrorIs(t, validateConfirmationInput(level, amount, "0.51"), ErrInvalidConfirmation)
			assert.ErrorIs(t, validateConfirmationInput(level, amount, ""), ErrInvalidConfirmation)
		}
	})
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "low", LevelLow.String())
	assert.Equal(t, "critical", LevelCritical.String())
	assert.Equal(t, "unknown", Level(99).String())
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPendingConfirmation.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.True(t, StatusExecuted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusExpired.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestSlidingWindow(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	w := newSlidingWindow(2, 10*time.Second)

	assert.True(t, w.allow("a", base))
	assert.True(t, w.allow("a", base.Add(time.Second)))
	assert.False(t, w.allow("a", base.Add(2*time.Second)))
	assert.True(t, w.allow("b", base.Add(2*time.Second)), "buyers are limited independently")

	// Rejected attempts are not recorded, so the window frees up as the
	// original two leave it.
	assert.True(t, w.allow("a", base.Add(11*time.Second)))

	w.gc(base.Add(time.Minute))
	assert.Empty(t, w.hits)
}
