package services_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicy(t *testing.T, platform, pg string) services.FeePolicy {
	t.Helper()
	p, err := services.NewFeePolicy(decimal.RequireFromString(platform), decimal.RequireFromString(pg))
	require.NoError(t, err)
	return p
}

func TestNewFeePolicy(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		pg       string
		wantErr  error
	}{
		{name: "typical rates", platform: "0.10", pg: "0.03"},
		{name: "zero rates", platform: "0", pg: "0"},
		{name: "negative rate", platform: "-0.01", pg: "0.03", wantErr: errs.ErrValueIsOutOfRange},
		{name: "rate of one", platform: "1", pg: "0", wantErr: errs.ErrValueIsOutOfRange},
		{name: "sum reaches one", platform: "0.6", pg: "0.4", wantErr: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.NewFeePolicy(decimal.RequireFromString(tt.platform), decimal.RequireFromString(tt.pg))
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFeePolicy_OwnerBreakdown(t *testing.T) {
	policy := newPolicy(t, "0.10", "0.03")

	t.Run("splits gross", func(t *testing.T) {
		b, err := policy.OwnerBreakdown(25000)
		require.NoError(t, err)

		assert.Equal(t, int64(25000), b.Gross)
		assert.Equal(t, int64(2500), b.PlatformFee)
		assert.Equal(t, int64(750), b.PgFee)
		assert.Equal(t, int64(21750), b.Net)
		require.NoError(t, b.Validate())
	})

	t.Run("rounds half up", func(t *testing.T) {
		// 0.10 * 55 = 5.5 -> 6, 0.03 * 55 = 1.65 -> 2
		b, err := newPolicy(t, "0.10", "0.03").OwnerBreakdown(55)
		require.NoError(t, err)
		assert.Equal(t, int64(6), b.PlatformFee)
		assert.Equal(t, int64(2), b.PgFee)
		assert.Equal(t, int64(47), b.Net)

		b, err = newPolicy(t, "0", "0.03").OwnerBreakdown(50)
		require.NoError(t, err)
		assert.Equal(t, int64(2), b.PgFee)
	})

	t.Run("rejects negative gross", func(t *testing.T) {
		_, err := policy.OwnerBreakdown(-1)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestFeePolicy_CourierEarning(t *testing.T) {
	policy := newPolicy(t, "0.10", "0.03")
	rule := newRule(t, kernel.NewUUID(), 0, nil, 3000, 500)

	tests := []struct {
		distance int
		want     int64
	}{
		{distance: 0, want: 3000},
		{distance: 2500, want: 4250},
		{distance: 1001, want: 3501},
		{distance: 1, want: 3001}, // 0.5 rounds up
	}
	for _, tt := range tests {
		got, err := policy.CourierEarning(rule, tt.distance)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "distance %d", tt.distance)
	}

	_, err := policy.CourierEarning(rule, -5)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
