package feerule_test

import (
	"testing"

	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int) *int { return &v }

func TestNewRule(t *testing.T) {
	t.Run("should create active rule", func(t *testing.T) {
		r, err := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 0, ptr(3000), 3000, 500)

		require.NoError(t, err)
		assert.True(t, r.IsActive())
		assert.Equal(t, 3000, *r.MaxMeters())
	})

	t.Run("should reject inverted bucket and negative fees", func(t *testing.T) {
		_, err := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 3000, ptr(3000), -1, -1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "max meters")
		assert.Contains(t, err.Error(), "base fee")
		assert.Contains(t, err.Error(), "per km fee")
	})

	t.Run("should copy max meters", func(t *testing.T) {
		upper := 5000
		r, err := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 0, &upper, 0, 0)
		require.NoError(t, err)

		upper = 10
		assert.Equal(t, 5000, *r.MaxMeters())
	})
}

func TestRule_Covers(t *testing.T) {
	bounded, _ := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 0, ptr(3000), 0, 0)
	unbounded, _ := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 3000, nil, 0, 0)

	assert.True(t, bounded.Covers(0))
	assert.True(t, bounded.Covers(2999))
	assert.False(t, bounded.Covers(3000))
	assert.True(t, unbounded.Covers(3000))
	assert.True(t, unbounded.Covers(1_000_000))
	assert.False(t, unbounded.Covers(2999))
}

func TestRule_Overlaps(t *testing.T) {
	r, _ := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 0, ptr(3000), 0, 0)
	open, _ := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 3000, nil, 0, 0)

	testCases := []struct {
		name     string
		rule     *feerule.Rule
		min      int
		max      *int
		expected bool
	}{
		{"straddles upper bound", r, 2000, ptr(4000), true},
		{"adjacent above", r, 3000, ptr(5000), false},
		{"contained", r, 100, ptr(200), true},
		{"unbounded candidate starting inside", r, 2999, nil, true},
		{"unbounded candidate adjacent", r, 3000, nil, false},
		{"unbounded rule vs range below", open, 0, ptr(3000), false},
		{"unbounded rule vs range crossing", open, 2000, ptr(4000), true},
		{"both unbounded", open, 10000, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.rule.Overlaps(tc.min, tc.max))
		})
	}
}

func TestRule_UpdateAndDeactivate(t *testing.T) {
	r, _ := feerule.NewRule(kernel.NewUUID(), kernel.NewUUID(), 0, ptr(3000), 3000, 500)

	require.NoError(t, r.Update(0, nil, 3500, 600))
	assert.Nil(t, r.MaxMeters())
	assert.Equal(t, int64(3500), r.BaseFee())

	require.Error(t, r.Update(-1, nil, 0, 0))
	assert.Equal(t, int64(3500), r.BaseFee())

	r.Deactivate()
	assert.False(t, r.IsActive())
}
