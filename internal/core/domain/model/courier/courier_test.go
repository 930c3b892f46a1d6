package courier_test

import (
	"testing"

	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreCourier(t *testing.T) {
	validID := kernel.NewUUID()

	t.Run("should restore courier with valid parameters", func(t *testing.T) {
		c, err := courier.RestoreCourier(validID, "  Alice ", true)

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.True(t, c.ID().IsEqual(validID))
		assert.Equal(t, "Alice", c.Name())
		assert.True(t, c.IsActive())
	})

	t.Run("should aggregate validation errors", func(t *testing.T) {
		c, err := courier.RestoreCourier(kernel.UUID{}, "", true)

		require.Error(t, err)
		assert.Nil(t, c)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, courier.ErrNameIsRequired)
	})
}

func TestCourier_CanTakeDelivery(t *testing.T) {
	active, err := courier.RestoreCourier(kernel.NewUUID(), "Bob", true)
	require.NoError(t, err)
	inactive, err := courier.RestoreCourier(kernel.NewUUID(), "Carol", false)
	require.NoError(t, err)

	require.NoError(t, active.CanTakeDelivery())
	require.ErrorIs(t, inactive.CanTakeDelivery(), courier.ErrCourierIsInactive)

	var zero courier.Courier
	require.ErrorIs(t, zero.CanTakeDelivery(), courier.ErrCourierIsNotConstructed)
}

func TestCourier_IsEqual(t *testing.T) {
	id := kernel.NewUUID()
	a, _ := courier.RestoreCourier(id, "A", true)
	b, _ := courier.RestoreCourier(id, "B", false)
	c, _ := courier.RestoreCourier(kernel.NewUUID(), "A", true)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
	assert.False(t, a.IsEqual(nil))
}
