package errs_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForbiddenError(t *testing.T) {
	err := errs.NewForbiddenError("accept delivery")

	assert.Equal(t, "access is forbidden: accept delivery", err.Error())
	require.ErrorIs(t, err, errs.ErrForbidden)

	withCause := errs.NewForbiddenErrorWithCause("start cooking", errors.New("not the store owner"))
	assert.Equal(t, "access is forbidden: start cooking (cause: not the store owner)", withCause.Error())
}

func TestInvalidStateTransitionError(t *testing.T) {
	err := errs.NewInvalidStateTransitionError("order", "COOKED", "COOKING")

	assert.Equal(t, "invalid state transition: order from COOKED to COOKING", err.Error())
	require.ErrorIs(t, err, errs.ErrInvalidStateTransition)

	wrapped := fmt.Errorf("handle: %w", err)
	var target *errs.InvalidStateTransitionError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "COOKED", target.From)

	cause := errors.New("courier is already assigned")
	withCause := errs.NewInvalidStateTransitionErrorWithCause("delivery", "ASSIGNED", "ASSIGNED", cause)
	require.ErrorIs(t, withCause, errs.ErrInvalidStateTransition)
	require.ErrorIs(t, withCause, cause)
}

func TestConcurrentModificationError(t *testing.T) {
	err := errs.NewConcurrentModificationError("payment", "42")

	assert.Equal(t, "concurrent modification: payment 42", err.Error())
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	assert.True(t, errs.IsRetryable(err))
}

func TestGatewayCommunicationError(t *testing.T) {
	t.Run("keeps both sentinel and cause in chain", func(t *testing.T) {
		err := errs.NewGatewayCommunicationError("fetch payment", context.DeadlineExceeded)

		require.ErrorIs(t, err, errs.ErrGatewayCommunication)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, errs.IsRetryable(err))
		assert.Equal(t, "gateway communication failed: fetch payment (cause: context deadline exceeded)", err.Error())
	})

	t.Run("without cause", func(t *testing.T) {
		err := errs.NewGatewayCommunicationError("cancel payment", nil)
		require.ErrorIs(t, err, errs.ErrGatewayCommunication)
	})

	t.Run("validation errors are not retryable", func(t *testing.T) {
		assert.False(t, errs.IsRetryable(errs.NewValueIsInvalidError("amount")))
	})
}

func TestObjectAlreadyExistsError(t *testing.T) {
	err := errs.NewObjectAlreadyExistsError("owner settlement item", "order 7")

	assert.Equal(t, "object already exists: owner settlement item order 7", err.Error())
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	assert.False(t, errs.IsRetryable(err))
}
