package payment

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

const (
	merchantReferencePrefix    = "ORDER"
	merchantReferenceSeparator = "_"
)

// ErrMalformedReference means a merchant reference could not be parsed. It is a
// data-integrity signal and is never retried.
var ErrMalformedReference = errors.New("malformed merchant reference")

// MerchantReference is the merchant-side payment identifier:
// ORDER_<orderId>_<suffix>, where suffix is a time-ordered UUID without dashes.
type MerchantReference struct {
	value   string
	orderID kernel.UUID
}

// NewMerchantReference generates a fresh reference for the order.
func NewMerchantReference(orderID kernel.UUID) (MerchantReference, error) {
	if err := orderID.Validate(); err != nil {
		return MerchantReference{}, err
	}

	suffix, err := uuid.NewV7()
	if err != nil {
		return MerchantReference{}, fmt.Errorf("generate merchant reference suffix: %w", err)
	}

	value := strings.Join([]string{
		merchantReferencePrefix,
		orderID.String(),
		strings.ReplaceAll(suffix.String(), "-", ""),
	}, merchantReferenceSeparator)

	return MerchantReference{value: value, orderID: orderID}, nil
}

// ParseMerchantReference accepts exactly three "_"-separated fields:
// the ORDER prefix, an order UUID and a non-empty suffix.
func ParseMerchantReference(value string) (MerchantReference, error) {
	parts := strings.Split(value, merchantReferenceSeparator)
	if len(parts) != 3 {
		return MerchantReference{}, fmt.Errorf("%w: %q has %d fields", ErrMalformedReference, value, len(parts))
	}
	if parts[0] != merchantReferencePrefix {
		return MerchantReference{}, fmt.Errorf("%w: %q has unexpected prefix", ErrMalformedReference, value)
	}
	if parts[2] == "" {
		return MerchantReference{}, fmt.Errorf("%w: %q has empty suffix", ErrMalformedReference, value)
	}

	orderID, err := kernel.UUIDFromString(parts[1])
	if err != nil {
		return MerchantReference{}, fmt.Errorf("%w: %w", ErrMalformedReference, err)
	}
	if err = orderID.Validate(); err != nil {
		return MerchantReference{}, fmt.Errorf("%w: %w", ErrMalformedReference, err)
	}

	return MerchantReference{value: value, orderID: orderID}, nil
}

func (r MerchantReference) String() string {
	return r.value
}

func (r MerchantReference) OrderID() kernel.UUID {
	return r.orderID
}

func (r MerchantReference) IsZero() bool {
	return r.value == ""
}

func (r MerchantReference) IsEqual(other MerchantReference) bool {
	return r.value == other.value
}
