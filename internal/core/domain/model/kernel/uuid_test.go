package kernel_test

import (
	"encoding/json"
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create valid and unique identifiers", func(t *testing.T) {
		a := kernel.NewUUID()
		b := kernel.NewUUID()

		require.NoError(t, a.Validate())
		assert.False(t, a.IsEqual(b))
	})
}

func TestUUIDFromString(t *testing.T) {
	const canonical = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"canonical", canonical, false},
		{"braces", "{" + canonical + "}", false},
		{"urn", "urn:uuid:" + canonical, false},
		{"no hyphens", "6ba7b8109dad11d180b400c04fd430c8", false},
		{"garbage", "not-a-uuid", true},
		{"empty", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, canonical, id.String())
		})
	}
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should accept 16 bytes", func(t *testing.T) {
		raw := uuid.New()
		id, err := kernel.UUIDFromBytes(raw[:])
		require.NoError(t, err)
		assert.Equal(t, raw, id.Bytes())
	})

	t.Run("should reject wrong length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{1, 2, 3})
		require.Error(t, err)
	})

	t.Run("should reject nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(uuid.Nil[:])
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID
	require.ErrorIs(t, zero.Validate(), kernel.ErrUUIDIsNotConstructed)
	require.NoError(t, kernel.NewUUID().Validate())
}

func TestUUID_JSON(t *testing.T) {
	type payload struct {
		OrderID kernel.UUID `json:"order_id"`
	}

	id := kernel.MustUUIDFromString("550e8400-e29b-41d4-a716-446655440000")
	raw, err := json.Marshal(payload{OrderID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"order_id":"550e8400-e29b-41d4-a716-446655440000"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, id.IsEqual(decoded.OrderID))

	require.Error(t, json.Unmarshal([]byte(`{"order_id":"nope"}`), &decoded))
}

func TestMustUUIDFromString_Panics(t *testing.T) {
	assert.Panics(t, func() { kernel.MustUUIDFromString("bad") })
}
