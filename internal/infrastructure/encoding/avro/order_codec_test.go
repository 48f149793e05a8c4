package avro

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "meal_storefront/internal/domain/order"
)

func TestOrderCodec_EncodeDecode(t *testing.T) {
	// Arrange
	codec, err := NewOrderCodec()
	require.NoError(t, err)
	placed := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	o := &domain.Order{
		ID:            "o-1",
		UserID:        "u-1",
		AddressID:     "a-1",
		PaymentMethod: "pix",
		Subtotal:      decimal.RequireFromString("59.90"),
		DeliveryFee:   decimal.RequireFromString("5.90"),
		Total:         decimal.RequireFromString("65.80"),
		Status:        domain.StatusPending,
		CreatedAt:     placed,
		Items: []domain.Item{
			{OrderID: "o-1", ProductID: "p-1", Title: "Feijoada", Quantity: 1, Price: decimal.RequireFromString("29.90")},
			{OrderID: "o-1", ProductID: "p-2", Title: "Pastel", Quantity: 2, Price: decimal.RequireFromString("15.00"), Notes: "no onion"},
		},
	}

	// Act
	binary, err := codec.Encode(o)
	require.NoError(t, err)
	got, err := codec.Decode(binary)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "o-1", got.ID)
	assert.True(t, got.Total.Equal(o.Total))
	assert.True(t, got.CreatedAt.Equal(placed))
	require.Len(t, got.Items, 2)
	assert.Equal(t, 2, got.Items[1].Quantity)
	assert.Equal(t, "no onion", got.Items[1].Notes)
	assert.Empty(t, got.Items[0].Notes)
	assert.Equal(t, "o-1", got.Items[0].OrderID)
}

func TestOrderCodec_EncodeNil(t *testing.T) {
	codec, err := NewOrderCodec()
	require.NoError(t, err)

	_, err = codec.Encode(nil)

	assert.Error(t, err)
}

func TestOrderCodec_DecodeGarbage(t *testing.T) {
	codec, err := NewOrderCodec()
	require.NoError(t, err)

	_, err = codec.Decode([]byte{0xff, 0x01})

	assert.Error(t, err)
}

func TestNewEncoder_InvalidSchema(t *testing.T) {
	_, err := NewEncoder(`{"type": "nope"}`)

	assert.Error(t, err)
}
