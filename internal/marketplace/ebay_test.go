package marketplace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEbayOrder_ParseAndAccessors(t *testing.T) {
	payload := `{
		"orderId": "12-34567-89012",
		"creationDate": "2026-08-01T12:00:00.000Z",
		"orderFulfillmentStatus": "FULFILLED",
		"lineItems": [
			{"title": "Refurbished Laptop", "sku": "LAP-100", "quantity": 1},
			{"title": "Charger", "sku": "CHG-5", "quantity": 1}
		],
		"fulfillmentStartInstructions": [
			{"shippingStep": {"shipmentTracking": [
				{"trackingNumber": ""},
				{"trackingNumber": "1Z999AA10123456784"}
			]}}
		]
	}`

	var order EbayOrder
	require.NoError(t, json.Unmarshal([]byte(payload), &order))

	assert.Equal(t, "12-34567-89012", order.OrderID)
	assert.Equal(t, "Refurbished Laptop", order.FirstItemTitle())
	assert.Equal(t, "LAP-100", order.FirstItemSKU())
	// Empty tracking entries are skipped.
	assert.Equal(t, "1Z999AA10123456784", order.TrackingNumber())
}

func TestEbayOrder_UnshippedHasNoTracking(t *testing.T) {
	var order EbayOrder
	require.NoError(t, json.Unmarshal([]byte(`{"orderId": "x", "lineItems": []}`), &order))

	assert.Empty(t, order.TrackingNumber())
	assert.Empty(t, order.FirstItemTitle())
	assert.Empty(t, order.FirstItemSKU())
}
