package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-backend/internal/config"
)

func TestEcwidOrder_TrackingNumberFallback(t *testing.T) {
	order := EcwidOrder{TrackingNum: "9400111899223100012345"}
	assert.Equal(t, "9400111899223100012345", order.TrackingNumber())

	order = EcwidOrder{}
	order.ShippingInfo.TrackingNumber = "1Z999AA10123456784"
	assert.Equal(t, "1Z999AA10123456784", order.TrackingNumber())

	assert.Empty(t, (&EcwidOrder{}).TrackingNumber())
}

func TestEcwidOrder_OrderIDPrefersOrderNumber(t *testing.T) {
	order := EcwidOrder{ID: 900001, OrderNumber: 1042}
	assert.Equal(t, "1042", order.OrderID())

	order = EcwidOrder{ID: 900001}
	assert.Equal(t, "900001", order.OrderID())
}

func TestEcwidClient_FetchOrdersStopsOnShortPage(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total": 2, "items": [
			{"id": 1, "orderNumber": 101, "trackingNumber": "1Z999AA10123456784"},
			{"id": 2, "orderNumber": 102}
		]}`))
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Ecwid.BaseURL = server.URL
	cfg.Ecwid.StoreID = "12345"
	cfg.Ecwid.Token = "test-token"

	client := NewEcwidClient(cfg)
	client.httpClient = &http.Client{Timeout: 5 * time.Second}

	orders, err := client.FetchOrders(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, "101", orders[0].OrderID())
	// Two items is a short page; no second request happens.
	assert.Equal(t, 1, requests)
}
