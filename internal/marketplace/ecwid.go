package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"warehouse-backend/internal/config"
)

// EcwidClient pulls orders from the Ecwid store API with a bearer token.
type EcwidClient struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewEcwidClient(cfg *config.Config) *EcwidClient {
	return &EcwidClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// EcwidOrder is the subset of the Ecwid order payload we consume. Ecwid has
// shipped tracking numbers in several places across API versions, so all are
// mapped and TrackingNumber picks the first non-empty one.
type EcwidOrder struct {
	ID             int64  `json:"id"`
	OrderNumber    int64  `json:"orderNumber"`
	CreateDate     string `json:"createDate"`
	TrackingNum    string `json:"trackingNumber"`
	ShippingPerson struct {
		Name string `json:"name"`
	} `json:"shippingPerson"`
	ShippingInfo struct {
		TrackingNumber string `json:"trackingNumber"`
	} `json:"shippingInfo"`
	FulfillmentStatus string `json:"fulfillmentStatus"`
	Items             []struct {
		SKU      string `json:"sku"`
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

func (o *EcwidOrder) TrackingNumber() string {
	if o.TrackingNum != "" {
		return o.TrackingNum
	}
	return o.ShippingInfo.TrackingNumber
}

// OrderID returns the human order number, falling back to the internal id.
func (o *EcwidOrder) OrderID() string {
	if o.OrderNumber != 0 {
		return fmt.Sprintf("%d", o.OrderNumber)
	}
	return fmt.Sprintf("%d", o.ID)
}

type ecwidOrdersResponse struct {
	Items []EcwidOrder `json:"items"`
	Total int          `json:"total"`
}

// FetchOrders pages through the store's orders, newest first, up to maxPages
// pages of 100.
func (c *EcwidClient) FetchOrders(ctx context.Context, maxPages int) ([]EcwidOrder, error) {
	const pageSize = 100
	var all []EcwidOrder

	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		q.Set("offset", fmt.Sprintf("%d", page*pageSize))
		q.Set("limit", fmt.Sprintf("%d", pageSize))

		endpoint := fmt.Sprintf("%s/%s/orders?%s", c.cfg.Ecwid.BaseURL, c.cfg.Ecwid.StoreID, q.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.Ecwid.Token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("ecwid orders request failed: %w", err)
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("ecwid orders request failed (%d): %s", resp.StatusCode, truncate(body, 200))
		}

		var parsed ecwidOrdersResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("ecwid orders response parse failed: %w", err)
		}

		all = append(all, parsed.Items...)
		log.Printf("[Ecwid] fetched %d orders (total so far %d)", len(parsed.Items), len(all))

		if len(parsed.Items) < pageSize {
			break
		}
	}
	return all, nil
}
