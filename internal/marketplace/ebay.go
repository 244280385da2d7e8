package marketplace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"warehouse-backend/internal/config"
)

// EbayClient talks to the eBay Fulfillment API for one seller account. Access
// tokens are minted from the account's refresh token per run; runs are
// minutes apart so caching tokens across runs is not worth the state.
type EbayClient struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewEbayClient(cfg *config.Config) *EbayClient {
	return &EbayClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// EbayOrder is the subset of the Fulfillment API order we consume.
type EbayOrder struct {
	OrderID      string `json:"orderId"`
	CreationDate string `json:"creationDate"`
	LineItems    []struct {
		Title    string `json:"title"`
		SKU      string `json:"sku"`
		Quantity int    `json:"quantity"`
	} `json:"lineItems"`
	FulfillmentStartInstructions []struct {
		ShippingStep struct {
			ShipmentTracking []struct {
				TrackingNumber string `json:"trackingNumber"`
			} `json:"shipmentTracking"`
		} `json:"shippingStep"`
	} `json:"fulfillmentStartInstructions"`
	OrderFulfillmentStatus string `json:"orderFulfillmentStatus"`
}

// TrackingNumber returns the first shipment tracking number, empty when the
// order has not shipped.
func (o *EbayOrder) TrackingNumber() string {
	for _, fsi := range o.FulfillmentStartInstructions {
		for _, st := range fsi.ShippingStep.ShipmentTracking {
			if st.TrackingNumber != "" {
				return st.TrackingNumber
			}
		}
	}
	return ""
}

// FirstItemTitle returns the first line item's title, matching how the orders
// table stores one title per order.
func (o *EbayOrder) FirstItemTitle() string {
	if len(o.LineItems) > 0 {
		return o.LineItems[0].Title
	}
	return ""
}

func (o *EbayOrder) FirstItemSKU() string {
	if len(o.LineItems) > 0 {
		return o.LineItems[0].SKU
	}
	return ""
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// MintAccessToken exchanges a refresh token for a short-lived access token.
func (c *EbayClient) MintAccessToken(ctx context.Context, refreshToken string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Ebay.BaseURL+"/identity/v1/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	basic := base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.Ebay.ClientID + ":" + c.cfg.Ebay.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ebay token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ebay token request failed (%d): %s", resp.StatusCode, truncate(body, 200))
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("ebay token response parse failed: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("ebay token response missing access_token")
	}
	return tok.AccessToken, nil
}

type ordersResponse struct {
	Orders []EbayOrder `json:"orders"`
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

// FetchOrders pages through /sell/fulfillment/v1/order. A non-zero
// modifiedSince narrows the pull to recently changed orders; the five-minute
// rewind absorbs clock drift between us and eBay.
func (c *EbayClient) FetchOrders(ctx context.Context, accessToken string, modifiedSince time.Time, maxPages int) ([]EbayOrder, error) {
	var all []EbayOrder
	const pageSize = 100

	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		q.Set("limit", fmt.Sprintf("%d", pageSize))
		q.Set("offset", fmt.Sprintf("%d", page*pageSize))
		if !modifiedSince.IsZero() {
			rewound := modifiedSince.Add(-5 * time.Minute)
			q.Set("filter", fmt.Sprintf("lastmodifieddate:[%s..]", rewound.UTC().Format("2006-01-02T15:04:05.000Z")))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.cfg.Ebay.BaseURL+"/sell/fulfillment/v1/order?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("ebay orders request failed: %w", err)
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("ebay orders request failed (%d): %s", resp.StatusCode, truncate(body, 200))
		}

		var parsed ordersResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("ebay orders response parse failed: %w", err)
		}

		all = append(all, parsed.Orders...)
		log.Printf("[eBay] fetched %d orders (total so far %d)", len(parsed.Orders), len(all))

		if len(parsed.Orders) < pageSize {
			break
		}
	}
	return all, nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n]
	}
	return s
}
