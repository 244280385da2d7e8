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
	"time"

	"warehouse-backend/internal/config"
)

// ShipStationClient reads shipments from the ShipStation API with basic auth.
type ShipStationClient struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewShipStationClient(cfg *config.Config) *ShipStationClient {
	return &ShipStationClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Shipment is one ShipStation shipment record.
type Shipment struct {
	ShipmentID     int64  `json:"shipmentId"`
	OrderNumber    string `json:"orderNumber"`
	TrackingNumber string `json:"trackingNumber"`
	ShipDate       string `json:"shipDate"`
	CarrierCode    string `json:"carrierCode"`
	Voided         bool   `json:"voided"`
}

type shipmentsResponse struct {
	Shipments []Shipment `json:"shipments"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	Pages     int        `json:"pages"`
}

// FetchShipments pages through shipments created since the given date.
func (c *ShipStationClient) FetchShipments(ctx context.Context, since time.Time, maxPages int) ([]Shipment, error) {
	var all []Shipment
	basic := base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.ShipStation.APIKey + ":" + c.cfg.ShipStation.APISecret))

	for page := 1; page <= maxPages; page++ {
		q := url.Values{}
		q.Set("createDateStart", since.UTC().Format("2006-01-02"))
		q.Set("page", fmt.Sprintf("%d", page))
		q.Set("pageSize", "250")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.cfg.ShipStation.BaseURL+"/shipments?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Basic "+basic)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("shipstation shipments request failed: %w", err)
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("shipstation shipments request failed (%d): %s", resp.StatusCode, truncate(body, 200))
		}

		var parsed shipmentsResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("shipstation shipments response parse failed: %w", err)
		}

		all = append(all, parsed.Shipments...)
		log.Printf("[ShipStation] fetched %d shipments (page %d/%d)", len(parsed.Shipments), parsed.Page, parsed.Pages)

		if page >= parsed.Pages {
			break
		}
	}
	return all, nil
}
