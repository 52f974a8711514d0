package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// PaymentClient triggers a payment request after a parcel has been
// created. One attempt only: a failure is logged, never retried or
// queued.
type PaymentClient struct {
	baseURL string
	client  *http.Client
}

func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *PaymentClient) RequestPayment(ctx context.Context, trackingID, method string, weightKg float64) bool {
	payload, err := json.Marshal(map[string]interface{}{
		"tracking_id": trackingID,
		"method":      method,
		"weight":      weightKg,
	})
	if err != nil {
		log.Printf("[payments] failed to encode payload for %s: %v", trackingID, err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/payments/pay/", bytes.NewReader(payload))
	if err != nil {
		log.Printf("[payments] failed to build request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[payments] error requesting payment for %s: %v", trackingID, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		log.Printf("[payments] payment for %s returned status %d", trackingID, resp.StatusCode)
		return false
	}

	log.Printf("[payments] payment requested for parcel %s", trackingID)
	return true
}
