package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Email template types understood by the notification service.
const (
	TemplateParcelCreated   = "parcel_created"
	TemplateDriverAssigned  = "driver_assigned"
	TemplateParcelInTransit = "parcel_in_transit"
	TemplateParcelDelivered = "parcel_delivered"
	TemplateParcelCancelled = "parcel_cancelled"
)

// NotificationClient posts templated emails to the notification
// service. Delivery is best-effort: the boolean result exists for
// logging and tests, callers never fail on it.
type NotificationClient struct {
	baseURL string
	client  *http.Client
}

func NewNotificationClient(baseURL string, timeout time.Duration) *NotificationClient {
	return &NotificationClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *NotificationClient) Send(ctx context.Context, to, templateType string, templateContext map[string]interface{}) bool {
	payload, err := json.Marshal(map[string]interface{}{
		"to":            to,
		"template_type": templateType,
		"context":       templateContext,
	})
	if err != nil {
		log.Printf("[notifications] failed to encode %s payload: %v", templateType, err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/send-email/", bytes.NewReader(payload))
	if err != nil {
		log.Printf("[notifications] failed to build request: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[notifications] error sending %s email: %v", templateType, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[notifications] %s email returned status %d", templateType, resp.StatusCode)
		return false
	}

	return true
}
