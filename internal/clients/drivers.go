package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// DriverInfo is the subset of the driver directory's response consumed
// by notifications.
type DriverInfo struct {
	Name    string
	Contact string
}

// DriverClient talks to the driver directory service. Every call is
// best-effort: failures are logged and absorbed, never raised, so a
// directory outage cannot block parcel operations.
type DriverClient struct {
	baseURL string
	client  *http.Client
}

func NewDriverClient(baseURL string, timeout time.Duration) *DriverClient {
	return &DriverClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FindAvailableDriver asks the directory for a free driver. A nil id
// means none could be found, for whatever reason.
func (c *DriverClient) FindAvailableDriver(ctx context.Context) (*uint, DriverInfo) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/available-driver/", nil)
	if err != nil {
		log.Printf("[drivers] failed to build request: %v", err)
		return nil, DriverInfo{}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[drivers] error fetching available driver: %v", err)
		return nil, DriverInfo{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[drivers] available-driver returned status %d", resp.StatusCode)
		return nil, DriverInfo{}
	}

	var body struct {
		DriverID      *uint  `json:"driver_id"`
		DriverName    string `json:"driver_name"`
		DriverContact string `json:"driver_contact"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("[drivers] failed to decode available-driver response: %v", err)
		return nil, DriverInfo{}
	}
	if body.DriverID == nil {
		return nil, DriverInfo{}
	}

	info := DriverInfo{Name: body.DriverName, Contact: body.DriverContact}
	if info.Name == "" {
		info.Name = "Driver"
	}
	if info.Contact == "" {
		info.Contact = "N/A"
	}
	return body.DriverID, info
}

// MarkUnavailable flags a driver as busy. Fire-and-forget.
func (c *DriverClient) MarkUnavailable(ctx context.Context, driverID uint) {
	c.patchDriver(ctx, driverID, "mark-unavailable")
}

// MarkAvailable flags a driver as free again. Fire-and-forget.
func (c *DriverClient) MarkAvailable(ctx context.Context, driverID uint) {
	c.patchDriver(ctx, driverID, "mark-available")
}

func (c *DriverClient) patchDriver(ctx context.Context, driverID uint, action string) {
	url := fmt.Sprintf("%s/api/users/%d/%s/", c.baseURL, driverID, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
	if err != nil {
		log.Printf("[drivers] failed to build %s request: %v", action, err)
		return
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[drivers] error on %s for driver %d: %v", action, driverID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[drivers] %s for driver %d returned status %d", action, driverID, resp.StatusCode)
	}
}
