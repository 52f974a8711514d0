package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAvailableDriver(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"driver_id":      12,
			"driver_name":    "Alice",
			"driver_contact": "+254700000000",
		})
	}))
	defer srv.Close()

	c := NewDriverClient(srv.URL, time.Second)
	id, info := c.FindAvailableDriver(context.Background())

	require.NotNil(t, id)
	assert.Equal(t, uint(12), *id)
	assert.Equal(t, "Alice", info.Name)
	assert.Equal(t, "+254700000000", info.Contact)
	assert.Equal(t, "/api/users/available-driver/", gotPath)
}

func TestFindAvailableDriverDefaultsMissingInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"driver_id": 5})
	}))
	defer srv.Close()

	c := NewDriverClient(srv.URL, time.Second)
	id, info := c.FindAvailableDriver(context.Background())

	require.NotNil(t, id)
	assert.Equal(t, "Driver", info.Name)
	assert.Equal(t, "N/A", info.Contact)
}

func TestFindAvailableDriverNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewDriverClient(srv.URL, time.Second)
	id, info := c.FindAvailableDriver(context.Background())

	assert.Nil(t, id)
	assert.Empty(t, info.Name)
}

func TestFindAvailableDriverNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewDriverClient(srv.URL, time.Second)
	id, _ := c.FindAvailableDriver(context.Background())

	assert.Nil(t, id)
}

func TestMarkUnavailable(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	c := NewDriverClient(srv.URL, time.Second)
	c.MarkUnavailable(context.Background(), 12)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/users/12/mark-unavailable/", gotPath)
}

func TestMarkAvailableSwallowsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewDriverClient(srv.URL, time.Second)
	// Must not panic or block.
	c.MarkAvailable(context.Background(), 3)
}

func TestNotificationSend(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/send-email/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
	}))
	defer srv.Close()

	c := NewNotificationClient(srv.URL, time.Second)
	ok := c.Send(context.Background(), "user@example.com", TemplateParcelCreated, map[string]interface{}{
		"tracking_id": "PRCL-AB12CD",
	})

	assert.True(t, ok)
	assert.Equal(t, "user@example.com", gotBody["to"])
	assert.Equal(t, "parcel_created", gotBody["template_type"])
	ctx, ok := gotBody["context"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "PRCL-AB12CD", ctx["tracking_id"])
}

func TestNotificationSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewNotificationClient(srv.URL, time.Second)
	assert.False(t, c.Send(context.Background(), "user@example.com", TemplateParcelDelivered, nil))
}

func TestNotificationSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewNotificationClient(srv.URL, time.Second)
	assert.False(t, c.Send(context.Background(), "user@example.com", TemplateParcelCreated, nil))
}

func TestRequestPayment(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/payments/pay/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewPaymentClient(srv.URL, time.Second)
	ok := c.RequestPayment(context.Background(), "PRCL-XY99ZZ", "upi", 2.5)

	assert.True(t, ok)
	assert.Equal(t, "PRCL-XY99ZZ", gotBody["tracking_id"])
	assert.Equal(t, "upi", gotBody["method"])
	assert.Equal(t, 2.5, gotBody["weight"])
}

func TestRequestPaymentFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewPaymentClient(srv.URL, time.Second)
	assert.False(t, c.RequestPayment(context.Background(), "PRCL-XY99ZZ", "upi", 2.5))
}
