package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorrecords/tailor-records-api/models"
	"github.com/tailorrecords/tailor-records-api/services"
	"github.com/tailorrecords/tailor-records-api/utils"
)

func shareRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.GET("/orders/:id/card", GetOrderCard)
		v1.POST("/orders/:id/share", ShareOrderCard)
		v1.POST("/qr/scan", ScanQR)
	}
	return router
}

type stubProvider struct {
	name     string
	err      error
	lastSent string
}

func (s *stubProvider) SendOrderCard(phone, caption string, cardPDF []byte) error {
	s.lastSent = phone
	return s.err
}

func (s *stubProvider) GetName() string { return s.name }

func TestGetOrderCard(t *testing.T) {
	db := setupTestDB(t)
	router := shareRouter()
	customer := createTestCustomer(t, db, "Asha", "9876543210")

	order := models.Order{CustomerID: customer.ID, ItemType: "Shirt", Price: 500, AdvancePaid: 200}
	require.NoError(t, db.Omit("Customer").Create(&order).Error)

	t.Run("Card is rendered as a PDF attachment", func(t *testing.T) {
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/orders/%d/card", order.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("Card for nonexistent order fails with NOT_FOUND", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/orders/99999/card", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestShareOrderCard(t *testing.T) {
	db := setupTestDB(t)
	router := shareRouter()
	customer := createTestCustomer(t, db, "Asha", "9876543210")

	order := models.Order{CustomerID: customer.ID, ItemType: "Shirt"}
	require.NoError(t, db.Omit("Customer").Create(&order).Error)

	share := func() services.ShareResult {
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/v1/orders/%d/share", order.ID), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data services.ShareResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return response.Data
	}

	t.Run("Configured provider delivers the card", func(t *testing.T) {
		provider := &stubProvider{name: "stub"}
		services.SetWhatsAppProvider(provider)
		defer services.SetWhatsAppProvider(nil)

		result := share()
		assert.True(t, result.Delivered)
		assert.Equal(t, "stub", result.Provider)
		assert.Equal(t, "9876543210", provider.lastSent)
	})

	t.Run("Provider failure degrades to a wa.me link", func(t *testing.T) {
		services.SetWhatsAppProvider(&stubProvider{name: "stub", err: errors.New("gateway down")})
		defer services.SetWhatsAppProvider(nil)

		result := share()
		assert.False(t, result.Delivered)
		assert.Contains(t, result.FallbackLink, "https://wa.me/9876543210")
	})

	t.Run("No provider yields the link without error", func(t *testing.T) {
		services.SetWhatsAppProvider(nil)
		result := share()
		assert.False(t, result.Delivered)
		assert.Contains(t, result.FallbackLink, "https://wa.me/")
	})
}

func TestScanQR(t *testing.T) {
	db := setupTestDB(t)
	router := shareRouter()
	customer := createTestCustomer(t, db, "Asha", "9876543210")

	order := models.Order{CustomerID: customer.ID, ItemType: "Shirt"}
	require.NoError(t, db.Omit("Customer").Create(&order).Error)

	scan := func(payload string) (*httptest.ResponseRecorder, map[string]interface{}) {
		body, _ := json.Marshal(map[string]string{"payload": payload})
		req, _ := http.NewRequest("POST", "/api/v1/qr/scan", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return w, response
	}

	t.Run("Valid payload resolves to the order", func(t *testing.T) {
		w, response := scan(utils.BuildQRPayload(order.ID, customer.Name))
		require.Equal(t, http.StatusOK, w.Code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(order.ID), data["id"])
		joined := data["customer"].(map[string]interface{})
		assert.Equal(t, "Asha", joined["name"])
	})

	t.Run("Deleted order falls back to the embedded name", func(t *testing.T) {
		w, response := scan(utils.BuildQRPayload(99999, "Asha"))
		require.Equal(t, http.StatusNotFound, w.Code)
		errObj := response["error"].(map[string]interface{})
		assert.Equal(t, "NOT_FOUND", errObj["code"])
		assert.Equal(t, "Asha", errObj["customer_name"])
	})

	t.Run("Garbage payload is rejected", func(t *testing.T) {
		w, _ := scan("https://example.com/not-an-order")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
