package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorrecords/tailor-records-api/models"
)

func fieldRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.GET("/measurement-fields", ListMeasurementFields)
		v1.POST("/measurement-fields", CreateMeasurementField)
		v1.PUT("/measurement-fields", UpdateMeasurementFields)
		v1.DELETE("/measurement-fields/:id", DeleteMeasurementField)
	}
	return router
}

func postField(t *testing.T, router *gin.Engine, name, category string) models.MeasurementField {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"name": name, "category": category})
	req, _ := http.NewRequest("POST", "/api/v1/measurement-fields", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Data models.MeasurementField `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.Data
}

func TestCreateMeasurementFieldDisplayOrder(t *testing.T) {
	setupTestDB(t)
	router := fieldRouter()

	// First field of a category starts at 0
	chest := postField(t, router, "Chest", "Upper Body")
	assert.Equal(t, 0, chest.DisplayOrder)

	// Each addition lands after the category's current maximum
	sleeve := postField(t, router, "Sleeve", "Upper Body")
	assert.Equal(t, 1, sleeve.DisplayOrder)

	// Other categories keep their own independent sequence
	waist := postField(t, router, "Waist", "Lower Body")
	assert.Equal(t, 0, waist.DisplayOrder)

	// A gap left by a delete is not reused: the max still governs
	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/v1/measurement-fields/%d", chest.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	shoulder := postField(t, router, "Shoulder", "Upper Body")
	assert.Equal(t, 2, shoulder.DisplayOrder)
}

func TestCreateMeasurementFieldValidation(t *testing.T) {
	setupTestDB(t)
	router := fieldRouter()

	tests := []struct {
		name        string
		requestBody map[string]string
	}{
		{"Missing name", map[string]string{"category": "Upper Body"}},
		{"Missing category", map[string]string{"name": "Chest"}},
		{"Blank name", map[string]string{"name": "  ", "category": "Upper Body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest("POST", "/api/v1/measurement-fields", bytes.NewBuffer(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListMeasurementFieldsOrdering(t *testing.T) {
	db := setupTestDB(t)
	router := fieldRouter()

	db.Create(&models.MeasurementField{Name: "Waist", Category: "Lower Body", DisplayOrder: 0})
	db.Create(&models.MeasurementField{Name: "Sleeve", Category: "Upper Body", DisplayOrder: 1})
	db.Create(&models.MeasurementField{Name: "Chest", Category: "Upper Body", DisplayOrder: 0})

	req, _ := http.NewRequest("GET", "/api/v1/measurement-fields", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []models.MeasurementField `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 3)
	assert.Equal(t, "Waist", response.Data[0].Name)
	assert.Equal(t, "Chest", response.Data[1].Name)
	assert.Equal(t, "Sleeve", response.Data[2].Name)
}

func TestUpdateMeasurementFieldsBatch(t *testing.T) {
	db := setupTestDB(t)
	router := fieldRouter()

	chest := models.MeasurementField{Name: "Chest", Category: "Upper Body", DisplayOrder: 0}
	sleeve := models.MeasurementField{Name: "Sleeve", Category: "Upper Body", DisplayOrder: 1}
	db.Create(&chest)
	db.Create(&sleeve)

	t.Run("Reorder applies as one unit", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"fields": []models.MeasurementField{
				{ID: chest.ID, Name: "Chest", Category: "Upper Body", DisplayOrder: 1},
				{ID: sleeve.ID, Name: "Sleeve", Category: "Upper Body", DisplayOrder: 0},
			},
		})
		req, _ := http.NewRequest("PUT", "/api/v1/measurement-fields", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var updated models.MeasurementField
		db.First(&updated, chest.ID)
		assert.Equal(t, 1, updated.DisplayOrder)
		updated = models.MeasurementField{}
		db.First(&updated, sleeve.ID)
		assert.Equal(t, 0, updated.DisplayOrder)
	})

	t.Run("Unknown id aborts the whole batch", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"fields": []models.MeasurementField{
				{ID: chest.ID, Name: "Chest", Category: "Upper Body", DisplayOrder: 5},
				{ID: 99999, Name: "Ghost", Category: "Upper Body", DisplayOrder: 6},
			},
		})
		req, _ := http.NewRequest("PUT", "/api/v1/measurement-fields", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)

		// The valid half of the batch was rolled back too
		var unchanged models.MeasurementField
		db.First(&unchanged, chest.ID)
		assert.Equal(t, 1, unchanged.DisplayOrder)
	})
}

func TestDeleteMeasurementFieldKeepsOrphanedValues(t *testing.T) {
	db := setupTestDB(t)
	router := fieldRouter()

	field := models.MeasurementField{Name: "Chest", Category: "Upper Body", DisplayOrder: 0}
	db.Create(&field)
	customer := createTestCustomer(t, db, "Asha", "9876543210")
	measurement := models.Measurement{
		CustomerID: customer.ID,
		Values:     models.StringMap{"Chest": "40", "Waist": "32"},
	}
	require.NoError(t, db.Create(&measurement).Error)

	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/v1/measurement-fields/%d", field.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The catalog entry is gone but the recorded value survives on the measurement
	var count int64
	db.Model(&models.MeasurementField{}).Count(&count)
	assert.Zero(t, count)

	var kept models.Measurement
	require.NoError(t, db.First(&kept, measurement.ID).Error)
	assert.Equal(t, "40", kept.Values["Chest"])
}
