package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tailorrecords/tailor-records-api/config"
	"github.com/tailorrecords/tailor-records-api/models"
	"github.com/tailorrecords/tailor-records-api/services"
)

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Notes       string `json:"notes"`
}

// UpdateCustomerRequest represents the request body for updating a customer
type UpdateCustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Notes       string `json:"notes"`
}

// CreateCustomer handles POST /api/v1/customers
func CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Name and phone number are required",
				"details": err.Error(),
			},
		})
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.PhoneNumber) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Name and phone number must not be blank",
			},
		})
		return
	}

	customer := models.Customer{
		Name:        strings.TrimSpace(req.Name),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Notes:       req.Notes,
	}

	// Duplicate phone is a warning, not a block: the record is saved and the
	// conflicting customer is reported alongside it
	duplicate, err := services.FindCustomerByPhone(customer.PhoneNumber, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check phone number",
			},
		})
		return
	}

	db := config.GetDB()
	if err := db.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create customer",
			},
		})
		return
	}

	services.GetNotifier().Publish(services.TableCustomers)

	response := gin.H{
		"success": true,
		"data":    customer,
	}
	if duplicate != nil {
		response["warning"] = gin.H{
			"code":     "DUPLICATE_PHONE",
			"message":  "Another customer already uses this phone number",
			"customer": duplicate,
		}
	}
	c.JSON(http.StatusCreated, response)
}

// ListCustomers handles GET /api/v1/customers - full list or ?search= filter,
// name ascending either way
func ListCustomers(c *gin.Context) {
	customers, err := services.CustomersMatching(c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load customers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}

// GetCustomer handles GET /api/v1/customers/:id
func GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	// Resolve the photo URL when a photo service is configured
	if photoService := services.GetPhotoService(); photoService != nil && customer.PhotoURI != "" {
		if url, err := photoService.PhotoURL(customer.PhotoURI); err == nil {
			customer.PhotoURL = url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// UpdateCustomer handles PUT /api/v1/customers/:id. Updating an id that does
// not exist fails with NOT_FOUND rather than silently succeeding.
func UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Name and phone number are required",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	duplicate, err := services.FindCustomerByPhone(strings.TrimSpace(req.PhoneNumber), customer.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check phone number",
			},
		})
		return
	}

	customer.Name = strings.TrimSpace(req.Name)
	customer.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	customer.Notes = req.Notes

	if err := db.Save(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update customer",
			},
		})
		return
	}

	services.GetNotifier().Publish(services.TableCustomers)

	response := gin.H{
		"success": true,
		"data":    customer,
	}
	if duplicate != nil {
		response["warning"] = gin.H{
			"code":     "DUPLICATE_PHONE",
			"message":  "Another customer already uses this phone number",
			"customer": duplicate,
		}
	}
	c.JSON(http.StatusOK, response)
}

// DeleteCustomer handles DELETE /api/v1/customers/:id. The delete cascades in
// one transaction: the customer's measurements and orders go first, then the
// customer row, so no orphan ever becomes visible.
func DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.Measurement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete customer",
			},
		})
		return
	}

	services.GetNotifier().Publish(
		services.TableCustomers,
		services.TableMeasurements,
		services.TableOrders,
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deleted_id": customer.ID,
		},
	})
}

// CheckCustomerPhone handles GET /api/v1/customers/check-phone - one-shot
// duplicate probe (?phone=&exclude_id=). The live debounced variant runs over
// the websocket stream.
func CheckCustomerPhone(c *gin.Context) {
	phone := c.Query("phone")
	if len(phone) < services.PhoneCheckMinLength {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"checked":   false,
				"duplicate": false,
			},
		})
		return
	}

	var excludeID uint
	if raw := c.Query("exclude_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "exclude_id must be an integer",
				},
			})
			return
		}
		excludeID = uint(parsed)
	}

	duplicate, err := services.FindCustomerByPhone(phone, excludeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check phone number",
			},
		})
		return
	}

	data := gin.H{
		"checked":   true,
		"duplicate": duplicate != nil,
	}
	if duplicate != nil {
		data["customer"] = duplicate
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// UploadCustomerPhoto handles POST /api/v1/customers/:id/photo - multipart
// photo upload stored through the configured photo backend
func UploadCustomerPhoto(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Customer not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A photo file is required",
			},
		})
		return
	}

	photoService := services.GetPhotoService()
	if photoService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PHOTO_STORAGE_UNAVAILABLE",
				"message": "Photo storage is not configured",
			},
		})
		return
	}

	photoKey, err := photoService.StorePhoto(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PHOTO_UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	// Replacing an existing photo removes the old file
	oldKey := customer.PhotoURI
	customer.PhotoURI = photoKey
	if err := db.Save(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save photo reference",
			},
		})
		return
	}
	if oldKey != "" && oldKey != photoKey {
		if err := photoService.DeletePhoto(oldKey); err != nil {
			log.Printf("warning: failed to delete replaced photo %s: %v", oldKey, err)
		}
	}

	services.GetNotifier().Publish(services.TableCustomers)

	if url, err := photoService.PhotoURL(customer.PhotoURI); err == nil {
		customer.PhotoURL = url
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// parseIDParam parses the :id path parameter, writing the error response itself
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "id must be an integer",
			},
		})
		return 0, false
	}
	return uint(id), true
}
