package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tailorrecords/tailor-records-api/services"
)

// ExportBackup handles GET /api/v1/backup/export - the full entity set as one
// downloadable JSON document
func ExportBackup(c *gin.Context) {
	backup, err := services.ExportBackup()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to export data",
			},
		})
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", services.ExportFileName()))
	c.JSON(http.StatusOK, backup)
}

// ImportBackup handles POST /api/v1/backup/import - additive restore of a
// backup document. A document that fails to parse is rejected before any
// record is written; records from a parsed document are inserted as-is.
func ImportBackup(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERIALIZATION_ERROR",
				"message": "A backup document is required",
			},
		})
		return
	}

	backup, err := services.ParseBackup(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERIALIZATION_ERROR",
				"message": "Backup document is malformed",
				"details": err.Error(),
			},
		})
		return
	}

	if err := services.ImportBackup(backup); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to import backup",
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
			"customers":    len(backup.Customers),
			"measurements": len(backup.Measurements),
			"orders":       len(backup.Orders),
		},
	})
}
