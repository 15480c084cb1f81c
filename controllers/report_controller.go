package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lvalverde/commerce-admin-api/services"
)

// ExportOrderReport handles POST /api/v1/orders/report - renders the current
// order collection to CSV and uploads it to the configured S3 bucket. The
// collection is refreshed first so the export reflects the backend's state.
func ExportOrderReport(c *gin.Context) {
	reportService := services.GetReportService()
	if reportService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_DISABLED",
				"message": "Report export is not configured (AWS_S3_BUCKET is unset)",
			},
		})
		return
	}

	if err := orderList.Refresh(c.Request.Context()); err != nil {
		respondWriteError(c, err)
		return
	}

	key, url, err := reportService.ExportOrders(orderList.Collection())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_FAILED",
				"message": "Failed to export the order report",
				"details": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"key": key,
			"url": url,
		},
	})
}
