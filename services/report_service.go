package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/lvalverde/commerce-admin-api/models"
	"github.com/lvalverde/commerce-admin-api/utils"
)

// ReportService renders order collections to CSV and stores the result
type ReportService interface {
	// ExportOrders writes the given orders as a CSV report, uploads it, and
	// returns the storage key and a URL for downloading it
	ExportOrders(orders []models.Order) (key string, url string, err error)
}

// S3ReportService implements ReportService using S3 for storage
type S3ReportService struct {
	s3Service S3Interface
}

var reportServiceInstance ReportService

// InitReportService initializes the report service with an S3 backend
func InitReportService(s3Service S3Interface) ReportService {
	reportServiceInstance = &S3ReportService{
		s3Service: s3Service,
	}
	return reportServiceInstance
}

// GetReportService returns the initialized report service instance
func GetReportService() ReportService {
	return reportServiceInstance
}

// SetReportService sets the report service instance (primarily for testing)
func SetReportService(service ReportService) {
	reportServiceInstance = service
}

// ExportOrders renders one CSV row per order line, uploads the file under a
// timestamped key, and returns the key plus a presigned download URL
func (s *S3ReportService) ExportOrders(orders []models.Order) (string, string, error) {
	content, err := renderOrdersCSV(orders)
	if err != nil {
		return "", "", fmt.Errorf("failed to render order report: %w", err)
	}

	key := fmt.Sprintf("reports/orders_%d.csv", time.Now().Unix())
	if err := s.s3Service.UploadObject(key, content, "text/csv"); err != nil {
		return "", "", fmt.Errorf("failed to upload order report: %w", err)
	}

	url, err := s.s3Service.GetPresignedURL(key)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate report URL: %w", err)
	}

	return key, url, nil
}

// renderOrdersCSV produces the report body. Orders without items still get a
// single row so they are visible in the export.
func renderOrdersCSV(orders []models.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"orderId", "orderDate", "customer", "productName", "quantity", "subtotal", "orderTotal"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, order := range orders {
		customer := order.CustomerFirstName + " " + order.CustomerLastName
		if len(order.Items) == 0 {
			row := []string{
				strconv.Itoa(order.ID),
				order.OrderDate,
				customer,
				"",
				"0",
				utils.FormatMoney(0),
				utils.FormatMoney(order.TotalAmount),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
			continue
		}
		for _, item := range order.Items {
			row := []string{
				strconv.Itoa(order.ID),
				order.OrderDate,
				customer,
				item.ProductName,
				strconv.Itoa(item.Quantity),
				utils.FormatMoney(item.Subtotal),
				utils.FormatMoney(order.TotalAmount),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
