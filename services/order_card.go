package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/tailorrecords/tailor-records-api/models"
	"github.com/tailorrecords/tailor-records-api/utils"
)

// OrderCard is the shareable artifact for an order: a rendered PDF card plus
// the QR payload embedded in it.
type OrderCard struct {
	PDF       []byte
	QRPayload string
	FileName  string
}

// GenerateOrderCard renders the pickup card for an order: order label,
// customer name, the detail rows, and a QR code encoding the order id for
// scanning at pickup.
func GenerateOrderCard(order *models.Order, customer *models.Customer) (*OrderCard, error) {
	payload := utils.BuildQRPayload(order.ID, customer.Name)

	qrPNG, err := qrcode.Encode(payload, qrcode.Medium, 400)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(118, 10, "Tailor Records", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(118, 8, orderLabel(order), "", 1, "C", false, 0, "")
	pdf.CellFormat(118, 8, customer.Name, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	drawDetailRow := func(label, value string) {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(48, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(70, 7, value, "", 1, "R", false, 0, "")
	}

	if order.OrderNumber != "" {
		drawDetailRow("Order Number:", order.OrderNumber)
	}
	drawDetailRow("Item:", order.ItemType)
	drawDetailRow("Quantity:", fmt.Sprintf("%d", order.Quantity))
	drawDetailRow("Total Price:", fmt.Sprintf("Rs %.2f", order.Price))
	drawDetailRow("Advance Paid:", fmt.Sprintf("Rs %.2f", order.AdvancePaid))
	drawDetailRow("Balance:", fmt.Sprintf("Rs %.2f", RemainingBalance(order)))
	drawDetailRow("Due Date:", order.DueDate.Format("02 Jan 2006"))
	drawDetailRow("Status:", statusLabel(order.Status))
	pdf.Ln(4)

	// Centered QR code
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("order-qr", opts, bytes.NewReader(qrPNG))
	qrSize := 55.0
	qrX := (148.0 - qrSize) / 2
	pdf.ImageOptions("order-qr", qrX, pdf.GetY(), qrSize, qrSize, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + qrSize + 4)

	// Footer
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(118, 6, "Show this QR code when picking up your order", "", 1, "C", false, 0, "")
	pdf.CellFormat(118, 6, fmt.Sprintf("Phone: %s", customer.PhoneNumber), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render order card: %w", err)
	}

	return &OrderCard{
		PDF:       buf.Bytes(),
		QRPayload: payload,
		FileName:  fmt.Sprintf("order_card_%d_%d.pdf", order.ID, time.Now().Unix()),
	}, nil
}

func orderLabel(order *models.Order) string {
	if order.OrderNumber != "" {
		return fmt.Sprintf("Order #%s", order.OrderNumber)
	}
	return fmt.Sprintf("Order #%d", order.ID)
}

func statusLabel(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}
