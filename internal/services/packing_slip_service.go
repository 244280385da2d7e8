package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
)

// PrintService renders packing slips and repair tickets as PDFs for the
// station label printers.
type PrintService struct {
	Orders    *repositories.OrderRepository
	Repairs   *repositories.RepairRepository
	TechLogs  *repositories.TechSerialRepository
	Directory *StaffDirectoryService
}

func NewPrintService(
	orders *repositories.OrderRepository,
	repairs *repositories.RepairRepository,
	techLogs *repositories.TechSerialRepository,
	directory *StaffDirectoryService,
) *PrintService {
	return &PrintService{Orders: orders, Repairs: repairs, TechLogs: techLogs, Directory: directory}
}

// PackingSlip generates the slip that goes in the box: order info, item line,
// and the serials tested against the shipment.
func (s *PrintService) PackingSlip(ctx context.Context, orderID int) ([]byte, error) {
	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %d not found", orderID)
	}

	var serials []models.TechSerialNumber
	if order.ShippingTrackingNumber != "" {
		serials, err = s.TechLogs.ListByTracking(ctx, order.ShippingTrackingNumber)
		if err != nil {
			return nil, err
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Packing Slip", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Printed: %s", time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Order", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Order ID: %s", order.OrderID), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Source: %s", order.AccountSource), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Tracking: %s", order.ShippingTrackingNumber), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Condition: %s", order.Condition), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Items", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(120, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "SKU", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	title := order.ProductTitle
	if len(title) > 60 {
		title = title[:57] + "..."
	}
	pdf.CellFormat(120, 6, title, "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 6, order.SKU, "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, order.Quantity, "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	if len(serials) > 0 {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Tested Serial Numbers", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(80, 7, "Serial", "1", 0, "C", true, 0, "")
		pdf.CellFormat(55, 7, "Tested By", "1", 0, "C", true, 0, "")
		pdf.CellFormat(55, 7, "Date", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, serial := range serials {
			testerID := serial.TestedBy
			tester := s.Directory.ResolveName(ctx, &testerID)
			testDate := ""
			if serial.TestDateTime != nil {
				testDate = serial.TestDateTime.Format("02-Jan-2006")
			}
			pdf.CellFormat(80, 6, serial.SerialNumber, "1", 0, "C", false, 0, "")
			pdf.CellFormat(55, 6, tester, "1", 0, "C", false, 0, "")
			pdf.CellFormat(55, 6, testDate, "1", 1, "C", false, 0, "")
		}
		pdf.Ln(5)
	}

	if order.Notes != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(190, 7, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 5, order.Notes, "1", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate packing slip: %w", err)
	}
	return buf.Bytes(), nil
}

// RepairTicket generates the printable intake ticket handed to the customer.
func (s *PrintService) RepairTicket(ctx context.Context, id int) ([]byte, error) {
	repair, err := s.Repairs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("repair %d not found", id)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Repair Service Ticket", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 8, repair.RSNumber, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Received: %s", repair.DateTime), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Device", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Product: %s", repair.Product), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Serial: %s", repair.SerialNumber), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Contact: %s", repair.Contact), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Quote: %s", repair.Price), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Reported Issue", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(190, 6, repair.Issue, "1", "L", false)
	pdf.Ln(3)

	if repair.Parts != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Parts", "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 6, repair.Parts, "1", "L", false)
		pdf.Ln(3)
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(190, 10, fmt.Sprintf("Status: %s", repair.Status), "1", 1, "C", true, 0, "")

	if len(repair.StatusHistory) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Status History", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, entry := range repair.StatusHistory {
			pdf.CellFormat(95, 6, entry.Status, "1", 0, "L", false, 0, "")
			pdf.CellFormat(95, 6, entry.Timestamp, "1", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate repair ticket: %w", err)
	}
	return buf.Bytes(), nil
}
