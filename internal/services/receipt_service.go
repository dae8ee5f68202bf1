package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/repositories"
)

// ReceiptService renders payment receipts as PDFs.
type ReceiptService struct {
	Payments repositories.PaymentRepository
	Requests repositories.RequestRepository

	// Loader overrides the DB lookup in tests.
	Loader func(int64) (receiptData, error)
}

type receiptData struct {
	PaymentID   int64
	RequestID   int64
	VisitorName string
	SiteName    string
	VisitDate   string
	Amount      float64
	Currency    string
	Reference   string
	ConfirmedAt string
}

// GenerateReceipt builds the PDF for a confirmed payment. Unconfirmed
// payments have no receipt yet.
func (s ReceiptService) GenerateReceipt(paymentID int64) ([]byte, string, error) {
	data, err := s.loadReceiptData(paymentID)
	if err != nil {
		return nil, "", err
	}
	return buildReceiptPDF(data)
}

func (s ReceiptService) loadReceiptData(paymentID int64) (receiptData, error) {
	if s.Loader != nil {
		return s.Loader(paymentID)
	}
	var out receiptData
	p, err := s.Payments.GetByID(nil, paymentID)
	if err != nil {
		return out, err
	}
	if p.Status != string(domain.PaymentConfirmed) {
		return out, domain.PreconditionError{Msg: "receipt is only available for confirmed payments"}
	}

	out.PaymentID = p.ID
	out.RequestID = p.RequestID
	out.VisitorName = p.VisitorName
	out.SiteName = p.SiteName
	out.Amount = p.TotalAmount
	out.Currency = p.Currency
	out.Reference = p.ReferenceCode
	out.ConfirmedAt = p.ConfirmedAt

	if req, err := s.Requests.GetByID(nil, p.RequestID); err == nil {
		out.VisitDate = req.PreferredDate
		if strings.TrimSpace(out.SiteName) == "" {
			out.SiteName = req.SiteName
		}
		if strings.TrimSpace(out.VisitorName) == "" {
			out.VisitorName = req.VisitorName
		}
	}
	return out, nil
}

func buildReceiptPDF(d receiptData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt No   : RCP-%d", d.PaymentID),
		fmt.Sprintf("Reference    : %s", safe(d.Reference, "-")),
		fmt.Sprintf("Issued       : %s", time.Now().Format("2006-01-02 15:04")),
		fmt.Sprintf("Visitor      : %s", safe(d.VisitorName, "-")),
		fmt.Sprintf("Site         : %s", safe(d.SiteName, "-")),
		fmt.Sprintf("Visit Date   : %s", safe(d.VisitDate, "-")),
		fmt.Sprintf("Request No   : #%d", d.RequestID),
		fmt.Sprintf("Confirmed At : %s", safe(d.ConfirmedAt, "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Total Paid: %.2f %s", d.Amount, safe(d.Currency, "ETB")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this receipt together with a valid ID at the site entrance.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("RECEIPT_%d_%s.pdf", d.PaymentID, safeFilenamePart(d.Reference))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "payment"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
