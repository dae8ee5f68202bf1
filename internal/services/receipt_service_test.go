package services

import (
	"bytes"
	"testing"

	"tourism-backend/internal/domain"
)

func TestGenerateReceiptFromLoader(t *testing.T) {
	svc := ReceiptService{
		Loader: func(id int64) (receiptData, error) {
			return receiptData{
				PaymentID:   7,
				RequestID:   9,
				VisitorName: "Abebe Kebede",
				SiteName:    "Lalibela Rock-Hewn Churches",
				VisitDate:   "2026-09-15",
				Amount:      500,
				Currency:    "ETB",
				Reference:   "TX-ABCDEF123456",
				ConfirmedAt: "2026-08-28 10:00:00",
			}, nil
		},
	}

	pdfBytes, filename, err := svc.GenerateReceipt(7)
	if err != nil {
		t.Fatalf("generate receipt error: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	if filename != "RECEIPT_7_TX-ABCDEF123456.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestGenerateReceiptRequiresConfirmedPayment(t *testing.T) {
	svc := ReceiptService{
		Loader: func(id int64) (receiptData, error) {
			return receiptData{}, domain.PreconditionError{Msg: "receipt is only available for confirmed payments"}
		},
	}
	if _, _, err := svc.GenerateReceipt(7); !domain.IsPrecondition(err) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}
