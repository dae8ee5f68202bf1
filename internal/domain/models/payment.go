package models

// Payment is the single payment row tied to a guide request.
type Payment struct {
	ID            int64   `json:"payment_id"`
	RequestID     int64   `json:"request_id"`
	VisitorID     int64   `json:"visitor_id,omitempty"`
	TotalAmount   float64 `json:"total_amount"`
	Currency      string  `json:"currency"`
	ReferenceCode string  `json:"reference_code"`
	Status        string  `json:"payment_status"`
	PaidAt        string  `json:"paid_at,omitempty"`
	ConfirmedBy   int64   `json:"confirmed_by,omitempty"`
	ConfirmedAt   string  `json:"confirmed_at,omitempty"`
	SiteName      string  `json:"site,omitempty"`
	VisitorName   string  `json:"visitor_name,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// PaymentProof is append-only evidence attached to a payment.
type PaymentProof struct {
	ID            int64   `json:"proof_id"`
	PaymentID     int64   `json:"payment_id"`
	FileURL       string  `json:"file_url"`
	TransactionID string  `json:"transaction_id,omitempty"`
	AmountPaid    float64 `json:"amount_paid,omitempty"`
	PaymentDate   string  `json:"payment_date,omitempty"`
	UploadedAt    string  `json:"uploaded_at,omitempty"`
}
