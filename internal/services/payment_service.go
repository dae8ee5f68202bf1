package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
	"tourism-backend/internal/gateway"
	"tourism-backend/internal/repositories"
	"tourism-backend/internal/utils"
)

// PaymentService records payments locally first and only then talks to
// the processor. A gateway outage never loses the local bookkeeping.
type PaymentService struct {
	DB       *sql.DB
	Payments repositories.PaymentRepository
	Requests repositories.RequestRepository
	Outbox   repositories.OutboxRepository
	Gateway  *gateway.ChapaClient

	// CallbackBase is this API's public base URL; ReturnURL is where
	// the checkout page sends the visitor afterwards.
	CallbackBase string
	ReturnURL    string
}

// InitializeResult is what the checkout endpoint hands the frontend.
type InitializeResult struct {
	Payment     models.Payment `json:"payment"`
	CheckoutURL string         `json:"checkout_url,omitempty"`
	Routed      bool           `json:"routed"`
	Message     string         `json:"message,omitempty"`
}

// VerifyResult reports the outcome of a verification round-trip.
type VerifyResult struct {
	Payment   models.Payment `json:"payment"`
	Confirmed bool           `json:"confirmed"`
	Message   string         `json:"message,omitempty"`
}

func newReferenceCode() string {
	return "TX-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// Initialize creates the waiting payment row for a request and, when
// the gateway is configured, registers the transaction and returns the
// checkout URL. With no gateway the row is still created and the
// result says so.
func (s PaymentService) Initialize(ctx context.Context, requestID int64, amount float64, currency string) (InitializeResult, error) {
	if requestID <= 0 {
		return InitializeResult{}, domain.ValidationError{Field: "request_id", Msg: "request is required"}
	}
	if amount <= 0 {
		return InitializeResult{}, domain.ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}
	if currency == "" {
		currency = "ETB"
	}
	if _, err := s.Requests.GetByID(nil, requestID); err != nil {
		return InitializeResult{}, err
	}

	ref := newReferenceCode()
	id, err := s.Payments.Create(nil, requestID, amount, currency, ref)
	if err != nil {
		return InitializeResult{}, err
	}
	p, err := s.Payments.GetByID(nil, id)
	if err != nil {
		return InitializeResult{}, err
	}

	if !s.Gateway.IsConfigured() {
		utils.Logger().Warn("payment gateway not configured; reference recorded only",
			zap.String("reference", ref))
		return InitializeResult{
			Payment: p,
			Routed:  false,
			Message: "payment recorded; gateway not configured",
		}, nil
	}

	res, err := s.Gateway.Initialize(ctx, gateway.InitializeRequest{
		Amount:      amount,
		Currency:    currency,
		TxRef:       ref,
		CallbackURL: s.CallbackBase + "/api/payments/chapa/verify/" + ref,
		ReturnURL:   s.ReturnURL,
	})
	if err != nil {
		// the waiting row stays; the frontend can retry checkout later
		return InitializeResult{}, err
	}

	utils.Logger().Info("payment initialized",
		zap.Int64("payment_id", id), zap.String("reference", ref))
	return InitializeResult{Payment: p, CheckoutURL: res.CheckoutURL, Routed: true}, nil
}

// VerifyByReference asks the gateway about a reference and, on success,
// confirms the payment and notifies both sides. Re-verifying an already
// confirmed payment succeeds without new side effects.
func (s PaymentService) VerifyByReference(ctx context.Context, reference string) (VerifyResult, error) {
	p, err := s.Payments.GetByReference(nil, reference)
	if err != nil {
		return VerifyResult{}, err
	}

	if !s.Gateway.IsConfigured() {
		return VerifyResult{
			Payment: p,
			Message: "gateway not configured; payment left unverified",
		}, nil
	}

	ok, err := s.Gateway.Verify(ctx, reference)
	if err != nil {
		return VerifyResult{}, err
	}
	if !ok {
		return VerifyResult{Payment: p, Message: "payment not completed on the gateway"}, nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return VerifyResult{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	changed, err := s.Payments.ConfirmByReference(tx, reference)
	if err != nil {
		return VerifyResult{}, err
	}
	if changed {
		if err := s.enqueueConfirmed(tx, p); err != nil {
			return VerifyResult{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return VerifyResult{}, domain.InternalError{Err: err}
	}

	p, err = s.Payments.GetByReference(nil, reference)
	if err != nil {
		return VerifyResult{}, err
	}
	utils.Logger().Info("payment verified",
		zap.String("reference", reference), zap.Bool("state_changed", changed))
	return VerifyResult{Payment: p, Confirmed: true}, nil
}

// VerifyByID is the manual admin confirmation. It stamps the admin,
// records an admin_verified proof and notifies the visitor; a duplicate
// proof does not undo the confirmation.
func (s PaymentService) VerifyByID(paymentID int64, admin domain.Principal) (models.Payment, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return models.Payment{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	changed, err := s.Payments.ConfirmByID(tx, paymentID, admin.UserID)
	if err != nil {
		return models.Payment{}, err
	}
	p, err := s.Payments.GetByID(tx, paymentID)
	if err != nil {
		return models.Payment{}, err
	}
	if !changed {
		if p.Status == string(domain.PaymentConfirmed) {
			return p, nil // already confirmed, keep it that way
		}
		return models.Payment{}, domain.PreconditionError{
			Msg: fmt.Sprintf("cannot confirm a payment in status %q", p.Status),
		}
	}

	_, err = s.Payments.InsertProof(tx, models.PaymentProof{
		PaymentID:     paymentID,
		FileURL:       "admin_verified",
		TransactionID: p.ReferenceCode,
		AmountPaid:    p.TotalAmount,
	})
	if err != nil && !domain.IsConflict(err) {
		return models.Payment{}, err
	}
	if err := s.enqueueConfirmed(tx, p); err != nil {
		return models.Payment{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Payment{}, domain.InternalError{Err: err}
	}
	utils.Logger().Info("payment confirmed by admin",
		zap.Int64("payment_id", paymentID), zap.Int64("admin_id", admin.UserID))
	return p, nil
}

func (s PaymentService) enqueueConfirmed(tx *sql.Tx, p models.Payment) error {
	_, err := s.Outbox.Enqueue(tx, models.OutboxEvent{
		Audience:         models.AudienceUser,
		RecipientID:      p.VisitorID,
		Title:            "Payment Confirmed",
		Message:          fmt.Sprintf("Your payment of %.2f %s (%s) has been confirmed.", p.TotalAmount, p.Currency, p.ReferenceCode),
		Type:             domain.NotifyPayment,
		RelatedRequestID: p.RequestID,
		RelatedPaymentID: p.ID,
	})
	if err != nil {
		return err
	}
	_, err = s.Outbox.Enqueue(tx, models.OutboxEvent{
		Audience:         models.AudienceAdmins,
		Title:            "Payment Received",
		Message:          fmt.Sprintf("Payment %s for request #%d is confirmed.", p.ReferenceCode, p.RequestID),
		Type:             domain.NotifyPayment,
		RelatedRequestID: p.RequestID,
		RelatedPaymentID: p.ID,
	})
	return err
}

// AttachProof records an uploaded receipt file against a payment.
func (s PaymentService) AttachProof(paymentID int64, fileURL, transactionID string, amount float64) (models.PaymentProof, error) {
	if fileURL == "" {
		return models.PaymentProof{}, domain.ValidationError{Field: "file", Msg: "proof file is required"}
	}
	if _, err := s.Payments.GetByID(nil, paymentID); err != nil {
		return models.PaymentProof{}, err
	}
	proof := models.PaymentProof{
		PaymentID:     paymentID,
		FileURL:       fileURL,
		TransactionID: transactionID,
		AmountPaid:    amount,
	}
	id, err := s.Payments.InsertProof(nil, proof)
	if err != nil {
		return models.PaymentProof{}, err
	}
	proof.ID = id
	return proof, nil
}

// HasConfirmedPayment is the approval guard: true only when the
// request's payment reached confirmed.
func (s PaymentService) HasConfirmedPayment(requestID int64) bool {
	return s.Payments.HasConfirmed(nil, requestID)
}

func (s PaymentService) GetByID(id int64) (models.Payment, error) {
	return s.Payments.GetByID(nil, id)
}

func (s PaymentService) List(requestID int64) ([]models.Payment, error) {
	return s.Payments.List(requestID)
}
