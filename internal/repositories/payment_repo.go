package repositories

import (
	"database/sql"
	"errors"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

const paymentSelect = `
	SELECT p.payment_id, p.request_id, p.total_amount, p.currency,
	       p.reference_code, p.payment_status,
	       COALESCE(DATE_FORMAT(p.paid_at,'%Y-%m-%d %H:%i:%s'),''),
	       COALESCE(p.confirmed_by,0),
	       COALESCE(DATE_FORMAT(p.confirmed_at,'%Y-%m-%d %H:%i:%s'),''),
	       COALESCE(r.visitor_id,0),
	       COALESCE(CONCAT(u.first_name,' ',u.last_name),''),
	       COALESCE(s.site_name,''),
	       DATE_FORMAT(p.created_at,'%Y-%m-%d %H:%i:%s')
	FROM payments p
	LEFT JOIN guide_requests r ON p.request_id = r.request_id
	LEFT JOIN users u ON r.visitor_id = u.user_id
	LEFT JOIN sites s ON r.site_id = s.site_id`

func scanPayment(scan func(dest ...any) error) (models.Payment, error) {
	var p models.Payment
	err := scan(
		&p.ID, &p.RequestID, &p.TotalAmount, &p.Currency,
		&p.ReferenceCode, &p.Status, &p.PaidAt,
		&p.ConfirmedBy, &p.ConfirmedAt,
		&p.VisitorID, &p.VisitorName, &p.SiteName, &p.CreatedAt,
	)
	return p, err
}

// Create inserts the single waiting payment row for a request. The
// request_id unique key enforces at most one payment per request.
func (r PaymentRepository) Create(q Querier, requestID int64, amount float64, currency, reference string) (int64, error) {
	if q == nil {
		q = r.DB
	}
	res, err := q.Exec(`
		INSERT INTO payments (request_id, total_amount, currency, reference_code, payment_status)
		VALUES (?, ?, ?, ?, 'waiting')`,
		requestID, amount, currency, reference,
	)
	if err != nil {
		if IsDuplicate(err) {
			return 0, domain.ConflictError{Resource: "payment", Msg: "request already has a payment"}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r PaymentRepository) GetByID(q Querier, id int64) (models.Payment, error) {
	if q == nil {
		q = r.DB
	}
	p, err := scanPayment(q.QueryRow(paymentSelect+` WHERE p.payment_id=?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.NotFoundError{Resource: "payment"}
	}
	return p, err
}

func (r PaymentRepository) GetByReference(q Querier, reference string) (models.Payment, error) {
	if q == nil {
		q = r.DB
	}
	p, err := scanPayment(q.QueryRow(paymentSelect+` WHERE p.reference_code=?`, reference).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return p, domain.NotFoundError{Resource: "payment"}
	}
	return p, err
}

// HasConfirmed is the approval guard. It never fails the caller: on a
// missing payment row it simply reports false.
func (r PaymentRepository) HasConfirmed(q Querier, requestID int64) bool {
	if q == nil {
		q = r.DB
	}
	var one int
	err := q.QueryRow(`
		SELECT 1 FROM payments
		WHERE request_id=? AND payment_status='confirmed' LIMIT 1`, requestID).Scan(&one)
	return err == nil && one == 1
}

// ConfirmByReference transitions waiting/paid -> confirmed. Zero rows
// affected with an already-confirmed row is the idempotent success case.
func (r PaymentRepository) ConfirmByReference(q Querier, reference string) (bool, error) {
	if q == nil {
		q = r.DB
	}
	res, err := q.Exec(`
		UPDATE payments
		SET payment_status='confirmed', paid_at=NOW(), confirmed_at=NOW()
		WHERE reference_code=? AND payment_status IN ('waiting','paid')`,
		reference,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ConfirmByID is the admin manual confirmation; stamps the confirming user.
func (r PaymentRepository) ConfirmByID(q Querier, id, confirmedBy int64) (bool, error) {
	if q == nil {
		q = r.DB
	}
	res, err := q.Exec(`
		UPDATE payments
		SET payment_status='confirmed', confirmed_by=?, confirmed_at=NOW()
		WHERE payment_id=? AND payment_status IN ('waiting','paid')`,
		confirmedBy, id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// InsertProof appends evidence to a payment. Duplicate transaction ids
// surface as ConflictError so callers can tolerate re-verification.
func (r PaymentRepository) InsertProof(q Querier, p models.PaymentProof) (int64, error) {
	if q == nil {
		q = r.DB
	}
	res, err := q.Exec(`
		INSERT INTO payment_proofs (payment_id, file_url, transaction_id, amount_paid, payment_date)
		VALUES (?, ?, NULLIF(?,''), ?, COALESCE(NULLIF(?,''), CURDATE()))`,
		p.PaymentID, p.FileURL, p.TransactionID, p.AmountPaid, p.PaymentDate,
	)
	if err != nil {
		if IsDuplicate(err) {
			return 0, domain.ConflictError{Resource: "payment_proof", Msg: "proof already recorded"}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r PaymentRepository) List(requestID int64) ([]models.Payment, error) {
	query := paymentSelect + ` ORDER BY p.created_at DESC`
	args := []any{}
	if requestID > 0 {
		query = paymentSelect + ` WHERE p.request_id=? ORDER BY p.created_at DESC`
		args = append(args, requestID)
	}

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
