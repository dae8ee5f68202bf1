package repositories

import (
	"database/sql"
	"errors"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
)

type VisitRepository struct {
	DB *sql.DB
}

// CreateFromRequest derives the upcoming visit for a freshly approved
// request, copying the preferred schedule. The request_id unique key
// guarantees a single visit even under concurrent approvals.
func (r VisitRepository) CreateFromRequest(q Querier, requestID int64, date, timeOfDay string) (int64, error) {
	if q == nil {
		q = r.DB
	}
	res, err := q.Exec(`
		INSERT INTO visits (request_id, visit_date, visit_time, status)
		VALUES (?, ?, ?, 'upcoming')`,
		requestID, date, timeOfDay,
	)
	if err != nil {
		if IsDuplicate(err) {
			return 0, domain.ConflictError{Resource: "visit", Msg: "request already has a visit"}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r VisitRepository) GetByRequestID(requestID int64) (models.Visit, error) {
	var v models.Visit
	err := r.DB.QueryRow(`
		SELECT visit_id, request_id,
		       COALESCE(DATE_FORMAT(visit_date,'%Y-%m-%d'),''),
		       COALESCE(TIME_FORMAT(visit_time,'%H:%i'),''),
		       status,
		       DATE_FORMAT(created_at,'%Y-%m-%d %H:%i:%s')
		FROM visits WHERE request_id=?`, requestID).Scan(
		&v.ID, &v.RequestID, &v.VisitDate, &v.VisitTime, &v.Status, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return v, domain.NotFoundError{Resource: "visit"}
	}
	return v, err
}
