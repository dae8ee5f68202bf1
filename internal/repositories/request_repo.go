package repositories

import (
	"database/sql"
	"errors"
	"strings"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
)

type RequestRepository struct {
	DB *sql.DB
}

const requestSelect = `
	SELECT r.request_id,
	       COALESCE(r.visitor_id,0),
	       COALESCE(CONCAT(u.first_name,' ',u.last_name),''),
	       r.site_id,
	       COALESCE(s.site_name,''),
	       COALESCE(r.guide_type,''),
	       DATE_FORMAT(r.preferred_date,'%Y-%m-%d'),
	       TIME_FORMAT(r.preferred_time,'%H:%i'),
	       r.number_of_visitors,
	       COALESCE(r.special_requirements,''),
	       COALESCE(r.meeting_point,''),
	       r.request_status,
	       COALESCE(r.assigned_guide_id,0),
	       COALESCE(r.admin_notes,''),
	       COALESCE(s.visit_price,0),
	       DATE_FORMAT(r.created_at,'%Y-%m-%d %H:%i:%s'),
	       DATE_FORMAT(r.updated_at,'%Y-%m-%d %H:%i:%s')
	FROM guide_requests r
	LEFT JOIN users u ON r.visitor_id = u.user_id
	LEFT JOIN sites s ON r.site_id = s.site_id`

func scanRequest(scan func(dest ...any) error) (models.GuideRequest, error) {
	var g models.GuideRequest
	err := scan(
		&g.ID, &g.VisitorID, &g.VisitorName, &g.SiteID, &g.SiteName,
		&g.GuideType, &g.PreferredDate, &g.PreferredTime,
		&g.NumberOfVisitors, &g.SpecialRequirements, &g.MeetingPoint,
		&g.Status, &g.AssignedGuideID, &g.AdminNotes, &g.Amount,
		&g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}

func (r RequestRepository) Create(q Querier, visitorID int64, in models.GuideRequestInput) (int64, error) {
	if q == nil {
		q = r.DB
	}
	res, err := q.Exec(`
		INSERT INTO guide_requests
			(visitor_id, site_id, guide_type, preferred_date, preferred_time,
			 number_of_visitors, special_requirements, meeting_point, request_status)
		VALUES (?, ?, NULLIF(?,''), ?, ?, ?, NULLIF(?,''), NULLIF(?,''), 'pending')`,
		visitorID, in.SiteID, in.GuideType, in.PreferredDate, in.PreferredTime,
		in.NumberOfVisitors, in.SpecialRequirements, in.MeetingPoint,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r RequestRepository) GetByID(q Querier, id int64) (models.GuideRequest, error) {
	if q == nil {
		q = r.DB
	}
	g, err := scanRequest(q.QueryRow(requestSelect+` WHERE r.request_id=?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return g, domain.NotFoundError{Resource: "request"}
	}
	return g, err
}

func (r RequestRepository) ListForVisitor(visitorID int64) ([]models.GuideRequest, error) {
	return r.list(requestSelect+` WHERE r.visitor_id=? ORDER BY r.created_at DESC`, visitorID)
}

// ListAll returns every request for admins; for guides it restricts to
// the guide-visible queue: assigned to them, or approved and unassigned.
func (r RequestRepository) ListAll(p domain.Principal) ([]models.GuideRequest, error) {
	if p.IsGuide() {
		return r.list(requestSelect+`
			WHERE r.assigned_guide_id=?
			   OR (r.request_status='approved' AND r.assigned_guide_id IS NULL)
			ORDER BY r.created_at DESC`, p.UserID)
	}
	return r.list(requestSelect + ` ORDER BY r.created_at DESC`)
}

func (r RequestRepository) list(query string, args ...any) ([]models.GuideRequest, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.GuideRequest{}
	for rows.Next() {
		g, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// TransitionStatus performs a conditional state update. With expected
// states given, the write only applies when the current status is one
// of them; zero affected rows means the transition was rejected.
func (r RequestRepository) TransitionStatus(q Querier, id int64, to domain.RequestStatus, expected ...domain.RequestStatus) (bool, error) {
	if q == nil {
		q = r.DB
	}
	query := `UPDATE guide_requests SET request_status=? WHERE request_id=?`
	args := []any{string(to), id}
	if len(expected) > 0 {
		ph := make([]string, len(expected))
		for i, s := range expected {
			ph[i] = "?"
			args = append(args, string(s))
		}
		query += ` AND request_status IN (` + strings.Join(ph, ",") + `)`
	}
	res, err := q.Exec(query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// AssignGuide couples the guide reference and the assigned status in a
// single conditional write so an assignment can never orphan a request.
func (r RequestRepository) AssignGuide(q Querier, id, guideID int64) (bool, error) {
	if q == nil {
		q = r.DB
	}
	res, err := q.Exec(`
		UPDATE guide_requests
		SET assigned_guide_id=?, request_status='assigned'
		WHERE request_id=? AND request_status IN ('approved','assigned')`,
		guideID, id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
