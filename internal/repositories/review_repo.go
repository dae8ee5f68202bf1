package repositories

import (
	"database/sql"

	"tourism-backend/internal/domain/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

func (r ReviewRepository) Create(rv models.Review) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO reviews (visitor_id, site_id, visit_id, rating, comment, is_approved)
		VALUES (?, ?, ?, ?, NULLIF(?,''), FALSE)`,
		rv.VisitorID, rv.SiteID, rv.VisitID, rv.Rating, rv.Comment,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListApproved returns published reviews, optionally for one site.
func (r ReviewRepository) ListApproved(siteID int64) ([]models.Review, error) {
	query := `
		SELECT r.review_id, r.visitor_id, r.site_id, r.visit_id, r.rating,
		       COALESCE(r.comment,''), r.is_approved,
		       u.first_name, u.last_name,
		       DATE_FORMAT(r.created_at,'%Y-%m-%d %H:%i:%s')
		FROM reviews r
		JOIN users u ON r.visitor_id = u.user_id
		WHERE r.is_approved=TRUE`
	args := []any{}
	if siteID > 0 {
		query += ` AND r.site_id=?`
		args = append(args, siteID)
	}
	query += ` ORDER BY r.created_at DESC`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(
			&rv.ID, &rv.VisitorID, &rv.SiteID, &rv.VisitID, &rv.Rating,
			&rv.Comment, &rv.IsApproved, &rv.FirstName, &rv.LastName, &rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
