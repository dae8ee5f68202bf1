package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
)

type SiteRepository struct {
	DB *sql.DB
}

const siteColumns = `site_id, site_name,
       COALESCE(short_description,''), COALESCE(full_description,''),
       COALESCE(location_address,''), COALESCE(visit_price,0),
       COALESCE(entrance_fee,0), COALESCE(guide_fee,0),
       COALESCE(estimated_duration,''), COALESCE(image_url,''),
       COALESCE(map_url,''), COALESCE(nearby_attractions,''),
       COALESCE(researcher_id,0), is_approved, COALESCE(approved_by,0),
       DATE_FORMAT(created_at,'%Y-%m-%d %H:%i:%s'),
       DATE_FORMAT(updated_at,'%Y-%m-%d %H:%i:%s')`

func scanSite(scan func(dest ...any) error) (models.Site, error) {
	var s models.Site
	err := scan(
		&s.ID, &s.SiteName, &s.ShortDescription, &s.FullDescription,
		&s.LocationAddress, &s.VisitPrice, &s.EntranceFee, &s.GuideFee,
		&s.EstimatedDuration, &s.ImageURL, &s.MapURL, &s.NearbyAttractions,
		&s.ResearcherID, &s.IsApproved, &s.ApprovedBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r SiteRepository) List() ([]models.Site, error) {
	rows, err := r.DB.Query(`SELECT ` + siteColumns + ` FROM sites ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Site{}
	for rows.Next() {
		s, err := scanSite(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r SiteRepository) GetByID(id int64) (models.Site, error) {
	s, err := scanSite(r.DB.QueryRow(`SELECT `+siteColumns+` FROM sites WHERE site_id=?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return s, domain.NotFoundError{Resource: "site"}
	}
	return s, err
}

func (r SiteRepository) Create(s models.Site) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO sites
			(site_name, short_description, full_description, location_address,
			 visit_price, entrance_fee, guide_fee, estimated_duration,
			 image_url, map_url, nearby_attractions, researcher_id, is_approved)
		VALUES (?, NULLIF(?,''), NULLIF(?,''), NULLIF(?,''), ?, ?, ?, NULLIF(?,''), NULLIF(?,''), NULLIF(?,''), NULLIF(?,''), NULLIF(?,0), FALSE)`,
		s.SiteName, s.ShortDescription, s.FullDescription, s.LocationAddress,
		s.VisitPrice, s.EntranceFee, s.GuideFee, s.EstimatedDuration,
		s.ImageURL, s.MapURL, s.NearbyAttractions, s.ResearcherID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var siteUpdateColumns = map[string]func(models.SiteInput) (any, bool){
	"site_name":          func(in models.SiteInput) (any, bool) { return deref(in.SiteName) },
	"short_description":  func(in models.SiteInput) (any, bool) { return deref(in.ShortDescription) },
	"full_description":   func(in models.SiteInput) (any, bool) { return deref(in.FullDescription) },
	"location_address":   func(in models.SiteInput) (any, bool) { return deref(in.LocationAddress) },
	"visit_price":        func(in models.SiteInput) (any, bool) { return derefF(in.VisitPrice) },
	"entrance_fee":       func(in models.SiteInput) (any, bool) { return derefF(in.EntranceFee) },
	"guide_fee":          func(in models.SiteInput) (any, bool) { return derefF(in.GuideFee) },
	"estimated_duration": func(in models.SiteInput) (any, bool) { return deref(in.EstimatedDuration) },
	"image_url":          func(in models.SiteInput) (any, bool) { return deref(in.ImageURL) },
	"map_url":            func(in models.SiteInput) (any, bool) { return deref(in.MapURL) },
	"nearby_attractions": func(in models.SiteInput) (any, bool) { return deref(in.NearbyAttractions) },
}

func deref(p *string) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

func derefF(p *float64) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Update applies the present fields and always resets approval so an
// edited site goes back through admin review.
func (r SiteRepository) Update(id int64, in models.SiteInput) error {
	sets := []string{"is_approved=FALSE", "approved_by=NULL", "approved_at=NULL"}
	args := []any{}
	for _, col := range []string{
		"site_name", "short_description", "full_description", "location_address",
		"visit_price", "entrance_fee", "guide_fee", "estimated_duration",
		"image_url", "map_url", "nearby_attractions",
	} {
		if v, ok := siteUpdateColumns[col](in); ok {
			sets = append(sets, col+"=?")
			args = append(args, v)
		}
	}
	args = append(args, id)

	// rows-affected is not checked here: MySQL reports zero changed
	// rows for a no-op edit, and callers verify existence beforehand.
	_, err := r.DB.Exec(`UPDATE sites SET `+strings.Join(sets, ", ")+` WHERE site_id=?`, args...)
	return err
}

// Approve marks the site approved and stamps the approver.
func (r SiteRepository) Approve(q Querier, id, approvedBy int64) (bool, error) {
	if q == nil {
		q = r.DB
	}
	res, err := q.Exec(`
		UPDATE sites SET is_approved=TRUE, approved_by=?, approved_at=NOW()
		WHERE site_id=? AND is_approved=FALSE`, approvedBy, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteCascade removes a site and everything hanging off it in one
// transaction: reviews, then request-linked notifications, payments
// and visits, then the requests, then the site itself.
func (r SiteRepository) DeleteCascade(id int64) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reviews WHERE site_id=?`, id); err != nil {
		return fmt.Errorf("delete reviews: %w", err)
	}

	steps := []string{
		`DELETE n FROM notifications n
		 JOIN payments p ON n.related_payment_id = p.payment_id
		 JOIN guide_requests r ON p.request_id = r.request_id
		 WHERE r.site_id=?`,
		`DELETE n FROM notifications n
		 JOIN guide_requests r ON n.related_request_id = r.request_id
		 WHERE r.site_id=?`,
		`DELETE p FROM payments p
		 JOIN guide_requests r ON p.request_id = r.request_id
		 WHERE r.site_id=?`,
		`DELETE v FROM visits v
		 JOIN guide_requests r ON v.request_id = r.request_id
		 WHERE r.site_id=?`,
		`DELETE FROM guide_requests WHERE site_id=?`,
	}
	for _, q := range steps {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("cascade site delete: %w", err)
		}
	}

	res, err := tx.Exec(`DELETE FROM sites WHERE site_id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "site"}
	}
	return tx.Commit()
}
