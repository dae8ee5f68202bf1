package models

// Review is visitor feedback on a completed visit; published only
// after admin approval.
type Review struct {
	ID         int64  `json:"review_id"`
	VisitorID  int64  `json:"visitor_id"`
	SiteID     int64  `json:"site_id"`
	VisitID    int64  `json:"visit_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	IsApproved bool   `json:"is_approved"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}
