package models

// GuideRequest is a visitor's booking for a guided site visit.
type GuideRequest struct {
	ID                  int64  `json:"request_id"`
	VisitorID           int64  `json:"visitor_id"`
	VisitorName         string `json:"visitor_name,omitempty"`
	SiteID              int64  `json:"site_id"`
	SiteName            string `json:"site_name,omitempty"`
	GuideType           string `json:"guide_type,omitempty"`
	PreferredDate       string `json:"preferred_date"`
	PreferredTime       string `json:"preferred_time"`
	NumberOfVisitors    int    `json:"number_of_visitors"`
	SpecialRequirements string `json:"special_requirements,omitempty"`
	MeetingPoint        string `json:"meeting_point,omitempty"`
	Status              string `json:"request_status"`
	AssignedGuideID     int64  `json:"assigned_guide_id,omitempty"`
	AdminNotes          string `json:"admin_notes,omitempty"`
	Amount              float64 `json:"amount,omitempty"`
	CreatedAt           string `json:"created_at,omitempty"`
	UpdatedAt           string `json:"updated_at,omitempty"`
}

// GuideRequestInput carries the visitor-supplied fields on creation.
type GuideRequestInput struct {
	SiteID              int64  `json:"site_id"`
	GuideType           string `json:"guide_type"`
	PreferredDate       string `json:"preferred_date"`
	PreferredTime       string `json:"preferred_time"`
	NumberOfVisitors    int    `json:"number_of_visitors"`
	SpecialRequirements string `json:"special_requirements"`
	MeetingPoint        string `json:"meeting_point"`
}
