package models

// Site is a historical site in the catalog. Researcher-submitted sites
// start unapproved; any edit resets approval.
type Site struct {
	ID                int64   `json:"site_id"`
	SiteName          string  `json:"site_name"`
	ShortDescription  string  `json:"short_description,omitempty"`
	FullDescription   string  `json:"full_description,omitempty"`
	LocationAddress   string  `json:"location_address,omitempty"`
	VisitPrice        float64 `json:"visit_price"`
	EntranceFee       float64 `json:"entrance_fee,omitempty"`
	GuideFee          float64 `json:"guide_fee,omitempty"`
	EstimatedDuration string  `json:"estimated_duration,omitempty"`
	ImageURL          string  `json:"image_url,omitempty"`
	MapURL            string  `json:"map_url,omitempty"`
	NearbyAttractions string  `json:"nearby_attractions,omitempty"`
	ResearcherID      int64   `json:"researcher_id,omitempty"`
	IsApproved        bool    `json:"is_approved"`
	ApprovedBy        int64   `json:"approved_by,omitempty"`
	CreatedAt         string  `json:"created_at,omitempty"`
	UpdatedAt         string  `json:"updated_at,omitempty"`
}

// SiteInput carries the fields a researcher may set on create/update.
// Pointers distinguish "absent" from "set to zero" on PATCH.
type SiteInput struct {
	SiteName          *string  `json:"site_name"`
	ShortDescription  *string  `json:"short_description"`
	FullDescription   *string  `json:"description"`
	LocationAddress   *string  `json:"location"`
	VisitPrice        *float64 `json:"price"`
	EntranceFee       *float64 `json:"entrance_fee"`
	GuideFee          *float64 `json:"guide_fee"`
	EstimatedDuration *string  `json:"visit_duration"`
	ImageURL          *string  `json:"image"`
	MapURL            *string  `json:"map_url"`
	NearbyAttractions *string  `json:"nearby_attractions"`
}
