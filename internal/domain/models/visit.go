package models

// Visit is the scheduled-occurrence record derived from an approved request.
type Visit struct {
	ID        int64  `json:"visit_id"`
	RequestID int64  `json:"request_id"`
	VisitDate string `json:"visit_date"`
	VisitTime string `json:"visit_time"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
}
