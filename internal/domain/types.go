package domain

// Role enumerates the account types the platform knows about.
type Role string

const (
	RoleVisitor    Role = "visitor"
	RoleResearcher Role = "researcher"
	RoleAdmin      Role = "admin"
	RoleGuide      Role = "guide"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleVisitor, RoleResearcher, RoleAdmin, RoleGuide:
		return true
	}
	return false
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID int64
	Role   Role
	Email  string
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
func (p Principal) IsGuide() bool { return p.Role == RoleGuide }

// RequestStatus is the guide-request state machine value.
type RequestStatus string

const (
	RequestPending          RequestStatus = "pending"
	RequestApproved         RequestStatus = "approved"
	RequestAssigned         RequestStatus = "assigned"
	RequestAcceptedByGuide  RequestStatus = "accepted_by_guide"
	RequestRejectedByGuide  RequestStatus = "rejected_by_guide"
	RequestRejected         RequestStatus = "rejected"
	RequestCompleted        RequestStatus = "completed"
	RequestCancelled        RequestStatus = "cancelled"
)

// ValidRequestStatus reports whether s is a known guide-request status.
func ValidRequestStatus(s string) bool {
	switch RequestStatus(s) {
	case RequestPending, RequestApproved, RequestAssigned,
		RequestAcceptedByGuide, RequestRejectedByGuide,
		RequestRejected, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment state machine value.
type PaymentStatus string

const (
	PaymentWaiting   PaymentStatus = "waiting"
	PaymentPaid      PaymentStatus = "paid"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

// VisitStatus is the derived visit record status.
type VisitStatus string

const (
	VisitUpcoming   VisitStatus = "upcoming"
	VisitInProgress VisitStatus = "in_progress"
	VisitCompleted  VisitStatus = "completed"
	VisitCancelled  VisitStatus = "cancelled"
	VisitNoShow     VisitStatus = "no_show"
)

// Notification types.
const (
	NotifyGuideRequest = "guide_request"
	NotifyPayment      = "payment"
	NotifySystem       = "system"
	NotifyAccount      = "account"
)
