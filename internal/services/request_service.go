package services

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
	"tourism-backend/internal/repositories"
	"tourism-backend/internal/utils"
)

// RequestService owns the guide-request lifecycle:
// pending -> approved -> assigned -> accepted_by_guide/rejected_by_guide -> completed.
// Every state change runs in one transaction together with its derived
// records and outbox events.
type RequestService struct {
	DB       *sql.DB
	Requests repositories.RequestRepository
	Payments repositories.PaymentRepository
	Visits   repositories.VisitRepository
	Outbox   repositories.OutboxRepository
}

func (s RequestService) Create(visitorID int64, in models.GuideRequestInput) (models.GuideRequest, error) {
	if visitorID <= 0 {
		return models.GuideRequest{}, domain.UnauthorizedError{Msg: "login required"}
	}
	if in.SiteID <= 0 {
		return models.GuideRequest{}, domain.ValidationError{Field: "site_id", Msg: "site is required"}
	}
	if _, err := utils.ParseDate(in.PreferredDate); err != nil {
		return models.GuideRequest{}, domain.ValidationError{Field: "preferred_date", Msg: "expected YYYY-MM-DD"}
	}
	if _, err := utils.ParseClock(in.PreferredTime); err != nil {
		return models.GuideRequest{}, domain.ValidationError{Field: "preferred_time", Msg: "expected HH:MM"}
	}
	if in.NumberOfVisitors < 1 {
		return models.GuideRequest{}, domain.ValidationError{Field: "number_of_visitors", Msg: "must be at least 1"}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return models.GuideRequest{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	id, err := s.Requests.Create(tx, visitorID, in)
	if err != nil {
		return models.GuideRequest{}, err
	}
	req, err := s.Requests.GetByID(tx, id)
	if err != nil {
		return models.GuideRequest{}, err
	}

	visitor := req.VisitorName
	if visitor == "" {
		visitor = fmt.Sprintf("visitor #%d", visitorID)
	}
	_, err = s.Outbox.Enqueue(tx, models.OutboxEvent{
		Audience:         models.AudienceAdmins,
		Title:            "New Guide Request",
		Message:          fmt.Sprintf("%s requested a guided visit to %s on %s.", visitor, req.SiteName, req.PreferredDate),
		Type:             domain.NotifyGuideRequest,
		RelatedRequestID: id,
	})
	if err != nil {
		return models.GuideRequest{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.GuideRequest{}, domain.InternalError{Err: err}
	}
	utils.Logger().Info("guide request created",
		zap.Int64("request_id", id), zap.Int64("visitor_id", visitorID))
	return req, nil
}

// Approve moves a pending request to approved, creates its Visit and
// queues the visitor notification, all in one transaction. A request
// already past pending is approved idempotently when it already reached
// approved (or later); it never gains a second Visit.
func (s RequestService) Approve(requestID int64) (models.GuideRequest, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return models.GuideRequest{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	if !s.Payments.HasConfirmed(tx, requestID) {
		if _, err := s.Requests.GetByID(tx, requestID); err != nil {
			return models.GuideRequest{}, err
		}
		return models.GuideRequest{}, domain.PreconditionError{Msg: "payment not confirmed for this request"}
	}

	moved, err := s.Requests.TransitionStatus(tx, requestID, domain.RequestApproved, domain.RequestPending)
	if err != nil {
		return models.GuideRequest{}, err
	}
	req, err := s.Requests.GetByID(tx, requestID)
	if err != nil {
		return models.GuideRequest{}, err
	}
	if !moved {
		switch req.Status {
		case string(domain.RequestApproved), string(domain.RequestAssigned),
			string(domain.RequestAcceptedByGuide), string(domain.RequestCompleted):
			return req, nil // already approved, nothing to redo
		default:
			return models.GuideRequest{}, domain.ConflictError{
				Resource: "guide request",
				Msg:      fmt.Sprintf("cannot approve a request in status %q", req.Status),
			}
		}
	}

	if _, err := s.Visits.CreateFromRequest(tx, requestID, req.PreferredDate, req.PreferredTime); err != nil {
		return models.GuideRequest{}, err
	}
	_, err = s.Outbox.Enqueue(tx, models.OutboxEvent{
		Audience:         models.AudienceUser,
		RecipientID:      req.VisitorID,
		Title:            "Request Approved",
		Message:          fmt.Sprintf("Your visit to %s on %s has been approved.", req.SiteName, req.PreferredDate),
		Type:             domain.NotifyGuideRequest,
		RelatedRequestID: requestID,
	})
	if err != nil {
		return models.GuideRequest{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.GuideRequest{}, domain.InternalError{Err: err}
	}
	utils.Logger().Info("guide request approved", zap.Int64("request_id", requestID))
	return req, nil
}

// Reject moves a request to rejected from any earlier state and tells
// the visitor. Rejecting an already rejected request is a no-op success.
func (s RequestService) Reject(requestID int64, reason string) (models.GuideRequest, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return models.GuideRequest{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	moved, err := s.Requests.TransitionStatus(tx, requestID, domain.RequestRejected)
	if err != nil {
		return models.GuideRequest{}, err
	}
	req, err := s.Requests.GetByID(tx, requestID)
	if err != nil {
		return models.GuideRequest{}, err
	}
	if moved {
		msg := fmt.Sprintf("Your request for %s was rejected.", req.SiteName)
		if reason != "" {
			msg = fmt.Sprintf("%s Reason: %s", msg, reason)
		}
		_, err = s.Outbox.Enqueue(tx, models.OutboxEvent{
			Audience:         models.AudienceUser,
			RecipientID:      req.VisitorID,
			Title:            "Request Rejected",
			Message:          msg,
			Type:             domain.NotifyGuideRequest,
			RelatedRequestID: requestID,
		})
		if err != nil {
			return models.GuideRequest{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.GuideRequest{}, domain.InternalError{Err: err}
	}
	return req, nil
}

// AssignGuide pins a guide to an approved request in a single
// conditional update. Re-assigning a different guide while still in
// assigned state is allowed; any other state is refused.
func (s RequestService) AssignGuide(requestID, guideID int64) (models.GuideRequest, error) {
	if guideID <= 0 {
		return models.GuideRequest{}, domain.ValidationError{Field: "guide_id", Msg: "guide is required"}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return models.GuideRequest{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	moved, err := s.Requests.AssignGuide(tx, requestID, guideID)
	if err != nil {
		return models.GuideRequest{}, err
	}
	req, err := s.Requests.GetByID(tx, requestID)
	if err != nil {
		return models.GuideRequest{}, err
	}
	if !moved {
		if req.Status == string(domain.RequestAssigned) && req.AssignedGuideID == guideID {
			return req, nil // same guide, nothing changed
		}
		return models.GuideRequest{}, domain.PreconditionError{
			Msg: fmt.Sprintf("cannot assign a guide to a request in status %q", req.Status),
		}
	}

	_, err = s.Outbox.Enqueue(tx, models.OutboxEvent{
		Audience:         models.AudienceUser,
		RecipientID:      guideID,
		Title:            "New Assignment",
		Message:          fmt.Sprintf("You have been assigned to guide a visit to %s on %s.", req.SiteName, req.PreferredDate),
		Type:             domain.NotifyGuideRequest,
		RelatedRequestID: requestID,
	})
	if err != nil {
		return models.GuideRequest{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.GuideRequest{}, domain.InternalError{Err: err}
	}
	utils.Logger().Info("guide assigned",
		zap.Int64("request_id", requestID), zap.Int64("guide_id", guideID))
	return req, nil
}

// UpdateStatus is the guide/admin status endpoint: guides accept or
// decline their assignment, admins can mark any terminal state.
func (s RequestService) UpdateStatus(requestID int64, status string, p domain.Principal) (models.GuideRequest, error) {
	to := domain.RequestStatus(status)
	if !domain.ValidRequestStatus(status) {
		return models.GuideRequest{}, domain.ValidationError{Field: "status", Msg: "unknown request status"}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return models.GuideRequest{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	var expected []domain.RequestStatus
	if to == domain.RequestAcceptedByGuide || to == domain.RequestRejectedByGuide {
		expected = []domain.RequestStatus{domain.RequestAssigned}
	}
	moved, err := s.Requests.TransitionStatus(tx, requestID, to, expected...)
	if err != nil {
		return models.GuideRequest{}, err
	}
	req, err := s.Requests.GetByID(tx, requestID)
	if err != nil {
		return models.GuideRequest{}, err
	}
	if !moved {
		if req.Status == string(to) {
			return req, nil
		}
		return models.GuideRequest{}, domain.PreconditionError{
			Msg: fmt.Sprintf("cannot move a request from %q to %q", req.Status, to),
		}
	}

	if to == domain.RequestAcceptedByGuide || to == domain.RequestRejectedByGuide {
		title, verb := "Guide Accepted", "accepted"
		if to == domain.RequestRejectedByGuide {
			title, verb = "Guide Declined", "declined"
		}
		_, err = s.Outbox.Enqueue(tx, models.OutboxEvent{
			Audience:         models.AudienceUser,
			RecipientID:      req.VisitorID,
			Title:            title,
			Message:          fmt.Sprintf("The assigned guide has %s your visit to %s.", verb, req.SiteName),
			Type:             domain.NotifyGuideRequest,
			RelatedRequestID: requestID,
		})
		if err != nil {
			return models.GuideRequest{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.GuideRequest{}, domain.InternalError{Err: err}
	}
	utils.Logger().Info("request status updated",
		zap.Int64("request_id", requestID), zap.String("status", status),
		zap.Int64("actor_id", p.UserID))
	return req, nil
}

func (s RequestService) GetByID(id int64) (models.GuideRequest, error) {
	return s.Requests.GetByID(nil, id)
}

// VisitForRequest returns the derived visit, when the request has one.
func (s RequestService) VisitForRequest(requestID int64) (models.Visit, error) {
	return s.Visits.GetByRequestID(requestID)
}

func (s RequestService) ListForVisitor(visitorID int64) ([]models.GuideRequest, error) {
	return s.Requests.ListForVisitor(visitorID)
}

func (s RequestService) ListAll(p domain.Principal) ([]models.GuideRequest, error) {
	return s.Requests.ListAll(p)
}
