package services

import (
	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
	"tourism-backend/internal/repositories"
)

// ReviewService handles visitor reviews; new reviews wait for
// moderation before they appear in listings.
type ReviewService struct {
	Reviews repositories.ReviewRepository
	Sites   repositories.SiteRepository
}

func (s ReviewService) Create(visitorID int64, rv models.Review) (models.Review, error) {
	if visitorID <= 0 {
		return models.Review{}, domain.UnauthorizedError{Msg: "login required"}
	}
	if rv.Rating < 1 || rv.Rating > 5 {
		return models.Review{}, domain.ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	if _, err := s.Sites.GetByID(rv.SiteID); err != nil {
		return models.Review{}, err
	}

	rv.VisitorID = visitorID
	id, err := s.Reviews.Create(rv)
	if err != nil {
		return models.Review{}, err
	}
	rv.ID = id
	return rv, nil
}

func (s ReviewService) ListApproved(siteID int64) ([]models.Review, error) {
	return s.Reviews.ListApproved(siteID)
}
