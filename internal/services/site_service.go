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

// SiteService manages the site catalog and its approval workflow.
// Researcher submissions and edits always land unapproved; only an
// admin flips is_approved.
type SiteService struct {
	DB     *sql.DB
	Sites  repositories.SiteRepository
	Outbox repositories.OutboxRepository
}

func (s SiteService) List() ([]models.Site, error) {
	return s.Sites.List()
}

func (s SiteService) GetByID(id int64) (models.Site, error) {
	return s.Sites.GetByID(id)
}

func (s SiteService) Create(p domain.Principal, in models.SiteInput) (models.Site, error) {
	if in.SiteName == nil || *in.SiteName == "" {
		return models.Site{}, domain.ValidationError{Field: "site_name", Msg: "required"}
	}

	site := models.Site{SiteName: *in.SiteName}
	if in.ShortDescription != nil {
		site.ShortDescription = *in.ShortDescription
	}
	if in.FullDescription != nil {
		site.FullDescription = *in.FullDescription
	}
	if in.LocationAddress != nil {
		site.LocationAddress = *in.LocationAddress
	}
	if in.VisitPrice != nil {
		site.VisitPrice = *in.VisitPrice
	}
	if in.EntranceFee != nil {
		site.EntranceFee = *in.EntranceFee
	}
	if in.GuideFee != nil {
		site.GuideFee = *in.GuideFee
	}
	if in.EstimatedDuration != nil {
		site.EstimatedDuration = *in.EstimatedDuration
	}
	if in.ImageURL != nil {
		site.ImageURL = *in.ImageURL
	}
	if in.MapURL != nil {
		site.MapURL = *in.MapURL
	}
	if in.NearbyAttractions != nil {
		site.NearbyAttractions = *in.NearbyAttractions
	}
	if p.Role == domain.RoleResearcher {
		site.ResearcherID = p.UserID
	}

	id, err := s.Sites.Create(site)
	if err != nil {
		return models.Site{}, err
	}

	if p.Role == domain.RoleResearcher {
		_, err = s.Outbox.Enqueue(nil, models.OutboxEvent{
			Audience: models.AudienceAdmins,
			Title:    "New Site Submission",
			Message:  fmt.Sprintf("Site %q was submitted for approval.", site.SiteName),
			Type:     domain.NotifySystem,
		})
		if err != nil {
			utils.Logger().Warn("site submission notification not queued", zap.Error(err))
		}
	}

	utils.Logger().Info("site created",
		zap.Int64("site_id", id), zap.Int64("actor_id", p.UserID))
	return s.Sites.GetByID(id)
}

// Update edits a site and resets its approval. Researchers may only
// touch their own sites; admins may touch any.
func (s SiteService) Update(p domain.Principal, id int64, in models.SiteInput) (models.Site, error) {
	site, err := s.Sites.GetByID(id)
	if err != nil {
		return models.Site{}, err
	}
	if !p.IsAdmin() && site.ResearcherID != p.UserID {
		return models.Site{}, domain.UnauthorizedError{Msg: "not your site"}
	}
	if err := s.Sites.Update(id, in); err != nil {
		return models.Site{}, err
	}
	return s.Sites.GetByID(id)
}

// Approve flips is_approved once. Approving an already approved site
// succeeds without a second notification.
func (s SiteService) Approve(admin domain.Principal, id int64) (models.Site, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return models.Site{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	changed, err := s.Sites.Approve(tx, id, admin.UserID)
	if err != nil {
		return models.Site{}, err
	}
	site, err := s.Sites.GetByID(id)
	if err != nil {
		return models.Site{}, err
	}
	if changed && site.ResearcherID > 0 {
		_, err = s.Outbox.Enqueue(tx, models.OutboxEvent{
			Audience:    models.AudienceUser,
			RecipientID: site.ResearcherID,
			Title:       "Site Approved",
			Message:     fmt.Sprintf("Your site %q is now live.", site.SiteName),
			Type:        domain.NotifySystem,
		})
		if err != nil {
			return models.Site{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Site{}, domain.InternalError{Err: err}
	}
	site.IsApproved = true
	return site, nil
}

// Delete removes a site and everything hanging off it.
func (s SiteService) Delete(id int64) error {
	if err := s.Sites.DeleteCascade(id); err != nil {
		return err
	}
	utils.Logger().Info("site deleted", zap.Int64("site_id", id))
	return nil
}
