package services

import (
	"database/sql"

	"go.uber.org/zap"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
	"tourism-backend/internal/repositories"
	"tourism-backend/internal/utils"
)

// UserService covers the admin-side account operations.
type UserService struct {
	DB     *sql.DB
	Users  repositories.UserRepository
	Outbox repositories.OutboxRepository
}

func (s UserService) List() ([]models.User, error) {
	return s.Users.List()
}

func (s UserService) GetByID(id int64) (models.User, error) {
	return s.Users.GetByID(id)
}

// SetActive toggles an account and tells its owner.
func (s UserService) SetActive(id int64, active bool) (models.User, error) {
	if err := s.Users.UpdateActive(id, active); err != nil {
		return models.User{}, err
	}

	title, msg := "Account Reactivated", "Your account has been reactivated."
	if !active {
		title, msg = "Account Deactivated", "Your account has been deactivated by an administrator."
	}
	if _, err := s.Outbox.Enqueue(nil, models.OutboxEvent{
		Audience:    models.AudienceUser,
		RecipientID: id,
		Title:       title,
		Message:     msg,
		Type:        domain.NotifyAccount,
	}); err != nil {
		utils.Logger().Warn("account status notification not queued",
			zap.Int64("user_id", id), zap.Error(err))
	}

	return s.Users.GetByID(id)
}

// Delete removes an account and all rows that cannot outlive it. An
// admin cannot delete their own account through this path.
func (s UserService) Delete(admin domain.Principal, id int64) error {
	if admin.UserID == id {
		return domain.ValidationError{Field: "user_id", Msg: "cannot delete your own account"}
	}
	if err := s.Users.DeleteCascade(id); err != nil {
		return err
	}
	utils.Logger().Info("user deleted",
		zap.Int64("user_id", id), zap.Int64("admin_id", admin.UserID))
	return nil
}
