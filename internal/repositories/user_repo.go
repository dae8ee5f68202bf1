package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"tourism-backend/internal/domain"
	"tourism-backend/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `user_id, first_name, last_name, email,
       COALESCE(phone_number,''), password_hash, COALESCE(profile_picture,''),
       user_type, is_active,
       DATE_FORMAT(created_at,'%Y-%m-%d %H:%i:%s')`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email,
		&u.PhoneNumber, &u.PasswordHash, &u.ProfilePicture,
		&u.UserType, &u.IsActive, &u.CreatedAt,
	)
	return u, err
}

func (r UserRepository) GetByID(id int64) (models.User, error) {
	u, err := scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE user_id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepository) GetByEmail(email string) (models.User, error) {
	u, err := scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return u, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepository) Create(u models.User) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO users (first_name, last_name, email, phone_number, password_hash, profile_picture, user_type, is_active)
		VALUES (?, ?, ?, NULLIF(?,''), ?, NULLIF(?,''), ?, ?)`,
		u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.PasswordHash, u.ProfilePicture, u.UserType, u.IsActive,
	)
	if err != nil {
		if IsDuplicate(err) {
			return 0, domain.ConflictError{Resource: "email", Msg: "already registered"}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r UserRepository) List() ([]models.User, error) {
	rows, err := r.DB.Query(`
		SELECT user_id, first_name, last_name, email, COALESCE(phone_number,''),
		       user_type, is_active, DATE_FORMAT(created_at,'%Y-%m-%d %H:%i:%s')
		FROM users ORDER BY user_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.UserType, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// AdminIDs resolves the current set of admin accounts; used by the
// outbox dispatcher for fan-out.
func (r UserRepository) AdminIDs(q Querier) ([]int64, error) {
	if q == nil {
		q = r.DB
	}
	rows, err := q.Query(`SELECT user_id FROM users WHERE user_type='admin' AND is_active=TRUE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r UserRepository) UpdateActive(id int64, active bool) error {
	// zero affected rows can also mean the flag already had this
	// value, so existence is left to the caller's follow-up read.
	_, err := r.DB.Exec(`UPDATE users SET is_active=? WHERE user_id=?`, active, id)
	return err
}

// UpdateProfile applies the present (non-nil) fields only.
func (r UserRepository) UpdateProfile(id int64, set map[string]any) error {
	if len(set) == 0 {
		return nil
	}
	assign := ""
	args := make([]any, 0, len(set)+1)
	for _, col := range []string{"first_name", "last_name", "email", "phone_number", "profile_picture", "password_hash"} {
		v, ok := set[col]
		if !ok {
			continue
		}
		if assign != "" {
			assign += ", "
		}
		assign += col + "=?"
		args = append(args, v)
	}
	if assign == "" {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.Exec(`UPDATE users SET `+assign+` WHERE user_id=?`, args...)
	if err != nil && IsDuplicate(err) {
		return domain.ConflictError{Resource: "email", Msg: "already in use"}
	}
	return err
}

// DeleteCascade removes a user in one transaction: references that
// outlive the account are nullified, records the user owns outright
// (notifications, reviews) are deleted with them.
func (r UserRepository) DeleteCascade(id int64) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	nullify := []string{
		`UPDATE sites SET researcher_id=NULL WHERE researcher_id=?`,
		`UPDATE sites SET approved_by=NULL WHERE approved_by=?`,
		`UPDATE guide_requests SET visitor_id=NULL WHERE visitor_id=?`,
		`UPDATE guide_requests SET assigned_guide_id=NULL WHERE assigned_guide_id=?`,
		`UPDATE payments SET confirmed_by=NULL WHERE confirmed_by=?`,
	}
	for _, q := range nullify {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("nullify user refs: %w", err)
		}
	}

	owned := []string{
		`DELETE FROM notifications WHERE user_id=?`,
		`DELETE FROM reviews WHERE visitor_id=?`,
	}
	for _, q := range owned {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete user-owned rows: %w", err)
		}
	}

	res, err := tx.Exec(`DELETE FROM users WHERE user_id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return tx.Commit()
}
