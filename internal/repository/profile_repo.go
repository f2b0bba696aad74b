package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ksolovey/unimatch/internal/db"
	svcErr "github.com/ksolovey/unimatch/internal/errors"
)

// ProfileRepository provides data access methods for users and profiles.
// It owns the visibility flags (active/blocked) and the global counters.
type ProfileRepository struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		db:       database,
		validate: validator.New(),
	}
}

// UpsertUser registers a platform identity. First write wins: an existing
// row is left untouched, so username/full name never get overwritten.
func (r *ProfileRepository) UpsertUser(ctx context.Context, id int64, username, fullName string) error {
	user := db.User{
		ID:       id,
		Username: username,
		FullName: fullName,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&user).Error
}

// SaveProfile stores a profile as a whole-record replacement.
//
// Behavior:
//   - The record is validated first; missing or out-of-range fields fail
//     with a validation error and nothing is written.
//   - If a row for the user exists it is replaced entirely, flags included.
//   - Otherwise a new row is inserted.
//
// Example:
//
//	repo.SaveProfile(ctx, &db.Profile{UserID: 1, Name: "Anna", ...})
func (r *ProfileRepository) SaveProfile(ctx context.Context, p *db.Profile) error {
	if err := r.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", svcErr.ErrValidation, firstViolation(err))
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(p).Error
}

// GetProfile fetches a profile by owner id. Returns (nil, nil) when the
// profile does not exist so callers can branch without sentinel checks.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID int64) (*db.Profile, error) {
	var p db.Profile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProfile removes the owner's profile. Deleting a missing profile is
// a no-op, matching the owner-facing "delete my card" action.
func (r *ProfileRepository) DeleteProfile(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Delete(&db.Profile{}, "user_id = ?", userID).Error
}

// SetActive toggles the owner's discovery visibility.
func (r *ProfileRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Update("active", active).Error
}

// ListActive returns profiles eligible for discovery, excluding the
// requester and anything inactive or blocked.
//
// Behavior:
//   - genderFilter "" means no filter; otherwise it is compared
//     case/whitespace-insensitively against the stored value.
//   - Ordered by user_id so the index cursor used by discovery stays
//     stable across the repeated queries within a browsing session.
func (r *ProfileRepository) ListActive(ctx context.Context, excludeUserID int64, genderFilter string) ([]db.Profile, error) {
	query := r.db.WithContext(ctx).
		Where("user_id != ? AND active = ? AND blocked = ?", excludeUserID, true, false)

	if genderFilter != "" {
		query = query.Where("LOWER(TRIM(gender)) = ?", strings.ToLower(strings.TrimSpace(genderFilter)))
	}

	var profiles []db.Profile
	if err := query.Order("user_id").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Block hides a profile from discovery permanently: blocked is set and
// active cleared in one write. Blocking an already-blocked user is a no-op.
func (r *ProfileRepository) Block(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"blocked": true, "active": false}).Error
}

// Unblock reverses Block and restores discovery visibility.
func (r *ProfileRepository) Unblock(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"blocked": false, "active": true}).Error
}

// IsBlocked reports whether the user's profile is blocked. A missing
// profile reads as not blocked.
func (r *ProfileRepository) IsBlocked(ctx context.Context, userID int64) (bool, error) {
	var p db.Profile
	err := r.db.WithContext(ctx).Select("blocked").First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.Blocked, nil
}

// CountUsers returns the total number of registered users.
func (r *ProfileRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Count(&count).Error
	return count, err
}

// CountProfiles returns the total number of profiles, visible or not.
func (r *ProfileRepository) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Profile{}).Count(&count).Error
	return count, err
}

// CountActiveProfiles returns the number of discovery-visible profiles.
func (r *ProfileRepository) CountActiveProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("active = ? AND blocked = ?", true, false).
		Count(&count).Error
	return count, err
}

// firstViolation flattens a validator error down to the first failed field
// so user-facing messages stay short.
func firstViolation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return fmt.Sprintf("field %s failed %s", f.Field(), f.Tag())
	}
	return err.Error()
}
