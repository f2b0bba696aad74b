package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ksolovey/unimatch/internal/db"
)

// LikeRepository provides data access methods for the append-only likes
// table. Match detection is existential: it never counts rows, so
// duplicate likes are harmless.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// AddLike appends a directed like edge. No uniqueness is enforced.
func (r *LikeRepository) AddLike(ctx context.Context, fromUserID, toUserID int64) error {
	like := db.Like{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
	}
	return r.db.WithContext(ctx).Create(&like).Error
}

// HasLike checks whether at least one like edge from → to exists.
//
// Example:
//
//	repo.HasLike(ctx, 2, 1) // -> true if user 2 ever liked user 1
func (r *LikeRepository) HasLike(ctx context.Context, fromUserID, toUserID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Count(&count).Error
	return count > 0, err
}

// MutualLikes returns the profiles of every user the given user has
// matched with (a like in each direction).
//
// Behavior:
//   - Joins likes in both directions against profiles, so a counterpart
//     whose profile was deleted or hidden silently drops out.
//   - DISTINCT folds duplicate like rows into a single match.
//   - Ordered by user_id for a stable listing.
func (r *LikeRepository) MutualLikes(ctx context.Context, userID int64) ([]db.Profile, error) {
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Table("profiles p").
		Select("DISTINCT p.*").
		Joins("INNER JOIN likes l1 ON p.user_id = l1.to_user_id AND l1.from_user_id = ?", userID).
		Joins("INNER JOIN likes l2 ON p.user_id = l2.from_user_id AND l2.to_user_id = ?", userID).
		Where("p.active = ? AND p.blocked = ?", true, false).
		Order("p.user_id").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// CountGiven returns how many likes the user has sent.
func (r *LikeRepository) CountGiven(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountReceived returns how many likes the user has received.
func (r *LikeRepository) CountReceived(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("to_user_id = ?", userID).
		Count(&count).Error
	return count, err
}
