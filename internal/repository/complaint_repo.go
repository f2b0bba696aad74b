package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ksolovey/unimatch/internal/db"
)

// ComplaintRepository provides data access for moderation complaints.
type ComplaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new repository bound to the given DB connection.
func NewComplaintRepository(database *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: database}
}

// AddComplaint appends a complaint. Reason may be empty.
func (r *ComplaintRepository) AddComplaint(ctx context.Context, fromUserID, toUserID int64, reason string) error {
	complaint := db.Complaint{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Reason:     reason,
	}
	return r.db.WithContext(ctx).Create(&complaint).Error
}

// CountAgainst returns how many complaints have been filed against a user.
// This is the authoritative count behind the cached counter.
func (r *ComplaintRepository) CountAgainst(ctx context.Context, toUserID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Complaint{}).
		Where("to_user_id = ?", toUserID).
		Count(&count).Error
	return count, err
}
