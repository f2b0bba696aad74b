package db

import (
	"time"
)

// User is the platform identity record. IDs are assigned by the chat
// platform, so there is no auto-increment here. First write wins:
// username/full name are never overwritten once stored.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Username  string    `gorm:"size:64"`
	FullName  string    `gorm:"size:128"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Profile is the dating card, 1:1 with User.
//
// Visibility invariant: a profile is discoverable only while
// active = true AND blocked = false. Blocking always clears active.
//
// Writes are whole-record replacements (upsert on user_id), which keeps
// old-vs-new state atomically visible to readers.
//
// Index:
//   - idx_discovery(active, blocked, gender) serves the candidate listing.
type Profile struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false" validate:"required"`
	Name      string    `gorm:"size:64;not null" validate:"required,min=2"`
	Age       int       `gorm:"not null" validate:"required,gte=16,lte=99"`
	Gender    string    `gorm:"size:16;not null;index:idx_discovery,priority:3" validate:"required,oneof=male female"`
	Faculty   string    `gorm:"size:128;not null" validate:"required,min=3"`
	Course    int       `gorm:"not null" validate:"required,gte=1,lte=7"`
	Bio       string    `gorm:"size:1024;not null" validate:"required,min=10"`
	PhotoID   string    `gorm:"size:255;not null" validate:"required"`
	Active    bool      `gorm:"default:true;index:idx_discovery,priority:1"`
	Blocked   bool      `gorm:"default:false;index:idx_discovery,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Like is an append-only directed edge. Duplicates are legal; a match is
// the existential condition like(A→B) ∧ like(B→A), never a stored row.
//
// Indexes:
//   - idx_like_from_to(from_user_id, to_user_id) serves the O(1) reverse
//     edge check on every like.
//   - idx_like_to(to_user_id) serves received-likes counters.
type Like struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	FromUserID int64     `gorm:"not null;index:idx_like_from_to,priority:1"`
	ToUserID   int64     `gorm:"not null;index:idx_like_from_to,priority:2;index:idx_like_to"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Complaint is an append-only moderation report. Reaching the configured
// count against a user blocks their profile.
type Complaint struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	FromUserID int64     `gorm:"not null"`
	ToUserID   int64     `gorm:"not null;index:idx_complaint_to"`
	Reason     string    `gorm:"size:255"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
