package assignment

import "time"

// Assignment is one homework record. The primary key is (id, user_id):
// ids are unique within a user's scope only, and every lookup carries
// both columns, so a record owned by someone else is indistinguishable
// from a missing one.
type Assignment struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	UserID string `gorm:"primaryKey;size:64" json:"-"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Subject     string `gorm:"size:128;not null" json:"subject"`
	Type        string `gorm:"size:64;not null" json:"type"`
	DueDate     string `gorm:"size:64;not null" json:"dueDate"`
	Description string `json:"description"`
	// Stored as 0/1 by the SQLite driver; always a real boolean at the
	// JSON boundary.
	Completed bool `gorm:"not null;default:false" json:"completed"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Assignment) TableName() string { return "assignments" }
