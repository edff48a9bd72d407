package user

import "time"

// User is the durable record behind an external identity. Created on
// first resolution, refreshed (never deleted) on every subsequent one;
// UpdatedAt doubles as a last-seen signal.
type User struct {
	ID      string `gorm:"primaryKey;size:64" json:"id"`
	Email   string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name    string `gorm:"size:128" json:"name"`
	Picture string `gorm:"size:512" json:"picture"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
