package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("user not found")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// Upsert inserts the user on first sight and refreshes the profile
// columns plus updated_at on every later call.
func (r *Repo) Upsert(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"email":      u.Email,
			"name":       u.Name,
			"picture":    u.Picture,
			"updated_at": time.Now(),
		}),
	}).Create(u).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Touch refreshes updated_at for a known user and returns the row.
func (r *Repo) Touch(ctx context.Context, id string) (*User, error) {
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("updated_at", time.Now())
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}
