package assignment

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// ListByUser returns the user's assignments ordered by due date, ties
// broken deterministically by creation time and id.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Assignment, error) {
	var items []Assignment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("due_date ASC, created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *Repo) Get(ctx context.Context, userID, id string) (*Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).
		First(&a, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) Create(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Save writes every column of an already-loaded row.
func (r *Repo) Save(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Assignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the user's entire assignment set for rows inside a
// single transaction. Readers never observe the emptied intermediate
// state, and any failure rolls the whole swap back.
func (r *Repo) ReplaceAll(ctx context.Context, userID string, rows []Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&Assignment{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}
