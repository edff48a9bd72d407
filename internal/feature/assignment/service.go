package assignment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateInput carries a new assignment. Title, subject, type and
// dueDate are required; id is generated when absent; completed
// defaults to false.
type CreateInput struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	Type        string `json:"type"`
	DueDate     string `json:"dueDate"`
	Description string `json:"description"`
	Completed   *bool  `json:"completed"`
}

// UpdateInput is a partial field set: nil means "keep the current
// value". This is a merge, not a replace.
type UpdateInput struct {
	Title       *string `json:"title"`
	Subject     *string `json:"subject"`
	Type        *string `json:"type"`
	DueDate     *string `json:"dueDate"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// SyncItem is one element of a bulk-replace payload. A client may carry
// createdAt over from a previous fetch to preserve the original
// creation time across a resync.
type SyncItem struct {
	CreateInput
	CreatedAt *time.Time `json:"createdAt"`
}

type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service { return &Service{repo: repo} }

func (s *Service) List(ctx context.Context, userID string) ([]Assignment, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Assignment, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	a := newFromInput(userID, in)
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update merges the provided fields into the stored record. Absent
// fields keep their prior value; updated_at advances on every
// successful call, field changes or not.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*Assignment, error) {
	a, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(a, in); err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// Sync atomically replaces the user's whole assignment set with the
// payload. Full replace, not a merge: anything missing from the payload
// is gone afterwards. Every item is validated before the store is
// touched, so a bad item leaves the previous set fully intact.
// Duplicate ids within one payload are last-write-wins.
func (s *Service) Sync(ctx context.Context, userID string, items []SyncItem) ([]Assignment, error) {
	for _, it := range items {
		if err := validate(it.CreateInput); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	rows := make([]Assignment, 0, len(items))
	seen := make(map[string]int, len(items))
	for _, it := range items {
		a := newFromInput(userID, it.CreateInput)
		if it.CreatedAt != nil {
			a.CreatedAt = *it.CreatedAt
		} else {
			a.CreatedAt = now
		}
		a.UpdatedAt = now
		if i, dup := seen[a.ID]; dup {
			rows[i] = *a
			continue
		}
		seen[a.ID] = len(rows)
		rows = append(rows, *a)
	}

	if err := s.repo.ReplaceAll(ctx, userID, rows); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func validate(in CreateInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return &ValidationError{Field: "title"}
	case strings.TrimSpace(in.Subject) == "":
		return &ValidationError{Field: "subject"}
	case strings.TrimSpace(in.Type) == "":
		return &ValidationError{Field: "type"}
	case strings.TrimSpace(in.DueDate) == "":
		return &ValidationError{Field: "dueDate"}
	}
	return nil
}

func newFromInput(userID string, in CreateInput) *Assignment {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	completed := false
	if in.Completed != nil {
		completed = *in.Completed
	}
	return &Assignment{
		ID:          id,
		UserID:      userID,
		Title:       in.Title,
		Subject:     in.Subject,
		Type:        in.Type,
		DueDate:     in.DueDate,
		Description: in.Description,
		Completed:   completed,
	}
}

func applyUpdate(a *Assignment, in UpdateInput) error {
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return &ValidationError{Field: "title"}
		}
		a.Title = *in.Title
	}
	if in.Subject != nil {
		if strings.TrimSpace(*in.Subject) == "" {
			return &ValidationError{Field: "subject"}
		}
		a.Subject = *in.Subject
	}
	if in.Type != nil {
		if strings.TrimSpace(*in.Type) == "" {
			return &ValidationError{Field: "type"}
		}
		a.Type = *in.Type
	}
	if in.DueDate != nil {
		if strings.TrimSpace(*in.DueDate) == "" {
			return &ValidationError{Field: "dueDate"}
		}
		a.DueDate = *in.DueDate
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.Completed != nil {
		a.Completed = *in.Completed
	}
	return nil
}
