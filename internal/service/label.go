package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/linkstashapp/linkstash-server/internal/domain"
	"github.com/linkstashapp/linkstash-server/internal/errors"
	"github.com/linkstashapp/linkstash-server/internal/id"
	"github.com/linkstashapp/linkstash-server/internal/store"
)

// LabelService orchestrates label CRUD.
type LabelService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLabelService creates a new label service.
func NewLabelService(store store.Store, logger *slog.Logger) *LabelService {
	return &LabelService{store: store, logger: logger}
}

func (s *LabelService) requireLabelOwner(ctx context.Context, labelID, userID string) error {
	owner, err := s.store.LabelOwner(ctx, labelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.LabelDoesNotExistf("a label with id: %s does not exist", labelID)
		}
		return errors.LabelError("an unexpected error occurred while retrieving the label").WithCause(err)
	}
	if owner != userID {
		return errors.Forbidden(errors.CodeForbiddenLabel, "you do not have access to this label")
	}
	return nil
}

// GetLabels returns all of the user's labels.
func (s *LabelService) GetLabels(ctx context.Context, userID string) ([]*domain.Label, error) {
	labels, err := s.store.GetLabels(ctx, userID)
	if err != nil {
		return nil, errors.LabelError("there was an error retrieving the labels").WithCause(err)
	}
	return labels, nil
}

// CreateLabel creates a new label. Names are not unique.
func (s *LabelService) CreateLabel(ctx context.Context, userID, name string) (*domain.Label, error) {
	now := time.Now()
	l := &domain.Label{
		ID:        id.New(),
		Name:      name,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateLabel(ctx, l); err != nil {
		return nil, errors.LabelError("there was an error creating the label").WithCause(err)
	}

	s.logger.Info("label created", "label_id", l.ID, "user_id", userID)
	return l, nil
}

// UpdateLabel renames an owned label and returns the post-update row.
func (s *LabelService) UpdateLabel(ctx context.Context, userID, labelID, name string) (*domain.Label, error) {
	if err := s.requireLabelOwner(ctx, labelID, userID); err != nil {
		return nil, err
	}

	l, err := s.store.GetLabel(ctx, labelID)
	if err != nil {
		return nil, errors.LabelError("there was an error updating the label").WithCause(err)
	}

	l.Name = name
	l.Touch()

	if err := s.store.UpdateLabel(ctx, l); err != nil {
		return nil, errors.LabelError("there was an error updating the label").WithCause(err)
	}
	return l, nil
}

// DeleteLabel removes an owned label. Attachment rows are left behind by
// the schema but stop appearing in projections immediately.
func (s *LabelService) DeleteLabel(ctx context.Context, userID, labelID string) error {
	if err := s.requireLabelOwner(ctx, labelID, userID); err != nil {
		return err
	}

	if err := s.store.DeleteLabel(ctx, labelID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.LabelDoesNotExistf("a label with id: %s does not exist", labelID)
		}
		return errors.LabelError("there was an error deleting the label").WithCause(err)
	}

	s.logger.Info("label deleted", "label_id", labelID, "user_id", userID)
	return nil
}
