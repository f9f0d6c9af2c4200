package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
)

type repository interface {
	Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error
	FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]models.NewsletterSubscriber, error)
}

// Service exposes newsletter signup and the admin subscriber list.
type Service interface {
	Subscribe(ctx context.Context, email string) (*SubscriberDTO, bool, error)
	List(ctx context.Context) ([]SubscriberDTO, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService builds a newsletter service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("newsletter repository required")
	}
	return &service{repo: repo}, nil
}

// SubscriberDTO is the admin-facing subscriber shape.
type SubscriberDTO struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Status       string    `json:"status"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// Subscribe records an email address. Re-subscribing an existing address is
// not an error; the second return reports whether the address was already
// on the list.
func (s *service) Subscribe(ctx context.Context, email string) (*SubscriberDTO, bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || !strings.Contains(normalized, "@") {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "a valid email address is required")
	}

	existing, err := s.repo.FindByEmail(ctx, normalized)
	if err == nil {
		dto := toDTO(existing)
		return &dto, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up subscriber")
	}

	subscriber := &models.NewsletterSubscriber{
		ID:     uuid.New(),
		Email:  normalized,
		Status: "active",
	}
	if err := s.repo.Create(ctx, subscriber); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating subscriber")
	}

	dto := toDTO(subscriber)
	return &dto, false, nil
}

func (s *service) List(ctx context.Context) ([]SubscriberDTO, error) {
	subscribers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing subscribers")
	}
	out := make([]SubscriberDTO, 0, len(subscribers))
	for i := range subscribers {
		out = append(out, toDTO(&subscribers[i]))
	}
	return out, nil
}

func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "subscriber not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing subscriber")
	}
	return nil
}

func toDTO(subscriber *models.NewsletterSubscriber) SubscriberDTO {
	return SubscriberDTO{
		ID:           subscriber.ID,
		Email:        subscriber.Email,
		Status:       subscriber.Status,
		SubscribedAt: subscriber.SubscribedAt,
	}
}
