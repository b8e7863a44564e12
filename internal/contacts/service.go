package contacts

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("contact submission not found")
	ErrInvalidStatus = errors.New("invalid status")
)

// Notifier alerts the site owner about a new submission.
type Notifier interface {
	SendContactNotification(ctx context.Context, contact Contact) (string, error)
}

type Service struct {
	repo     Repository
	val      *validation.Validator
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, val *validation.Validator, location *time.Location, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		val:      val,
		notifier: notifier,
		now:      func() time.Time { return time.Now().In(location) },
	}
}

// Create stores a public submission. New submissions always start as new.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Contact, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	if err := s.val.Check(req); err != nil {
		return Contact{}, err
	}

	subject := req.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	contact := Contact{
		ID:        primitive.NewObjectID().Hex(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   subject,
		Message:   strings.TrimSpace(req.Message),
		Status:    StatusNew,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return Contact{}, db.Classify(err)
	}
	return contact, nil
}

func (s *Service) List(ctx context.Context, principal *auth.Principal, filter ListFilter) ([]Contact, error) {
	if err := auth.Authorize(principal, auth.RoleAdmin); err != nil {
		return nil, err
	}
	filter.Status = Status(strings.ToLower(strings.TrimSpace(string(filter.Status))))
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, db.Classify(err)
	}
	return items, nil
}

// GetForAdmin returns a contact and marks it read on the first admin view.
func (s *Service) GetForAdmin(ctx context.Context, principal *auth.Principal, id string) (Contact, error) {
	if err := auth.Authorize(principal, auth.RoleAdmin); err != nil {
		return Contact{}, err
	}
	id = strings.TrimSpace(id)

	read, err := s.repo.MarkRead(ctx, id)
	if err == nil {
		return read, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return Contact{}, db.Classify(err)
	}

	// Already read or replied, or missing.
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Contact{}, s.mapLookupErr(err)
	}
	return contact, nil
}

// UpdateStatus sets any valid status; transitions are not restricted.
func (s *Service) UpdateStatus(ctx context.Context, principal *auth.Principal, id string, status Status) (Contact, error) {
	if err := auth.Authorize(principal, auth.RoleAdmin); err != nil {
		return Contact{}, err
	}
	status = Status(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return Contact{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, strings.TrimSpace(id), status)
	if err != nil {
		return Contact{}, s.mapLookupErr(err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, principal *auth.Principal, id string) error {
	if err := auth.Authorize(principal, auth.RoleAdmin); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return db.Classify(err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) NotifyNewContact(ctx context.Context, contact Contact) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendContactNotification(ctx, contact)
	return err
}

func (s *Service) mapLookupErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return db.Classify(err)
}
