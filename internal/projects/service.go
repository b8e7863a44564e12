package projects

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("project not found")

const cachePrefix = "projects:"

type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	val      *validation.Validator
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration, val *validation.Validator, log *slog.Logger, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		val:      val,
		log:      log,
		now:      func() time.Time { return time.Now().In(location) },
	}
}

func (s *Service) Create(ctx context.Context, principal *auth.Principal, req UpsertRequest) (Project, error) {
	if err := auth.Authorize(principal, auth.RoleAdmin); err != nil {
		return Project{}, err
	}
	if err := s.val.Check(req); err != nil {
		return Project{}, err
	}

	now := s.now()
	item := Project{
		ID:           primitive.NewObjectID().Hex(),
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Image:        strings.TrimSpace(req.Image),
		Technologies: technologies(req.Technologies),
		ProjectURL:   strings.TrimSpace(req.ProjectURL),
		GithubURL:    strings.TrimSpace(req.GithubURL),
		Featured:     req.Featured != nil && *req.Featured,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Order != nil {
		item.Order = *req.Order
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Project{}, db.Classify(err)
	}
	s.invalidate(ctx)
	return item, nil
}

// Update replaces the editable fields of a project.
func (s *Service) Update(ctx context.Context, principal *auth.Principal, id string, req UpsertRequest) (Project, error) {
	if err := auth.Authorize(principal, auth.RoleAdmin); err != nil {
		return Project{}, err
	}
	if err := s.val.Check(req); err != nil {
		return Project{}, err
	}

	patch := Patch{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Image:        strings.TrimSpace(req.Image),
		Technologies: technologies(req.Technologies),
		ProjectURL:   strings.TrimSpace(req.ProjectURL),
		GithubURL:    strings.TrimSpace(req.GithubURL),
		Featured:     req.Featured,
		Order:        req.Order,
		UpdatedAt:    s.now(),
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), patch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, db.Classify(err)
	}
	s.invalidate(ctx)
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
	s.invalidate(ctx)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, db.Classify(err)
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Project, error) {
	key := cachePrefix + "all"
	if filter.FeaturedOnly {
		key = cachePrefix + "featured"
	}

	var cached []Project
	if cache.GetJSON(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, db.Classify(err)
	}
	if err := cache.SetJSON(ctx, s.cache, key, items, s.cacheTTL); err != nil {
		s.log.Warn("projects cache set failed", slog.String("error", err.Error()))
	}
	return items, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		s.log.Warn("projects cache invalidation failed", slog.String("error", err.Error()))
	}
}

// technologies keeps insertion order and duplicates; only whitespace is trimmed.
func technologies(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		out = append(out, strings.TrimSpace(t))
	}
	return out
}
