package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/utils"
	"portfolio-backend/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("blog post not found")
	ErrDuplicateSlug = errors.New("a post with this slug already exists")
)

const cachePrefix = "blog:public:"

// AuthorDirectory resolves author ids to usernames.
type AuthorDirectory interface {
	Usernames(ctx context.Context, ids []string) (map[string]string, error)
}

type Service struct {
	repo     Repository
	authors  AuthorDirectory
	cache    cache.Cache
	cacheTTL time.Duration
	val      *validation.Validator
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, authors AuthorDirectory, c cache.Cache, cacheTTL time.Duration, val *validation.Validator, log *slog.Logger, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		authors:  authors,
		cache:    c,
		cacheTTL: cacheTTL,
		val:      val,
		log:      log,
		now:      func() time.Time { return time.Now().In(location) },
	}
}

func (s *Service) Create(ctx context.Context, principal *auth.Principal, req CreateRequest) (PostView, error) {
	if err := auth.Authorize(principal, auth.RoleAdmin); err != nil {
		return PostView{}, err
	}
	if err := s.val.Check(req); err != nil {
		return PostView{}, err
	}

	title := strings.TrimSpace(req.Title)
	slug, err := deriveSlug(title)
	if err != nil {
		return PostView{}, err
	}

	now := s.now()
	post := Post{
		ID:            primitive.NewObjectID().Hex(),
		Title:         title,
		Slug:          slug,
		Content:       req.Content,
		Excerpt:       strings.TrimSpace(req.Excerpt),
		Author:        principal.ID,
		Category:      normalizeCategory(req.Category),
		Tags:          normalizeTags(req.Tags),
		FeaturedImage: strings.TrimSpace(req.FeaturedImage),
		Published:     req.Published,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if post.State() == StatePendingStamp {
		post.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return PostView{}, ErrDuplicateSlug
		}
		return PostView{}, db.Classify(err)
	}

	s.invalidate(ctx)
	return s.view(ctx, post)
}

// Update applies a partial update. The slug is recomputed only when the title
// actually changes, and publishedAt is stamped the first time the post is
// saved as published.
func (s *Service) Update(ctx context.Context, principal *auth.Principal, id string, req UpdateRequest) (PostView, error) {
	if err := auth.Authorize(principal, auth.RoleAdmin); err != nil {
		return PostView{}, err
	}
	if err := s.val.Check(req); err != nil {
		return PostView{}, err
	}

	id = strings.TrimSpace(id)
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PostView{}, s.mapLookupErr(err)
	}

	now := s.now()
	patch := Patch{
		Content:       req.Content,
		Published:     req.Published,
		UpdatedAt:     now,
		FeaturedImage: trimmed(req.FeaturedImage),
		Excerpt:       trimmed(req.Excerpt),
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title != existing.Title {
			slug, err := deriveSlug(title)
			if err != nil {
				return PostView{}, err
			}
			patch.Title = &title
			patch.Slug = &slug
		}
	}
	if req.Category != nil {
		category := normalizeCategory(*req.Category)
		patch.Category = &category
	}
	if req.Tags != nil {
		tags := normalizeTags(*req.Tags)
		patch.Tags = &tags
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return PostView{}, ErrDuplicateSlug
		}
		return PostView{}, s.mapLookupErr(err)
	}

	updated, err = s.stampIfPending(ctx, updated, now)
	if err != nil {
		return PostView{}, err
	}

	s.invalidate(ctx)
	return s.view(ctx, updated)
}

func (s *Service) stampIfPending(ctx context.Context, post Post, now time.Time) (Post, error) {
	switch post.State() {
	case StateDraft, StatePublished:
		return post, nil
	case StatePendingStamp:
		stamped, err := s.repo.StampPublished(ctx, post.ID, now)
		if err == nil {
			return stamped, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, db.Classify(err)
		}
		// A concurrent save stamped or unpublished the post first.
		current, err := s.repo.GetByID(ctx, post.ID)
		if err != nil {
			return Post{}, s.mapLookupErr(err)
		}
		return current, nil
	default:
		return Post{}, fmt.Errorf("unknown publish state %d", post.State())
	}
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

// ViewPublished is the public read path: it fetches a published post by slug
// and counts the view in the same atomic store operation.
func (s *Service) ViewPublished(ctx context.Context, slug string) (PostView, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return PostView{}, ErrNotFound
	}
	post, err := s.repo.IncrementViews(ctx, slug)
	if err != nil {
		return PostView{}, s.mapLookupErr(err)
	}
	return s.view(ctx, post)
}

func (s *Service) ListPublished(ctx context.Context, filter PublicListFilter, page, limit int64) (PublicPage, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Tag = strings.TrimSpace(filter.Tag)

	key := fmt.Sprintf("%s%s|%s|%d|%d", cachePrefix, filter.Category, filter.Tag, page, limit)
	var cached PublicPage
	if cache.GetJSON(ctx, s.cache, key, &cached) {
		return cached, nil
	}

	posts, err := s.repo.ListPublished(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return PublicPage{}, db.Classify(err)
	}
	total, err := s.repo.CountPublished(ctx, filter)
	if err != nil {
		return PublicPage{}, db.Classify(err)
	}
	views, err := s.views(ctx, posts)
	if err != nil {
		return PublicPage{}, err
	}

	result := PublicPage{Items: views, Total: total, Page: page, Limit: limit}
	if err := cache.SetJSON(ctx, s.cache, key, result, s.cacheTTL); err != nil {
		s.log.Warn("blog cache set failed", slog.String("error", err.Error()))
	}
	return result, nil
}

// ListAll returns drafts and published posts alike; it never counts views.
func (s *Service) ListAll(ctx context.Context, principal *auth.Principal) ([]PostView, error) {
	if err := auth.Authorize(principal, auth.RoleAdmin); err != nil {
		return nil, err
	}
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, db.Classify(err)
	}
	return s.views(ctx, posts)
}

func (s *Service) view(ctx context.Context, post Post) (PostView, error) {
	views, err := s.views(ctx, []Post{post})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

func (s *Service) views(ctx context.Context, posts []Post) ([]PostView, error) {
	ids := make([]string, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.Author]; ok || p.Author == "" {
			continue
		}
		seen[p.Author] = struct{}{}
		ids = append(ids, p.Author)
	}

	names := map[string]string{}
	if len(ids) > 0 && s.authors != nil {
		found, err := s.authors.Usernames(ctx, ids)
		if err != nil {
			return nil, db.Classify(err)
		}
		names = found
	}

	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostView{Post: p, Author: Author{ID: p.Author, Username: names[p.Author]}})
	}
	return out, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		s.log.Warn("blog cache invalidation failed", slog.String("error", err.Error()))
	}
}

func (s *Service) mapLookupErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return db.Classify(err)
}

func deriveSlug(title string) (string, error) {
	slug := utils.Slugify(title)
	if slug == "" {
		return "", validation.Field("title", "must contain at least one letter or digit")
	}
	return slug, nil
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return DefaultCategory
	}
	return category
}

// normalizeTags trims, drops blanks and removes duplicates, keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
