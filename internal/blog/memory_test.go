package blog

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// memoryRepo mirrors the Mongo repository's atomic contracts under one mutex.
type memoryRepo struct {
	mu     sync.Mutex
	items  map[string]Post
	writes int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]Post{}}
}

var errDuplicateKey = mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error index: slug_1"}}}

func clonePost(p Post) Post {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	if p.PublishedAt != nil {
		at := *p.PublishedAt
		p.PublishedAt = &at
	}
	return p
}

func (m *memoryRepo) slugTaken(slug, exceptID string) bool {
	for id, p := range m.items {
		if id != exceptID && p.Slug == slug {
			return true
		}
	}
	return false
}

func (m *memoryRepo) Create(ctx context.Context, post Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(post.Slug, "") {
		return errDuplicateKey
	}
	m.items[post.ID] = clonePost(post)
	m.writes++
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return Post{}, mongo.ErrNoDocuments
	}
	return clonePost(p), nil
}

func (m *memoryRepo) Update(ctx context.Context, id string, patch Patch) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return Post{}, mongo.ErrNoDocuments
	}
	if patch.Slug != nil && m.slugTaken(*patch.Slug, id) {
		return Post{}, errDuplicateKey
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Slug != nil {
		p.Slug = *patch.Slug
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Tags != nil {
		p.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.FeaturedImage != nil {
		p.FeaturedImage = *patch.FeaturedImage
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	p.UpdatedAt = patch.UpdatedAt
	m.items[id] = p
	m.writes++
	return clonePost(p), nil
}

func (m *memoryRepo) StampPublished(ctx context.Context, id string, at time.Time) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || !p.Published || p.PublishedAt != nil {
		return Post{}, mongo.ErrNoDocuments
	}
	p.PublishedAt = &at
	m.items[id] = p
	m.writes++
	return clonePost(p), nil
}

func (m *memoryRepo) IncrementViews(ctx context.Context, slug string) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.items {
		if p.Slug == slug && p.Published {
			p.Views++
			m.items[id] = p
			m.writes++
			return clonePost(p), nil
		}
	}
	return Post{}, mongo.ErrNoDocuments
}

func (m *memoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	m.writes++
	return true, nil
}

func (m *memoryRepo) published(filter PublicListFilter) []Post {
	out := make([]Post, 0)
	for _, p := range m.items {
		if !p.Published {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Tag != "" && !contains(p.Tags, filter.Tag) {
			continue
		}
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return publishedAt(out[i]).After(publishedAt(out[j]))
	})
	return out
}

func (m *memoryRepo) ListPublished(ctx context.Context, filter PublicListFilter, limit, skip int64) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.published(filter)
	if skip >= int64(len(all)) {
		return []Post{}, nil
	}
	end := skip + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[skip:end], nil
}

func (m *memoryRepo) CountPublished(ctx context.Context, filter PublicListFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.published(filter))), nil
}

func (m *memoryRepo) ListAll(ctx context.Context) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Post, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func publishedAt(p Post) time.Time {
	if p.PublishedAt == nil {
		return time.Time{}
	}
	return *p.PublishedAt
}

func contains(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

type stubAuthors map[string]string

func (s stubAuthors) Usernames(ctx context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if name, ok := s[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}
