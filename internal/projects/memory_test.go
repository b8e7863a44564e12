package projects

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type memoryRepo struct {
	mu     sync.Mutex
	items  map[string]Project
	writes int
	lists  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]Project{}}
}

func cloneProject(p Project) Project {
	if p.Technologies != nil {
		p.Technologies = append([]string(nil), p.Technologies...)
	}
	return p
}

func (m *memoryRepo) Create(ctx context.Context, item Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = cloneProject(item)
	m.writes++
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	return cloneProject(p), nil
}

func (m *memoryRepo) Update(ctx context.Context, id string, patch Patch) (Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	p.Title = patch.Title
	p.Description = patch.Description
	p.Image = patch.Image
	p.Technologies = append([]string(nil), patch.Technologies...)
	p.ProjectURL = patch.ProjectURL
	p.GithubURL = patch.GithubURL
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Order != nil {
		p.Order = *patch.Order
	}
	p.UpdatedAt = patch.UpdatedAt
	m.items[id] = p
	m.writes++
	return cloneProject(p), nil
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

func (m *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	out := make([]Project, 0, len(m.items))
	for _, p := range m.items {
		if filter.FeaturedOnly && !p.Featured {
			continue
		}
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memoryRepo) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *memoryRepo) listCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

type mapCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string][]byte{}}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *mapCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}
