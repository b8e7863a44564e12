package contacts

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

type memoryRepo struct {
	mu     sync.Mutex
	items  map[string]Contact
	writes int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]Contact{}}
}

func (m *memoryRepo) Create(ctx context.Context, contact Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[contact.ID] = contact
	m.writes++
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return Contact{}, mongo.ErrNoDocuments
	}
	return c, nil
}

func (m *memoryRepo) MarkRead(ctx context.Context, id string) (Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok || c.Status != StatusNew {
		return Contact{}, mongo.ErrNoDocuments
	}
	c.Status = StatusRead
	m.items[id] = c
	m.writes++
	return c, nil
}

func (m *memoryRepo) UpdateStatus(ctx context.Context, id string, status Status) (Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return Contact{}, mongo.ErrNoDocuments
	}
	c.Status = status
	m.items[id] = c
	m.writes++
	return c, nil
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

func (m *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Contact, 0, len(m.items))
	for _, c := range m.items {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
