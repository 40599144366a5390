package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"gestion-muestras/internal/domain/samples"
)

// samplesRepo guarda la colección en memoria, en orden de inserción
// (igual que el archivo JSON). Para dev y tests.
type samplesRepo struct {
	mu    sync.RWMutex
	items []samples.Sample
}

func NewSamplesRepo() samples.Repository {
	return &samplesRepo{items: []samples.Sample{}}
}

func (r *samplesRepo) ListAll(ctx context.Context) ([]samples.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]samples.Sample, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *samplesRepo) GetByID(ctx context.Context, id string) (samples.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.items {
		if m.ID == id {
			return m, nil
		}
	}
	return samples.Sample{}, samples.ErrNotFound
}

func (r *samplesRepo) Add(ctx context.Context, m samples.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("sample id required")
	}
	for _, existing := range r.items {
		if existing.ID == m.ID {
			return errors.New("sample already exists")
		}
	}
	r.items = append(r.items, m)
	return nil
}

func (r *samplesRepo) Update(ctx context.Context, id string, m samples.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i] = m
			return nil
		}
	}
	return samples.ErrNotFound
}

func (r *samplesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *samplesRepo) NextID(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return samples.NextIDFrom(r.items), nil
}
