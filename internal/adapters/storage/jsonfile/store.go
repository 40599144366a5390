// Package jsonfile persiste la colección completa de muestras en un
// solo archivo JSON, el análogo local de un key-value store: cada
// lectura parsea el archivo entero y cada mutación lo reescribe entero
// (read-modify-write completo, sin locking entre procesos; último
// escritor gana, alcance single-user).
package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"gestion-muestras/internal/domain/samples"
)

// DefaultPath es la ubicación por defecto del archivo de datos.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "muestras", "samples_data.json"), nil
}

// ResolvePath toma DATA_FILE del entorno si está, si no DefaultPath.
func ResolvePath() (string, error) {
	if p := os.Getenv("DATA_FILE"); p != "" {
		return p, nil
	}
	return DefaultPath()
}

type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// load lee la colección completa. Archivo ausente o corrupto degrada a
// colección vacía (fail closed), nunca propaga el error: es el mismo
// contrato que tenía el storage original.
func (st *Store) load() []samples.Sample {
	b, err := os.ReadFile(st.path)
	if err != nil {
		return []samples.Sample{}
	}
	var out []samples.Sample
	if err := json.Unmarshal(b, &out); err != nil {
		return []samples.Sample{}
	}
	return out
}

// save reescribe la colección completa vía archivo temporal + rename,
// para que un proceso nunca deje el archivo a medio escribir.
func (st *Store) save(items []samples.Sample) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, st.path)
}

func (st *Store) ListAll(ctx context.Context) ([]samples.Sample, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.load(), nil
}

func (st *Store) GetByID(ctx context.Context, id string) (samples.Sample, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, m := range st.load() {
		if m.ID == id {
			return m, nil
		}
	}
	return samples.Sample{}, samples.ErrNotFound
}

func (st *Store) Add(ctx context.Context, m samples.Sample) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	items := st.load()
	items = append(items, m)
	return st.save(items)
}

func (st *Store) Update(ctx context.Context, id string, m samples.Sample) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	items := st.load()
	for i := range items {
		if items[i].ID == id {
			items[i] = m
			return st.save(items)
		}
	}
	return samples.ErrNotFound
}

func (st *Store) Delete(ctx context.Context, id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	items := st.load()
	filtered := items[:0]
	for _, m := range items {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == len(items) {
		// no-op si no existe
		return nil
	}
	return st.save(filtered)
}

func (st *Store) NextID(ctx context.Context) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return samples.NextIDFrom(st.load()), nil
}
