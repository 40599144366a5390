package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gestion-muestras/internal/domain/samples"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples_data.json")
	st, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return st, path
}

func testSample(id string) samples.Sample {
	now := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	return samples.Sample{
		ID:             id,
		Marca:          "Acme",
		Modelo:         "X1",
		FechaRecepcion: "2024-01-15",
		Responsable:    "Juan",
		CurrentStatus:  samples.StatusAlmacen,
		StatusHistory: []samples.StatusChange{{
			Status:  samples.StatusAlmacen,
			Date:    now,
			Comment: samples.CommentRegistered,
		}},
		CreatedAt: now,
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	st, path := newTestStore(t)
	ctx := context.Background()

	if err := st.Add(ctx, testSample("M-0001")); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if err := st.Add(ctx, testSample("M-0002")); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	// Nueva instancia sobre el mismo archivo: la colección sobrevive.
	st2, err := New(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}

	all, err := st2.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 samples after reopen, got %d", len(all))
	}
	// Orden de inserción preservado.
	if all[0].ID != "M-0001" || all[1].ID != "M-0002" {
		t.Fatalf("insertion order lost: %s, %s", all[0].ID, all[1].ID)
	}

	got, err := st2.GetByID(ctx, "M-0002")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.StatusHistory[0].Comment != samples.CommentRegistered {
		t.Fatalf("history lost in round trip: %+v", got.StatusHistory)
	}
}

func TestStore_MissingOrCorruptFileFailsClosed(t *testing.T) {
	st, path := newTestStore(t)
	ctx := context.Background()

	// Archivo inexistente: colección vacía, sin error.
	all, err := st.ListAll(ctx)
	if err != nil || len(all) != 0 {
		t.Fatalf("missing file: all=%v err=%v", all, err)
	}

	// Archivo corrupto: igual.
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	all, err = st.ListAll(ctx)
	if err != nil || len(all) != 0 {
		t.Fatalf("corrupt file: all=%v err=%v", all, err)
	}

	if _, err := st.GetByID(ctx, "M-0001"); !errors.Is(err, samples.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on corrupt file, got %v", err)
	}
	if id, _ := st.NextID(ctx); id != "M-0001" {
		t.Fatalf("NextID on corrupt file = %s", id)
	}
}

func TestStore_UpdateAndDelete(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.Update(ctx, "M-0001", testSample("M-0001")); !errors.Is(err, samples.ErrNotFound) {
		t.Fatalf("update of missing id: %v", err)
	}

	_ = st.Add(ctx, testSample("M-0001"))

	m := testSample("M-0001")
	m.Marca = "AcmeV2"
	if err := st.Update(ctx, "M-0001", m); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	got, _ := st.GetByID(ctx, "M-0001")
	if got.Marca != "AcmeV2" {
		t.Fatalf("update not persisted: %s", got.Marca)
	}

	// Delete de id ausente es no-op.
	if err := st.Delete(ctx, "M-9999"); err != nil {
		t.Fatalf("delete of missing id must be a no-op: %v", err)
	}

	if err := st.Delete(ctx, "M-0001"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := st.GetByID(ctx, "M-0001"); !errors.Is(err, samples.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_NextID(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	id, err := st.NextID(ctx)
	if err != nil || id != "M-0001" {
		t.Fatalf("NextID on empty store = %s, %v", id, err)
	}

	_ = st.Add(ctx, testSample("M-0009"))
	id, _ = st.NextID(ctx)
	if id != "M-0010" {
		t.Fatalf("NextID = %s", id)
	}
}
