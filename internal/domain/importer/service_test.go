package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"gestion-muestras/internal/domain/samples"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	items []samples.Sample
}

func (r *testRepo) ListAll(ctx context.Context) ([]samples.Sample, error) {
	out := make([]samples.Sample, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (samples.Sample, error) {
	for _, m := range r.items {
		if m.ID == id {
			return m, nil
		}
	}
	return samples.Sample{}, samples.ErrNotFound
}

func (r *testRepo) Add(ctx context.Context, m samples.Sample) error {
	r.items = append(r.items, m)
	return nil
}

func (r *testRepo) Update(ctx context.Context, id string, m samples.Sample) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i] = m
			return nil
		}
	}
	return samples.ErrNotFound
}

func (r *testRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *testRepo) NextID(ctx context.Context) (string, error) {
	return samples.NextIDFrom(r.items), nil
}

func fixedClock(svc *Service, t time.Time) {
	svc.now = func() time.Time { return t }
}

func validRow() Row {
	return Row{
		"Marca":           "Acme",
		"Modelo":          "X1",
		"Fecha Recepción": "15/01/2024",
		"Responsable":     "Juan",
	}
}

// -------------------------
// Tests
// -------------------------

func TestReconcile_CreatesNewSample(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)
	fixedClock(svc, time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC))

	result := svc.Reconcile(context.Background(), []Row{validRow()})

	if result.Success != 1 || result.Updated != 0 || len(result.Errors) != 0 {
		t.Fatalf("result = %+v", result)
	}
	if result.BatchID == "" {
		t.Fatalf("expected batch id")
	}

	m, err := repo.GetByID(context.Background(), "M-0001")
	if err != nil {
		t.Fatalf("created sample not found: %v", err)
	}
	if m.FechaRecepcion != "2024-01-15" {
		t.Fatalf("fecha normalizada = %s", m.FechaRecepcion)
	}
	if m.CurrentStatus != samples.StatusAlmacen {
		t.Fatalf("default status = %s", m.CurrentStatus)
	}
	if len(m.StatusHistory) != 1 || m.StatusHistory[0].Comment != samples.CommentImported {
		t.Fatalf("expected one synthesized history entry, got %+v", m.StatusHistory)
	}
}

func TestReconcile_MissingModelo(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	row := validRow()
	delete(row, "Modelo")

	result := svc.Reconcile(context.Background(), []Row{row})

	if result.Success != 0 || result.Updated != 0 {
		t.Fatalf("row with missing field must not be applied: %+v", result)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", result.Errors)
	}
	if result.Errors[0] != "Fila 2: Modelo es obligatorio" {
		t.Fatalf("error = %q", result.Errors[0])
	}
}

func TestReconcile_RowErrorsDoNotAbortBatch(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	bad := validRow()
	delete(bad, "Responsable")

	badDate := validRow()
	badDate["Fecha Recepción"] = "no es fecha"

	result := svc.Reconcile(context.Background(), []Row{bad, validRow(), badDate, validRow()})

	if result.Success != 2 {
		t.Fatalf("expected 2 created, got %+v", result)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if !strings.HasPrefix(result.Errors[0], "Fila 2:") || !strings.HasPrefix(result.Errors[1], "Fila 4:") {
		t.Fatalf("row numbers wrong: %v", result.Errors)
	}
	if result.Errors[1] != "Fila 4: Fecha de Recepción inválida" {
		t.Fatalf("error = %q", result.Errors[1])
	}
}

func TestReconcile_UpdateByID_Idempotent(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	first := svc.Reconcile(context.Background(), []Row{validRow()})
	if first.Success != 1 {
		t.Fatalf("first import: %+v", first)
	}

	// Misma fila, ahora con el ID emitido: debe actualizar, no duplicar.
	again := validRow()
	again["ID"] = "M-0001"
	again["Marca"] = "AcmeV2"

	second := svc.Reconcile(context.Background(), []Row{again})
	if second.Success != 0 || second.Updated != 1 || len(second.Errors) != 0 {
		t.Fatalf("second import: %+v", second)
	}

	all, _ := repo.ListAll(context.Background())
	if len(all) != 1 {
		t.Fatalf("collection size changed: %d", len(all))
	}
	if all[0].Marca != "AcmeV2" {
		t.Fatalf("scalar overwrite missing: marca = %s", all[0].Marca)
	}
	if len(all[0].StatusHistory) != 1 {
		t.Fatalf("history must be preserved when the row carries none: %+v", all[0].StatusHistory)
	}
}

func TestReconcile_UnknownID_CreatesWithFreshID(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	row := validRow()
	row["ID"] = "M-0500"

	result := svc.Reconcile(context.Background(), []Row{row})
	if result.Success != 1 || result.Updated != 0 {
		t.Fatalf("result = %+v", result)
	}

	all, _ := repo.ListAll(context.Background())
	if all[0].ID != "M-0001" {
		t.Fatalf("unknown ID must not be honored, got %s", all[0].ID)
	}
}

func TestReconcile_HistoryPayload(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	row := validRow()
	row["Historial de Estatus"] = `[
		{"status":"En Almacén","date":"2024-01-15T10:00:00Z","comment":"Muestra almacenada"},
		{"status":"En Laboratorio","date":"2024-01-16T10:00:00Z","comment":"Muestra enviada a laboratorio para análisis"}
	]`

	result := svc.Reconcile(context.Background(), []Row{row})
	if result.Success != 1 {
		t.Fatalf("result = %+v", result)
	}

	m, _ := repo.GetByID(context.Background(), "M-0001")
	if len(m.StatusHistory) != 2 {
		t.Fatalf("history = %+v", m.StatusHistory)
	}
	if m.CurrentStatus != samples.StatusLaboratorio {
		t.Fatalf("currentStatus must follow last history entry, got %s", m.CurrentStatus)
	}
}

func TestReconcile_StatusOnlyUpdate_AppendsTransition(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	svc.Reconcile(context.Background(), []Row{validRow()})

	row := validRow()
	row["ID"] = "M-0001"
	row["Estatus Actual"] = "Entregada"

	result := svc.Reconcile(context.Background(), []Row{row})
	if result.Updated != 1 {
		t.Fatalf("result = %+v", result)
	}

	m, _ := repo.GetByID(context.Background(), "M-0001")
	if m.CurrentStatus != samples.StatusEntregada {
		t.Fatalf("currentStatus = %s", m.CurrentStatus)
	}
	if len(m.StatusHistory) != 2 {
		t.Fatalf("status-only update must append a transition, got %+v", m.StatusHistory)
	}
	last := m.StatusHistory[len(m.StatusHistory)-1]
	if last.Status != samples.StatusEntregada {
		t.Fatalf("invariante roto: última entrada %s", last.Status)
	}
}

func TestReconcile_IgnoresUnreadableHistory(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	row := validRow()
	row["Historial de Estatus"] = "{esto no es json"

	result := svc.Reconcile(context.Background(), []Row{row})
	if result.Success != 1 || len(result.Errors) != 0 {
		t.Fatalf("unreadable history must fall back to defaults: %+v", result)
	}

	m, _ := repo.GetByID(context.Background(), "M-0001")
	if len(m.StatusHistory) != 1 || m.CurrentStatus != samples.StatusAlmacen {
		t.Fatalf("defaults missing: %+v", m)
	}
}

func TestParseFecha(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"45000", "2023-03-15"}, // número de serie de hoja de cálculo
		{"15/01/2024", "2024-01-15"},
		{"1/2/2024", "2024-02-01"},
		{"2024-01-15", "2024-01-15"},
		{"2024-01-15T10:30:00Z", "2024-01-15"},
		{"", ""},
		{"no es fecha", ""},
		{"40/01/2024", ""},
	}

	for _, c := range cases {
		if got := ParseFecha(c.in); got != c.want {
			t.Fatalf("ParseFecha(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildExport(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)
	fixedClock(svc, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))

	rowA := validRow()
	rowB := validRow()
	rowB["Modelo"] = "X2"
	rowB["Estatus Actual"] = "En Laboratorio"
	svc.Reconcile(context.Background(), []Row{rowA, rowB})

	// Importado con clock fijo: días en sistema = 0.
	data, err := svc.BuildExport(context.Background())
	if err != nil {
		t.Fatalf("BuildExport error: %v", err)
	}

	if len(data.Muestras) != 2 {
		t.Fatalf("Muestras rows = %d", len(data.Muestras))
	}
	if data.Muestras[0].HistorialJSON == "" || !strings.Contains(data.Muestras[0].HistorialJSON, "En Almacén") {
		t.Fatalf("historial JSON blob missing: %q", data.Muestras[0].HistorialJSON)
	}

	// Una fila por estatus del enum, con ceros incluidos.
	if len(data.Resumen) != len(samples.AllStatuses) {
		t.Fatalf("Resumen rows = %d", len(data.Resumen))
	}
	counts := map[string]int{}
	for _, r := range data.Resumen {
		counts[r.Estatus] = r.Cantidad
	}
	if counts["En Almacén"] != 1 || counts["En Laboratorio"] != 1 || counts["Regresada"] != 0 || counts["Entregada"] != 0 {
		t.Fatalf("Resumen counts = %v", counts)
	}

	if len(data.Historial) != 2 {
		t.Fatalf("Historial rows = %d", len(data.Historial))
	}
	if data.Historial[0].ID != "M-0001" || data.Historial[1].ID != "M-0002" {
		t.Fatalf("Historial order = %+v", data.Historial)
	}
}
