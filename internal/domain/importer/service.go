package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gestion-muestras/internal/domain/samples"

	"github.com/google/uuid"
)

// SheetCodec es el puerto hacia el formato de hoja de cálculo.
// El adapter concreto (excelize) vive en internal/adapters/excel.
type SheetCodec interface {
	// ReadRows lee la primera hoja del libro: encabezado en la fila 1,
	// datos desde la fila 2.
	ReadRows(r io.Reader) ([]Row, error)
	// Write escribe el libro de exportación (tres hojas) en w.
	Write(w io.Writer, data ExportData) error
}

// Result es el resultado estructurado de una importación.
// Success+Updated == 0 con Errors no vacío es fallo total; cualquier
// fila aplicada con errores presentes es éxito parcial.
type Result struct {
	BatchID string   `json:"batchId"`
	Success int      `json:"success"` // filas creadas
	Updated int      `json:"updated"` // filas que actualizaron una muestra existente
	Errors  []string `json:"errors"`
}

type Service struct {
	repo samples.Repository
	now  func() time.Time
}

func NewService(repo samples.Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Reconcile aplica las filas contra la colección: valida campos
// obligatorios, decide crear vs actualizar por ID, y acumula errores
// numerados por fila sin abortar el lote. La primera fila de datos es
// la 2 (la 1 es el encabezado).
func (s *Service) Reconcile(ctx context.Context, rows []Row) Result {
	result := Result{
		BatchID: uuid.NewString(),
		Errors:  []string{},
	}

	for i, row := range rows {
		rowNum := i + 2

		if row.resolve("marca") == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: Marca es obligatoria", rowNum))
			continue
		}
		if row.resolve("modelo") == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: Modelo es obligatorio", rowNum))
			continue
		}
		if row.resolve("fechaRecepcion") == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: Fecha de Recepción es obligatoria", rowNum))
			continue
		}
		if row.resolve("responsable") == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: Responsable es obligatorio", rowNum))
			continue
		}

		fecha := ParseFecha(row.resolve("fechaRecepcion"))
		if fecha == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: Fecha de Recepción inválida", rowNum))
			continue
		}

		if err := s.applyRow(ctx, row, fecha, &result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: %v", rowNum, err))
		}
	}

	return result
}

// applyRow decide crear o actualizar y persiste.
func (s *Service) applyRow(ctx context.Context, row Row, fecha string, result *Result) error {
	history, status := rowHistory(row)

	id := row.resolve("id")
	if id != "" {
		existing, err := s.repo.GetByID(ctx, id)
		if err == nil {
			return s.updateExisting(ctx, existing, row, fecha, history, status, result)
		}
		// ID desconocido: cae al flujo de creación con id nuevo.
	}

	newID, err := s.repo.NextID(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	if len(history) == 0 {
		history = []samples.StatusChange{{
			Status:  status,
			Date:    now,
			Comment: samples.CommentImported,
		}}
	}

	m := samples.Sample{
		ID:              newID,
		Marca:           row.resolve("marca"),
		Modelo:          row.resolve("modelo"),
		FechaRecepcion:  fecha,
		Responsable:     row.resolve("responsable"),
		RazonSocial:     row.resolve("razonSocial"),
		NumeroSolicitud: row.resolve("numeroSolicitud"),
		Descripcion:     row.resolve("descripcion"),
		CurrentStatus:   history[len(history)-1].Status,
		StatusHistory:   history,
		CreatedAt:       now,
	}

	if err := s.repo.Add(ctx, m); err != nil {
		return err
	}
	result.Success++
	return nil
}

func (s *Service) updateExisting(ctx context.Context, existing samples.Sample, row Row, fecha string, history []samples.StatusChange, status samples.Status, result *Result) error {
	existing.Marca = row.resolve("marca")
	existing.Modelo = row.resolve("modelo")
	existing.FechaRecepcion = fecha
	existing.Responsable = row.resolve("responsable")
	existing.RazonSocial = row.resolve("razonSocial")
	existing.NumeroSolicitud = row.resolve("numeroSolicitud")
	existing.Descripcion = row.resolve("descripcion")

	switch {
	case len(history) > 0:
		// La fila trae historial: reemplaza el historial completo.
		// Si además trae un estatus distinto al de la última entrada,
		// se agrega como transición nueva para no romper el invariante
		// currentStatus == última entrada.
		if history[len(history)-1].Status != status {
			history = append(history, samples.StatusChange{
				Status:  status,
				Date:    s.now(),
				Comment: samples.DefaultComment(status),
			})
		}
		existing.StatusHistory = history
		existing.CurrentStatus = status
	case row.resolve("currentStatus") != "":
		// Solo estatus, sin historial: se registra como transición.
		if samples.Status(row.resolve("currentStatus")).Valid() {
			existing.StatusHistory = append(existing.StatusHistory, samples.StatusChange{
				Status:  status,
				Date:    s.now(),
				Comment: samples.DefaultComment(status),
			})
			existing.CurrentStatus = status
		}
	}

	if err := s.repo.Update(ctx, existing.ID, existing); err != nil {
		return err
	}
	result.Updated++
	return nil
}

// rowHistory extrae el historial JSON y el estatus de la fila.
// Historial ilegible se ignora (valores por defecto); estatus fuera
// del enum se ignora. Devuelve el historial (posiblemente vacío) y el
// estatus efectivo: el del campo de estatus si es válido, si no el de
// la última entrada del historial, si no el estado inicial.
func rowHistory(row Row) ([]samples.StatusChange, samples.Status) {
	status := samples.StatusAlmacen
	var history []samples.StatusChange

	if raw := row.resolve("statusHistory"); raw != "" {
		var parsed []samples.StatusChange
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil && len(parsed) > 0 {
			history = parsed
			status = parsed[len(parsed)-1].Status
		}
	}

	if v := samples.Status(row.resolve("currentStatus")); v.Valid() {
		status = v
	}

	return history, status
}
