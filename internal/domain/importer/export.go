package importer

import (
	"context"
	"encoding/json"

	"gestion-muestras/internal/domain/samples"
)

// ExportData son las tres hojas del libro de exportación, ya en forma
// tabular; el adapter de excel solo las escribe.
type ExportData struct {
	Muestras  []MuestraRow
	Resumen   []ResumenRow
	Historial []HistorialRow
}

// MuestraRow es una fila de la hoja Muestras: todos los campos
// escalares más el historial serializado como JSON.
type MuestraRow struct {
	ID              string
	Marca           string
	Modelo          string
	FechaRecepcion  string
	Responsable     string
	RazonSocial     string
	NumeroSolicitud string
	Descripcion     string
	EstatusActual   string
	HistorialJSON   string
	DiasEnSistema   int
	FechaRegistro   string
}

// ResumenRow es una fila de la hoja Resumen: conteo por estatus.
type ResumenRow struct {
	Estatus  string
	Cantidad int
}

// HistorialRow es una fila de la hoja Historial: producto
// (muestra, entrada de historial), en orden de muestra y cronológico.
type HistorialRow struct {
	ID         string
	Marca      string
	Modelo     string
	Estatus    string
	Fecha      string
	Comentario string
}

// BuildExport arma las tres hojas a partir de la colección actual.
func (s *Service) BuildExport(ctx context.Context) (ExportData, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return ExportData{}, err
	}

	now := s.now()
	data := ExportData{
		Muestras:  make([]MuestraRow, 0, len(items)),
		Historial: make([]HistorialRow, 0),
	}

	counts := map[samples.Status]int{}

	for _, m := range items {
		histJSON, err := json.Marshal(m.StatusHistory)
		if err != nil {
			return ExportData{}, err
		}

		data.Muestras = append(data.Muestras, MuestraRow{
			ID:              m.ID,
			Marca:           m.Marca,
			Modelo:          m.Modelo,
			FechaRecepcion:  m.FechaRecepcion,
			Responsable:     m.Responsable,
			RazonSocial:     m.RazonSocial,
			NumeroSolicitud: m.NumeroSolicitud,
			Descripcion:     m.Descripcion,
			EstatusActual:   string(m.CurrentStatus),
			HistorialJSON:   string(histJSON),
			DiasEnSistema:   m.DaysInSystem(now),
			FechaRegistro:   m.CreatedAt.Format("2006-01-02 15:04:05"),
		})

		counts[m.CurrentStatus]++

		for _, h := range m.StatusHistory {
			data.Historial = append(data.Historial, HistorialRow{
				ID:         m.ID,
				Marca:      m.Marca,
				Modelo:     m.Modelo,
				Estatus:    string(h.Status),
				Fecha:      h.Date.Format("2006-01-02 15:04:05"),
				Comentario: h.Comment,
			})
		}
	}

	// Una fila por estatus del enum, incluso con conteo cero.
	for _, st := range samples.AllStatuses {
		data.Resumen = append(data.Resumen, ResumenRow{
			Estatus:  string(st),
			Cantidad: counts[st],
		})
	}

	return data, nil
}
