// Package excel implementa el puerto SheetCodec del importador sobre
// excelize: lectura de filas de un .xlsx y escritura del libro de
// exportación de tres hojas.
package excel

import (
	"io"

	"gestion-muestras/internal/domain/importer"

	"github.com/xuri/excelize/v2"
)

type Codec struct{}

func New() *Codec {
	return &Codec{}
}

// ReadRows lee la primera hoja: la fila 1 es el encabezado, cada fila
// siguiente se convierte en un Row encabezado→celda. Filas totalmente
// vacías se omiten (no cuentan como error ni corren el numerado: el
// numerado de errores lo lleva el importador sobre las filas leídas).
func (c *Codec) ReadRows(r io.Reader) ([]importer.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []importer.Row{}, nil
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(raw) < 2 {
		return []importer.Row{}, nil
	}

	header := raw[0]
	rows := make([]importer.Row, 0, len(raw)-1)

	for _, cells := range raw[1:] {
		row := importer.Row{}
		empty := true
		for i, h := range header {
			if i >= len(cells) {
				break
			}
			if cells[i] != "" {
				empty = false
			}
			row[h] = cells[i]
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

var (
	muestrasHeader = []any{
		"ID", "Marca", "Modelo", "Fecha Recepción", "Responsable",
		"Razón Social", "N° Solicitud", "Descripción",
		"Estatus Actual", "Historial de Estatus", "Días en Sistema", "Fecha Registro",
	}
	resumenHeader   = []any{"Estatus", "Cantidad"}
	historialHeader = []any{"ID", "Marca", "Modelo", "Estatus", "Fecha", "Comentario"}
)

// Write arma el libro Muestras/Resumen/Historial y lo escribe en w.
func (c *Codec) Write(w io.Writer, data importer.ExportData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Muestras"); err != nil {
		return err
	}
	for _, name := range []string{"Resumen", "Historial"} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	if err := writeSheet(f, "Muestras", muestrasHeader, len(data.Muestras), func(i int) []any {
		m := data.Muestras[i]
		return []any{
			m.ID, m.Marca, m.Modelo, m.FechaRecepcion, m.Responsable,
			m.RazonSocial, m.NumeroSolicitud, m.Descripcion,
			m.EstatusActual, m.HistorialJSON, m.DiasEnSistema, m.FechaRegistro,
		}
	}); err != nil {
		return err
	}

	if err := writeSheet(f, "Resumen", resumenHeader, len(data.Resumen), func(i int) []any {
		r := data.Resumen[i]
		return []any{r.Estatus, r.Cantidad}
	}); err != nil {
		return err
	}

	if err := writeSheet(f, "Historial", historialHeader, len(data.Historial), func(i int) []any {
		h := data.Historial[i]
		return []any{h.ID, h.Marca, h.Modelo, h.Estatus, h.Fecha, h.Comentario}
	}); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, header []any, n int, rowAt func(int) []any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := rowAt(i)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
