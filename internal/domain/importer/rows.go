package importer

import (
	"strconv"
	"strings"
	"time"
)

// Row es una fila tabular cruda: nombre de columna → valor de celda.
// Las celdas llegan como texto; una fecha puede venir como número de
// serie de hoja de cálculo ("45000") o como cadena.
type Row map[string]string

// columnAliases mapea cada campo canónico a los encabezados aceptados.
// Se resuelve una sola vez por fila, antes de validar.
var columnAliases = map[string][]string{
	"id":              {"ID", "Id", "id"},
	"marca":           {"Marca", "marca"},
	"modelo":          {"Modelo", "modelo"},
	"fechaRecepcion":  {"Fecha Recepción", "Fecha Recepcion", "FechaRecepcion", "fechaRecepcion"},
	"responsable":     {"Responsable", "responsable"},
	"razonSocial":     {"Razón Social", "Razon Social", "RazonSocial", "razonSocial"},
	"numeroSolicitud": {"N° Solicitud", "No Solicitud", "NumeroSolicitud", "numeroSolicitud"},
	"descripcion":     {"Descripción", "Descripcion", "descripcion"},
	"currentStatus":   {"Estatus Actual", "EstatusActual", "currentStatus"},
	"statusHistory":   {"Historial de Estatus", "HistorialDeEstatus", "statusHistory"},
}

// resolve devuelve el valor del campo canónico probando sus alias en orden.
func (r Row) resolve(field string) string {
	for _, alias := range columnAliases[field] {
		if v, ok := r[alias]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// excelEpochOffset: días entre 1899-12-30 (época de hoja de cálculo)
// y 1970-01-01 (época Unix).
const excelEpochOffset = 25569

// ParseFecha normaliza un valor de fecha de celda a YYYY-MM-DD.
// Acepta número de serie de hoja de cálculo, DD/MM/YYYY, o cualquier
// cadena con fecha calendario reconocible. Devuelve "" si no se pudo.
func ParseFecha(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	// Número de serie (las celdas numéricas llegan como texto).
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		secs := int64((serial - excelEpochOffset) * 86400)
		return time.Unix(secs, 0).UTC().Format("2006-01-02")
	}

	// DD/MM/YYYY
	if parts := strings.Split(value, "/"); len(parts) == 3 {
		composed := parts[2] + "-" + pad2(parts[1]) + "-" + pad2(parts[0])
		if _, err := time.Parse("2006-01-02", composed); err == nil {
			return composed
		}
		return ""
	}

	for _, layout := range []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return ""
}

func pad2(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
