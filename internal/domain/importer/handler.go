package importer

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gestion-muestras/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes limita el tamaño del libro subido.
const maxUploadBytes = 10 << 20

func RegisterRoutes(r chi.Router, svc *Service, codec SheetCodec, log logger.Logger) {
	r.Route("/excel", func(er chi.Router) {
		er.Post("/import", importHandler(svc, codec, log))
		er.Get("/export", exportHandler(svc, codec, log))
	})
}

// importHandler godoc
// @Summary Importar muestras desde Excel
// @Description Lee la primera hoja del libro subido y concilia cada fila contra la colección: con ID existente actualiza, sin ID (o ID desconocido) crea. Errores por fila no abortan el lote.
// @Tags excel
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Libro .xlsx; encabezado en la fila 1"
// @Success 200 {object} Result
// @Failure 400 {string} string "archivo faltante o ilegible"
// @Router /excel/import [post]
func importHandler(svc *Service, codec SheetCodec, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "campo 'file' es obligatorio", http.StatusBadRequest)
			return
		}
		defer file.Close()

		rows, err := codec.ReadRows(file)
		if err != nil {
			// Fallo de lectura del archivo completo: resultado de fallo
			// total, mismo shape que los errores por fila.
			writeJSON(w, http.StatusOK, Result{
				Errors: []string{"Error al procesar el archivo Excel"},
			})
			return
		}

		result := svc.Reconcile(r.Context(), rows)

		log.Info("excel import", map[string]any{
			"batch_id": result.BatchID,
			"created":  result.Success,
			"updated":  result.Updated,
			"errors":   len(result.Errors),
		})

		writeJSON(w, http.StatusOK, result)
	}
}

// exportHandler godoc
// @Summary Exportar muestras a Excel
// @Description Genera un libro con tres hojas: Muestras, Resumen e Historial. El nombre de archivo lleva la fecha de exportación.
// @Tags excel
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /excel/export [get]
func exportHandler(svc *Service, codec SheetCodec, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := svc.BuildExport(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("Muestras_%s.xlsx", svc.now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

		if err := codec.Write(w, data); err != nil {
			// Los headers ya salieron; solo queda registrar el fallo.
			log.Error("excel export write", map[string]any{"error": err.Error()})
		}
	}
}

// writeJSON duplicado a propósito por módulo (ver samples/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
