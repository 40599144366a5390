package labels

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gestion-muestras/internal/domain/samples"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, samplesSvc *samples.Service) {
	r.Get("/samples/{sampleID}/label", labelHandler(samplesSvc))
	r.Post("/scan", scanHandler(samplesSvc))
}

type scanRequest struct {
	Data string `json:"data"` // texto decodificado del símbolo
}

// labelHandler godoc
// @Summary Símbolo QR de la etiqueta de una muestra
// @Description Devuelve el QR en PNG con el payload identificador de la muestra (id, marca, modelo, fecha, responsable). El layout completo de la etiqueta impresa es asunto de la UI.
// @Tags labels
// @Produce image/png
// @Param sampleID path string true "ID de la muestra"
// @Success 200 {file} binary
// @Failure 404 {string} string "sample not found"
// @Router /samples/{sampleID}/label [get]
func labelHandler(samplesSvc *samples.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := samplesSvc.Get(r.Context(), chi.URLParam(r, "sampleID"))
		if err != nil {
			http.Error(w, "sample not found", http.StatusNotFound)
			return
		}

		png, err := QR(m)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, "QR-"+m.ID+".png"))
		_, _ = w.Write(png)
	}
}

// scanHandler godoc
// @Summary Resolver un símbolo escaneado
// @Description Recibe el texto ya decodificado de un QR, extrae el id y lo resuelve contra la colección. Decodificar bien no garantiza que la muestra exista.
// @Tags labels
// @Accept json
// @Produce json
// @Param payload body scanRequest true "Texto decodificado del símbolo"
// @Success 200 {object} samples.Sample
// @Failure 404 {string} string "sample not found"
// @Failure 422 {string} string "payload no reconocido"
// @Router /scan [post]
func scanHandler(samplesSvc *samples.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := Decode(req.Data)
		if err != nil {
			if errors.Is(err, ErrUnrecognized) {
				http.Error(w, "payload no reconocido", http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		m, err := samplesSvc.Get(r.Context(), p.ID)
		if err != nil {
			http.Error(w, "sample not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, m)
	}
}

// writeJSON duplicado a propósito por módulo (ver samples/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
