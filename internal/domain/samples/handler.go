package samples

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/samples", func(sr chi.Router) {
		sr.Post("/", registerSampleHandler(svc))
		sr.Get("/", listSamplesHandler(svc))

		sr.Get("/{sampleID}", getSampleHandler(svc))
		sr.Put("/{sampleID}", updateSampleHandler(svc))
		sr.Delete("/{sampleID}", deleteSampleHandler(svc))

		sr.Post("/{sampleID}/status", changeStatusHandler(svc))
		sr.Get("/{sampleID}/history", historyHandler(svc))
	})
}

// sampleRequest es el cuerpo para registrar o actualizar una muestra.
type sampleRequest struct {
	Marca           string `json:"marca"`
	Modelo          string `json:"modelo"`
	FechaRecepcion  string `json:"fechaRecepcion"` // YYYY-MM-DD
	Responsable     string `json:"responsable"`
	RazonSocial     string `json:"razonSocial"`
	NumeroSolicitud string `json:"numeroSolicitud"`
	Descripcion     string `json:"descripcion"`
}

type changeStatusRequest struct {
	Status  Status `json:"status" enums:"En Almacén,En Laboratorio,Regresada,Entregada"`
	Comment string `json:"comment"` // opcional; vacío = comentario por defecto
}

type deleteSampleRequest struct {
	Secret string `json:"secret"`
}

// statusChangeResponse es una entrada del historial devuelta por la API.
type statusChangeResponse struct {
	Status  Status    `json:"status"`
	Date    time.Time `json:"date"`
	Comment string    `json:"comment"`
}

// sampleResponse representa una muestra devuelta por la API.
type sampleResponse struct {
	ID              string                 `json:"id"`
	Marca           string                 `json:"marca"`
	Modelo          string                 `json:"modelo"`
	FechaRecepcion  string                 `json:"fechaRecepcion"`
	Responsable     string                 `json:"responsable"`
	RazonSocial     string                 `json:"razonSocial,omitempty"`
	NumeroSolicitud string                 `json:"numeroSolicitud,omitempty"`
	Descripcion     string                 `json:"descripcion,omitempty"`
	CurrentStatus   Status                 `json:"currentStatus"`
	StatusHistory   []statusChangeResponse `json:"statusHistory"`
	CreatedAt       time.Time              `json:"createdAt"`
}

func (r sampleRequest) toInput() RegisterInput {
	return RegisterInput{
		Marca:           r.Marca,
		Modelo:          r.Modelo,
		FechaRecepcion:  r.FechaRecepcion,
		Responsable:     r.Responsable,
		RazonSocial:     r.RazonSocial,
		NumeroSolicitud: r.NumeroSolicitud,
		Descripcion:     r.Descripcion,
	}
}

// registerSampleHandler godoc
// @Summary Registrar muestra
// @Description Registra una muestra nueva. Asigna id M-NNNN, estatus inicial En Almacén y una única entrada de historial.
// @Tags samples
// @Accept json
// @Produce json
// @Param payload body sampleRequest true "Datos de la muestra; fechaRecepcion en formato YYYY-MM-DD"
// @Success 201 {object} sampleResponse
// @Failure 400 {string} string "invalid json / campos obligatorios"
// @Router /samples [post]
func registerSampleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sampleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Register(r.Context(), req.toInput())
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "marca, modelo, responsable y fechaRecepcion (YYYY-MM-DD) son obligatorios", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toSampleResponse(m))
	}
}

// listSamplesHandler godoc
// @Summary Listar muestras
// @Tags samples
// @Produce json
// @Success 200 {array} sampleResponse
// @Router /samples [get]
func listSamplesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]sampleResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toSampleResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getSampleHandler godoc
// @Summary Obtener muestra por ID
// @Tags samples
// @Produce json
// @Param sampleID path string true "ID de la muestra (M-NNNN)"
// @Success 200 {object} sampleResponse
// @Failure 404 {string} string "sample not found"
// @Router /samples/{sampleID} [get]
func getSampleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Get(r.Context(), chi.URLParam(r, "sampleID"))
		if err != nil {
			http.Error(w, "sample not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toSampleResponse(m))
	}
}

// updateSampleHandler godoc
// @Summary Actualizar campos de una muestra
// @Description Sobreescribe los campos escalares. No modifica historial ni estatus.
// @Tags samples
// @Accept json
// @Produce json
// @Param sampleID path string true "ID de la muestra"
// @Param payload body sampleRequest true "Campos nuevos"
// @Success 200 {object} sampleResponse
// @Failure 400 {string} string "invalid json / campos obligatorios"
// @Failure 404 {string} string "sample not found"
// @Router /samples/{sampleID} [put]
func updateSampleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sampleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.UpdateFields(r.Context(), chi.URLParam(r, "sampleID"), req.toInput())
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "campos obligatorios faltantes", http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "sample not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toSampleResponse(m))
	}
}

// deleteSampleHandler godoc
// @Summary Eliminar muestra
// @Description Borra la muestra. Requiere el secreto compartido de confirmación.
// @Tags samples
// @Accept json
// @Param sampleID path string true "ID de la muestra"
// @Param payload body deleteSampleRequest true "Secreto de confirmación"
// @Success 204 {string} string "sin contenido"
// @Failure 403 {string} string "contraseña incorrecta"
// @Failure 404 {string} string "sample not found"
// @Router /samples/{sampleID} [delete]
func deleteSampleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteSampleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "sampleID"), req.Secret)
		if err != nil {
			switch {
			case errors.Is(err, ErrWrongSecret):
				http.Error(w, "contraseña incorrecta", http.StatusForbidden)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "sample not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// changeStatusHandler godoc
// @Summary Cambiar estatus de una muestra
// @Description Agrega una entrada al historial y actualiza el estatus actual. Sin comentario se usa el comentario por defecto del estatus.
// @Tags samples
// @Accept json
// @Produce json
// @Param sampleID path string true "ID de la muestra"
// @Param payload body changeStatusRequest true "Nuevo estatus y comentario opcional"
// @Success 200 {object} sampleResponse
// @Failure 400 {string} string "estatus inválido"
// @Failure 404 {string} string "sample not found"
// @Router /samples/{sampleID}/status [post]
func changeStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req changeStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.ChangeStatus(r.Context(), chi.URLParam(r, "sampleID"), req.Status, req.Comment)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidStatus):
				http.Error(w, "estatus inválido", http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "sample not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toSampleResponse(m))
	}
}

// historyHandler godoc
// @Summary Historial de estatus de una muestra
// @Tags samples
// @Produce json
// @Param sampleID path string true "ID de la muestra"
// @Success 200 {array} statusChangeResponse
// @Failure 404 {string} string "sample not found"
// @Router /samples/{sampleID}/history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Get(r.Context(), chi.URLParam(r, "sampleID"))
		if err != nil {
			http.Error(w, "sample not found", http.StatusNotFound)
			return
		}

		out := make([]statusChangeResponse, 0, len(m.StatusHistory))
		for _, h := range m.StatusHistory {
			out = append(out, statusChangeResponse(h))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toSampleResponse(m Sample) sampleResponse {
	hist := make([]statusChangeResponse, 0, len(m.StatusHistory))
	for _, h := range m.StatusHistory {
		hist = append(hist, statusChangeResponse(h))
	}
	return sampleResponse{
		ID:              m.ID,
		Marca:           m.Marca,
		Modelo:          m.Modelo,
		FechaRecepcion:  m.FechaRecepcion,
		Responsable:     m.Responsable,
		RazonSocial:     m.RazonSocial,
		NumeroSolicitud: m.NumeroSolicitud,
		Descripcion:     m.Descripcion,
		CurrentStatus:   m.CurrentStatus,
		StatusHistory:   hist,
		CreatedAt:       m.CreatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (samples/importer/labels) para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
