package samples

import "time"

// StatusChange es una entrada inmutable del historial de una muestra.
type StatusChange struct {
	Status  Status    `json:"status"`
	Date    time.Time `json:"date"`
	Comment string    `json:"comment"`
}

// Sample representa una muestra física registrada en el sistema.
//
// FechaRecepcion es fecha calendario sin hora, normalizada YYYY-MM-DD.
// StatusHistory es append-only: nunca se reordena ni se borra una entrada;
// CurrentStatus siempre coincide con la última entrada del historial.
type Sample struct {
	ID string `json:"id"` // formato M-NNNN, inmutable

	Marca          string `json:"marca"`
	Modelo         string `json:"modelo"`
	FechaRecepcion string `json:"fechaRecepcion"`
	Responsable    string `json:"responsable"`

	RazonSocial     string `json:"razonSocial,omitempty"`
	NumeroSolicitud string `json:"numeroSolicitud,omitempty"`
	Descripcion     string `json:"descripcion,omitempty"`

	CurrentStatus Status         `json:"currentStatus"`
	StatusHistory []StatusChange `json:"statusHistory"`

	CreatedAt time.Time `json:"createdAt"`
}

// DaysInSystem calcula días completos desde el registro hasta now.
func (s Sample) DaysInSystem(now time.Time) int {
	d := now.Sub(s.CreatedAt)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}
