package samples

// Status define los estatus del ciclo de vida de una muestra.
// @Enum En Almacén, En Laboratorio, Regresada, Entregada
type Status string

const (
	StatusAlmacen     Status = "En Almacén"
	StatusLaboratorio Status = "En Laboratorio"
	StatusRegresada   Status = "Regresada"
	StatusEntregada   Status = "Entregada"
)

// AllStatuses en orden de presentación (almacén → entrega).
// El ciclo NO restringe transiciones: cualquier estatus puede
// pasar a cualquier otro; el orden es solo informativo.
var AllStatuses = []Status{
	StatusAlmacen,
	StatusLaboratorio,
	StatusRegresada,
	StatusEntregada,
}

// defaultComments se usa cuando el usuario no escribe comentario
// al cambiar de estatus.
var defaultComments = map[Status]string{
	StatusAlmacen:     "Muestra almacenada",
	StatusLaboratorio: "Muestra enviada a laboratorio para análisis",
	StatusRegresada:   "Muestra regresada del laboratorio",
	StatusEntregada:   "Muestra entregada al cliente",
}

// Comentario inicial del primer registro y de filas importadas sin historial.
const (
	CommentRegistered = "Muestra registrada e ingresada al almacén"
	CommentImported   = "Muestra importada desde Excel"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAlmacen, StatusLaboratorio, StatusRegresada, StatusEntregada:
		return true
	}
	return false
}

// DefaultComment devuelve el comentario por defecto del estatus.
func DefaultComment(s Status) string {
	return defaultComments[s]
}
