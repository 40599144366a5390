package samples

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound = errors.New("sample not found")
)

// Repository es el puerto de persistencia de muestras.
//
// Contrato: la colección se mantiene en orden de inserción y cada
// mutación reescribe la colección completa en el backend (documentado
// a propósito: a esta escala —cientos de muestras— un scan lineal y
// un rewrite total son suficientes y mantienen el adapter trivial).
type Repository interface {
	ListAll(ctx context.Context) ([]Sample, error)
	GetByID(ctx context.Context, id string) (Sample, error)
	Add(ctx context.Context, s Sample) error

	// Update reemplaza el registro con ese id.
	// Devuelve ErrNotFound si no existe (no hay update silencioso).
	Update(ctx context.Context, id string, s Sample) error

	// Delete es no-op si el id no existe.
	Delete(ctx context.Context, id string) error

	// NextID genera el siguiente id M-NNNN recalculando el máximo
	// sufijo en cada llamada (sin contador cacheado). Bajo el supuesto
	// single-user/single-proceso del sistema, no hay reserva ni lock.
	NextID(ctx context.Context) (string, error)
}

// NextIDFrom calcula el siguiente id M-NNNN a partir de la colección
// existente. Ids que no siguen el patrón se ignoran. Los adapters lo
// comparten para que los tres backends generen ids idénticos.
func NextIDFrom(existing []Sample) string {
	max := 0
	for _, s := range existing {
		rest, ok := strings.CutPrefix(s.ID, "M-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("M-%04d", max+1)
}
