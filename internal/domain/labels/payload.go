package labels

import (
	"encoding/json"
	"errors"
	"strings"

	"gestion-muestras/internal/domain/samples"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrUnrecognized: el texto escaneado no es un payload de etiqueta.
	ErrUnrecognized = errors.New("unrecognized label payload")
)

// Payload son los datos identificadores embebidos en el QR de una
// etiqueta impresa. Lleva campos desnormalizados para que la etiqueta
// sea útil escaneada fuera de línea, sin acceso a la colección.
type Payload struct {
	ID             string `json:"id"`
	Marca          string `json:"marca"`
	Modelo         string `json:"modelo"`
	FechaRecepcion string `json:"fechaRecepcion"`
	Responsable    string `json:"responsable"`
}

// NewPayload arma el payload de etiqueta de una muestra.
func NewPayload(m samples.Sample) Payload {
	return Payload{
		ID:             m.ID,
		Marca:          m.Marca,
		Modelo:         m.Modelo,
		FechaRecepcion: m.FechaRecepcion,
		Responsable:    m.Responsable,
	}
}

// Encode serializa el payload al texto que se embebe en el símbolo.
func (p Payload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode interpreta el texto decodificado de un símbolo escaneado.
// Texto ilegible o sin id devuelve ErrUnrecognized. Que decodifique
// bien NO garantiza que la muestra siga existiendo: el caller debe
// resolver el id contra el repositorio.
func Decode(text string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return Payload{}, ErrUnrecognized
	}
	if strings.TrimSpace(p.ID) == "" {
		return Payload{}, ErrUnrecognized
	}
	return p, nil
}

// qrSize: lado en píxeles del símbolo, dimensionado para el layout
// fijo de la etiqueta impresa.
const qrSize = 256

// QR genera el símbolo PNG de una muestra.
func QR(m samples.Sample) ([]byte, error) {
	text, err := NewPayload(m).Encode()
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(text, qrcode.Medium, qrSize)
}
