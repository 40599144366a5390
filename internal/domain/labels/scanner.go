package labels

import (
	"context"
	"time"
)

// FrameDecoder es el colaborador externo de captura: entrega el texto
// decodificado del cuadro actual de cámara, o "" si en ese cuadro no
// hay ningún símbolo legible. Close libera el recurso de cámara.
type FrameDecoder interface {
	DecodeFrame() (string, error)
	Close() error
}

// Scanner ejecuta el ciclo cooperativo de escaneo en vivo: muestrea el
// cuadro actual, intenta decodificar, y se reagenda hasta encontrar un
// payload válido o hasta que el contexto se cancele.
type Scanner struct {
	frames   FrameDecoder
	interval time.Duration
}

func NewScanner(frames FrameDecoder, interval time.Duration) *Scanner {
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	return &Scanner{frames: frames, interval: interval}
}

// Scan bloquea hasta decodificar un payload reconocible o hasta la
// cancelación del contexto. Siempre libera la fuente de cuadros antes
// de regresar. Cuadros sin símbolo o con payload irreconocible no son
// errores: el ciclo sigue.
func (s *Scanner) Scan(ctx context.Context) (Payload, error) {
	defer s.frames.Close()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Payload{}, ctx.Err()
		case <-ticker.C:
			text, err := s.frames.DecodeFrame()
			if err != nil {
				return Payload{}, err
			}
			if text == "" {
				continue
			}
			p, err := Decode(text)
			if err != nil {
				continue
			}
			return p, nil
		}
	}
}
