package labels

import (
	"bytes"
	"errors"
	"testing"

	"gestion-muestras/internal/domain/samples"
)

func testSample() samples.Sample {
	return samples.Sample{
		ID:             "M-0042",
		Marca:          "Acme",
		Modelo:         "X1",
		FechaRecepcion: "2024-01-15",
		Responsable:    "Juan",
	}
}

func TestPayload_RoundTrip(t *testing.T) {
	text, err := NewPayload(testSample()).Encode()
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	p, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if p.ID != "M-0042" {
		t.Fatalf("round trip id = %s", p.ID)
	}
	if p.Marca != "Acme" || p.Modelo != "X1" || p.FechaRecepcion != "2024-01-15" || p.Responsable != "Juan" {
		t.Fatalf("denormalized fields lost: %+v", p)
	}
}

func TestDecode_Unrecognized(t *testing.T) {
	cases := []string{
		"",
		"no es json",
		`{"marca":"Acme"}`,       // sin id
		`{"id":"   "}`,           // id en blanco
		`["M-0001"]`,             // shape equivocado
		"https://example.com/qr", // QR ajeno al sistema
	}
	for _, c := range cases {
		if _, err := Decode(c); !errors.Is(err, ErrUnrecognized) {
			t.Fatalf("Decode(%q): expected ErrUnrecognized, got %v", c, err)
		}
	}
}

func TestQR_ProducesPNG(t *testing.T) {
	png, err := QR(testSample())
	if err != nil {
		t.Fatalf("QR error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("expected PNG magic, got %x", png[:4])
	}
}
