package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"gestion-muestras/internal/domain/samples"
)

// SamplesRepo persiste muestras en la tabla `muestras`.
// El historial va como JSONB: se lee y reescribe completo junto con el
// registro, mismo contrato read-modify-write que el backend de archivo.
//
// Esquema esperado:
//
//	CREATE TABLE muestras (
//	    id               TEXT PRIMARY KEY,
//	    marca            TEXT NOT NULL,
//	    modelo           TEXT NOT NULL,
//	    fecha_recepcion  TEXT NOT NULL,
//	    responsable      TEXT NOT NULL,
//	    razon_social     TEXT NOT NULL DEFAULT '',
//	    numero_solicitud TEXT NOT NULL DEFAULT '',
//	    descripcion      TEXT NOT NULL DEFAULT '',
//	    current_status   TEXT NOT NULL,
//	    status_history   JSONB NOT NULL,
//	    created_at       TIMESTAMPTZ NOT NULL
//	);
type SamplesRepo struct {
	db *sql.DB
}

func NewSamplesRepo(db *sql.DB) *SamplesRepo {
	return &SamplesRepo{db: db}
}

const sampleColumns = `
	id, marca, modelo, fecha_recepcion, responsable,
	razon_social, numero_solicitud, descripcion,
	current_status, status_history, created_at
`

func (r *SamplesRepo) ListAll(ctx context.Context) ([]samples.Sample, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sampleColumns+`
		FROM muestras
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]samples.Sample, 0)
	for rows.Next() {
		m, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SamplesRepo) GetByID(ctx context.Context, id string) (samples.Sample, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return samples.Sample{}, samples.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+sampleColumns+`
		FROM muestras
		WHERE id = $1
	`, id)

	m, err := scanSample(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return samples.Sample{}, samples.ErrNotFound
		}
		return samples.Sample{}, err
	}
	return m, nil
}

func (r *SamplesRepo) Add(ctx context.Context, m samples.Sample) error {
	hist, err := json.Marshal(m.StatusHistory)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO muestras (`+sampleColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		m.ID,
		m.Marca,
		m.Modelo,
		m.FechaRecepcion,
		m.Responsable,
		m.RazonSocial,
		m.NumeroSolicitud,
		m.Descripcion,
		string(m.CurrentStatus),
		hist,
		m.CreatedAt,
	)
	return err
}

func (r *SamplesRepo) Update(ctx context.Context, id string, m samples.Sample) error {
	hist, err := json.Marshal(m.StatusHistory)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE muestras
		SET
			marca = $2,
			modelo = $3,
			fecha_recepcion = $4,
			responsable = $5,
			razon_social = $6,
			numero_solicitud = $7,
			descripcion = $8,
			current_status = $9,
			status_history = $10
		WHERE id = $1
	`,
		id,
		m.Marca,
		m.Modelo,
		m.FechaRecepcion,
		m.Responsable,
		m.RazonSocial,
		m.NumeroSolicitud,
		m.Descripcion,
		string(m.CurrentStatus),
		hist,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return samples.ErrNotFound
	}
	return nil
}

func (r *SamplesRepo) Delete(ctx context.Context, id string) error {
	// no-op si el id no existe
	_, err := r.db.ExecContext(ctx, `DELETE FROM muestras WHERE id = $1`, id)
	return err
}

func (r *SamplesRepo) NextID(ctx context.Context) (string, error) {
	// Escala de cientos de registros: listar y escanear es suficiente
	// y mantiene la generación de ids idéntica en los tres backends.
	items, err := r.ListAll(ctx)
	if err != nil {
		return "", err
	}
	return samples.NextIDFrom(items), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (samples.Sample, error) {
	var m samples.Sample
	var status string
	var hist []byte

	if err := row.Scan(
		&m.ID,
		&m.Marca,
		&m.Modelo,
		&m.FechaRecepcion,
		&m.Responsable,
		&m.RazonSocial,
		&m.NumeroSolicitud,
		&m.Descripcion,
		&status,
		&hist,
		&m.CreatedAt,
	); err != nil {
		return samples.Sample{}, err
	}

	m.CurrentStatus = samples.Status(status)
	if err := json.Unmarshal(hist, &m.StatusHistory); err != nil {
		return samples.Sample{}, err
	}
	return m, nil
}
