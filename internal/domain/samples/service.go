package samples

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid status")
	ErrWrongSecret   = errors.New("wrong delete secret")
)

type Service struct {
	repo         Repository
	deleteSecret string
	now          func() time.Time
}

func NewService(repo Repository, deleteSecret string) *Service {
	return &Service{
		repo:         repo,
		deleteSecret: deleteSecret,
		now:          time.Now,
	}
}

type RegisterInput struct {
	Marca          string
	Modelo         string
	FechaRecepcion string // YYYY-MM-DD
	Responsable    string

	RazonSocial     string
	NumeroSolicitud string
	Descripcion     string
}

// Register crea la muestra con id nuevo y exactamente una entrada de
// historial: En Almacén con el comentario de registro.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Sample, error) {
	if strings.TrimSpace(in.Marca) == "" ||
		strings.TrimSpace(in.Modelo) == "" ||
		strings.TrimSpace(in.Responsable) == "" {
		return Sample{}, ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", in.FechaRecepcion); err != nil {
		return Sample{}, ErrInvalidInput
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return Sample{}, err
	}

	now := s.now()
	m := Sample{
		ID:              id,
		Marca:           strings.TrimSpace(in.Marca),
		Modelo:          strings.TrimSpace(in.Modelo),
		FechaRecepcion:  in.FechaRecepcion,
		Responsable:     strings.TrimSpace(in.Responsable),
		RazonSocial:     strings.TrimSpace(in.RazonSocial),
		NumeroSolicitud: strings.TrimSpace(in.NumeroSolicitud),
		Descripcion:     strings.TrimSpace(in.Descripcion),
		CurrentStatus:   StatusAlmacen,
		StatusHistory: []StatusChange{{
			Status:  StatusAlmacen,
			Date:    now,
			Comment: CommentRegistered,
		}},
		CreatedAt: now,
	}

	if err := s.repo.Add(ctx, m); err != nil {
		return Sample{}, err
	}
	return m, nil
}

func (s *Service) List(ctx context.Context) ([]Sample, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Sample, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Sample{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateFields sobreescribe los campos escalares de la muestra.
// No toca id, historial, estatus ni createdAt.
func (s *Service) UpdateFields(ctx context.Context, id string, in RegisterInput) (Sample, error) {
	if strings.TrimSpace(in.Marca) == "" ||
		strings.TrimSpace(in.Modelo) == "" ||
		strings.TrimSpace(in.Responsable) == "" {
		return Sample{}, ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", in.FechaRecepcion); err != nil {
		return Sample{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Sample{}, err
	}

	current.Marca = strings.TrimSpace(in.Marca)
	current.Modelo = strings.TrimSpace(in.Modelo)
	current.FechaRecepcion = in.FechaRecepcion
	current.Responsable = strings.TrimSpace(in.Responsable)
	current.RazonSocial = strings.TrimSpace(in.RazonSocial)
	current.NumeroSolicitud = strings.TrimSpace(in.NumeroSolicitud)
	current.Descripcion = strings.TrimSpace(in.Descripcion)

	if err := s.repo.Update(ctx, id, current); err != nil {
		return Sample{}, err
	}
	return current, nil
}

// ChangeStatus aplica una transición de estatus: agrega una entrada al
// historial (nunca modifica las existentes) y actualiza CurrentStatus.
//
// Política explícita: cualquier estatus puede pasar a cualquier otro,
// incluido el mismo; transiciones repetidas quedan registradas.
func (s *Service) ChangeStatus(ctx context.Context, id string, newStatus Status, comment string) (Sample, error) {
	if !newStatus.Valid() {
		return Sample{}, ErrInvalidStatus
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Sample{}, err
	}

	comment = strings.TrimSpace(comment)
	if comment == "" {
		comment = DefaultComment(newStatus)
	}

	m.StatusHistory = append(m.StatusHistory, StatusChange{
		Status:  newStatus,
		Date:    s.now(),
		Comment: comment,
	})
	m.CurrentStatus = newStatus

	if err := s.repo.Update(ctx, id, m); err != nil {
		return Sample{}, err
	}
	return m, nil
}

// Delete borra la muestra solo si el secreto coincide.
// Secreto compartido literal, sin hashing ni rotación (alcance single-user).
func (s *Service) Delete(ctx context.Context, id, secret string) error {
	if secret != s.deleteSecret {
		return ErrWrongSecret
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
