package service

import (
	"context"

	"github.com/impuestosrd/impuestosrd-api/internal/errors"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/metrics"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
	"github.com/impuestosrd/impuestosrd-api/internal/repository"
)

// CitaService books consultation appointments.
type CitaService struct {
	repo    repository.CitaRepository
	metrics *metrics.Metrics
	logger  *logging.Logger
}

func NewCitaService(repo repository.CitaRepository, m *metrics.Metrics) *CitaService {
	return &CitaService{
		repo:    repo,
		metrics: m,
		logger:  logging.NewLogger("cita-service"),
	}
}

// CreateCita books a slot. ErrConflict is returned when the slot is held
// by another active appointment.
func (s *CitaService) CreateCita(ctx context.Context, req *models.CreateCitaRequest) (*models.Cita, error) {
	if err := ValidateCreateCitaRequest(req); err != nil {
		return nil, err
	}

	taken, err := s.repo.IsSlotTaken(ctx, req.Fecha, req.Hora)
	if err != nil {
		return nil, err
	}
	if taken {
		s.slotConflict(req)
		return nil, errors.ErrConflict
	}

	// The unique slot index still catches a booking racing this one.
	cita, err := s.repo.Create(ctx, req)
	if errors.Is(err, errors.ErrConflict) {
		s.slotConflict(req)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.metrics.CitaBooked()
	s.logger.Info("Cita booked", logging.Fields{
		"cita_id": cita.ID,
		"fecha":   cita.Fecha,
		"hora":    cita.Hora,
	})

	return cita, nil
}

func (s *CitaService) slotConflict(req *models.CreateCitaRequest) {
	s.metrics.CitaConflict()
	s.logger.Info("Cita slot already taken", logging.Fields{
		"fecha": req.Fecha,
		"hora":  req.Hora,
	})
}

// HorasOcupadas lists the booked times of a date.
func (s *CitaService) HorasOcupadas(ctx context.Context, fecha string) ([]string, error) {
	if err := ValidateFecha(fecha); err != nil {
		return nil, err
	}
	return s.repo.ListHorasOcupadas(ctx, fecha)
}
