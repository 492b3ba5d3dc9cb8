package service

import (
	"context"

	"mesapos/internal/dto"
	"mesapos/internal/repository"
)

// MesaService is the table-readiness gate: it detects mesas with an emitted
// document and no confirmed payment, the hard precondition for any close.
type MesaService interface {
	PendientesDeCobro(ctx context.Context) ([]dto.MesaPendienteResponse, error)
}

type mesaService struct {
	repo repository.MesaRepository
}

func NewMesaService(repo repository.MesaRepository) MesaService {
	return &mesaService{repo: repo}
}

func (s *mesaService) PendientesDeCobro(ctx context.Context) ([]dto.MesaPendienteResponse, error) {
	mesas, err := s.repo.PendientesDeCobro(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MesaPendienteResponse, len(mesas))
	for i, m := range mesas {
		resp[i] = dto.MesaPendienteResponse{
			ID:     m.ID.String(),
			Numero: m.Numero,
			Sector: m.Sector.Nombre,
			Estado: m.Estado,
		}
	}
	return resp, nil
}
