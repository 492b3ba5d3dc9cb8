package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

const (
	destinatariosKey = "config:destinatarios_reporte"
	maxDestinatarios = 5
)

var ErrDemasiadosDestinatarios = errors.New("se permiten hasta 5 destinatarios")

var emailValidate = validator.New()

// DestinatariosService stores the daily-report recipient list: a small keyed
// config value, capped at 5 well-formed addresses.
type DestinatariosService interface {
	Listar(ctx context.Context) ([]string, error)
	Guardar(ctx context.Context, emails []string) error
}

type destinatariosService struct {
	rdb *redis.Client
}

func NewDestinatariosService(rdb *redis.Client) DestinatariosService {
	return &destinatariosService{rdb: rdb}
}

func (s *destinatariosService) Listar(ctx context.Context) ([]string, error) {
	raw, err := s.rdb.Get(ctx, destinatariosKey).Result()
	if errors.Is(err, redis.Nil) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var emails []string
	if err := json.Unmarshal([]byte(raw), &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

func (s *destinatariosService) Guardar(ctx context.Context, emails []string) error {
	if len(emails) > maxDestinatarios {
		return ErrDemasiadosDestinatarios
	}
	for _, e := range emails {
		if err := emailValidate.Var(e, "required,email"); err != nil {
			return fmt.Errorf("email inválido: %s", e)
		}
	}
	data, err := json.Marshal(emails)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, destinatariosKey, data, 0).Err()
}
