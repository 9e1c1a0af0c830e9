package usecase

import (
	"context"

	"go-candidate-scout/internal/domain"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	store domain.KeyValueStore
}

func NewHealthUsecase(store domain.KeyValueStore) HealthUsecase {
	return &healthUsecase{store: store}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
		"store":  "ok",
	}
	if err := u.store.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["store"] = err.Error()
	}
	return status
}
