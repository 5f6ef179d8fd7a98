// Package reference は競技種目・州の参照データ読み取りを提供する。
package reference

import (
	"context"
	"fmt"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/repository"
)

// Service は参照データのサービス層。
type Service struct {
	sportRepo repository.SportRepository
	stateRepo repository.StateRepository
}

// NewService はServiceを生成する。
func NewService(sportRepo repository.SportRepository, stateRepo repository.StateRepository) *Service {
	return &Service{
		sportRepo: sportRepo,
		stateRepo: stateRepo,
	}
}

// ListSports は全競技種目を名前順で返す。
func (s *Service) ListSports(ctx context.Context) ([]model.Sport, error) {
	sports, err := s.sportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("競技一覧の取得に失敗しました: %w", err)
	}
	return sports, nil
}

// ListStates は全州を名前順で返す。
func (s *Service) ListStates(ctx context.Context) ([]model.State, error) {
	states, err := s.stateRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("州一覧の取得に失敗しました: %w", err)
	}
	return states, nil
}
