// Package event はスポーツイベントのドメインロジックを提供する。
package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/repository"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/security"
)

// CreateInput はイベント作成の入力を表す。
type CreateInput struct {
	Name        string
	SportID     string
	StartsAt    time.Time
	Description string
	VenueID     string
}

// UpdateInput はイベント部分更新の入力を表す。nilフィールドは変更しない。
type UpdateInput struct {
	Name        *string
	SportID     *string
	StartsAt    *time.Time
	Description *string
	VenueID     *string
}

// Service はイベントのビジネスロジックを提供する。
type Service struct {
	eventRepo repository.EventRepository
	sportRepo repository.SportRepository
	venueRepo repository.VenueRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	eventRepo repository.EventRepository,
	sportRepo repository.SportRepository,
	venueRepo repository.VenueRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		eventRepo: eventRepo,
		sportRepo: sportRepo,
		venueRepo: venueRepo,
		sanitizer: sanitizer,
	}
}

// ListVisible はactorに可視なイベント一覧を返す。
// actorIDがnilの場合は公開イベントのみ。
func (s *Service) ListVisible(ctx context.Context, actorID *string) ([]model.EventDetail, error) {
	events, err := s.eventRepo.ListVisible(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧の取得に失敗しました: %w", err)
	}
	return events, nil
}

// Get は指定IDのイベントを取得する。
// actorに不可視なイベントは存在しないものとして扱う。
func (s *Service) Get(ctx context.Context, actorID *string, id string) (*model.EventDetail, error) {
	detail, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if detail == nil || !visibleTo(&detail.Event, actorID) {
		return nil, model.NewEventNotFoundError(id)
	}
	return detail, nil
}

// Create はイベントを検証して作成する。
// 作成者が所有者となる。説明文はサニタイズされて保存される。
func (s *Service) Create(ctx context.Context, actorID string, input CreateInput) (*model.EventDetail, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateSportID(input.SportID); err != nil {
		return nil, err
	}
	if err := validateStartsAt(input.StartsAt); err != nil {
		return nil, err
	}
	if err := validateVenueID(input.VenueID); err != nil {
		return nil, err
	}

	description := input.Description
	if s.sanitizer != nil {
		description = s.sanitizer.Sanitize(description)
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	// 参照整合性の事前確認
	sport, err := s.sportRepo.FindByID(ctx, input.SportID)
	if err != nil {
		return nil, fmt.Errorf("競技の確認に失敗しました: %w", err)
	}
	if sport == nil {
		return nil, model.NewSportNotFoundError(input.SportID)
	}

	venue, err := s.venueRepo.FindByID(ctx, input.VenueID)
	if err != nil {
		return nil, fmt.Errorf("会場の確認に失敗しました: %w", err)
	}
	if venue == nil {
		return nil, model.NewVenueNotFoundError(input.VenueID)
	}

	owner := actorID
	now := time.Now()
	created, err := s.eventRepo.Create(ctx, &model.Event{
		ID:          uuid.New().String(),
		Name:        input.Name,
		SportID:     input.SportID,
		StartsAt:    input.StartsAt,
		Description: description,
		VenueID:     input.VenueID,
		OwnerID:     &owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("イベントの作成に失敗しました: %w", err)
	}

	slog.Info("event created",
		slog.String("event_id", created.ID),
		slog.String("owner_id", actorID),
		slog.String("sport_id", created.SportID),
	)
	return created, nil
}

// Update はイベントの部分更新を行う。
// 指定されたフィールドのみ検証して適用し、updated_atを更新する。
func (s *Service) Update(ctx context.Context, actorID string, id string, input UpdateInput) (*model.EventDetail, error) {
	existing, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if existing == nil || !visibleTo(&existing.Event, &actorID) {
		return nil, model.NewEventNotFoundError(id)
	}

	patch := model.EventPatch{}

	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
		patch.Name = input.Name
	}
	if input.SportID != nil {
		if err := validateSportID(*input.SportID); err != nil {
			return nil, err
		}
		sport, err := s.sportRepo.FindByID(ctx, *input.SportID)
		if err != nil {
			return nil, fmt.Errorf("競技の確認に失敗しました: %w", err)
		}
		if sport == nil {
			return nil, model.NewSportNotFoundError(*input.SportID)
		}
		patch.SportID = input.SportID
	}
	if input.StartsAt != nil {
		if err := validateStartsAt(*input.StartsAt); err != nil {
			return nil, err
		}
		patch.StartsAt = input.StartsAt
	}
	if input.Description != nil {
		description := *input.Description
		if s.sanitizer != nil {
			description = s.sanitizer.Sanitize(description)
		}
		if err := validateDescription(description); err != nil {
			return nil, err
		}
		patch.Description = &description
	}
	if input.VenueID != nil {
		if err := validateVenueID(*input.VenueID); err != nil {
			return nil, err
		}
		venue, err := s.venueRepo.FindByID(ctx, *input.VenueID)
		if err != nil {
			return nil, fmt.Errorf("会場の確認に失敗しました: %w", err)
		}
		if venue == nil {
			return nil, model.NewVenueNotFoundError(*input.VenueID)
		}
		patch.VenueID = input.VenueID
	}

	updated, err := s.eventRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("イベントの更新に失敗しました: %w", err)
	}
	if updated == nil {
		// 取得後に削除された場合
		return nil, model.NewEventNotFoundError(id)
	}

	slog.Info("event updated",
		slog.String("event_id", id),
		slog.String("actor_id", actorID),
	)
	return updated, nil
}

// Delete は指定IDのイベントを削除する。
// 既に削除済みの場合もEventNotFoundを返す（二重削除は無害）。
func (s *Service) Delete(ctx context.Context, actorID string, id string) error {
	existing, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if existing == nil || !visibleTo(&existing.Event, &actorID) {
		return model.NewEventNotFoundError(id)
	}

	deleted, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("イベントの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewEventNotFoundError(id)
	}

	slog.Info("event deleted",
		slog.String("event_id", id),
		slog.String("actor_id", actorID),
	)
	return nil
}

// visibleTo はイベントがactorに可視かを返す。
// 公開イベント（owner IS NULL）は全員に可視。
func visibleTo(e *model.Event, actorID *string) bool {
	if e.OwnerID == nil {
		return true
	}
	return actorID != nil && *e.OwnerID == *actorID
}
