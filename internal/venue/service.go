// Package venue はイベント開催会場のドメインロジックを提供する。
package venue

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/repository"
)

const (
	maxNameLength = 200
	maxCityLength = 100
)

var (
	// zipPattern は米国郵便番号（ZIP/ZIP+4）の形式。
	zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	// phonePattern は電話番号として許容する文字集合。
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+\.]+$`)
)

// CreateInput は会場作成の入力を表す。
type CreateInput struct {
	Name      string
	City      string
	StateAbbr string
	ZipCode   string
	Address1  string
	Phone     string
}

// Service は会場のビジネスロジックを提供する。
type Service struct {
	venueRepo repository.VenueRepository
	stateRepo repository.StateRepository
}

// NewService はServiceを生成する。
func NewService(venueRepo repository.VenueRepository, stateRepo repository.StateRepository) *Service {
	return &Service{
		venueRepo: venueRepo,
		stateRepo: stateRepo,
	}
}

// List は全会場を州とJOINして名前順で返す。
func (s *Service) List(ctx context.Context) ([]model.VenueDetail, error) {
	venues, err := s.venueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("会場一覧の取得に失敗しました: %w", err)
	}
	return venues, nil
}

// Get は指定IDの会場を取得する。
func (s *Service) Get(ctx context.Context, id string) (*model.VenueDetail, error) {
	venue, err := s.venueRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("会場の取得に失敗しました: %w", err)
	}
	if venue == nil {
		return nil, model.NewVenueNotFoundError(id)
	}
	return venue, nil
}

// Create は会場を検証して作成する。
// 州略称は大文字に正規化され、statesテーブルに存在しなければならない。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.VenueDetail, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.NewValidationError("name", "会場名を入力してください")
	}
	if len([]rune(name)) > maxNameLength {
		return nil, model.NewValidationError("name", fmt.Sprintf("会場名は%d文字以内で入力してください", maxNameLength))
	}

	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, model.NewValidationError("city", "市区町村を入力してください")
	}
	if len([]rune(city)) > maxCityLength {
		return nil, model.NewValidationError("city", fmt.Sprintf("市区町村は%d文字以内で入力してください", maxCityLength))
	}

	abbr := strings.ToUpper(strings.TrimSpace(input.StateAbbr))
	if len(abbr) != 2 {
		return nil, model.NewValidationError("state", "州略称は2文字で入力してください")
	}

	zip := strings.TrimSpace(input.ZipCode)
	if zip != "" && !zipPattern.MatchString(zip) {
		return nil, model.NewValidationError("zipCode", "郵便番号の形式が正しくありません")
	}

	phone := strings.TrimSpace(input.Phone)
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, model.NewValidationError("phone", "電話番号の形式が正しくありません")
	}

	state, err := s.stateRepo.FindByAbbr(ctx, abbr)
	if err != nil {
		return nil, fmt.Errorf("州の確認に失敗しました: %w", err)
	}
	if state == nil {
		return nil, model.NewStateNotFoundError(abbr)
	}

	now := time.Now()
	created, err := s.venueRepo.Create(ctx, &model.Venue{
		ID:        uuid.New().String(),
		Name:      name,
		City:      city,
		StateAbbr: abbr,
		ZipCode:   zip,
		Address1:  strings.TrimSpace(input.Address1),
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("会場の作成に失敗しました: %w", err)
	}

	slog.Info("venue created",
		slog.String("venue_id", created.ID),
		slog.String("state", abbr),
	)
	return created, nil
}
