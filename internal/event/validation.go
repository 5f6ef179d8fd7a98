package event

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

const (
	maxNameLength        = 200
	maxDescriptionLength = 2000
)

// sportSlugPattern は競技IDのスラッグ形式（ケバブケース小文字）。
var sportSlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// validateName はイベント名を検証する。1〜200文字。
func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.NewValidationError("name", "イベント名を入力してください")
	}
	if len([]rune(name)) > maxNameLength {
		return model.NewValidationError("name", fmt.Sprintf("イベント名は%d文字以内で入力してください", maxNameLength))
	}
	return nil
}

// validateSportID は競技IDのスラッグ形式を検証する。
func validateSportID(sportID string) error {
	if sportID == "" {
		return model.NewValidationError("sportId", "競技を選択してください")
	}
	if !sportSlugPattern.MatchString(sportID) {
		return model.NewValidationError("sportId", "競技IDの形式が正しくありません")
	}
	return nil
}

// validateDescription は説明文の長さを検証する。空は許容する。
func validateDescription(description string) error {
	if len([]rune(description)) > maxDescriptionLength {
		return model.NewValidationError("description", fmt.Sprintf("説明は%d文字以内で入力してください", maxDescriptionLength))
	}
	return nil
}

// validateVenueID は会場IDがUUID形式であることを検証する。
func validateVenueID(venueID string) error {
	if venueID == "" {
		return model.NewValidationError("venueId", "会場を選択してください")
	}
	if _, err := uuid.Parse(venueID); err != nil {
		return model.NewValidationError("venueId", "会場IDの形式が正しくありません")
	}
	return nil
}

// validateStartsAt は開始日時が設定されていることを検証する。
func validateStartsAt(startsAt time.Time) error {
	if startsAt.IsZero() {
		return model.NewValidationError("startsAt", "開始日時を入力してください")
	}
	return nil
}

// ValidateFutureDate は開始日時が未来であることを検証する。
// 新規作成フォームなど、過去日時を受け付けたくない呼び出し元が任意で使用する。
func ValidateFutureDate(startsAt, now time.Time) error {
	if !startsAt.After(now) {
		return model.NewValidationError("startsAt", "開始日時は未来の日時を指定してください")
	}
	return nil
}
