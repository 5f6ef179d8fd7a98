package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
	Field    string `json:"field,omitempty"`
}

// sportResponse は競技種目のAPIレスポンス。
type sportResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// stateResponse は州のAPIレスポンス。
type stateResponse struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
}

// venueResponse は会場のAPIレスポンス。
type venueResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	City      string        `json:"city"`
	State     stateResponse `json:"state"`
	ZipCode   string        `json:"zip_code,omitempty"`
	Address1  string        `json:"address1,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// eventResponse はイベントのAPIレスポンス。
// 競技種目と会場をJOINした読み取りモデルをそのまま返す。
type eventResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Sport       sportResponse `json:"sport"`
	StartsAt    time.Time     `json:"starts_at"`
	Description string        `json:"description,omitempty"`
	Venue       venueResponse `json:"venue"`
	OwnerID     *string       `json:"owner_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// toSportResponse はmodel.SportからAPIレスポンスに変換する。
func toSportResponse(s model.Sport) sportResponse {
	return sportResponse{
		ID:    s.ID,
		Name:  s.Name,
		Color: s.Color,
	}
}

// toStateResponse はmodel.StateからAPIレスポンスに変換する。
func toStateResponse(s model.State) stateResponse {
	return stateResponse{
		Abbreviation: s.Abbreviation,
		Name:         s.Name,
	}
}

// toVenueResponse はmodel.VenueDetailからAPIレスポンスに変換する。
func toVenueResponse(v model.VenueDetail) venueResponse {
	return venueResponse{
		ID:        v.ID,
		Name:      v.Name,
		City:      v.City,
		State:     toStateResponse(v.State),
		ZipCode:   v.ZipCode,
		Address1:  v.Address1,
		Phone:     v.Phone,
		CreatedAt: v.CreatedAt,
	}
}

// toEventResponse はmodel.EventDetailからAPIレスポンスに変換する。
func toEventResponse(e model.EventDetail) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Sport:       toSportResponse(e.Sport),
		StartsAt:    e.StartsAt,
		Description: e.Description,
		Venue:       toVenueResponse(e.Venue),
		OwnerID:     e.OwnerID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
		Field:    apiErr.Field,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case model.ErrCodeEventNotFound, model.ErrCodeVenueNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeSportNotFound, model.ErrCodeStateNotFound:
		return http.StatusUnprocessableEntity
	case model.ErrCodeVenueInUse, model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodePersistenceFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
