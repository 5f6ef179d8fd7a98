package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// ReferenceServiceInterface は参照データハンドラーが必要とするサービスインターフェース。
type ReferenceServiceInterface interface {
	ListSports(ctx context.Context) ([]model.Sport, error)
	ListStates(ctx context.Context) ([]model.State, error)
}

// ReferenceHandler は競技種目・州の参照データのHTTPハンドラー。
type ReferenceHandler struct {
	service ReferenceServiceInterface
}

// NewReferenceHandler はReferenceHandlerを生成する。
func NewReferenceHandler(service ReferenceServiceInterface) *ReferenceHandler {
	return &ReferenceHandler{
		service: service,
	}
}

// ListSports は全競技種目を返す。
// GET /api/sports
func (h *ReferenceHandler) ListSports(w http.ResponseWriter, r *http.Request) {
	sports, err := h.service.ListSports(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]sportResponse, 0, len(sports))
	for _, s := range sports {
		responses = append(responses, toSportResponse(s))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// ListStates は全州を返す。
// GET /api/states
func (h *ReferenceHandler) ListStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.service.ListStates(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]stateResponse, 0, len(states))
	for _, s := range states {
		responses = append(responses, toStateResponse(s))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// SetupReferenceRoutes は参照データ関連のルーティングを設定したchi.Routerを返す。
func SetupReferenceRoutes(service ReferenceServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewReferenceHandler(service)

	r.Get("/api/sports", h.ListSports)
	r.Get("/api/states", h.ListStates)

	return r
}
