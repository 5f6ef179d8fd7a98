package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/middleware"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/venue"
)

// VenueServiceInterface は会場ハンドラーが必要とするサービスインターフェース。
type VenueServiceInterface interface {
	// List は全会場を州とJOINして返す。
	List(ctx context.Context) ([]model.VenueDetail, error)
	// Get は会場を1件取得する。
	Get(ctx context.Context, id string) (*model.VenueDetail, error)
	// Create は会場を作成する。
	Create(ctx context.Context, input venue.CreateInput) (*model.VenueDetail, error)
}

// VenueHandler は会場管理のHTTPハンドラー。
type VenueHandler struct {
	service VenueServiceInterface
}

// NewVenueHandler はVenueHandlerを生成する。
func NewVenueHandler(service VenueServiceInterface) *VenueHandler {
	return &VenueHandler{
		service: service,
	}
}

// createVenueRequest は会場作成リクエストのボディ。
type createVenueRequest struct {
	Name      string `json:"name"`
	City      string `json:"city"`
	StateAbbr string `json:"state_abbr"`
	ZipCode   string `json:"zip_code"`
	Address1  string `json:"address1"`
	Phone     string `json:"phone"`
}

// ListVenues は全会場を返す。
// GET /api/venues
func (h *VenueHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]venueResponse, 0, len(venues))
	for _, v := range venues {
		responses = append(responses, toVenueResponse(v))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// GetVenue は会場詳細を返す。
// GET /api/venues/:id
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "id")

	detail, err := h.service.Get(r.Context(), venueID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toVenueResponse(*detail))
}

// CreateVenue は会場を作成する。
// POST /api/venues
func (h *VenueHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.UserIDFromContext(r.Context()); err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createVenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	detail, err := h.service.Create(r.Context(), venue.CreateInput{
		Name:      req.Name,
		City:      req.City,
		StateAbbr: req.StateAbbr,
		ZipCode:   req.ZipCode,
		Address1:  req.Address1,
		Phone:     req.Phone,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toVenueResponse(*detail))
}

// SetupVenueRoutes は会場管理関連のルーティングを設定したchi.Routerを返す。
func SetupVenueRoutes(service VenueServiceInterface, sessionMW func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	h := NewVenueHandler(service)

	r.Route("/api/venues", func(r chi.Router) {
		r.Get("/", h.ListVenues)
		r.Get("/{id}", h.GetVenue)

		// 作成はセッション必須
		r.Group(func(r chi.Router) {
			if sessionMW != nil {
				r.Use(sessionMW)
			}
			r.Post("/", h.CreateVenue)
		})
	})

	return r
}
