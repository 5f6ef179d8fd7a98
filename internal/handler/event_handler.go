package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/event"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/metrics"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/middleware"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// EventServiceInterface はイベントハンドラーが必要とするサービスインターフェース。
type EventServiceInterface interface {
	// ListVisible はactorに可視なイベント一覧を返す。
	ListVisible(ctx context.Context, actorID *string) ([]model.EventDetail, error)
	// Get はactorに可視なイベントを1件取得する。
	Get(ctx context.Context, actorID *string, id string) (*model.EventDetail, error)
	// Create はイベントを作成する。
	Create(ctx context.Context, actorID string, input event.CreateInput) (*model.EventDetail, error)
	// Update はイベントを部分更新する。
	Update(ctx context.Context, actorID string, id string, input event.UpdateInput) (*model.EventDetail, error)
	// Delete はイベントを削除する。
	Delete(ctx context.Context, actorID string, id string) error
}

// EventReconciler は変更結果をダッシュボードのコレクションへ反映するインターフェース。
// 変更操作が成功した場合のみ呼び出される。
type EventReconciler interface {
	ReconcileUpsert(actorID *string, event *model.EventDetail)
	ReconcileDelete(actorID *string, eventID string)
}

// EventHandler はイベント管理のHTTPハンドラー。
type EventHandler struct {
	service    EventServiceInterface
	reconciler EventReconciler
	collector  metrics.MetricsCollector
}

// NewEventHandler はEventHandlerを生成する。
// reconcilerとcollectorはnilを許容する。
func NewEventHandler(service EventServiceInterface, reconciler EventReconciler, collector metrics.MetricsCollector) *EventHandler {
	return &EventHandler{
		service:    service,
		reconciler: reconciler,
		collector:  collector,
	}
}

// createEventRequest はイベント作成リクエストのボディ。
type createEventRequest struct {
	Name        string    `json:"name"`
	SportID     string    `json:"sport_id"`
	StartsAt    time.Time `json:"starts_at"`
	Description string    `json:"description"`
	VenueID     string    `json:"venue_id"`
}

// updateEventRequest はイベント部分更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateEventRequest struct {
	Name        *string    `json:"name"`
	SportID     *string    `json:"sport_id"`
	StartsAt    *time.Time `json:"starts_at"`
	Description *string    `json:"description"`
	VenueID     *string    `json:"venue_id"`
}

// ListEvents は可視イベント一覧を返す。
// GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	actorID := optionalActorID(r)

	events, err := h.service.ListVisible(r.Context(), actorID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]eventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, toEventResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// GetEvent はイベント詳細を返す。
// GET /api/events/:id
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	actorID := optionalActorID(r)
	eventID := chi.URLParam(r, "id")

	detail, err := h.service.Get(r.Context(), actorID, eventID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toEventResponse(*detail))
}

// CreateEvent はイベントを作成する。
// POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	detail, err := h.service.Create(r.Context(), userID, event.CreateInput{
		Name:        req.Name,
		SportID:     req.SportID,
		StartsAt:    req.StartsAt,
		Description: req.Description,
		VenueID:     req.VenueID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.reconciler != nil {
		h.reconciler.ReconcileUpsert(&userID, detail)
	}
	if h.collector != nil {
		h.collector.RecordEventWrite("create")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toEventResponse(*detail))
}

// UpdateEvent はイベントを部分更新する。
// PATCH /api/events/:id
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	eventID := chi.URLParam(r, "id")

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	detail, err := h.service.Update(r.Context(), userID, eventID, event.UpdateInput{
		Name:        req.Name,
		SportID:     req.SportID,
		StartsAt:    req.StartsAt,
		Description: req.Description,
		VenueID:     req.VenueID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.reconciler != nil {
		h.reconciler.ReconcileUpsert(&userID, detail)
	}
	if h.collector != nil {
		h.collector.RecordEventWrite("update")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toEventResponse(*detail))
}

// DeleteEvent はイベントを削除する。
// DELETE /api/events/:id
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	eventID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, eventID); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.reconciler != nil {
		h.reconciler.ReconcileDelete(&userID, eventID)
	}
	if h.collector != nil {
		h.collector.RecordEventWrite("delete")
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetupEventRoutes はイベント管理関連のルーティングを設定したchi.Routerを返す。
// writeLimiter が nil でない場合、変更操作にイベント変更専用レート制限を適用する。
func SetupEventRoutes(
	service EventServiceInterface,
	reconciler EventReconciler,
	collector metrics.MetricsCollector,
	sessionMW func(http.Handler) http.Handler,
	writeLimiter func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	h := NewEventHandler(service, reconciler, collector)

	r.Route("/api/events", func(r chi.Router) {
		// 閲覧は匿名を許可する（公開イベントのみ可視）
		r.Get("/", h.ListEvents)
		r.Get("/{id}", h.GetEvent)

		// 変更操作はセッション必須
		r.Group(func(r chi.Router) {
			if sessionMW != nil {
				r.Use(sessionMW)
			}
			if writeLimiter != nil {
				r.Use(writeLimiter)
			}

			r.Post("/", h.CreateEvent)
			r.Patch("/{id}", h.UpdateEvent)
			r.Delete("/{id}", h.DeleteEvent)
		})
	})

	return r
}

// optionalActorID はセッションがあればユーザーIDを、なければnilを返す。
func optionalActorID(r *http.Request) *string {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		return nil
	}
	return &userID
}
