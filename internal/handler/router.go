package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/metrics"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/middleware"
)

// HealthChecker はDBなどの依存先の死活確認インターフェース。
// *sql.DB がそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// SetupAuthRoutes は認証関連のルーティングを設定したchi.Routerを返す。
func SetupAuthRoutes(service AuthServiceInterface, config AuthHandlerConfig) http.Handler {
	r := chi.NewRouter()
	h := NewAuthHandler(service, config)

	r.Route("/auth", func(r chi.Router) {
		// パスワード認証
		r.Post("/signup", h.SignUp)
		r.Post("/login", h.SignIn)

		// OAuthフロー
		r.Get("/google/login", h.Login)
		r.Get("/google/callback", h.Callback)

		// セッション管理
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})

	return r
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// ヘルスチェック（nil可）
	HealthChecker HealthChecker

	// Prometheusメトリクス公開用（nil可）
	Gatherer prometheus.Gatherer

	// CSRF設定
	CSRF middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// イベント
	EventService    EventServiceInterface
	EventReconciler EventReconciler

	// ダッシュボード
	DashboardController  DashboardControllerInterface
	DashboardLoadTimeout time.Duration

	// 会場・参照データ
	VenueService     VenueServiceInterface
	ReferenceService ReferenceServiceInterface

	// ユーザー
	UserService UserServiceInterface

	// メトリクス（nil可）
	Collector metrics.MetricsCollector
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → Metrics → CORS
//	→ (Optional)SessionMiddleware → RateLimitMiddleware(GeneralMiddleware) [→ CSRF]
//
// 閲覧系のルートは匿名アクセスを許可し、変更系のルートはセッション必須とする。
// 認証ルート（/auth/*）はミドルウェアチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェアスタック
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.Collector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Collector))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	eventHandler := NewEventHandler(deps.EventService, deps.EventReconciler, deps.Collector)
	dashboardHandler := NewDashboardHandler(deps.DashboardController, deps.Collector, deps.DashboardLoadTimeout)
	venueHandler := NewVenueHandler(deps.VenueService)
	referenceHandler := NewReferenceHandler(deps.ReferenceService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	// Prometheusメトリクス
	if deps.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	}

	// 認証ルート（パスワード認証 + OAuthフロー）
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/login", authHandler.SignIn)
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 閲覧系ルート（匿名アクセス可） ---
	// ミドルウェアスタック: OptionalSession → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewOptionalSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ダッシュボード
		r.Get("/api/dashboard", dashboardHandler.GetDashboard)

		// イベント閲覧
		r.Get("/api/events", eventHandler.ListEvents)
		r.Get("/api/events/{id}", eventHandler.GetEvent)

		// 会場閲覧
		r.Get("/api/venues", venueHandler.ListVenues)
		r.Get("/api/venues/{id}", venueHandler.GetVenue)

		// 参照データ
		r.Get("/api/sports", referenceHandler.ListSports)
		r.Get("/api/states", referenceHandler.ListStates)

		// CSRFトークン取得
		r.Get("/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRF).ServeHTTP)
	})

	// --- 変更系ルート（セッション必須） ---
	// ミドルウェアスタック: Session → RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRF))

		// イベント変更（変更専用レート制限を追加）
		writeLimiter := deps.RateLimiter.EventWriteMiddleware()
		r.With(writeLimiter).Post("/api/events", eventHandler.CreateEvent)
		r.With(writeLimiter).Patch("/api/events/{id}", eventHandler.UpdateEvent)
		r.With(writeLimiter).Delete("/api/events/{id}", eventHandler.DeleteEvent)

		// 会場作成
		r.Post("/api/venues", venueHandler.CreateVenue)

		// ユーザー管理
		r.Get("/api/users/me", userHandler.GetProfile)
		r.Delete("/api/users/me", userHandler.Withdraw)
	})

	return r
}
