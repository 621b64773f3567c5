package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/skintrack/internal/middleware"
)

// MetricsRecorder はルーター全体で使用するメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	LoginRecorder
	DiaryDeletionRecorder
	middleware.HTTPMetricsRecorder
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Metrics           MetricsRecorder // nilを許容する

	// サービス
	AuthService      AuthServiceInterface
	DetectionService DetectionServiceInterface
	DiaryService     DiaryServiceInterface
	CatalogService   CatalogServiceInterface
	UploadService    UploadServiceInterface

	// 管理API
	AdminDetectionService AdminDetectionServiceInterface
	AdminToken            string
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Metrics → Identity → RateLimit(General)
//
// ヘルスチェック（/healthz）と管理API（/api/admin/*）はIdentityチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics)
	detectionHandler := NewDetectionHandler(deps.DetectionService)
	diaryHandler := NewDiaryHandler(deps.DiaryService, deps.Metrics)
	catalogHandler := NewCatalogHandler(deps.CatalogService)
	uploadHandler := NewUploadHandler(deps.UploadService)
	adminHandler := NewAdminHandler(deps.AdminDetectionService, deps.AdminToken)

	// --- Identity不要のルート ---

	// ヘルスチェック
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// 管理API（解析パイプライン向け、Bearerトークン認証）
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/detections", adminHandler.CreateDetection)
	})

	// --- Identityが必要なルート ---
	// ミドルウェアスタック: Identity → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewIdentityMiddleware())
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ログイン（ログイン専用レート制限を追加）
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/api/login", authHandler.Login)

		// 検出レコード
		r.Route("/api/detections", func(r chi.Router) {
			r.Get("/", detectionHandler.List)
			r.Get("/comparison", detectionHandler.Compare)
			r.Post("/{id}/commit", detectionHandler.Commit)
		})

		// 日記
		r.Route("/api/diaries", func(r chi.Router) {
			r.Get("/", diaryHandler.List)
			r.Post("/", diaryHandler.Create)
			r.Delete("/{id}", diaryHandler.Delete)
		})

		// カタログ
		r.Route("/api/catalog", func(r chi.Router) {
			r.Get("/brands", catalogHandler.ListBrands)
			r.Get("/products", catalogHandler.ListProducts)
		})

		// アップロード予約
		r.Post("/api/uploads", uploadHandler.Reserve)
	})

	return r
}
