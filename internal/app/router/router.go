// Package router はアプリケーションのHTTPルーティングを定義します。
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "watchlist_backend/internal/feature/auth/transport/handler"
	predictionhandler "watchlist_backend/internal/feature/prediction/transport/handler"
	watchlisthandler "watchlist_backend/internal/feature/watchlist/transport/handler"
	"watchlist_backend/internal/platform/http/handler"
	jwtmw "watchlist_backend/internal/platform/jwt"
)

// NewRouter はルートテーブルを構築します。predictionがnilの場合、
// 予測エンドポイントは登録されません（Gemini未設定でも他は動作する）。
func NewRouter(auth *authhandler.AuthHandler, watchlist *watchlisthandler.WatchlistHandler,
	prediction *predictionhandler.PredictionHandler) *gin.Engine {
	r := gin.Default()

	// ブラウザのUIから直接叩くためCORSを許可
	r.Use(cors.Default())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/user", auth.Signup)
	// ログイン（JWT 発行）
	r.POST("/auth/login", auth.Login)

	// 認証必須のルート
	// リクエストヘッダーに JWT が必要になる
	guarded := r.Group("/")
	guarded.Use(jwtmw.AuthRequired())
	{
		guarded.GET("/stocks", watchlist.List)
		guarded.POST("/stocks", watchlist.Add)
		guarded.DELETE("/stocks/:symbol", watchlist.Remove)
		guarded.POST("/stocks/sync", watchlist.Sync)
		guarded.GET("/stocks/stream", watchlist.Stream)
		if prediction != nil {
			guarded.POST("/stocks/prediction", prediction.Predict)
		}
	}

	return r
}
