// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/transport/http/dto"
	"watchlist_backend/internal/feature/watchlist/usecase"
	jwtmw "watchlist_backend/internal/platform/jwt"
)

// WatchlistUsecase はウォッチリスト操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type WatchlistUsecase interface {
	StartSync(ctx context.Context, userID uint) error
	AddSymbol(ctx context.Context, userID uint, raw string) (entity.Card, error)
	RemoveSymbol(ctx context.Context, userID uint, symbol string) error
	Cards(userID uint) []entity.Card
	Subscribe(userID uint) (<-chan []entity.Card, func())
	IsLoading(userID uint) bool
}

// WatchlistHandler はウォッチリストのHTTPリクエストを処理します。
type WatchlistHandler struct {
	uc WatchlistUsecase
}

// NewWatchlistHandler はWatchlistHandlerの新しいインスタンスを生成します。
func NewWatchlistHandler(uc WatchlistUsecase) *WatchlistHandler {
	return &WatchlistHandler{uc: uc}
}

// userID は認証ミドルウェアが設定したユーザーIDを取り出します。
// 取れない場合は401を返してfalseを返します。
func userID(c *gin.Context) (uint, bool) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}

// List は GET /stocks を処理し、現在のインメモリのウォッチリストを返します。
func (h *WatchlistHandler) List(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isLoading": h.uc.IsLoading(id),
		"cards":     dto.FromCards(h.uc.Cards(id)),
	})
}

// Add は POST /stocks を処理し、銘柄をウォッチリストに追加します。
// - 空シンボルは400
// - 重複は409
// - プロバイダーがデータを持たない銘柄は404
// - プロバイダー障害は502
func (h *WatchlistHandler) Add(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req dto.AddCardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	card, err := h.uc.AddSymbol(c.Request.Context(), id, req.Symbol)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptySymbol):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrDuplicateSymbol):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrSymbolNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			slog.Error("add symbol failed", "user_id", id, "symbol", req.Symbol, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to add symbol"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.FromCard(card))
}

// Remove は DELETE /stocks/:symbol を処理します。
// 存在しない銘柄でもno-opとして200と現在のリストを返します。
func (h *WatchlistHandler) Remove(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	if err := h.uc.RemoveSymbol(c.Request.Context(), id, c.Param("symbol")); err != nil {
		slog.Error("remove symbol failed", "user_id", id, "symbol", c.Param("symbol"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove symbol"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": dto.FromCards(h.uc.Cards(id))})
}

// Sync は POST /stocks/sync を処理し、同期ランをバックグラウンドで開始します。
// ランの進捗はストリーム（GET /stocks/stream）で観測します。
func (h *WatchlistHandler) Sync(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	// リクエストのコンテキストはレスポンス送信後にキャンセルされるため、
	// ランには使わない。エンジン側のランタイムアウトが上限になる。
	go func() {
		if err := h.uc.StartSync(context.Background(), id); err != nil {
			slog.Error("sync run failed", "user_id", id, "error", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "sync started"})
}

// Stream は GET /stocks/stream を処理し、カードストリームをSSEで配信します。
// 接続直後に現在のスナップショットが流れ、以降は発行のたびにイベントが届きます。
func (h *WatchlistHandler) Stream(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	ch, cancel := h.uc.Subscribe(id)
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-store")
	c.Stream(func(w io.Writer) bool {
		select {
		case cards, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent("watchlist", dto.FromCards(cards))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
