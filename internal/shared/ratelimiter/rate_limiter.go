// Package ratelimiter は外部API呼び出しの頻度制御を提供します。
package ratelimiter

import (
	"log/slog"
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter は固定ウィンドウ方式でプロバイダー呼び出しの頻度を制限します。
// 無料プランのマーケットデータAPIは分あたりの呼び出し回数が厳しく
// 制限されるため、リフレッシュループの各呼び出しの前に挟んで使います。
type RateLimiter struct {
	limit     int           // ウィンドウあたりの呼び出し上限
	interval  time.Duration // ウィンドウのリセット間隔
	count     int
	lastReset time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeeded はウィンドウ内の呼び出し回数が上限に達している場合、
// 次のウィンドウまで待機します。
func (rl *RateLimiter) WaitIfNeeded() {
	now := time.Now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			slog.Info("provider rate limit reached, sleeping", "limit", rl.limit, "sleep", sleep)
			time.Sleep(sleep)
		}
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
