package cache

import (
	"time"
)

// TimeUntilNextMarketOpen は次の米国市場オープン（東部時間9:30）までの期間を返します。
// キャッシュ済みの価格は次のオープンで必ず古くなるため、TTLとして使います。
func TimeUntilNextMarketOpen() time.Duration {
	loc, _ := time.LoadLocation("America/New_York")
	now := time.Now().In(loc)

	// 次の9:30を計算
	nextOpen := time.Date(now.Year(), now.Month(), now.Day(), 9, 30, 0, 0, loc)

	// 今日の9:30が既に過ぎている場合は明日の9:30を使用
	if now.After(nextOpen) {
		nextOpen = nextOpen.Add(24 * time.Hour)
	}

	return nextOpen.Sub(now)
}
