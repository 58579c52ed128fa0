package usecase

import "time"

// TradingDayFormat は外部プロバイダーが要求するISOカレンダー日付形式です。
const TradingDayFormat = "2006-01-02"

// ResolveTradingDay は与えられた日付に対して直近の取引日を返します。
// 週末のみを考慮します: 日曜は2日前、月曜は3日前、土曜は1日前、
// それ以外は1日前の日付を返します。
//
// 祝日カレンダーは持ちません。返された日付が休場日の場合、
// プロバイダーは「データなし」を返すため、呼び出し側はそれを許容すること。
func ResolveTradingDay(today time.Time) string {
	var back int
	switch today.Weekday() {
	case time.Sunday:
		back = 2
	case time.Monday:
		back = 3
	case time.Saturday:
		back = 1
	default:
		back = 1
	}
	return today.AddDate(0, 0, -back).Format(TradingDayFormat)
}
