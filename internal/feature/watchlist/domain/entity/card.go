// Package entity はwatchlistフィーチャーのドメインモデルを定義します。
package entity

import "time"

// Card はウォッチリスト上の1銘柄を表します。
// 最新価格と30日間の騰落率を保持し、シンボルで一意に識別されます。
type Card struct {
	// Symbol は銘柄コードです（大文字に正規化済み、リスト内で一意）。
	Symbol string `json:"symbol"`

	// DisplayName は表示用の企業名です。
	DisplayName string `json:"displayName"`

	// LastPrice は直近の取引日の終値です。
	LastPrice float64 `json:"lastPrice"`

	// VariationPercent は30日間ウィンドウの始値終値から算出した騰落率（%）です。
	VariationPercent float64 `json:"variationPercent"`

	// LastUpdated はこのカードが最後に更新された時刻です。
	LastUpdated time.Time `json:"lastUpdated"`
}

// FindBySymbol はカードのスライスから指定シンボルのカードを探し、
// そのインデックスを返します。見つからない場合は-1を返します。
func FindBySymbol(cards []Card, symbol string) int {
	for i := range cards {
		if cards[i].Symbol == symbol {
			return i
		}
	}
	return -1
}
