package usecase

// Variation は終値の時系列から騰落率（%）を算出します。
// ウィンドウの最初と最後の値を使用します（最小値・最大値ではない）。
//
// 縮退入力のポリシー:
//   - 要素が2個未満の場合は0を返す
//   - 最初の値が0の場合は0を返す（ゼロ除算の回避。欠損データが
//     「変化なし」に見える副作用があるが、仕様上許容される）
func Variation(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	first := closes[0]
	last := closes[len(closes)-1]
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}
