package usecase

import (
	"sync"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
)

// subscriberBuffer は購読者ごとのチャネルバッファサイズです。
// 満杯の場合は古いスナップショットを捨てて最新を届けます。
const subscriberBuffer = 8

// CardStream はカードリストのマルチキャスト配信チャネルです。
// 最後に発行されたスナップショットをキャッシュし、新規購読者には
// 購読時に同期的にリプレイします。エラー値は流れず、常に有効な
// リストのスナップショットのみを配信します。
type CardStream struct {
	mu   sync.Mutex
	subs map[chan []entity.Card]struct{}
	last []entity.Card
	seen bool
}

// NewCardStream はCardStreamの新しいインスタンスを生成します。
func NewCardStream() *CardStream {
	return &CardStream{subs: make(map[chan []entity.Card]struct{})}
}

// Subscribe は配信チャネルと購読解除関数を返します。
// 既に発行済みの値がある場合、その最新値がチャネルに積まれた状態で返るため、
// 遅れて接続した購読者も現在の状態を即座に観測できます。
func (s *CardStream) Subscribe() (<-chan []entity.Card, func()) {
	ch := make(chan []entity.Card, subscriberBuffer)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	if s.seen {
		ch <- snapshot(s.last)
	}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Publish は全購読者にカードリストのスナップショットを配信し、
// 最新値としてキャッシュします。処理の遅い購読者のバッファが満杯の場合、
// その購読者の最も古い未読スナップショットを捨てて最新を積みます。
func (s *CardStream) Publish(cards []entity.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = snapshot(cards)
	s.seen = true

	for ch := range s.subs {
		select {
		case ch <- snapshot(cards):
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot(cards)
		}
	}
}

// Last は最後に発行されたスナップショットを返します。
// 一度も発行されていない場合は (nil, false) を返します。
func (s *CardStream) Last() ([]entity.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seen {
		return nil, false
	}
	return snapshot(s.last), true
}

// snapshot は購読者間での共有を防ぐためカードリストを複製します。
func snapshot(cards []entity.Card) []entity.Card {
	out := make([]entity.Card, len(cards))
	copy(out, cards)
	return out
}
