package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
)

// TestCardStream_ReplayLastValue は遅れて購読した場合でも最新スナップショットが
// 購読時に即座に届くことを検証します。
func TestCardStream_ReplayLastValue(t *testing.T) {
	t.Parallel()

	s := NewCardStream()
	s.Publish([]entity.Card{{Symbol: "AAPL"}})
	s.Publish([]entity.Card{{Symbol: "AAPL"}, {Symbol: "MSFT"}})

	ch, cancel := s.Subscribe()
	defer cancel()

	select {
	case cards := <-ch:
		require.Len(t, cards, 2)
		assert.Equal(t, "AAPL", cards[0].Symbol)
		assert.Equal(t, "MSFT", cards[1].Symbol)
	default:
		t.Fatal("expected replayed snapshot to be available synchronously")
	}
}

// TestCardStream_NoReplayBeforeFirstPublish は未発行のストリームを購読しても
// 値が流れないことを検証します。
func TestCardStream_NoReplayBeforeFirstPublish(t *testing.T) {
	t.Parallel()

	s := NewCardStream()
	ch, cancel := s.Subscribe()
	defer cancel()

	select {
	case <-ch:
		t.Fatal("expected no value before first publish")
	default:
	}

	_, ok := s.Last()
	assert.False(t, ok)
}

// TestCardStream_Multicast は複数の購読者全員に同じスナップショットが
// 配信されることを検証します。
func TestCardStream_Multicast(t *testing.T) {
	t.Parallel()

	s := NewCardStream()
	ch1, cancel1 := s.Subscribe()
	defer cancel1()
	ch2, cancel2 := s.Subscribe()
	defer cancel2()

	s.Publish([]entity.Card{{Symbol: "GOOG"}})

	for _, ch := range []<-chan []entity.Card{ch1, ch2} {
		select {
		case cards := <-ch:
			require.Len(t, cards, 1)
			assert.Equal(t, "GOOG", cards[0].Symbol)
		default:
			t.Fatal("expected snapshot for every subscriber")
		}
	}
}

// TestCardStream_SnapshotIsolation は配信されたスライスを購読者が書き換えても
// ストリーム内部の最新値に影響しないことを検証します。
func TestCardStream_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	s := NewCardStream()
	s.Publish([]entity.Card{{Symbol: "AAPL", LastPrice: 100}})

	ch, cancel := s.Subscribe()
	defer cancel()
	cards := <-ch
	cards[0].LastPrice = 999

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 100.0, last[0].LastPrice)
}

// TestCardStream_SlowSubscriberKeepsLatest はバッファ満杯の購読者に対して
// 古いスナップショットを捨てて最新が届くことを検証します。
func TestCardStream_SlowSubscriberKeepsLatest(t *testing.T) {
	t.Parallel()

	s := NewCardStream()
	ch, cancel := s.Subscribe()
	defer cancel()

	// バッファを大きく超えて発行する
	for i := 0; i < subscriberBuffer*3; i++ {
		s.Publish([]entity.Card{{Symbol: "AAPL", LastPrice: float64(i)}})
	}

	// チャネルを読み切ると、最後に読めた値は最新の発行値になっている
	var latest []entity.Card
	for {
		select {
		case cards := <-ch:
			latest = cards
			continue
		default:
		}
		break
	}
	require.NotNil(t, latest)
	assert.Equal(t, float64(subscriberBuffer*3-1), latest[0].LastPrice)
}

// TestCardStream_Unsubscribe は購読解除後に発行してもパニックせず、
// チャネルがクローズされることを検証します。
func TestCardStream_Unsubscribe(t *testing.T) {
	t.Parallel()

	s := NewCardStream()
	ch, cancel := s.Subscribe()
	cancel()
	// 二重解除は安全
	cancel()

	s.Publish([]entity.Card{{Symbol: "AAPL"}})

	_, open := <-ch
	assert.False(t, open, "channel should be closed after unsubscribe")
}
