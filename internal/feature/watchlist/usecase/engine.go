package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/shared/ratelimiter"
)

const (
	// aggregateWindowDays は騰落率算出に使うアグリゲートウィンドウの日数です。
	aggregateWindowDays = 30

	// DefaultRunTimeout は1回の同期ラン全体のタイムアウトです。
	DefaultRunTimeout = 2 * time.Minute

	// DefaultRegisterTimeout はベストエフォートのレジストリ登録のタイムアウトです。
	DefaultRegisterTimeout = 5 * time.Second
)

// CardRepository はユーザーごとのカードリストの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type CardRepository interface {
	// Load はユーザーの保存済みカードリストを取得します。
	// 保存データが存在しない、または破損している場合は空リストを返します。
	Load(ctx context.Context, userID uint) ([]entity.Card, error)

	// Save はユーザーのカードリストを上書き保存します（last writer wins）。
	Save(ctx context.Context, userID uint, cards []entity.Card) error
}

// RegistryRepository はリモートの銘柄レジストリを抽象化します。
// レジストリはユーザーが登録したことのある銘柄の一覧に対して権威を持ちますが、
// 価格は追跡しません。削除APIは持たない追加専用の設計です。
type RegistryRepository interface {
	ListStocks(ctx context.Context) ([]entity.RegisteredStock, error)
	RegisterStock(ctx context.Context, symbol, companyName string) error
}

// MarketRepository は外部マーケットデータプロバイダーを抽象化します。
// 日付はISOカレンダー日付（YYYY-MM-DD）で渡します。
type MarketRepository interface {
	// GetDailyOpenClose は指定日の始値終値スナップショットを取得します。
	// プロバイダーがデータを持たない場合は ErrSymbolNotFound を返します。
	GetDailyOpenClose(ctx context.Context, symbol, date string) (*entity.Snapshot, error)

	// GetAggregates は指定期間の日足OHLCVバーを時系列順に取得します。
	GetAggregates(ctx context.Context, symbol, from, to string) ([]entity.Aggregate, error)
}

// session は1ユーザーセッション分の同期状態です。
// mu が単一ライターを保証します: StartSync・AddSymbol・RemoveSymbol は
// すべてこのロックを取得するため、リフレッシュループと明示的な
// 追加・削除が交錯することはありません。
type session struct {
	mu            sync.Mutex
	cards         []entity.Card
	stream        *CardStream
	knownRegistry map[string]struct{}
	loading       bool
}

// Engine はローカルキャッシュ・リモートレジストリ・外部プロバイダーの
// 3つの情報源をマージし、ユーザーごとのウォッチリストを維持します。
type Engine struct {
	store    CardRepository
	registry RegistryRepository
	market   MarketRepository
	limiter  ratelimiter.RateLimiterInterface

	runTimeout      time.Duration
	registerTimeout time.Duration
	now             func() time.Time

	mu       sync.Mutex
	sessions map[uint]*session
}

// Option はEngineの生成時オプションです。
type Option func(*Engine)

// WithRunTimeout は1回の同期ランのタイムアウトを設定します。
func WithRunTimeout(d time.Duration) Option {
	return func(e *Engine) { e.runTimeout = d }
}

// WithClock はテスト用に現在時刻の取得関数を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine はEngineの新しいインスタンスを生成します。
// limiterはリフレッシュループ内のプロバイダー呼び出しの間隔制御に使われます。
// nilを渡した場合は間隔制御なしで動作します。
func NewEngine(store CardRepository, registry RegistryRepository, market MarketRepository,
	limiter ratelimiter.RateLimiterInterface, opts ...Option) *Engine {
	e := &Engine{
		store:           store,
		registry:        registry,
		market:          market,
		limiter:         limiter,
		runTimeout:      DefaultRunTimeout,
		registerTimeout: DefaultRegisterTimeout,
		now:             time.Now,
		sessions:        make(map[uint]*session),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NormalizeSymbol は銘柄コードを比較・保存用に正規化します。
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// session は指定ユーザーのセッションを取得します。存在しない場合は生成します。
func (e *Engine) session(userID uint) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[userID]
	if !ok {
		s = &session{
			stream:        NewCardStream(),
			knownRegistry: make(map[string]struct{}),
		}
		e.sessions[userID] = s
	}
	return s
}

// Subscribe は指定ユーザーのカードストリームを購読します。
// 発行済みの最新スナップショットは購読時に即座にリプレイされます。
func (e *Engine) Subscribe(userID uint) (<-chan []entity.Card, func()) {
	return e.session(userID).stream.Subscribe()
}

// Cards は現在のインメモリのウォッチリストのスナップショットを返します。
func (e *Engine) Cards(userID uint) []entity.Card {
	s := e.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.cards)
}

// IsLoading は同期ランが進行中かどうかを返します。
func (e *Engine) IsLoading(userID uint) bool {
	s := e.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// EndSession はユーザーセッションのインメモリ状態を破棄します。
// ストリームには空リストを発行しますが、永続化済みデータは削除しません。
func (e *Engine) EndSession(userID uint) {
	e.mu.Lock()
	s, ok := e.sessions[userID]
	if ok {
		delete(e.sessions, userID)
	}
	e.mu.Unlock()

	if ok {
		s.stream.Publish([]entity.Card{})
	}
}

// StartSync は1回の同期ランを実行します。
//
//  1. 永続化ストアからシードリストを読み込み、即座に発行する（stale表示）
//  2. リモートレジストリの銘柄一覧とマージして対象シンボルの和集合を作る
//  3. 各シンボルを逐次リフレッシュし、成功のたびに発行・書き込みする
//
// 1銘柄の取得失敗はランを中断しません。ログに記録して次の銘柄に進みます。
// すべての失敗した銘柄は前回のキャッシュ値を保持します（一度も成功して
// いない銘柄はエントリを作りません）。
func (e *Engine) StartSync(ctx context.Context, userID uint) error {
	s := e.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.runTimeout)
	defer cancel()

	s.loading = true
	defer func() { s.loading = false }()

	// シード: 保存済みリストをそのまま発行する（価格は古い可能性がある）
	seeded, err := e.store.Load(ctx, userID)
	if err != nil {
		slog.Error("failed to load cached watchlist", "user_id", userID, "error", err)
		seeded = []entity.Card{}
	}
	s.cards = seeded
	s.stream.Publish(s.cards)

	// レジストリの銘柄とマージ。レジストリの失敗はランを止めない:
	// ローカルにキャッシュ済みの銘柄だけでリフレッシュを続行する。
	names := make(map[string]string)
	var registrySymbols []string
	if regStocks, err := e.registry.ListStocks(ctx); err != nil {
		slog.Error("failed to list registry stocks", "user_id", userID, "error", err)
	} else {
		for _, rs := range regStocks {
			sym := NormalizeSymbol(rs.Symbol)
			if sym == "" {
				continue
			}
			s.knownRegistry[sym] = struct{}{}
			if rs.CompanyName != "" {
				names[sym] = rs.CompanyName
			}
			registrySymbols = append(registrySymbols, sym)
		}
	}

	// 和集合: キャッシュ済みの並び順を維持し、レジストリのみの銘柄を末尾に追加
	union := make([]string, 0, len(s.cards)+len(registrySymbols))
	inUnion := make(map[string]struct{})
	for _, c := range s.cards {
		sym := NormalizeSymbol(c.Symbol)
		if _, ok := inUnion[sym]; ok {
			continue
		}
		inUnion[sym] = struct{}{}
		union = append(union, sym)
	}
	for _, sym := range registrySymbols {
		if _, ok := inUnion[sym]; ok {
			continue
		}
		inUnion[sym] = struct{}{}
		union = append(union, sym)
	}

	// 逐次リフレッシュ: 銘柄iの発行と書き込みが完了するまで銘柄i+1は
	// 取得しない。購読者は単調増加するリストのみを観測する。
	for _, sym := range union {
		if ctx.Err() != nil {
			slog.Warn("sync run cancelled", "user_id", userID, "error", ctx.Err())
			break
		}
		if e.limiter != nil {
			e.limiter.WaitIfNeeded()
		}
		card, err := e.fetchCard(ctx, sym, names[sym])
		if err != nil {
			// 1銘柄の失敗で処理を止めずログに出力し、次の銘柄へ進む
			slog.Error("failed to refresh symbol", "user_id", userID, "symbol", sym, "error", err)
			continue
		}

		if i := entity.FindBySymbol(s.cards, card.Symbol); i >= 0 {
			s.cards[i] = card
		} else {
			s.cards = append(s.cards, card)
		}
		s.stream.Publish(s.cards)
		if err := e.store.Save(ctx, userID, s.cards); err != nil {
			slog.Error("failed to persist watchlist", "user_id", userID, "symbol", sym, "error", err)
		}
	}
	return nil
}

// AddSymbol は銘柄をウォッチリストに追加します。
// 空文字・重複はプロバイダー呼び出し前に拒否します。プロバイダーが
// データを持たない場合は ErrSymbolNotFound を返し、状態は一切変更しません。
// 成功時は追加・発行・書き込みまで完了してから結果を返し、レジストリへの
// 登録はバックグラウンドでベストエフォート実行します。
func (e *Engine) AddSymbol(ctx context.Context, userID uint, raw string) (entity.Card, error) {
	s := e.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	sym := NormalizeSymbol(raw)
	if sym == "" {
		return entity.Card{}, ErrEmptySymbol
	}
	if entity.FindBySymbol(s.cards, sym) >= 0 {
		return entity.Card{}, fmt.Errorf("%w: %s", ErrDuplicateSymbol, sym)
	}

	card, err := e.fetchCard(ctx, sym, "")
	if err != nil {
		return entity.Card{}, err
	}

	s.cards = append(s.cards, card)
	s.stream.Publish(s.cards)
	if err := e.store.Save(ctx, userID, s.cards); err != nil {
		// 発行済みのインメモリ状態はそのまま維持する。上書き保存は
		// last writer winsのため、次回の保存成功でストアは回復する。
		return card, fmt.Errorf("failed to persist watchlist: %w", err)
	}

	if _, known := s.knownRegistry[sym]; !known {
		s.knownRegistry[sym] = struct{}{}
		go e.registerBestEffort(card.Symbol, card.DisplayName)
	}
	return card, nil
}

// RemoveSymbol は銘柄をウォッチリストから除外し、発行・書き込みします。
// 存在しない銘柄の削除はno-opですが、現在のリストの再発行と再保存は行います。
// リモートレジストリへの削除は発行しません（レジストリは追加専用）。
func (e *Engine) RemoveSymbol(ctx context.Context, userID uint, raw string) error {
	s := e.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	sym := NormalizeSymbol(raw)
	filtered := make([]entity.Card, 0, len(s.cards))
	for _, c := range s.cards {
		if c.Symbol != sym {
			filtered = append(filtered, c)
		}
	}
	s.cards = filtered

	s.stream.Publish(s.cards)
	if err := e.store.Save(ctx, userID, s.cards); err != nil {
		return fmt.Errorf("failed to persist watchlist: %w", err)
	}
	return nil
}

// fetchCard は1銘柄分のスナップショットとアグリゲートを取得し、カードを組み立てます。
// fallbackName はスナップショットに企業名がない場合の表示名です。
func (e *Engine) fetchCard(ctx context.Context, sym, fallbackName string) (entity.Card, error) {
	now := e.now()

	snap, err := e.market.GetDailyOpenClose(ctx, sym, ResolveTradingDay(now))
	if err != nil {
		return entity.Card{}, err
	}
	if snap == nil || snap.Symbol == "" {
		return entity.Card{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, sym)
	}

	// 今日を終端とする30日間のウィンドウで騰落率を算出する。
	// ウィンドウの取得失敗は致命的ではない: 2点未満の縮退入力と同じ扱いで0になる。
	from := now.AddDate(0, 0, -aggregateWindowDays).Format(TradingDayFormat)
	to := now.Format(TradingDayFormat)
	var closes []float64
	if aggs, err := e.market.GetAggregates(ctx, sym, from, to); err != nil {
		slog.Warn("failed to fetch aggregate window", "symbol", sym, "error", err)
	} else {
		closes = entity.Closes(aggs)
	}

	name := snap.CompanyName
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		name = sym
	}
	return entity.Card{
		Symbol:           NormalizeSymbol(snap.Symbol),
		DisplayName:      name,
		LastPrice:        snap.Close,
		VariationPercent: Variation(closes),
		LastUpdated:      now,
	}, nil
}

// registerBestEffort は銘柄をリモートレジストリに登録します。
// 失敗はログに記録されるのみで、呼び出し元の結果には影響しません。
func (e *Engine) registerBestEffort(symbol, companyName string) {
	ctx, cancel := context.WithTimeout(context.Background(), e.registerTimeout)
	defer cancel()
	if err := e.registry.RegisterStock(ctx, symbol, companyName); err != nil {
		slog.Warn("best-effort registry registration failed", "symbol", symbol, "error", err)
	}
}
