package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"watchlist_backend/internal/feature/watchlist/adapters/polygon/dto"
	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
)

// statusOK はプロバイダーがデータを持つ場合のステータス値です。
const statusOK = "OK"

// Client はPolygon外部APIから株価データを取得するMarketRepository実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// GetDailyOpenClose は指定日の始値終値スナップショットを取得します。
// プロバイダーが404またはstatus != "OK"を返した場合、オプションフィールドを
// 探るのではなく usecase.ErrSymbolNotFound として明示的に区別します。
func (c *Client) GetDailyOpenClose(ctx context.Context, symbol, date string) (*entity.Snapshot, error) {
	u := fmt.Sprintf("%s/v1/open-close/%s/%s?adjusted=true&apiKey=%s",
		c.cfg.BaseURL, url.PathEscape(symbol), url.PathEscape(date), url.QueryEscape(c.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrProviderUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	// 未知の銘柄・休場日はプロバイダー側では404で表現される
	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s at %s", usecase.ErrSymbolNotFound, symbol, date)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: polygon http %d", usecase.ErrProviderUnavailable, res.StatusCode)
	}

	var body dto.OpenCloseResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode open/close response: %w", err)
	}
	if body.Status != statusOK {
		return nil, fmt.Errorf("%w: %s at %s", usecase.ErrSymbolNotFound, symbol, date)
	}

	return &entity.Snapshot{
		Symbol:      body.Symbol,
		CompanyName: body.From,
		Open:        body.Open,
		Close:       body.Close,
	}, nil
}

// GetAggregates は指定期間の日足OHLCVバーを時系列順（昇順）に取得します。
// 期間内に取引日がない場合は空スライスを返します（エラーにはしません）。
func (c *Client) GetAggregates(ctx context.Context, symbol, from, to string) ([]entity.Aggregate, error) {
	u := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&apiKey=%s",
		c.cfg.BaseURL, url.PathEscape(symbol), url.PathEscape(from), url.PathEscape(to),
		url.QueryEscape(c.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrProviderUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: polygon http %d", usecase.ErrProviderUnavailable, res.StatusCode)
	}

	var body dto.AggregatesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode aggregates response: %w", err)
	}

	aggs := make([]entity.Aggregate, 0, len(body.Results))
	for _, bar := range body.Results {
		aggs = append(aggs, entity.Aggregate{
			Time:   time.UnixMilli(bar.T).UTC(),
			Open:   bar.O,
			High:   bar.H,
			Low:    bar.L,
			Close:  bar.C,
			Volume: bar.V,
		})
	}
	return aggs, nil
}
