package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"watchlist_backend/internal/feature/watchlist/adapters/registry/dto"
	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
)

// maxPages はGET /stocksのページ追跡の上限です。
// レジストリの応答が壊れていてもページングが無限に続かないようにします。
const maxPages = 50

// Client はリモート銘柄レジストリのRegistryRepository実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがRegistryRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.RegistryRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// ListStocks はレジストリに登録済みの全銘柄を取得します。
// レスポンスはページングされたエンベロープのため、全ページを辿って返します。
func (c *Client) ListStocks(ctx context.Context) ([]entity.RegisteredStock, error) {
	var out []entity.RegisteredStock
	for page := 0; page < maxPages; page++ {
		body, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, item := range body.Content {
			out = append(out, entity.RegisteredStock{
				Symbol:      item.StockSymbol,
				CompanyName: item.CompanyName,
			})
		}
		if page+1 >= body.TotalPages {
			break
		}
	}
	return out, nil
}

// fetchPage はGET /stocksの1ページ分を取得します。
func (c *Client) fetchPage(ctx context.Context, page int) (*dto.StockPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	u := fmt.Sprintf("%s/stocks", c.cfg.BaseURL)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("registry http %d", res.StatusCode)
	}

	var body dto.StockPage
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}
	return &body, nil
}

// RegisterStock は銘柄をレジストリに登録します。
// レジストリは価格を追跡しないため、価格系フィールドは0で送信します。
func (c *Client) RegisterStock(ctx context.Context, symbol, companyName string) error {
	payload, err := json.Marshal(dto.StockItem{
		StockSymbol: symbol,
		CompanyName: companyName,
		Price:       0,
		Variation:   0,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal registration: %w", err)
	}

	u := fmt.Sprintf("%s/stocks", c.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("registry http %d", res.StatusCode)
	}
	return nil
}
