package shopservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client HTTP клиент для ShopService (каталог магазинов)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый клиент ShopService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetShop получает магазин по ID через внутренний API ShopService
func (c *Client) GetShop(ctx context.Context, shopID string) (*Shop, error) {
	url := fmt.Sprintf("%s/internal/shops/%s", c.baseURL, shopID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: GetShop - create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("[ShopService] GetShop - request failed: %v", err)
		return nil, fmt.Errorf("%w: GetShop - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var shop Shop
		if err := json.NewDecoder(resp.Body).Decode(&shop); err != nil {
			return nil, fmt.Errorf("%w: GetShop - decode response: %v", ErrInvalidResponse, err)
		}
		return &shop, nil

	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: shop %s", ErrShopNotFound, shopID)

	default:
		c.log.Warn("[ShopService] GetShop - unexpected status %d for shop %s", resp.StatusCode, shopID)
		return nil, fmt.Errorf("%w: GetShop - unexpected status code %d", ErrInternal, resp.StatusCode)
	}
}
