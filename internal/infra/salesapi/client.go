package salesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/usecase"
)

// Sales_System（Django側）の商品APIクライアント。
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) FetchProducts(ctx context.Context) ([]usecase.SalesProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/products/", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sales api returned status %d", resp.StatusCode)
	}

	var items []usecase.SalesProduct
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode sales products: %w", err)
	}
	return items, nil
}
