package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"rendezvous/internal/domain"
)

// Client reads the café's menu and table list from the public API.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.get(ctx, "/api/products/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Tables(ctx context.Context) ([]domain.Table, error) {
	var out []domain.Table
	if err := c.get(ctx, "/api/tables", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("catalog %s: status %d: %s", path, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("catalog %s: %w", path, err)
	}
	return nil
}
