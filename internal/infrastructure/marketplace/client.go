// Package marketplace talks to the marketplace listings API.
package marketplace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/pkg/errcodes"
	"melidash/pkg/httpx"
	"melidash/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const maxErrorBody = 512

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	LogFieldMaxLen int
	// SkipBodyLogging keeps listing payloads out of the logs.
	SkipBodyLogging bool
}

func NewClient(cfg ClientConfig) *Client {
	opts := []httpx.Option{
		httpx.WithLogFieldMaxLen(cfg.LogFieldMaxLen),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
	}

	if cfg.SkipBodyLogging {
		opts = append(opts, httpx.WithoutBodies())
	}

	transport := httpx.NewLoggingRoundTripper(http.DefaultTransport, opts...)

	var rt http.RoundTripper = transport
	if cfg.Token != "" {
		rt = httpx.NewAuthBearerRoundTripper(transport, httpx.StaticToken(cfg.Token))
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Transport: rt,
			Timeout:   cfg.Timeout,
		},
	}
}

type item struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Price             float64   `json:"price"`
	AvailableQuantity int       `json:"available_quantity"`
	SoldQuantity      int       `json:"sold_quantity"`
	InitialQuantity   int       `json:"initial_quantity"`
	CostPrice         float64   `json:"cost_price,omitempty"`
	CategoryID        string    `json:"category_id"`
	Status            string    `json:"status"`
	DateCreated       time.Time `json:"date_created"`
}

func (i item) toDomain() entity.Product {
	return entity.Product{
		ID:                i.ID,
		Title:             i.Title,
		Price:             i.Price,
		AvailableQuantity: i.AvailableQuantity,
		SoldQuantity:      i.SoldQuantity,
		InitialQuantity:   i.InitialQuantity,
		CostPrice:         i.CostPrice,
		Category:          i.CategoryID,
		Status:            i.Status,
		DateCreated:       i.DateCreated,
	}
}

type itemsResponse struct {
	Results []item `json:"results"`
}

func (c *Client) GetMyProducts(ctx context.Context) ([]entity.Product, error) {
	var response itemsResponse
	if err := c.do(ctx, http.MethodGet, "/users/me/items", nil, &response); err != nil {
		return nil, domain.WrapError(err, errcodes.Unavailable, "marketplace listings are unavailable")
	}

	products := make([]entity.Product, 0, len(response.Results))
	for _, i := range response.Results {
		products = append(products, i.toDomain())
	}

	return products, nil
}

type priceUpdate struct {
	Price float64 `json:"price"`
}

func (c *Client) UpdateProduct(ctx context.Context, id string, price float64) error {
	endpoint := "/items/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, endpoint, priceUpdate{Price: price}, nil); err != nil {
		return domain.WrapError(err, errcodes.ProductUpdateError, "marketplace rejected the price update")
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, dest any) error {
	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s %s: status %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}
