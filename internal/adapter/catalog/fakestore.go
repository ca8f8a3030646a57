package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
)

const DefaultBaseURL = "https://fakestoreapi.com"

// fakeStoreProduct is the wire shape of a fakestoreapi.com product.
type fakeStoreProduct struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

func (p fakeStoreProduct) toDomain(currency string) (domain.Product, error) {
	price, err := domain.MoneyFromFloat(p.Price, currency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("catalog product %d: %w", p.ID, err)
	}
	return domain.Product{
		ID:          strconv.FormatInt(p.ID, 10),
		Title:       p.Title,
		Price:       price,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
	}, nil
}

// FakeStoreClient reads products from a fakestoreapi.com compatible API.
type FakeStoreClient struct {
	baseURL  *url.URL
	http     *http.Client
	currency string
}

func NewFakeStoreClient(baseURL string, timeout time.Duration, currency string) (*FakeStoreClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FakeStoreClient{
		baseURL:  u,
		http:     &http.Client{Timeout: timeout},
		currency: currency,
	}, nil
}

func (c *FakeStoreClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var wire []fakeStoreProduct
	if err := c.get(ctx, "/products", &wire); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(wire))
	for _, p := range wire {
		product, err := p.toDomain(c.currency)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (c *FakeStoreClient) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	if _, err := strconv.ParseInt(productID, 10, 64); err != nil {
		return domain.Product{}, domain.ErrProductNotFound
	}

	var wire *fakeStoreProduct
	if err := c.get(ctx, "/products/"+url.PathEscape(productID), &wire); err != nil {
		return domain.Product{}, err
	}
	// the API answers unknown ids with 200 and an empty body
	if wire == nil || wire.ID == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return wire.toDomain(c.currency)
}

func (c *FakeStoreClient) get(ctx context.Context, path string, out any) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: c.baseURL.Path + path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("catalog request %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("catalog read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("catalog decode %s: %w", path, err)
	}
	return nil
}
