package service

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
)

// CartStore holds the ordered line items of one cart and applies the cart
// commands to them. It is not safe for concurrent use; the owning session
// serialises access.
type CartStore struct {
	currency string
	items    []domain.LineItem
	logger   *zap.Logger
}

func NewCartStore(currency string, logger *zap.Logger) *CartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartStore{
		currency: currency,
		logger:   logger,
	}
}

// AddToCart appends a new line item at quantity 1, or bumps the quantity of
// the existing one. An existing line keeps the name, price and image it was
// first added with. Items priced in another currency than the cart are
// rejected.
func (c *CartStore) AddToCart(in domain.ProductInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.Price.Currency != c.currency {
		return fmt.Errorf("%w: currency %s, cart is %s", domain.ErrInvalidInput, in.Price.Currency, c.currency)
	}

	if i := c.indexOf(in.ID); i >= 0 {
		c.items[i].Quantity++
		return nil
	}

	c.items = append(c.items, domain.LineItem{
		ID:       in.ID,
		Name:     in.Name,
		Price:    in.Price,
		Image:    in.Image,
		Quantity: 1,
	})
	return nil
}

func (c *CartStore) RemoveFromCart(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
	}
}

func (c *CartStore) IncrementQuantity(id string) {
	if i := c.indexOf(id); i >= 0 {
		c.items[i].Quantity++
	}
}

// DecrementQuantity lowers the quantity by one and drops the line item once
// it would fall below one.
func (c *CartStore) DecrementQuantity(id string) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	if c.items[i].Quantity <= 1 {
		c.items = slices.Delete(c.items, i, i+1)
		return
	}
	c.items[i].Quantity--
}

// Items returns a copy of the line items in display order.
func (c *CartStore) Items() []domain.LineItem {
	return slices.Clone(c.items)
}

func (c *CartStore) Item(id string) (domain.LineItem, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	return domain.LineItem{}, false
}

func (c *CartStore) Len() int {
	return len(c.items)
}

// Total sums price times quantity over all line items. A line priced in a
// different currency than the cart contributes nothing and is reported.
func (c *CartStore) Total() domain.Money {
	total := domain.NewMoney(0, c.currency)
	for _, item := range c.items {
		if item.Price.Currency != c.currency {
			c.logger.Error("line item currency mismatch, excluded from total",
				zap.String("product_id", item.ID),
				zap.String("item_currency", item.Price.Currency),
				zap.String("cart_currency", c.currency),
			)
			continue
		}
		total = total.Add(item.Subtotal())
	}
	return total
}

// View returns the items together with the derived total.
func (c *CartStore) View() domain.CartView {
	return domain.CartView{
		Items: c.Items(),
		Total: c.Total(),
	}
}

func (c *CartStore) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(item domain.LineItem) bool {
		return item.ID == id
	})
}
