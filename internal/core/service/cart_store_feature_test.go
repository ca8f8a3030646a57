package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

type cartTestContext struct {
	cart *service.CartStore
}

func (c *cartTestContext) reset() {
	c.cart = service.NewCartStore(domain.CurrencyUSD, nil)
}

func (c *cartTestContext) anEmptyCart() error {
	c.reset()
	return nil
}

func (c *cartTestContext) iAddProductPriced(id, price string) error {
	m, err := domain.ParsePrice(price, domain.CurrencyUSD)
	if err != nil {
		return err
	}
	return c.cart.AddToCart(domain.ProductInput{ID: id, Name: "Product " + id, Price: m, Quantity: 1})
}

func (c *cartTestContext) theCartContainsProductWithQuantity(id, price string, quantity int) error {
	if err := c.iAddProductPriced(id, price); err != nil {
		return err
	}
	for i := 1; i < quantity; i++ {
		c.cart.IncrementQuantity(id)
	}
	return nil
}

func (c *cartTestContext) iRemoveProduct(id string) error {
	c.cart.RemoveFromCart(id)
	return nil
}

func (c *cartTestContext) iIncrementProduct(id string) error {
	c.cart.IncrementQuantity(id)
	return nil
}

func (c *cartTestContext) iDecrementProduct(id string) error {
	c.cart.DecrementQuantity(id)
	return nil
}

func (c *cartTestContext) theCartHasLineItems(n int) error {
	if c.cart.Len() != n {
		return fmt.Errorf("expected %d line items, got %d", n, c.cart.Len())
	}
	return nil
}

func (c *cartTestContext) theCartIsEmpty() error {
	return c.theCartHasLineItems(0)
}

func (c *cartTestContext) productHasQuantity(id string, quantity int) error {
	item, ok := c.cart.Item(id)
	if !ok {
		return fmt.Errorf("product %s not in cart", id)
	}
	if item.Quantity != quantity {
		return fmt.Errorf("expected quantity %d for %s, got %d", quantity, id, item.Quantity)
	}
	return nil
}

func (c *cartTestContext) theTotalIs(total string) error {
	if got := c.cart.Total().String(); got != total {
		return fmt.Errorf("expected total %s, got %s", total, got)
	}
	return nil
}

func (c *cartTestContext) theLineItemsAreInOrder(order string) error {
	ids := make([]string, 0, c.cart.Len())
	for _, item := range c.cart.Items() {
		ids = append(ids, item.ID)
	}
	if got := strings.Join(ids, ","); got != order {
		return fmt.Errorf("expected order %s, got %s", order, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^the cart contains product "([^"]*)" priced "([^"]*)" with quantity (\d+)$`, tc.theCartContainsProductWithQuantity)

	// When steps
	ctx.Step(`^I add product "([^"]*)" priced "([^"]*)"$`, tc.iAddProductPriced)
	ctx.Step(`^I remove product "([^"]*)"$`, tc.iRemoveProduct)
	ctx.Step(`^I increment product "([^"]*)"$`, tc.iIncrementProduct)
	ctx.Step(`^I decrement product "([^"]*)"$`, tc.iDecrementProduct)

	// Then steps
	ctx.Step(`^the cart has (\d+) line items$`, tc.theCartHasLineItems)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^product "([^"]*)" has quantity (\d+)$`, tc.productHasQuantity)
	ctx.Step(`^the total is "([^"]*)"$`, tc.theTotalIs)
	ctx.Step(`^the line items are in order "([^"]*)"$`, tc.theLineItemsAreInOrder)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/cart_store.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
