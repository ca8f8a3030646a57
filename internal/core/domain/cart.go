package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

// LineItem is one product's entry in a cart.
type LineItem struct {
	ID       string
	Name     string
	Price    Money
	Image    string
	Quantity int
}

// Subtotal is the unit price times quantity.
func (li LineItem) Subtotal() Money {
	return li.Price.Mul(li.Quantity)
}

// ProductInput is the payload accepted by the add-to-cart command.
type ProductInput struct {
	ID    string
	Name  string
	Price Money
	Image string
	// Quantity is ignored when the product is not yet in the cart: new line
	// items always start at one unit.
	Quantity int
}

func (in ProductInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Price.Currency) == "" {
		missing = append(missing, "price.currency")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if in.Price.Amount < 0 {
		return fmt.Errorf("%w: negative price %d", ErrInvalidInput, in.Price.Amount)
	}
	return nil
}

// CartView is a read-only snapshot of a cart with its derived total.
type CartView struct {
	Items []LineItem
	Total Money
}
