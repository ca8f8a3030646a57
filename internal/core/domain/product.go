package domain

import "errors"

var ErrProductNotFound = errors.New("product not found")

// Product is a catalog record.
type Product struct {
	ID          string
	Title       string
	Price       Money
	Description string
	Image       string
	Category    string
}

// CartInput maps a catalog product to an add-to-cart payload.
func (p Product) CartInput() ProductInput {
	return ProductInput{
		ID:       p.ID,
		Name:     p.Title,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	}
}
