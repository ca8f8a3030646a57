package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductInputValidate(t *testing.T) {
	valid := ProductInput{ID: "1", Name: "Backpack", Price: NewMoney(10995, CurrencyUSD)}
	assert.NoError(t, valid.Validate())

	free := valid
	free.Price.Amount = 0
	assert.NoError(t, free.Validate())

	for name, in := range map[string]ProductInput{
		"missing id":       {Name: "x", Price: NewMoney(1, CurrencyUSD)},
		"missing name":     {ID: "1", Price: NewMoney(1, CurrencyUSD)},
		"missing currency": {ID: "1", Name: "x", Price: Money{Amount: 1}},
		"negative price":   {ID: "1", Name: "x", Price: NewMoney(-1, CurrencyUSD)},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, in.Validate(), ErrInvalidInput)
		})
	}
}

func TestProductCartInput(t *testing.T) {
	p := Product{ID: "3", Title: "Jacket", Price: NewMoney(5599, CurrencyUSD), Image: "img", Category: "men's clothing"}
	in := p.CartInput()
	assert.Equal(t, ProductInput{ID: "3", Name: "Jacket", Price: NewMoney(5599, CurrencyUSD), Image: "img", Quantity: 1}, in)
}

func TestLineItemSubtotal(t *testing.T) {
	li := LineItem{ID: "1", Price: NewMoney(1000, CurrencyUSD), Quantity: 2}
	assert.Equal(t, "20.00", li.Subtotal().String())
}

func TestUserValidate(t *testing.T) {
	assert.NoError(t, User{Email: "a@b.c", Name: "A"}.Validate())
	assert.ErrorIs(t, User{Email: "ab.c", Name: "A"}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, User{Email: "a@b.c"}.Validate(), ErrInvalidInput)
}
