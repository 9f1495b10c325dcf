package domain

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

var ErrValidation = errors.New("validation failed")

// FieldError rejects a value for a numeric product field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + " " + e.Reason }

func (e *FieldError) Unwrap() error { return ErrValidation }

var (
	ErrNegativeQuantity = &FieldError{Field: "quantity", Reason: "cannot be negative"}
	ErrNegativePrice    = &FieldError{Field: "price", Reason: "cannot be negative"}
	ErrNonFinitePrice   = &FieldError{Field: "price", Reason: "must be a finite number"}
)

// Product is one inventory item. The id and name are fixed at construction;
// quantity and price only change through their validating setters.
type Product struct {
	id       string
	name     string
	quantity int
	price    float64
}

// NewProduct does not validate quantity or price. Rows loaded from storage and
// legacy callers rely on that; use Validate when uniform checking is wanted.
func NewProduct(id, name string, quantity int, price float64) Product {
	return Product{id: id, name: name, quantity: quantity, price: price}
}

func (p Product) ID() string { return p.id }
func (p Product) Name() string { return p.name }
func (p Product) Quantity() int { return p.quantity }
func (p Product) Price() float64 { return p.price }

func (p *Product) SetQuantity(quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	p.quantity = quantity
	return nil
}

// SetPrice accepts any finite price >= 0. NaN and both infinities are
// rejected; storage cannot hold them.
func (p *Product) SetPrice(price float64) error {
	if err := checkPrice(price); err != nil {
		return err
	}
	p.price = price
	return nil
}

func checkPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return ErrNonFinitePrice
	}
	if price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Validate reports the first field that a setter would have rejected.
func (p Product) Validate() error {
	if p.quantity < 0 {
		return ErrNegativeQuantity
	}
	return checkPrice(p.price)
}

func (p Product) String() string {
	return fmt.Sprintf("ID: %s | Producto: %s | Stock: %d | Precio: $%.2f", p.id, p.name, p.quantity, p.price)
}
