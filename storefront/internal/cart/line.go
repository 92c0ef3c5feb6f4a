package cart

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is what a menu view hands to the cart.
type Product struct {
	ID    int
	Name  string
	Image string
	Price decimal.Decimal
}

// LineID identifies a cart line. Menu items of different sellers come from
// independent tables and may share numeric ids, so the owner email is part
// of the identity.
type LineID string

func NewLineID(productID int, ownerEmail string) LineID {
	id := strconv.Itoa(productID)
	if ownerEmail == "" {
		return LineID(id)
	}
	return LineID(id + ":" + strings.ToLower(ownerEmail))
}

type Line struct {
	ID         int             `json:"id"`
	OwnerEmail string          `json:"ownerEmail,omitempty"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

func (l Line) Key() LineID {
	return NewLineID(l.ID, l.OwnerEmail)
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
