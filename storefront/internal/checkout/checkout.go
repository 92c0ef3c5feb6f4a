// Package checkout turns the cart into an order.
package checkout

import (
	"context"
	"errors"
	"log"
	"strings"

	"foodzone/storefront/internal/apiclient"
	"foodzone/storefront/internal/cart"
)

const (
	PaymentCOD    = "cod"
	PaymentOnline = "online"
)

var ErrNoOrder = errors.New("checkout: server returned no order")

type Details struct {
	Email         string
	Name          string
	Phone         string
	Address       string
	PaymentMethod string
}

// ValidationError lists every problem found before anything was sent.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "checkout: " + strings.Join(e.Problems, "; ")
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order apiclient.OrderRequest) (*apiclient.Order, error)
}

type Service struct {
	cart   *cart.Store
	orders OrderPlacer
}

func NewService(c *cart.Store, orders OrderPlacer) *Service {
	return &Service{cart: c, orders: orders}
}

func (d Details) validate(lines []cart.Line) error {
	var problems []string
	if len(lines) == 0 {
		problems = append(problems, "cart is empty")
	}
	required := []struct{ name, value string }{
		{"email", d.Email},
		{"name", d.Name},
		{"phone", d.Phone},
		{"address", d.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, f.name+" is required")
		}
	}
	switch d.PaymentMethod {
	case PaymentCOD, PaymentOnline:
	default:
		problems = append(problems, "payment method must be cod or online")
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			problems = append(problems, "invalid quantity for "+l.Name)
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// PlaceOrder submits the cart. The cart is cleared only after the server
// accepted the order.
func (s *Service) PlaceOrder(ctx context.Context, d Details) (*apiclient.Order, error) {
	lines, total := s.cart.Snapshot()
	if err := d.validate(lines); err != nil {
		return nil, err
	}

	order, err := s.orders.PlaceOrder(ctx, apiclient.OrderRequest{
		UserEmail:     strings.TrimSpace(d.Email),
		UserName:      strings.TrimSpace(d.Name),
		UserPhone:     strings.TrimSpace(d.Phone),
		UserAddress:   strings.TrimSpace(d.Address),
		Cart:          lines,
		Total:         total,
		PaymentMethod: d.PaymentMethod,
	})
	if err != nil {
		log.Printf("[storefront] checkout: place order for %s: %v", d.Email, err)
		return nil, err
	}
	if order == nil {
		return nil, ErrNoOrder
	}

	s.cart.Clear()
	return order, nil
}
