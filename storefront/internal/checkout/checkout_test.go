package checkout_test

import (
	"context"
	"errors"
	"testing"

	"foodzone/storefront/internal/apiclient"
	"foodzone/storefront/internal/cart"
	"foodzone/storefront/internal/checkout"
	"foodzone/storefront/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type placerStub struct {
	got   *apiclient.OrderRequest
	order *apiclient.Order
	err   error
}

func (p *placerStub) PlaceOrder(_ context.Context, order apiclient.OrderRequest) (*apiclient.Order, error) {
	p.got = &order
	return p.order, p.err
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	c := cart.New(storage.NewMemory())
	c.AddItem(cart.Product{ID: 1, Name: "Pizza", Price: decimal.RequireFromString("9.50")}, 2, "chef@x.com")
	c.AddItem(cart.Product{ID: 2, Name: "Soda", Price: decimal.RequireFromString("1.25")}, 1, "")
	return c
}

var details = checkout.Details{
	Email:         "ana@x.com",
	Name:          "Ana",
	Phone:         "555-0100",
	Address:       "1 Main St",
	PaymentMethod: checkout.PaymentCOD,
}

func TestPlaceOrder_SendsCartAndClears(t *testing.T) {
	c := filledCart(t)
	placer := &placerStub{order: &apiclient.Order{ID: 7, PaymentStatus: "pending"}}
	svc := checkout.NewService(c, placer)

	order, err := svc.PlaceOrder(context.Background(), details)
	require.NoError(t, err)

	assert.Equal(t, 7, order.ID)
	require.NotNil(t, placer.got)
	assert.Equal(t, "ana@x.com", placer.got.UserEmail)
	assert.Equal(t, "cod", placer.got.PaymentMethod)
	assert.Len(t, placer.got.Cart, 2)
	assert.True(t, decimal.RequireFromString("20.25").Equal(placer.got.Total))
	assert.Equal(t, 0, c.Len())
}

func TestPlaceOrder_FailureKeepsCart(t *testing.T) {
	c := filledCart(t)
	svc := checkout.NewService(c, &placerStub{err: &apiclient.Error{Status: 500, Message: "boom"}})

	_, err := svc.PlaceOrder(context.Background(), details)

	assert.Error(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestPlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name     string
		details  checkout.Details
		empty    bool
		problems int
	}{
		{name: "empty cart", details: details, empty: true, problems: 1},
		{name: "missing phone and address", details: checkout.Details{
			Email: "ana@x.com", Name: "Ana", PaymentMethod: checkout.PaymentOnline,
		}, problems: 2},
		{name: "bad payment method", details: checkout.Details{
			Email: "ana@x.com", Name: "Ana", Phone: "1", Address: "x", PaymentMethod: "card",
		}, problems: 1},
		{name: "blank everything", details: checkout.Details{Name: "  "}, empty: true, problems: 6},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			c := filledCart(t)
			if testCase.empty {
				c.Clear()
			}
			placer := &placerStub{}
			svc := checkout.NewService(c, placer)

			_, err := svc.PlaceOrder(context.Background(), testCase.details)

			var verr *checkout.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Len(t, verr.Problems, testCase.problems)
			assert.Nil(t, placer.got, "nothing sent")
			if !testCase.empty {
				assert.Equal(t, 2, c.Len())
			}
		})
	}
}
