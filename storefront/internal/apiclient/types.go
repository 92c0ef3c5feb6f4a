package apiclient

import (
	"time"

	"foodzone/storefront/internal/cart"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Photo     string    `json:"photo"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ProfileUpdate struct {
	Name    string `json:"name"`
	Photo   string `json:"photo"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Restaurant struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	Cuisine string `json:"cuisine"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Owner   string `json:"owner,omitempty"`
}

type MenuItem struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Image        string          `json:"image"`
	RestaurantID int             `json:"restaurant_id"`
	OwnerEmail   string          `json:"owner_email"`
	OrderCount   int             `json:"order_count"`
}

// Product converts a menu item into what the cart stores.
func (m MenuItem) Product() cart.Product {
	return cart.Product{ID: m.ID, Name: m.Name, Image: m.Image, Price: m.Price}
}

// SellerMenuItem is a menu row as the seller console lists it.
type SellerMenuItem struct {
	MenuItem
	FoodName       string `json:"food_name"`
	RestaurantName string `json:"restaurant_name"`
}

// MenuPatch carries only the fields an update sets.
type MenuPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Image       *string          `json:"image,omitempty"`
}

type RestaurantMenu struct {
	Restaurant
	Menu []MenuItem `json:"menu"`
}

type OrderRequest struct {
	UserEmail     string          `json:"user_email"`
	UserName      string          `json:"user_name"`
	UserPhone     string          `json:"user_phone"`
	UserAddress   string          `json:"user_address"`
	Cart          []cart.Line     `json:"cart"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
}

type Order struct {
	ID            int             `json:"id"`
	UserEmail     string          `json:"user_email"`
	UserName      string          `json:"user_name"`
	UserPhone     string          `json:"user_phone"`
	UserAddress   string          `json:"user_address"`
	Items         []cart.Line     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	OrderStatus   string          `json:"order_status"`
	TrackingID    string          `json:"tracking_id"`
	CreatedAt     time.Time       `json:"created_at"`
}
