package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUserExists    = errors.New("user already exists")
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidToken  = errors.New("unauthorized access")
	ErrForbidden     = errors.New("forbidden access")
)

const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
	RoleUser   = "user"

	StatusRequested = "requested"
	StatusApproved  = "approved"

	PaymentCOD     = "cod"
	PaymentPending = "pending"
	PaymentPaid    = "paid"

	OrderPending   = "pending"
	OrderDelivered = "delivered"

	EventOrderPlaced = "order_placed"
)

type User struct {
	ID         int        `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Photo      string     `json:"photo"`
	Phone      string     `json:"phone"`
	Address    string     `json:"address"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	LastSignIn *time.Time `json:"last_sign_in,omitempty"`
}

type NewUser struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

type ProfileUpdate struct {
	Name    string `json:"name"`
	Photo   string `json:"photo"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Restaurant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address"`
	Cuisine   string    `json:"cuisine"`
	Image     string    `json:"image"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
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
	CreatedAt    time.Time       `json:"created_at"`
}

// SellerMenuItem is a menu row as the seller console lists it.
type SellerMenuItem struct {
	MenuItem
	FoodName       string `json:"food_name"`
	RestaurantName string `json:"restaurant_name"`
}

// MenuPatch carries only the fields a partial update sets.
type MenuPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Image       *string          `json:"image"`
}

func (p MenuPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Category == nil && p.Image == nil
}

type RestaurantMenu struct {
	Restaurant
	Menu []MenuItem `json:"menu"`
}

// OrderLine is one cart line as the storefront submits it.
type OrderLine struct {
	ID         int             `json:"id"`
	OwnerEmail string          `json:"ownerEmail,omitempty"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID            int             `json:"id"`
	UserEmail     string          `json:"user_email"`
	UserName      string          `json:"user_name"`
	UserPhone     string          `json:"user_phone"`
	UserAddress   string          `json:"user_address"`
	Items         []OrderLine     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	OrderStatus   string          `json:"order_status"`
	TrackingID    string          `json:"tracking_id"`
	QRCode        string          `json:"qr_code,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ForSeller narrows the order to the lines owned by email and recomputes
// the total over them. ok is false when none of the lines belong to email.
func (o Order) ForSeller(email string) (Order, bool) {
	var lines []OrderLine
	total := decimal.Zero
	for _, l := range o.Items {
		if strings.EqualFold(l.OwnerEmail, email) {
			lines = append(lines, l)
			total = total.Add(l.Subtotal())
		}
	}
	if len(lines) == 0 {
		return Order{}, false
	}
	o.Items = lines
	o.Total = total
	return o, true
}

// Sellers lists the distinct owner emails of the order's lines.
func (o Order) Sellers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range o.Items {
		key := strings.ToLower(l.OwnerEmail)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

type PlaceOrderRequest struct {
	UserEmail     string           `json:"user_email"`
	UserName      string           `json:"user_name"`
	UserPhone     string           `json:"user_phone"`
	UserAddress   string           `json:"user_address"`
	Cart          []OrderLine      `json:"cart"`
	Total         *decimal.Decimal `json:"total"`
	PaymentMethod string           `json:"paymentMethod"`
}

type TokenRequest struct {
	Email   string `json:"email"`
	UID     string `json:"uid"`
	IDToken string `json:"idToken"`
}

type OrderEventItem struct {
	MenuID   int `json:"menu_id"`
	Quantity int `json:"quantity"`
}

type OrderEvent struct {
	Type      string           `json:"type"`
	OrderID   int              `json:"order_id"`
	Items     []OrderEventItem `json:"items"`
	Timestamp time.Time        `json:"timestamp"`
}
