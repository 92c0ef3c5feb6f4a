package service

import (
	"context"
	"io"

	"foodzone/api-svc/internal/domain"
)

type UserRepository interface {
	CreateUser(user *domain.User) error
	GetUser(email string) (*domain.User, error)
	ListUsersExcept(email string) ([]domain.User, error)
	GetRole(email string) (string, error)
	UpdateRole(email, role string) (*domain.User, error)
	GetStatus(email string) (string, error)
	SetStatus(email, status string) error
	UpdateProfile(email string, update domain.ProfileUpdate) (*domain.User, error)
}

type RestaurantRepository interface {
	CreateRestaurant(rest *domain.Restaurant) error
	ListRestaurants() ([]domain.Restaurant, error)
	ListRestaurantsByOwner(email string) ([]domain.Restaurant, error)
	GetRestaurantMenu(id int) (*domain.RestaurantMenu, error)
	DeleteRestaurant(id int) (int64, error)
}

type MenuRepository interface {
	CreateMenuItem(item *domain.MenuItem) error
	GetMenuItem(id int) (*domain.MenuItem, error)
	ListMenuByOwner(email string) ([]domain.SellerMenuItem, error)
	UpdateMenuItem(id int, patch domain.MenuPatch) (*domain.MenuItem, error)
	DeleteMenuItem(id int) (int64, error)
	TopMenuItems(limit int) ([]domain.MenuItem, error)
	MenuItemsByID(ids []int) ([]domain.MenuItem, error)
}

type OrderRepository interface {
	CreateOrder(order *domain.Order) error
	SaveQRCode(orderID int, qr []byte) error
	GetQRCode(orderID int) ([]byte, error)
	GetOrder(orderID int) (*domain.Order, error)
	ListOrders() ([]domain.Order, error)
	ListOrdersByUser(email string) ([]domain.Order, error)
	UpdateOrderStatus(orderID int, orderStatus, paymentStatus string) error
}

type RoleCache interface {
	GetRole(ctx context.Context, email string) (string, bool, error)
	SetRole(ctx context.Context, email, role string) error
	InvalidateRole(ctx context.Context, email string) error
}

type PopularityCache interface {
	TopMenuIDs(ctx context.Context, limit int) ([]int, error)
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderEvent) error
}

// OrderNotifier pushes a freshly placed order to interested sellers.
type OrderNotifier interface {
	NotifyOrder(order domain.Order)
}

type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (email string, err error)
}

type UserServiceInterface interface {
	Register(ctx context.Context, req domain.NewUser) (*domain.User, error)
	Get(email string) (*domain.User, error)
	ListExcept(email string) ([]domain.User, error)
	Role(ctx context.Context, email string) (string, error)
	UpdateRole(ctx context.Context, email, role string) (*domain.User, error)
	RequestSeller(email string) (alreadyRequested bool, err error)
	UpdateProfile(email string, update domain.ProfileUpdate) (*domain.User, error)
}

type RestaurantServiceInterface interface {
	Create(rest *domain.Restaurant) error
	List() ([]domain.Restaurant, error)
	ListByOwner(email string) ([]domain.Restaurant, error)
	Menu(id int) (*domain.RestaurantMenu, error)
	Delete(id int) error
}

type MenuServiceInterface interface {
	Create(item *domain.MenuItem) error
	Get(id int) (*domain.MenuItem, error)
	ListByOwner(email string) ([]domain.SellerMenuItem, error)
	Update(id int, patch domain.MenuPatch) (*domain.MenuItem, error)
	Delete(id int) error
	Popular(ctx context.Context, limit int) ([]domain.MenuItem, error)
}

type OrderServiceInterface interface {
	Place(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error)
	ListByUser(email string) ([]domain.Order, error)
	ListBySeller(email string) ([]domain.Order, error)
	ExportSeller(email string, w io.Writer) error
	UpdateStatus(orderID int, status string) error
	GetQRCode(orderID int) ([]byte, error)
	QRLink(orderID int) string
}

type TokenServiceInterface interface {
	Issue(ctx context.Context, req domain.TokenRequest) (string, error)
	Verify(token string) (*Claims, error)
}
