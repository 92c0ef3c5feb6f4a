package mocks

import (
	"context"
	"io"

	"foodzone/api-svc/internal/domain"
	"foodzone/api-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type UserServiceInterface struct {
	mock.Mock
}

func NewUserServiceInterface(t testingT) *UserServiceInterface {
	m := &UserServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (m *UserServiceInterface) Register(ctx context.Context, req domain.NewUser) (*domain.User, error) {
	ret := m.Called(ctx, req)
	user, _ := ret.Get(0).(*domain.User)
	return user, ret.Error(1)
}

func (m *UserServiceInterface) Get(email string) (*domain.User, error) {
	ret := m.Called(email)
	user, _ := ret.Get(0).(*domain.User)
	return user, ret.Error(1)
}

func (m *UserServiceInterface) ListExcept(email string) ([]domain.User, error) {
	ret := m.Called(email)
	users, _ := ret.Get(0).([]domain.User)
	return users, ret.Error(1)
}

func (m *UserServiceInterface) Role(ctx context.Context, email string) (string, error) {
	ret := m.Called(ctx, email)
	return ret.String(0), ret.Error(1)
}

func (m *UserServiceInterface) UpdateRole(ctx context.Context, email, role string) (*domain.User, error) {
	ret := m.Called(ctx, email, role)
	user, _ := ret.Get(0).(*domain.User)
	return user, ret.Error(1)
}

func (m *UserServiceInterface) RequestSeller(email string) (bool, error) {
	ret := m.Called(email)
	return ret.Bool(0), ret.Error(1)
}

func (m *UserServiceInterface) UpdateProfile(email string, update domain.ProfileUpdate) (*domain.User, error) {
	ret := m.Called(email, update)
	user, _ := ret.Get(0).(*domain.User)
	return user, ret.Error(1)
}

type RestaurantServiceInterface struct {
	mock.Mock
}

func NewRestaurantServiceInterface(t testingT) *RestaurantServiceInterface {
	m := &RestaurantServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (m *RestaurantServiceInterface) Create(rest *domain.Restaurant) error {
	return m.Called(rest).Error(0)
}

func (m *RestaurantServiceInterface) List() ([]domain.Restaurant, error) {
	ret := m.Called()
	list, _ := ret.Get(0).([]domain.Restaurant)
	return list, ret.Error(1)
}

func (m *RestaurantServiceInterface) ListByOwner(email string) ([]domain.Restaurant, error) {
	ret := m.Called(email)
	list, _ := ret.Get(0).([]domain.Restaurant)
	return list, ret.Error(1)
}

func (m *RestaurantServiceInterface) Menu(id int) (*domain.RestaurantMenu, error) {
	ret := m.Called(id)
	menu, _ := ret.Get(0).(*domain.RestaurantMenu)
	return menu, ret.Error(1)
}

func (m *RestaurantServiceInterface) Delete(id int) error {
	return m.Called(id).Error(0)
}

type MenuServiceInterface struct {
	mock.Mock
}

func NewMenuServiceInterface(t testingT) *MenuServiceInterface {
	m := &MenuServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (m *MenuServiceInterface) Create(item *domain.MenuItem) error {
	return m.Called(item).Error(0)
}

func (m *MenuServiceInterface) Get(id int) (*domain.MenuItem, error) {
	ret := m.Called(id)
	item, _ := ret.Get(0).(*domain.MenuItem)
	return item, ret.Error(1)
}

func (m *MenuServiceInterface) ListByOwner(email string) ([]domain.SellerMenuItem, error) {
	ret := m.Called(email)
	items, _ := ret.Get(0).([]domain.SellerMenuItem)
	return items, ret.Error(1)
}

func (m *MenuServiceInterface) Update(id int, patch domain.MenuPatch) (*domain.MenuItem, error) {
	ret := m.Called(id, patch)
	item, _ := ret.Get(0).(*domain.MenuItem)
	return item, ret.Error(1)
}

func (m *MenuServiceInterface) Delete(id int) error {
	return m.Called(id).Error(0)
}

func (m *MenuServiceInterface) Popular(ctx context.Context, limit int) ([]domain.MenuItem, error) {
	ret := m.Called(ctx, limit)
	items, _ := ret.Get(0).([]domain.MenuItem)
	return items, ret.Error(1)
}

type OrderServiceInterface struct {
	mock.Mock
}

func NewOrderServiceInterface(t testingT) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (m *OrderServiceInterface) Place(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error) {
	ret := m.Called(ctx, req)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (m *OrderServiceInterface) ListByUser(email string) ([]domain.Order, error) {
	ret := m.Called(email)
	orders, _ := ret.Get(0).([]domain.Order)
	return orders, ret.Error(1)
}

func (m *OrderServiceInterface) ListBySeller(email string) ([]domain.Order, error) {
	ret := m.Called(email)
	orders, _ := ret.Get(0).([]domain.Order)
	return orders, ret.Error(1)
}

// ExportSeller writes the string given as the mock's first return value.
func (m *OrderServiceInterface) ExportSeller(email string, w io.Writer) error {
	ret := m.Called(email, w)
	if body, ok := ret.Get(0).(string); ok {
		io.WriteString(w, body)
	}
	return ret.Error(1)
}

func (m *OrderServiceInterface) UpdateStatus(orderID int, status string) error {
	return m.Called(orderID, status).Error(0)
}

func (m *OrderServiceInterface) GetQRCode(orderID int) ([]byte, error) {
	ret := m.Called(orderID)
	qr, _ := ret.Get(0).([]byte)
	return qr, ret.Error(1)
}

func (m *OrderServiceInterface) QRLink(orderID int) string {
	return m.Called(orderID).String(0)
}

type TokenServiceInterface struct {
	mock.Mock
}

func NewTokenServiceInterface(t testingT) *TokenServiceInterface {
	m := &TokenServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (m *TokenServiceInterface) Issue(ctx context.Context, req domain.TokenRequest) (string, error) {
	ret := m.Called(ctx, req)
	return ret.String(0), ret.Error(1)
}

func (m *TokenServiceInterface) Verify(token string) (*service.Claims, error) {
	ret := m.Called(token)
	claims, _ := ret.Get(0).(*service.Claims)
	return claims, ret.Error(1)
}
