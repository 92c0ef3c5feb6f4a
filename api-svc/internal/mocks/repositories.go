// Package mocks holds testify mocks for the service collaborators.
package mocks

import (
	"foodzone/api-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

type UserRepository struct {
	mock.Mock
}

func NewUserRepository(t testingT) *UserRepository {
	m := &UserRepository{}
	register(&m.Mock, t)
	return m
}

func (m *UserRepository) CreateUser(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *UserRepository) GetUser(email string) (*domain.User, error) {
	ret := m.Called(email)
	user, _ := ret.Get(0).(*domain.User)
	return user, ret.Error(1)
}

func (m *UserRepository) ListUsersExcept(email string) ([]domain.User, error) {
	ret := m.Called(email)
	users, _ := ret.Get(0).([]domain.User)
	return users, ret.Error(1)
}

func (m *UserRepository) GetRole(email string) (string, error) {
	ret := m.Called(email)
	return ret.String(0), ret.Error(1)
}

func (m *UserRepository) UpdateRole(email, role string) (*domain.User, error) {
	ret := m.Called(email, role)
	user, _ := ret.Get(0).(*domain.User)
	return user, ret.Error(1)
}

func (m *UserRepository) GetStatus(email string) (string, error) {
	ret := m.Called(email)
	return ret.String(0), ret.Error(1)
}

func (m *UserRepository) SetStatus(email, status string) error {
	return m.Called(email, status).Error(0)
}

func (m *UserRepository) UpdateProfile(email string, update domain.ProfileUpdate) (*domain.User, error) {
	ret := m.Called(email, update)
	user, _ := ret.Get(0).(*domain.User)
	return user, ret.Error(1)
}

type RestaurantRepository struct {
	mock.Mock
}

func NewRestaurantRepository(t testingT) *RestaurantRepository {
	m := &RestaurantRepository{}
	register(&m.Mock, t)
	return m
}

func (m *RestaurantRepository) CreateRestaurant(rest *domain.Restaurant) error {
	return m.Called(rest).Error(0)
}

func (m *RestaurantRepository) ListRestaurants() ([]domain.Restaurant, error) {
	ret := m.Called()
	list, _ := ret.Get(0).([]domain.Restaurant)
	return list, ret.Error(1)
}

func (m *RestaurantRepository) ListRestaurantsByOwner(email string) ([]domain.Restaurant, error) {
	ret := m.Called(email)
	list, _ := ret.Get(0).([]domain.Restaurant)
	return list, ret.Error(1)
}

func (m *RestaurantRepository) GetRestaurantMenu(id int) (*domain.RestaurantMenu, error) {
	ret := m.Called(id)
	menu, _ := ret.Get(0).(*domain.RestaurantMenu)
	return menu, ret.Error(1)
}

func (m *RestaurantRepository) DeleteRestaurant(id int) (int64, error) {
	ret := m.Called(id)
	n, _ := ret.Get(0).(int64)
	return n, ret.Error(1)
}

type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t testingT) *MenuRepository {
	m := &MenuRepository{}
	register(&m.Mock, t)
	return m
}

func (m *MenuRepository) CreateMenuItem(item *domain.MenuItem) error {
	return m.Called(item).Error(0)
}

func (m *MenuRepository) GetMenuItem(id int) (*domain.MenuItem, error) {
	ret := m.Called(id)
	item, _ := ret.Get(0).(*domain.MenuItem)
	return item, ret.Error(1)
}

func (m *MenuRepository) ListMenuByOwner(email string) ([]domain.SellerMenuItem, error) {
	ret := m.Called(email)
	items, _ := ret.Get(0).([]domain.SellerMenuItem)
	return items, ret.Error(1)
}

func (m *MenuRepository) UpdateMenuItem(id int, patch domain.MenuPatch) (*domain.MenuItem, error) {
	ret := m.Called(id, patch)
	item, _ := ret.Get(0).(*domain.MenuItem)
	return item, ret.Error(1)
}

func (m *MenuRepository) DeleteMenuItem(id int) (int64, error) {
	ret := m.Called(id)
	n, _ := ret.Get(0).(int64)
	return n, ret.Error(1)
}

func (m *MenuRepository) TopMenuItems(limit int) ([]domain.MenuItem, error) {
	ret := m.Called(limit)
	items, _ := ret.Get(0).([]domain.MenuItem)
	return items, ret.Error(1)
}

func (m *MenuRepository) MenuItemsByID(ids []int) ([]domain.MenuItem, error) {
	ret := m.Called(ids)
	items, _ := ret.Get(0).([]domain.MenuItem)
	return items, ret.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	register(&m.Mock, t)
	return m
}

func (m *OrderRepository) CreateOrder(order *domain.Order) error {
	return m.Called(order).Error(0)
}

func (m *OrderRepository) SaveQRCode(orderID int, qr []byte) error {
	return m.Called(orderID, qr).Error(0)
}

func (m *OrderRepository) GetQRCode(orderID int) ([]byte, error) {
	ret := m.Called(orderID)
	qr, _ := ret.Get(0).([]byte)
	return qr, ret.Error(1)
}

func (m *OrderRepository) GetOrder(orderID int) (*domain.Order, error) {
	ret := m.Called(orderID)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (m *OrderRepository) ListOrders() ([]domain.Order, error) {
	ret := m.Called()
	orders, _ := ret.Get(0).([]domain.Order)
	return orders, ret.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(email string) ([]domain.Order, error) {
	ret := m.Called(email)
	orders, _ := ret.Get(0).([]domain.Order)
	return orders, ret.Error(1)
}

func (m *OrderRepository) UpdateOrderStatus(orderID int, orderStatus, paymentStatus string) error {
	return m.Called(orderID, orderStatus, paymentStatus).Error(0)
}
