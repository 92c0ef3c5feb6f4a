package mocks

import (
	"context"

	"foodzone/api-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type RoleCache struct {
	mock.Mock
}

func NewRoleCache(t testingT) *RoleCache {
	m := &RoleCache{}
	register(&m.Mock, t)
	return m
}

func (m *RoleCache) GetRole(ctx context.Context, email string) (string, bool, error) {
	ret := m.Called(ctx, email)
	return ret.String(0), ret.Bool(1), ret.Error(2)
}

func (m *RoleCache) SetRole(ctx context.Context, email, role string) error {
	return m.Called(ctx, email, role).Error(0)
}

func (m *RoleCache) InvalidateRole(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type PopularityCache struct {
	mock.Mock
}

func NewPopularityCache(t testingT) *PopularityCache {
	m := &PopularityCache{}
	register(&m.Mock, t)
	return m
}

func (m *PopularityCache) TopMenuIDs(ctx context.Context, limit int) ([]int, error) {
	ret := m.Called(ctx, limit)
	ids, _ := ret.Get(0).([]int)
	return ids, ret.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	register(&m.Mock, t)
	return m
}

func (m *EventPublisher) PublishOrderPlaced(ctx context.Context, event domain.OrderEvent) error {
	return m.Called(ctx, event).Error(0)
}

type OrderNotifier struct {
	mock.Mock
}

func NewOrderNotifier(t testingT) *OrderNotifier {
	m := &OrderNotifier{}
	register(&m.Mock, t)
	return m
}

func (m *OrderNotifier) NotifyOrder(order domain.Order) {
	m.Called(order)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	register(&m.Mock, t)
	return m
}

func (m *QRGenerator) Generate(orderID int) ([]byte, error) {
	ret := m.Called(orderID)
	qr, _ := ret.Get(0).([]byte)
	return qr, ret.Error(1)
}

type IDTokenVerifier struct {
	mock.Mock
}

func NewIDTokenVerifier(t testingT) *IDTokenVerifier {
	m := &IDTokenVerifier{}
	register(&m.Mock, t)
	return m
}

func (m *IDTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	ret := m.Called(ctx, idToken)
	return ret.String(0), ret.Error(1)
}
