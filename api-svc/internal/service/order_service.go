package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"foodzone/api-svc/internal/domain"

	"github.com/google/uuid"
)

type OrderService struct {
	repo      OrderRepository
	qrEncoder QRGenerator
	publisher EventPublisher
	notifier  OrderNotifier
	now       func() time.Time
}

// NewOrderService wires order storage. qr, publisher and notifier are
// optional.
func NewOrderService(repo OrderRepository, qr QRGenerator, publisher EventPublisher, notifier OrderNotifier) *OrderService {
	return &OrderService{
		repo:      repo,
		qrEncoder: qr,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
	}
}

func validateOrder(req domain.PlaceOrderRequest) error {
	if strings.TrimSpace(req.UserEmail) == "" ||
		strings.TrimSpace(req.UserName) == "" ||
		strings.TrimSpace(req.UserPhone) == "" ||
		strings.TrimSpace(req.UserAddress) == "" ||
		req.Cart == nil ||
		req.Total == nil || req.Total.IsZero() ||
		strings.TrimSpace(req.PaymentMethod) == "" {
		return domain.ErrMissingFields
	}
	return nil
}

// Place stores the order and then, best effort, attaches its QR code,
// announces it on the event bus and pushes it to seller feeds.
func (s *OrderService) Place(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error) {
	if err := validateOrder(req); err != nil {
		return nil, err
	}

	paymentStatus := domain.PaymentPaid
	if req.PaymentMethod == domain.PaymentCOD {
		paymentStatus = domain.PaymentPending
	}

	order := &domain.Order{
		UserEmail:     req.UserEmail,
		UserName:      req.UserName,
		UserPhone:     req.UserPhone,
		UserAddress:   req.UserAddress,
		Items:         req.Cart,
		Total:         *req.Total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: paymentStatus,
		OrderStatus:   domain.OrderPending,
		TrackingID:    uuid.NewString(),
	}
	if err := s.repo.CreateOrder(order); err != nil {
		return nil, err
	}

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err == nil {
			if err := s.repo.SaveQRCode(order.ID, qr); err != nil {
				log.Printf("[api-svc] save qr for order %d: %v", order.ID, err)
			}
		}
	}
	order.QRCode = s.QRLink(order.ID)

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, orderEvent(order, s.now())); err != nil {
			log.Printf("[api-svc] publish order %d: %v", order.ID, err)
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyOrder(*order)
	}

	return order, nil
}

func orderEvent(order *domain.Order, at time.Time) domain.OrderEvent {
	items := make([]domain.OrderEventItem, 0, len(order.Items))
	for _, l := range order.Items {
		if l.ID <= 0 || l.Quantity <= 0 {
			continue
		}
		items = append(items, domain.OrderEventItem{MenuID: l.ID, Quantity: l.Quantity})
	}
	return domain.OrderEvent{
		Type:      domain.EventOrderPlaced,
		OrderID:   order.ID,
		Items:     items,
		Timestamp: at,
	}
}

func (s *OrderService) ListByUser(email string) ([]domain.Order, error) {
	orders, err := s.repo.ListOrdersByUser(email)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// ListBySeller scans every order and keeps the part that belongs to email.
func (s *OrderService) ListBySeller(email string) ([]domain.Order, error) {
	all, err := s.repo.ListOrders()
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{}
	for _, o := range all {
		if view, ok := o.ForSeller(email); ok {
			orders = append(orders, view)
		}
	}
	return orders, nil
}

func (s *OrderService) UpdateStatus(orderID int, status string) error {
	if strings.TrimSpace(status) == "" {
		return domain.ErrMissingFields
	}
	order, err := s.repo.GetOrder(orderID)
	if err != nil {
		return err
	}

	paymentStatus := order.PaymentStatus
	if status == domain.OrderDelivered &&
		order.PaymentMethod == domain.PaymentCOD &&
		order.PaymentStatus == domain.PaymentPending {
		paymentStatus = domain.PaymentPaid
	}
	return s.repo.UpdateOrderStatus(orderID, status, paymentStatus)
}

// GetQRCode returns the stored PNG, regenerating it when missing.
func (s *OrderService) GetQRCode(orderID int) ([]byte, error) {
	qr, err := s.repo.GetQRCode(orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		regenerated, err := s.qrEncoder.Generate(orderID)
		if err != nil {
			return nil, fmt.Errorf("regenerate qr: %w", err)
		}
		if err := s.repo.SaveQRCode(orderID, regenerated); err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Printf("[api-svc] save regenerated qr for order %d: %v", orderID, err)
		}
		return regenerated, nil
	}
	return qr, nil
}

func (s *OrderService) QRLink(orderID int) string {
	return fmt.Sprintf("/api/orders/%d/qrcode", orderID)
}

var _ OrderServiceInterface = (*OrderService)(nil)
