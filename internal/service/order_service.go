package service

import (
	"context"
	"strings"
	"time"

	"support-chat-server/internal/model"
	"support-chat-server/internal/repository"
)

// OrderService 주문 조회/관리 비즈니스 로직
// 고객은 자신의 주문만, 관리자는 전체 주문을 다룬다
type OrderService struct {
	orderRepo *repository.OrderRepository
}

// NewOrderService 는 OrderService 인스턴스를 생성한다
func NewOrderService(orderRepo *repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// ListOrders 는 역할에 따라 주문 목록을 조회한다
// 파라미터:
//   - userID: 요청자 ID
//   - role: customer / admin
//   - status: 배송 상태 필터, 빈 문자열 또는 "all" 이면 전체
func (s *OrderService) ListOrders(ctx context.Context, userID, role, status string) ([]model.Order, error) {
	if status == "all" {
		status = ""
	}
	if role == model.RoleAdmin {
		return s.orderRepo.ListAll(ctx, status)
	}
	return s.orderRepo.ListByCustomer(ctx, userID, status)
}

// GetByNumber 는 주문번호로 주문을 조회한다
// 고객은 자신의 주문만 볼 수 있다
func (s *OrderService) GetByNumber(ctx context.Context, orderNumber, userID, role string) (*model.Order, error) {
	order, err := s.orderRepo.GetByNumber(ctx, strings.TrimSpace(orderNumber))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if role == model.RoleCustomer && order.CustomerID != userID {
		return nil, ErrNoPermission
	}
	return order, nil
}

// Create 는 주문을 생성한다 (관리자/데모 시드용)
func (s *OrderService) Create(ctx context.Context, orderNumber, productName, customerID string) (*model.Order, error) {
	order := &model.Order{
		ID:             model.NewID(),
		OrderNumber:    strings.TrimSpace(orderNumber),
		ProductName:    strings.TrimSpace(productName),
		CustomerID:     customerID,
		OrderedAt:      time.Now().UTC(),
		ShippingStatus: model.ShippingStatusPreparing,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateShippingStatus 는 주문의 배송 상태를 변경한다 (관리자 전용)
func (s *OrderService) UpdateShippingStatus(ctx context.Context, orderNumber, status string) error {
	switch status {
	case model.ShippingStatusPreparing, model.ShippingStatusShipped,
		model.ShippingStatusDelivered, model.ShippingStatusCancelled:
	default:
		return ErrInvalidStatus
	}
	affected, err := s.orderRepo.UpdateShippingStatus(ctx, orderNumber, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
