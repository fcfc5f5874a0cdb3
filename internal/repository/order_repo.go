package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"support-chat-server/internal/model"
)

// OrderRepository 주문 데이터 접근 계층
// 상담 중 주문 조회 도구와 관리자 주문 관리 화면에서 사용한다
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 는 OrderRepository 인스턴스를 생성한다
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create 새 주문을 생성한다
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// GetByNumber 는 주문번호로 주문을 조회한다
// 파라미터:
//   - ctx: 컨텍스트
//   - orderNumber: 주문번호 (ORD-2024-1234 형태 또는 숫자열)
//
// 반환:
//   - *model.Order: 주문 객체, 없으면 nil
//   - error: 데이터베이스 에러
func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListRecentByCustomer 는 고객의 최근 주문을 조회한다
// limit 은 1~20 범위로 보정하고 0 이하이면 5 를 사용한다
func (r *OrderRepository) ListRecentByCustomer(ctx context.Context, customerID string, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 20 {
		limit = 20
	}
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("ordered_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// ListByCustomer 는 고객의 주문 목록을 조회한다 (배송 상태 필터 지원)
// 파라미터:
//   - ctx: 컨텍스트
//   - customerID: 고객 ID
//   - status: 배송 상태 필터, 빈 문자열이면 전체
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID, status string) ([]model.Order, error) {
	var orders []model.Order
	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if status != "" {
		query = query.Where("shipping_status = ?", status)
	}
	err := query.Order("ordered_at DESC").Find(&orders).Error
	return orders, err
}

// ListAll 은 전체 주문 목록을 조회한다 (관리자 화면)
func (r *OrderRepository) ListAll(ctx context.Context, status string) ([]model.Order, error) {
	var orders []model.Order
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("shipping_status = ?", status)
	}
	err := query.Order("ordered_at DESC").Find(&orders).Error
	return orders, err
}

// UpdateShippingStatus 는 주문번호로 주문의 배송 상태를 변경한다
// 반환: 변경된 행 수 (0 이면 해당 주문 없음)
func (r *OrderRepository) UpdateShippingStatus(ctx context.Context, orderNumber, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_number = ?", orderNumber).
		Update("shipping_status", status)
	return result.RowsAffected, result.Error
}
