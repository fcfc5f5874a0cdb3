// Package model 은 데이터베이스 테이블에 대응하는 구조체를 정의한다
package model

import (
	"time"
)

// 배송 상태 상수
const (
	ShippingStatusPreparing = "preparing" // 상품 준비 중
	ShippingStatusShipped   = "shipped"   // 배송 중
	ShippingStatusDelivered = "delivered" // 배송 완료
	ShippingStatusCancelled = "cancelled" // 주문 취소
)

// Order 주문 모델
// orders 테이블에 대응한다
// 상담 중 주문 조회 도구 호출(get_order_by_number / list_recent_orders)의 대상이 된다
type Order struct {
	// ID 주문 고유 식별자 (uuid hex)
	ID string `gorm:"primaryKey;size:32" json:"id"`

	// OrderNumber 주문번호 (예: ORD-2025-0001), 전역 유일
	OrderNumber string `gorm:"size:50;uniqueIndex;not null" json:"order_number"`

	// ProductName 상품명
	ProductName string `gorm:"size:200;not null" json:"product_name"`

	// CustomerID 주문자 ID, users.id 참조
	CustomerID string `gorm:"size:32;index;not null" json:"customer_id"`

	// OrderedAt 주문 시각
	OrderedAt time.Time `gorm:"autoCreateTime" json:"ordered_at"`

	// ShippingStatus 배송 상태: preparing / shipped / delivered / cancelled
	ShippingStatus string `gorm:"size:20;default:preparing" json:"shipping_status"`

	// UpdatedAt 갱신 시각
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 테이블명 지정
func (Order) TableName() string {
	return "orders"
}
