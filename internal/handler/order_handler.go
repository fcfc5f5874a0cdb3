package handler

import (
	"github.com/gin-gonic/gin"
	"support-chat-server/internal/middleware"
	"support-chat-server/internal/model"
	"support-chat-server/internal/service"
	"support-chat-server/pkg/response"
)

// OrderHandler 주문 요청 처리기
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler 는 OrderHandler 인스턴스를 생성한다
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// ListOrders 주문 목록을 반환한다
// 라우트: GET /api/orders
// 고객은 본인 주문만, 관리자는 전체 주문을 조회한다
// 쿼리: status (all 또는 배송 상태)
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(
		c.Request.Context(),
		middleware.GetUserID(c),
		middleware.GetUserRole(c),
		c.DefaultQuery("status", "all"),
	)
	if err != nil {
		response.InternalError(c, "주문 목록 조회에 실패했습니다.")
		return
	}
	response.Success(c, gin.H{"orders": orders})
}

// GetOrder 주문번호로 주문을 조회한다
// 라우트: GET /api/orders/:order_number
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetByNumber(
		c.Request.Context(),
		c.Param("order_number"),
		middleware.GetUserID(c),
		middleware.GetUserRole(c),
	)
	if err != nil {
		switch err {
		case service.ErrOrderNotFound:
			response.OrderNotFound(c)
		case service.ErrNoPermission:
			response.Forbidden(c, "이 주문에 접근할 수 없습니다.")
		default:
			response.InternalError(c, "주문 조회에 실패했습니다.")
		}
		return
	}
	response.Success(c, order)
}

// CreateOrderRequest 주문 생성 요청 바디
type CreateOrderRequest struct {
	OrderNumber string `json:"order_number" binding:"required"`
	ProductName string `json:"product_name" binding:"required"`
	CustomerID  string `json:"customer_id"` // 관리자만 지정 가능, 생략 시 본인
}

// CreateOrder 주문을 생성한다 (테스트/시드 데이터용)
// 라우트: POST /api/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "주문번호와 상품명이 필요합니다.")
		return
	}

	customerID := middleware.GetUserID(c)
	if req.CustomerID != "" && middleware.GetUserRole(c) == model.RoleAdmin {
		customerID = req.CustomerID
	}

	order, err := h.orderService.Create(c.Request.Context(), req.OrderNumber, req.ProductName, customerID)
	if err != nil {
		response.InternalError(c, "주문 생성에 실패했습니다.")
		return
	}
	response.Created(c, order)
}

// UpdateStatusRequest 배송 상태 변경 요청 바디
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 주문의 배송 상태를 변경한다 (관리자 전용)
// 라우트: PATCH /api/orders/:order_number/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	if middleware.GetUserRole(c) != model.RoleAdmin {
		response.Forbidden(c, "관리자만 변경할 수 있습니다.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "변경할 상태가 필요합니다.")
		return
	}

	err := h.orderService.UpdateShippingStatus(c.Request.Context(), c.Param("order_number"), req.Status)
	if err != nil {
		switch err {
		case service.ErrInvalidStatus:
			response.BadRequest(c, "유효하지 않은 배송 상태입니다.")
		case service.ErrOrderNotFound:
			response.OrderNotFound(c)
		default:
			response.InternalError(c, "상태 변경에 실패했습니다.")
		}
		return
	}
	response.SuccessWithMessage(c, "배송 상태가 변경되었습니다.", nil)
}

// RegisterRoutes 는 주문 라우트를 등록한다
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:order_number", h.GetOrder)
		orders.POST("", h.CreateOrder)
		orders.PATCH("/:order_number/status", h.UpdateStatus)
	}
}
