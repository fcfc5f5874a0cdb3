package handler

import (
	"github.com/gin-gonic/gin"
	"support-chat-server/internal/middleware"
	"support-chat-server/internal/service"
	"support-chat-server/pkg/response"
)

// AdminHandler 관리자 대시보드 요청 처리기
// 모든 라우트는 관리자 역할을 요구한다
type AdminHandler struct {
	adminService *service.AdminService
	chatService  *service.ChatService
}

// NewAdminHandler 는 AdminHandler 인스턴스를 생성한다
func NewAdminHandler(adminService *service.AdminService, chatService *service.ChatService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		chatService:  chatService,
	}
}

// ListActiveChats 진행 중 상담 목록을 반환한다
// 라우트: GET /api/admin/chats/active
// 쿼리: category (all 또는 카테고리명), search (고객 이메일 부분 일치)
func (h *AdminHandler) ListActiveChats(c *gin.Context) {
	items, err := h.adminService.ListActiveChats(
		c.Request.Context(),
		c.DefaultQuery("category", "all"),
		c.Query("search"),
	)
	if err != nil {
		response.InternalError(c, "상담 목록 조회에 실패했습니다.")
		return
	}
	response.Success(c, gin.H{"chats": items})
}

// ListPendingChats 사람 개입 대기 중 상담 목록을 반환한다
// 라우트: GET /api/admin/chats/pending
func (h *AdminHandler) ListPendingChats(c *gin.Context) {
	items, err := h.adminService.ListPendingChats(
		c.Request.Context(),
		c.DefaultQuery("category", "all"),
		c.Query("search"),
	)
	if err != nil {
		response.InternalError(c, "상담 목록 조회에 실패했습니다.")
		return
	}
	response.Success(c, gin.H{"chats": items})
}

// ListCompletedChats 종료된 상담 목록을 반환한다
// 라우트: GET /api/admin/chats/completed
// 쿼리: category, handler (all/AI/상담원), date_range (today/week/month), search
func (h *AdminHandler) ListCompletedChats(c *gin.Context) {
	items, err := h.adminService.ListCompletedChats(
		c.Request.Context(),
		c.DefaultQuery("category", "all"),
		c.DefaultQuery("handler", "all"),
		c.Query("date_range"),
		c.Query("search"),
	)
	if err != nil {
		response.InternalError(c, "상담 목록 조회에 실패했습니다.")
		return
	}
	response.Success(c, gin.H{"chats": items})
}

// TakeoverRequest 상담 인수 요청 바디
type TakeoverRequest struct {
	AgentID string `json:"agent_id" binding:"required"`
}

// Takeover 상담원이 세션을 인수한다
// 라우트: POST /api/admin/chats/:session_id/takeover
// 세션은 상담원 응대 모드로 전환되고 자동 응답이 중단된다
func (h *AdminHandler) Takeover(c *gin.Context) {
	var req TakeoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "상담원 ID 가 필요합니다.")
		return
	}
	// 본인 명의로만 인수할 수 있다
	if req.AgentID != middleware.GetUserID(c) {
		response.Forbidden(c, "본인 계정으로만 상담을 인수할 수 있습니다.")
		return
	}

	err := h.chatService.Takeover(c.Request.Context(), c.Param("session_id"), req.AgentID)
	if err != nil {
		switch err {
		case service.ErrSessionNotFound:
			response.SessionNotFound(c)
		case service.ErrSessionCompleted:
			response.SessionCompleted(c)
		default:
			response.InternalError(c, "상담 인수에 실패했습니다.")
		}
		return
	}

	response.SuccessWithMessage(c, "상담을 인수했습니다.", nil)
}

// ProvideInfoRequest 정보 제공 요청 바디
type ProvideInfoRequest struct {
	Info string `json:"info" binding:"required"`
}

// ProvideInfo 대기 중 세션에 관리자 지시/정보를 제공한다
// 라우트: POST /api/admin/chats/:session_id/provide-info
// 제공된 정보를 반영해 자동 응답을 다시 생성하고 세션을 재개한다
func (h *AdminHandler) ProvideInfo(c *gin.Context) {
	var req ProvideInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "제공할 정보를 입력해주세요.")
		return
	}

	message, err := h.chatService.ProvideInfo(c.Request.Context(), c.Param("session_id"), middleware.GetUserID(c), req.Info)
	if err != nil {
		switch err {
		case service.ErrSessionNotFound:
			response.SessionNotFound(c)
		case service.ErrSessionCompleted:
			response.SessionCompleted(c)
		default:
			response.InternalError(c, "정보 제공에 실패했습니다.")
		}
		return
	}

	response.Success(c, message)
}

// CompleteRequest 상담 종료 요청 바디
type CompleteRequest struct {
	Summary string `json:"summary"`
}

// Complete 상담을 종료한다
// 라우트: POST /api/admin/chats/:session_id/complete
// summary 를 생략하면 대화 내용으로 요약을 생성한다
func (h *AdminHandler) Complete(c *gin.Context) {
	var req CompleteRequest
	_ = c.ShouldBindJSON(&req) // 바디가 비어도 허용

	err := h.chatService.Complete(c.Request.Context(), c.Param("session_id"), req.Summary)
	if err != nil {
		switch err {
		case service.ErrSessionNotFound:
			response.SessionNotFound(c)
		case service.ErrSessionCompleted:
			response.SessionCompleted(c)
		default:
			response.InternalError(c, "상담 종료에 실패했습니다.")
		}
		return
	}

	response.SuccessWithMessage(c, "상담이 종료되었습니다.", nil)
}

// GetSummary 세션의 현재 상황 요약을 반환한다
// 라우트: GET /api/admin/chats/:session_id/summary
func (h *AdminHandler) GetSummary(c *gin.Context) {
	summary, err := h.adminService.GetSummary(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		switch err {
		case service.ErrSessionNotFound:
			response.SessionNotFound(c)
		default:
			response.InternalError(c, "요약 조회에 실패했습니다.")
		}
		return
	}
	response.Success(c, summary)
}

// Stats 관리자 대시보드 상단 지표를 반환한다
// 라우트: GET /api/admin/stats
// pending_count 는 Redis 카운터 기반이며 읽기 실패 시 DB 집계로 폴백한다
func (h *AdminHandler) Stats(c *gin.Context) {
	pendingCount, err := h.chatService.PendingCount(c.Request.Context())
	if err != nil {
		response.InternalError(c, "지표 조회에 실패했습니다.")
		return
	}
	response.Success(c, gin.H{"pending_count": pendingCount})
}

// RegisterRoutes 는 관리자 라우트를 등록한다
// 호출자는 이 그룹에 관리자 권한 미들웨어를 걸어야 한다
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Stats)
	chats := rg.Group("/chats")
	{
		chats.GET("/active", h.ListActiveChats)
		chats.GET("/pending", h.ListPendingChats)
		chats.GET("/completed", h.ListCompletedChats)
		chats.POST("/:session_id/takeover", h.Takeover)
		chats.POST("/:session_id/provide-info", h.ProvideInfo)
		chats.POST("/:session_id/complete", h.Complete)
		chats.GET("/:session_id/summary", h.GetSummary)
	}
}
