package handler

import (
	"github.com/gin-gonic/gin"
	"support-chat-server/internal/middleware"
	"support-chat-server/internal/service"
	"support-chat-server/pkg/response"
)

// SettingsHandler 챗봇 설정 요청 처리기
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler 는 SettingsHandler 인스턴스를 생성한다
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GetSettings 현재 챗봇 설정을 반환한다
// 라우트: GET /api/admin/chatbot/settings
// 저장된 값이 없는 항목은 기본값으로 채워진다
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings := h.settingsService.Get(c.Request.Context())
	response.Success(c, settings)
}

// UpdateSettings 챗봇 설정을 갱신한다
// 라우트: PUT /api/admin/chatbot/settings
// 바디에 포함된 항목만 갱신하고 나머지는 유지한다
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req service.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "요청 형식이 올바르지 않습니다.")
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), &req, middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "설정 저장에 실패했습니다.")
		return
	}

	response.SuccessWithMessage(c, "설정이 저장되었습니다.", settings)
}

// RegisterRoutes 는 설정 라우트를 등록한다
// 호출자는 이 그룹에 관리자 권한 미들웨어를 걸어야 한다
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chatbot := rg.Group("/chatbot")
	{
		chatbot.GET("/settings", h.GetSettings)
		chatbot.PUT("/settings", h.UpdateSettings)
	}
}
