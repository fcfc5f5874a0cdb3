// Package handler 는 HTTP 요청 처리기를 제공한다
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"support-chat-server/internal/middleware"
	"support-chat-server/internal/model"
	"support-chat-server/internal/service"
	"support-chat-server/pkg/response"
)

// AuthHandler 인증 요청 처리기
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 는 AuthHandler 인스턴스를 생성한다
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest 로그인 요청 바디
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"` // customer / admin, 생략 시 customer
}

// Login 로그인을 처리한다
// 라우트: POST /api/auth/login
// 고객은 첫 로그인 시 자동 가입되고, 관리자는 사전 등록된 계정만 허용한다
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "이메일과 비밀번호를 입력해주세요.")
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleCustomer
	}
	if role != model.RoleCustomer && role != model.RoleAdmin {
		response.BadRequest(c, "유효하지 않은 역할입니다.")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, role)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			response.ErrorWithCode(c, 401, response.CodeUserNotFound, "등록되지 않은 계정입니다.")
		case service.ErrPasswordWrong:
			response.ErrorWithCode(c, 401, response.CodePasswordWrong, "비밀번호가 올바르지 않습니다.")
		default:
			response.InternalError(c, "로그인에 실패했습니다.")
		}
		return
	}

	response.Success(c, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

// Logout 로그아웃을 처리한다
// 라우트: POST /api/auth/logout
// 현재 Token 의 해시를 남은 수명만큼 블랙리스트에 등록한다
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenValue, exists := c.Get("token")
	if !exists {
		response.Unauthorized(c, "인증 정보가 없습니다.")
		return
	}
	tokenHash := middleware.HashToken(tokenValue.(string))

	expireAt := time.Now().Add(time.Minute) // 만료 정보가 없을 때의 최소 TTL
	if exp, ok := c.Get("token_exp"); ok {
		if t, ok := exp.(time.Time); ok {
			expireAt = t
		}
	}

	if err := h.authService.Logout(c.Request.Context(), tokenHash, expireAt); err != nil {
		response.InternalError(c, "로그아웃에 실패했습니다.")
		return
	}

	response.SuccessWithMessage(c, "로그아웃되었습니다.", nil)
}

// Me 현재 로그인한 사용자 정보를 반환한다
// 라우트: GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "인증 정보가 없습니다.")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			response.ErrorWithCode(c, 404, response.CodeUserNotFound, "사용자를 찾을 수 없습니다.")
		default:
			response.InternalError(c, "사용자 조회에 실패했습니다.")
		}
		return
	}

	response.Success(c, user)
}
