package handler

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"support-chat-server/internal/middleware"
	"support-chat-server/internal/model"
	"support-chat-server/internal/service"
	"support-chat-server/pkg/response"
)

// 업로드 제한
const (
	maxUploadSize = 20 << 20 // 20MB
	uploadBaseDir = "uploads"
)

// ChatHandler 상담 채팅 요청 처리기
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler 는 ChatHandler 인스턴스를 생성한다
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// GetSession 고객의 진행 중 세션을 조회하거나 새로 생성한다
// 라우트: GET /api/chats/session
// 진행 중(active/pending) 세션이 있으면 그 세션과 메시지 이력을,
// 없으면 인사말 메시지가 담긴 새 세션을 반환한다
func (h *ChatHandler) GetSession(c *gin.Context) {
	if middleware.GetUserRole(c) != model.RoleCustomer {
		response.Forbidden(c, "고객만 사용할 수 있습니다.")
		return
	}

	session, messages, err := h.chatService.GetOrCreateSession(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "세션 조회에 실패했습니다.")
		return
	}

	response.Success(c, gin.H{
		"session":  session,
		"messages": messages,
	})
}

// SendMessageRequest 메시지 전송 요청 바디
type SendMessageRequest struct {
	SessionID   string   `json:"session_id" binding:"required"`
	Content     string   `json:"content"`
	Attachments []string `json:"attachments"`
}

// SendMessage 메시지를 전송한다
// 라우트: POST /api/chats/messages
// 고객 메시지는 저장 후 결정 파이프라인을 거쳐 자동 응답이 생성될 수 있다
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "세션 ID 가 필요합니다.")
		return
	}

	message, err := h.chatService.SendMessage(
		c.Request.Context(),
		req.SessionID,
		middleware.GetUserID(c),
		middleware.GetUserRole(c),
		req.Content,
		req.Attachments,
	)
	if err != nil {
		switch err {
		case service.ErrEmptyContent:
			response.BadRequest(c, "메시지 내용을 입력해주세요.")
		case service.ErrSessionNotFound:
			response.SessionNotFound(c)
		case service.ErrSessionCompleted:
			response.SessionCompleted(c)
		case service.ErrNoPermission:
			response.Forbidden(c, "이 세션에 접근할 수 없습니다.")
		default:
			response.InternalError(c, "메시지 전송에 실패했습니다.")
		}
		return
	}

	response.Created(c, message)
}

// ListMessages 세션의 메시지 이력을 시간순으로 반환한다
// 라우트: GET /api/chats/messages/:session_id
// 관리자가 조회하면 해당 세션의 읽지 않음 카운트가 리셋된다
func (h *ChatHandler) ListMessages(c *gin.Context) {
	sessionID := c.Param("session_id")

	messages, err := h.chatService.ListMessages(
		c.Request.Context(),
		sessionID,
		middleware.GetUserID(c),
		middleware.GetUserRole(c),
	)
	if err != nil {
		switch err {
		case service.ErrSessionNotFound:
			response.SessionNotFound(c)
		case service.ErrNoPermission:
			response.Forbidden(c, "이 세션에 접근할 수 없습니다.")
		default:
			response.InternalError(c, "메시지 조회에 실패했습니다.")
		}
		return
	}

	response.Success(c, gin.H{
		"messages": messages,
	})
}

// Upload 첨부 파일을 업로드한다
// 라우트: POST /api/chats/upload (multipart/form-data)
// 필드: session_id, file
// 파일은 uploads/{session_id}/ 아래에 uuid 파일명으로 저장된다
func (h *ChatHandler) Upload(c *gin.Context) {
	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		response.BadRequest(c, "세션 ID 가 필요합니다.")
		return
	}

	// 존재하지 않거나 남의 세션으로는 업로드할 수 없다
	if _, err := h.chatService.GetSessionByID(
		c.Request.Context(), sessionID, middleware.GetUserID(c), middleware.GetUserRole(c),
	); err != nil {
		switch err {
		case service.ErrSessionNotFound:
			response.SessionNotFound(c)
		case service.ErrNoPermission:
			response.Forbidden(c, "이 세션에 접근할 수 없습니다.")
		default:
			response.InternalError(c, "세션 확인에 실패했습니다.")
		}
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "업로드할 파일이 필요합니다.")
		return
	}
	if file.Size > maxUploadSize {
		response.BadRequest(c, "파일 크기는 20MB 를 넘을 수 없습니다.")
		return
	}

	// 원본 파일명은 보존하지 않고 확장자만 유지한다
	ext := strings.ToLower(filepath.Ext(file.Filename))
	storedName := model.NewID() + ext

	dir := filepath.Join(uploadBaseDir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		response.InternalError(c, "파일 저장에 실패했습니다.")
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(dir, storedName)); err != nil {
		response.InternalError(c, "파일 저장에 실패했습니다.")
		return
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	response.Success(c, gin.H{
		"url":      fmt.Sprintf("/%s/%s/%s", uploadBaseDir, sessionID, storedName),
		"name":     file.Filename,
		"size":     file.Size,
		"mime":     mimeType,
		"is_image": strings.HasPrefix(mimeType, "image/"),
	})
}

// RegisterRoutes 는 채팅 라우트를 등록한다
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chats := rg.Group("/chats")
	{
		chats.GET("/session", h.GetSession)
		chats.POST("/messages", h.SendMessage)
		chats.GET("/messages/:session_id", h.ListMessages)
		chats.POST("/upload", h.Upload)
	}
}
