package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"support-chat-server/internal/model"
	pkgJwt "support-chat-server/pkg/jwt"
	"support-chat-server/pkg/response"
)

// WebSocket 업그레이더 설정
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler WebSocket 연결 처리
type Handler struct {
	hub        *Hub
	jwtService *pkgJwt.JWTService
}

// NewHandler 는 WebSocket Handler 를 생성한다
func NewHandler(hub *Hub, jwtService *pkgJwt.JWTService) *Handler {
	return &Handler{
		hub:        hub,
		jwtService: jwtService,
	}
}

// HandleWS 는 WebSocket 연결을 처리한다
// 라우트: GET /ws
// 파라미터: token (query parameter) - JWT token
func (h *Handler) HandleWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Unauthorized(c, "인증 토큰이 필요합니다.")
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		response.Unauthorized(c, "토큰이 유효하지 않습니다.")
		return
	}
	if claims.Role != model.RoleCustomer && claims.Role != model.RoleAdmin {
		response.Unauthorized(c, "토큰이 유효하지 않습니다.")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := NewClient(h.hub, conn, claims.UserID, claims.Role)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Printf("WebSocket connected: userID=%s role=%s", claims.UserID, claims.Role)
}

// RegisterRoutes 는 WebSocket 라우트를 등록한다
// token 은 query 로 검증하므로 인증 미들웨어를 거치지 않는다
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWS)
}
