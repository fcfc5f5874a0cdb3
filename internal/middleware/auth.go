// Package middleware 는 HTTP 요청 미들웨어를 제공한다
// JWT 인증, CORS, 요청 로깅을 포함한다
package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gin-gonic/gin"
	"support-chat-server/internal/cache"
	"support-chat-server/internal/model"
	"support-chat-server/pkg/jwt"
	"support-chat-server/pkg/response"
)

// AuthMiddleware 는 JWT 인증 미들웨어를 생성한다
// 요청 헤더의 Bearer Token 을 검증하고 사용자 정보를 컨텍스트에 저장한다
// 파라미터:
//   - jwtService: JWT 서비스 인스턴스
//   - redisCache: Token 블랙리스트 확인용 Redis 캐시
//
// 반환:
//   - gin.HandlerFunc: Gin 미들웨어 함수
func AuthMiddleware(jwtService *jwt.JWTService, redisCache *cache.RedisCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization 헤더 확인 ("Bearer <token>")
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "인증 토큰이 필요합니다.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "인증 형식이 올바르지 않습니다.")
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 2. Token 서명/만료 검증
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "토큰이 유효하지 않거나 만료되었습니다.")
			c.Abort()
			return
		}

		// 3. 블랙리스트 확인 (로그아웃된 Token)
		// 원본 Token 대신 해시값으로 조회한다
		tokenHash := HashToken(tokenString)
		if redisCache != nil && redisCache.IsTokenBlacklisted(c.Request.Context(), tokenHash) {
			response.Unauthorized(c, "토큰이 만료되었습니다. 다시 로그인해주세요.")
			c.Abort()
			return
		}

		// 4. 사용자 정보를 컨텍스트에 저장
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("token", tokenString) // 로그아웃 시 해시 계산용
		if claims.ExpiresAt != nil {
			c.Set("token_exp", claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RequireAdmin 은 관리자 역할을 강제하는 미들웨어를 생성한다
// AuthMiddleware 뒤에 연결해 사용한다
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != model.RoleAdmin {
			response.Forbidden(c, "관리자만 접근할 수 있습니다.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// HashToken 은 Token 의 SHA256 해시값을 계산한다
// 블랙리스트 저장 시 원본 Token 노출을 피하기 위해 사용한다
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// GetUserID 는 컨텍스트에서 사용자 ID 를 꺼낸다 (미인증이면 빈 문자열)
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	return userID.(string)
}

// GetUserRole 은 컨텍스트에서 사용자 역할을 꺼낸다
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("role")
	if !exists {
		return ""
	}
	return role.(string)
}

// GetUserEmail 은 컨텍스트에서 이메일을 꺼낸다
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("email")
	if !exists {
		return ""
	}
	return email.(string)
}
