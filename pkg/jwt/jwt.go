// Package jwt 는 JWT 토큰의 생성과 검증 기능을 제공한다
// 고객/관리자 공용의 Access Token 을 HS256 으로 서명한다
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 에러 정의
var (
	ErrInvalidToken = errors.New("invalid token")     // 토큰이 유효하지 않음
	ErrExpiredToken = errors.New("token has expired") // 토큰이 만료됨
)

// UserClaims 사용자 JWT 의 클레임(Payload)
// 코어 로직은 토큰에서 복원한 {id, role} 만 신뢰하고 별도로 신원을 재계산하지 않는다
type UserClaims struct {
	UserID string `json:"user_id"` // 사용자 ID
	Email  string `json:"email"`   // 이메일
	Role   string `json:"role"`    // 역할: customer / admin
	jwt.RegisteredClaims
}

// JWTService JWT 관련 연산을 제공한다
type JWTService struct {
	secret       []byte        // 서명 키
	accessExpire time.Duration // Access Token 만료 시간
}

// NewJWTService 는 JWTService 인스턴스를 생성한다
// 파라미터:
//   - secret: 서명 키, 최소 32자
//   - accessExpire: Access Token 만료 시간
func NewJWTService(secret string, accessExpire time.Duration) *JWTService {
	return &JWTService{
		secret:       []byte(secret),
		accessExpire: accessExpire,
	}
}

// GenerateAccessToken 은 Access Token 을 생성한다
// 파라미터:
//   - userID: 사용자 ID
//   - email: 이메일
//   - role: 역할 (customer / admin)
//
// 반환:
//   - string: JWT 토큰 문자열
//   - error: 생성 에러
func (s *JWTService) GenerateAccessToken(userID, email, role string) (string, error) {
	claims := UserClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessExpire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "support-chat",
			Subject:   "access",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken 은 토큰을 파싱하고 서명과 만료를 검증한다
// 파라미터:
//   - tokenString: JWT 토큰 문자열
//
// 반환:
//   - *UserClaims: 검증된 클레임
//   - error: ErrExpiredToken / ErrInvalidToken
func (s *JWTService) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		// 서명 알고리즘 확인 (alg 바꿔치기 방지)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
