package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"support-chat-server/internal/cache"
	"support-chat-server/internal/model"
	"support-chat-server/internal/repository"
	"support-chat-server/pkg/jwt"
)

// LoginResult 로그인 결과
type LoginResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// AuthService 인증 관련 비즈니스 로직
type AuthService struct {
	userRepo   *repository.UserRepository
	jwtService *jwt.JWTService
	cache      *cache.RedisCache
}

// NewAuthService 는 AuthService 인스턴스를 생성한다
func NewAuthService(userRepo *repository.UserRepository, jwtService *jwt.JWTService, redisCache *cache.RedisCache) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		cache:      redisCache,
	}
}

// Login 은 이메일/비밀번호/역할로 로그인한다
// 고객 역할은 미가입 이메일이면 즉시 가입 처리한다 (관리자는 불가)
// 파라미터:
//   - email: 이메일 (소문자로 정규화)
//   - password: 평문 비밀번호
//   - role: customer / admin
//
// 반환:
//   - *LoginResult: 사용자와 Access Token
//   - error: ErrUserNotFound / ErrPasswordWrong
func (s *AuthService) Login(ctx context.Context, email, password, role string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmailAndRole(ctx, email, role)
	if err != nil {
		return nil, err
	}

	if user == nil && role == model.RoleCustomer {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		name := email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
		user = &model.User{
			ID:           model.NewID(),
			Email:        email,
			PasswordHash: string(hash),
			Name:         name,
			Role:         model.RoleCustomer,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrPasswordWrong
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

// Logout 은 현재 Token 을 블랙리스트에 넣어 무효화한다
// 파라미터:
//   - tokenHash: Token 의 해시값
//   - expireAt: Token 의 원래 만료 시각
func (s *AuthService) Logout(ctx context.Context, tokenHash string, expireAt time.Time) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.BlacklistToken(ctx, tokenHash, expireAt)
}

// GetUser 는 ID 로 사용자를 조회한다 (/me 엔드포인트)
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
