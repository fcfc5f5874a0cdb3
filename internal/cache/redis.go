// Package cache 는 Redis 캐시 연산의 래퍼를 제공한다
// JWT 블랙리스트, 챗봇 설정 스냅샷, 대기 세션 카운터 등 빠른 접근이 필요한 데이터를 다룬다
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"support-chat-server/internal/config"
)

// 설정 스냅샷 캐시 TTL
// 설정 변경이 드물고, 만료 전이라도 PUT 시 명시적으로 무효화한다
const settingsCacheTTL = 60 * time.Second

// RedisCache 는 Redis 클라이언트를 감싸 비즈니스 관련 캐시 연산을 제공한다
type RedisCache struct {
	client *redis.Client // Redis 클라이언트 인스턴스
}

// NewRedisCache 는 RedisCache 인스턴스를 생성한다
// 파라미터:
//   - cfg: 애플리케이션 설정 (Redis 연결 정보 포함)
//
// 반환:
//   - *RedisCache: 캐시 인스턴스
//   - error: 연결 에러
func NewRedisCache(cfg *config.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	// 연결 확인
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close Redis 연결을 종료한다
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping Redis 연결을 확인한다
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// ==================== JWT 블랙리스트 ====================
// 로그아웃 시 Token 을 강제로 무효화하기 위해 사용한다

// BlacklistToken 은 Token 을 블랙리스트에 추가한다
// 로그아웃 시 호출되어 현재 Token 을 무효화한다
// 파라미터:
//   - ctx: 컨텍스트
//   - tokenHash: Token 의 해시값 (원본 Token 은 저장하지 않는다)
//   - expireAt: Token 의 원래 만료 시각
//
// 반환:
//   - error: Redis 연산 에러
func (c *RedisCache) BlacklistToken(ctx context.Context, tokenHash string, expireAt time.Time) error {
	// 남은 유효 시간 계산
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		// 이미 만료된 Token 은 블랙리스트에 넣을 필요 없다
		return nil
	}

	// TTL 을 Token 의 남은 유효기간으로 설정해 만료 후 자동 삭제되게 한다
	return c.client.Set(ctx, fmt.Sprintf("jwt:blacklist:%s", tokenHash), "1", ttl).Err()
}

// IsTokenBlacklisted 는 Token 이 블랙리스트에 있는지 확인한다
// JWT 인증 미들웨어에서 호출한다
// 반환:
//   - bool: 블랙리스트 포함 여부
func (c *RedisCache) IsTokenBlacklisted(ctx context.Context, tokenHash string) bool {
	return c.client.Exists(ctx, fmt.Sprintf("jwt:blacklist:%s", tokenHash)).Val() > 0
}

// ==================== 챗봇 설정 스냅샷 ====================
// 설정은 모든 고객 메시지 처리에서 읽히므로 직렬화된 스냅샷을 짧게 캐싱한다

// GetSettingsSnapshot 은 캐싱된 설정 스냅샷(JSON)을 조회한다
// 반환:
//   - []byte: 직렬화된 설정, 캐시 미스면 nil
//   - error: Redis 연산 에러
func (c *RedisCache) GetSettingsSnapshot(ctx context.Context) ([]byte, error) {
	data, err := c.client.Get(ctx, "chatbot:settings").Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetSettingsSnapshot 은 설정 스냅샷을 캐싱한다
func (c *RedisCache) SetSettingsSnapshot(ctx context.Context, data []byte) error {
	return c.client.Set(ctx, "chatbot:settings", data, settingsCacheTTL).Err()
}

// InvalidateSettings 는 설정 스냅샷 캐시를 무효화한다
// 관리자가 설정을 수정하면 즉시 호출한다
func (c *RedisCache) InvalidateSettings(ctx context.Context) error {
	return c.client.Del(ctx, "chatbot:settings").Err()
}

// ==================== 대기 세션 카운터 ====================
// 관리자 대시보드 뱃지용. DB COUNT 를 피하기 위한 근사치이며
// 정확한 목록은 항상 DB 조회 결과를 따른다

// IncrPendingCount 는 대기 세션 카운터를 1 증가시킨다
func (c *RedisCache) IncrPendingCount(ctx context.Context) error {
	return c.client.Incr(ctx, "sessions:pending_count").Err()
}

// DecrPendingCount 는 대기 세션 카운터를 1 감소시킨다
// 음수가 되면 0 으로 되돌린다
func (c *RedisCache) DecrPendingCount(ctx context.Context) error {
	n, err := c.client.Decr(ctx, "sessions:pending_count").Result()
	if err != nil {
		return err
	}
	if n < 0 {
		return c.client.Set(ctx, "sessions:pending_count", 0, 0).Err()
	}
	return nil
}

// GetPendingCount 는 대기 세션 카운터를 조회한다
func (c *RedisCache) GetPendingCount(ctx context.Context) (int64, error) {
	n, err := c.client.Get(ctx, "sessions:pending_count").Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}
