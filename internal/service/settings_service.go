package service

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"support-chat-server/internal/cache"
	"support-chat-server/internal/model"
	"support-chat-server/internal/repository"
)

// ChatSettings 런타임에서 사용하는 타입이 있는 챗봇 설정
// DB 에는 key/value 행으로 저장되고, 조회 시 기본값과 병합해 이 구조체로 변환한다
type ChatSettings struct {
	Greeting               string   `json:"greeting"`                 // 세션 시작 인사말
	Farewell               string   `json:"farewell"`                 // 종료 인사말
	CompanyPolicy          string   `json:"company_policy"`           // 응답 기준(정책) 텍스트
	Categories             []string `json:"categories"`               // 문의 카테고리 목록
	HumanInterventionRules string   `json:"human_intervention_rules"` // 사람 개입 규칙 텍스트
	ResponseWaitTime       int      `json:"response_wait_time"`       // 대기 안내 시간(분)
	AutoClose              bool     `json:"auto_close"`               // 자동 종료 허용 여부
}

// DefaultChatSettings 는 설정 행이 없을 때 사용하는 기본값을 반환한다
func DefaultChatSettings() *ChatSettings {
	return &ChatSettings{
		Greeting:               "안녕하세요! 채팅 상담 서비스입니다. 무엇을 도와드릴까요?",
		Farewell:               "상담이 완료되었습니다. 좋은 하루 되세요!",
		CompanyPolicy:          "환불은 구매 후 7일 이내에 가능합니다.\n배송비는 고객 부담입니다.\n제품 하자의 경우 무료 교환이 가능합니다.",
		Categories:             []string{"주문 문의", "환불 요청", "기술 지원", "계정 관리"},
		HumanInterventionRules: "고객이 환불을 요청하는 경우\n기술적 문제 해결이 어려운 경우\n고객이 불만을 표현하는 경우",
		ResponseWaitTime:       5,
		AutoClose:              true,
	}
}

// SettingsUpdate 설정 수정 요청
// nil 필드는 기존 값을 유지한다
type SettingsUpdate struct {
	Greeting               *string  `json:"greeting"`
	Farewell               *string  `json:"farewell"`
	CompanyPolicy          *string  `json:"company_policy"`
	Categories             []string `json:"categories"`
	HumanInterventionRules *string  `json:"human_intervention_rules"`
	ResponseWaitTime       *int     `json:"response_wait_time"`
	AutoClose              *bool    `json:"auto_close"`
}

// SettingsService 챗봇 설정 관리 서비스
// DB 행을 타입이 있는 설정으로 변환하고 Redis 스냅샷 캐시를 관리한다
type SettingsService struct {
	settingRepo *repository.SettingRepository
	cache       *cache.RedisCache
}

// NewSettingsService 는 SettingsService 인스턴스를 생성한다
func NewSettingsService(settingRepo *repository.SettingRepository, redisCache *cache.RedisCache) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
		cache:       redisCache,
	}
}

// Get 은 현재 설정을 조회한다 (캐시 우선)
// 모든 고객 메시지 처리에서 호출되므로 Redis 스냅샷을 먼저 본다
// 캐시/DB 장애 시에도 기본값으로 동작을 이어간다
func (s *SettingsService) Get(ctx context.Context) *ChatSettings {
	if s.cache != nil {
		if data, err := s.cache.GetSettingsSnapshot(ctx); err == nil && data != nil {
			var settings ChatSettings
			if err := json.Unmarshal(data, &settings); err == nil {
				return sanitizeSettings(&settings)
			}
		}
	}

	rows, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		log.Printf("설정 조회 실패, 기본값 사용: %v", err)
		return DefaultChatSettings()
	}

	settings := foldSettings(rows)

	if s.cache != nil {
		if data, err := json.Marshal(settings); err == nil {
			if err := s.cache.SetSettingsSnapshot(ctx, data); err != nil {
				log.Printf("설정 캐시 저장 실패: %v", err)
			}
		}
	}
	return settings
}

// Update 는 설정을 수정하고 캐시를 무효화한다
// 파라미터:
//   - ctx: 컨텍스트
//   - update: 수정 요청 (nil 필드는 유지)
//   - updatedBy: 수정한 관리자 ID
//
// 반환:
//   - *ChatSettings: 수정 후 설정
//   - error: 데이터베이스 에러
func (s *SettingsService) Update(ctx context.Context, update *SettingsUpdate, updatedBy string) (*ChatSettings, error) {
	current := s.Get(ctx)

	merged := *current
	if update.Greeting != nil {
		merged.Greeting = *update.Greeting
	}
	if update.Farewell != nil {
		merged.Farewell = *update.Farewell
	}
	if update.CompanyPolicy != nil {
		merged.CompanyPolicy = *update.CompanyPolicy
	}
	if update.Categories != nil {
		merged.Categories = update.Categories
	}
	if update.HumanInterventionRules != nil {
		merged.HumanInterventionRules = *update.HumanInterventionRules
	}
	if update.ResponseWaitTime != nil {
		merged.ResponseWaitTime = *update.ResponseWaitTime
	}
	if update.AutoClose != nil {
		merged.AutoClose = *update.AutoClose
	}
	sanitizeSettings(&merged)

	categoriesJSON, err := json.Marshal(merged.Categories)
	if err != nil {
		return nil, err
	}

	by := &updatedBy
	pairs := map[string]string{
		"greeting":                 merged.Greeting,
		"farewell":                 merged.Farewell,
		"company_policy":           merged.CompanyPolicy,
		"categories":               string(categoriesJSON),
		"human_intervention_rules": merged.HumanInterventionRules,
		"response_wait_time":       strconv.Itoa(merged.ResponseWaitTime),
		"auto_close":               strconv.FormatBool(merged.AutoClose),
	}
	for key, value := range pairs {
		if err := s.settingRepo.Upsert(ctx, key, value, by); err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSettings(ctx); err != nil {
			log.Printf("설정 캐시 무효화 실패: %v", err)
		}
	}
	return &merged, nil
}

// foldSettings 는 설정 행들을 기본값과 병합해 타입이 있는 구조체로 변환한다
// 파싱에 실패한 행은 기본값으로 대체한다
func foldSettings(rows []model.ChatbotSetting) *ChatSettings {
	settings := DefaultChatSettings()
	for _, row := range rows {
		value := row.SettingValue
		switch row.SettingKey {
		case "greeting":
			settings.Greeting = value
		case "farewell":
			settings.Farewell = value
		case "company_policy":
			settings.CompanyPolicy = value
		case "categories":
			var categories []string
			if err := json.Unmarshal([]byte(value), &categories); err == nil && len(categories) > 0 {
				settings.Categories = categories
			}
		case "human_intervention_rules":
			settings.HumanInterventionRules = value
		case "response_wait_time":
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				settings.ResponseWaitTime = n
			}
		case "auto_close":
			settings.AutoClose = parseBoolish(value)
		}
	}
	return sanitizeSettings(settings)
}

// sanitizeSettings 는 설정의 불변 조건을 강제한다
// 대기 시간은 양수, 카테고리 목록은 비어 있지 않아야 한다
func sanitizeSettings(settings *ChatSettings) *ChatSettings {
	if settings.ResponseWaitTime <= 0 {
		settings.ResponseWaitTime = 5
	}
	if len(settings.Categories) == 0 {
		settings.Categories = DefaultChatSettings().Categories
	}
	if settings.Farewell == "" {
		settings.Farewell = DefaultChatSettings().Farewell
	}
	if settings.Greeting == "" {
		settings.Greeting = DefaultChatSettings().Greeting
	}
	return settings
}

// parseBoolish 는 "1"/"true"/"yes"/"y" 류의 문자열을 bool 로 해석한다
func parseBoolish(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
