// Package model 은 데이터베이스 테이블에 대응하는 구조체를 정의한다
package model

import (
	"time"
)

// 세션 상태 상수
const (
	SessionStatusActive    = "active"    // 상담 진행 중
	SessionStatusPending   = "pending"   // 사람 개입 대기
	SessionStatusCompleted = "completed" // 상담 종료 (터미널 상태)
)

// 핸들러 타입 상수
const (
	HandlerTypeAI    = "ai"    // AI 가 응대 중
	HandlerTypeAgent = "agent" // 상담원이 응대 중
)

// ChatSession 상담 세션 모델
// chat_sessions 테이블에 대응한다
// 한 고객의 진행 중이거나 종료된 상담 하나를 표현한다
//
// 불변식:
//   - pending_at 은 status=pending 일 때만 값이 있다
//   - completed_at / duration_minutes 는 status=completed 일 때만 값이 있다
//   - assigned_agent_id 는 handler_type=agent 일 때만 값이 있다
type ChatSession struct {
	// ID 세션 고유 식별자 (uuid hex)
	ID string `gorm:"primaryKey;size:32" json:"id"`

	// CustomerID 고객 ID, users.id 참조
	CustomerID string `gorm:"size:32;index;not null" json:"customer_id"`

	// Category 상담 카테고리 (미분류면 NULL)
	Category *string `gorm:"size:50" json:"category,omitempty"`

	// Status 세션 상태: active / pending / completed
	Status string `gorm:"size:20;default:active;index" json:"status"`

	// HandlerType 현재 응대 주체: ai / agent
	HandlerType string `gorm:"size:10;default:ai" json:"handler_type"`

	// AssignedAgentID 배정된 상담원 ID, 인수 전에는 NULL
	AssignedAgentID *string `gorm:"size:32" json:"assigned_agent_id,omitempty"`

	// StartedAt 상담 시작 시각
	StartedAt time.Time `gorm:"autoCreateTime" json:"started_at"`

	// PendingAt 대기 전환 시각, status=pending 일 때만 값이 있다
	PendingAt *time.Time `json:"pending_at,omitempty"`

	// CompletedAt 상담 종료 시각, status=completed 일 때만 값이 있다
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// DurationMinutes 상담 소요 시간(분), 종료 시점에 계산된다
	DurationMinutes *int `json:"duration_minutes,omitempty"`

	// Summary 관리자용 상담 요약
	Summary *string `gorm:"type:text" json:"summary,omitempty"`

	// Customer 고객 (다대일 관계)
	Customer *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	// Messages 세션의 모든 메시지 (일대다 관계)
	Messages []Message `gorm:"foreignKey:SessionID" json:"messages,omitempty"`

	// Metadata 세션 파생 메타데이터 (일대일 관계)
	Metadata *SessionMetadata `gorm:"foreignKey:SessionID" json:"metadata,omitempty"`
}

// TableName 테이블명 지정
func (ChatSession) TableName() string {
	return "chat_sessions"
}

// IsCompleted 는 세션이 터미널 상태인지 반환한다
func (s *ChatSession) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

// 우선순위 상수
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// SessionMetadata 세션 파생 메타데이터
// chat_session_metadata 테이블에 대응한다
// 관리자 목록 화면을 위한 캐시 성격의 값들로, 세션과 함께 생성된다
//
// 불변식: unread_count 는 고객 메시지마다 정확히 1씩 증가하고,
// 관리자의 명시적 읽음 처리에서만 0 으로 리셋된다
type SessionMetadata struct {
	// SessionID 세션 ID, chat_sessions.id 참조 (기본키)
	SessionID string `gorm:"primaryKey;size:32" json:"session_id"`

	// LastMessage 마지막 메시지 미리보기
	LastMessage *string `gorm:"type:text" json:"last_message,omitempty"`

	// LastMessageAt 마지막 메시지 시각
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`

	// UnreadCount 관리자가 아직 읽지 않은 고객 메시지 수
	UnreadCount int `gorm:"default:0" json:"unread_count"`

	// Priority 우선순위 힌트: low / medium / high
	Priority string `gorm:"size:10;default:medium" json:"priority"`
}

// TableName 테이블명 지정
func (SessionMetadata) TableName() string {
	return "chat_session_metadata"
}
