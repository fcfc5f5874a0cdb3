// Package model 은 데이터베이스 테이블에 대응하는 구조체를 정의한다
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// 발신 주체 상수
const (
	SenderTypeUser  = "user"  // 고객이 보낸 메시지
	SenderTypeAI    = "ai"    // 자동 응답 메시지
	SenderTypeAgent = "agent" // 상담원이 보낸 메시지
)

// AttachmentList 메시지 첨부 URL 목록
// DB 에는 JSON 문자열로 저장한다
type AttachmentList []string

// Value 는 driver.Valuer 구현으로, JSON 직렬화 결과를 저장한다
func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan 은 sql.Scanner 구현으로, JSON 문자열을 역직렬화한다
func (a *AttachmentList) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("attachments: unsupported scan type")
	}
}

// Message 메시지 모델
// messages 테이블에 대응한다
// 생성 이후 불변이며, created_at 순서가 대화의 전체 순서를 정의한다
type Message struct {
	// ID 메시지 고유 식별자 (uuid hex)
	ID string `gorm:"primaryKey;size:32" json:"id"`

	// SessionID 소속 세션 ID, chat_sessions.id 참조
	SessionID string `gorm:"size:32;index;not null" json:"session_id"`

	// SenderType 발신 주체: user / ai / agent
	SenderType string `gorm:"size:10;not null" json:"sender_type"`

	// SenderID 발신자 ID (ai 메시지는 NULL)
	SenderID *string `gorm:"size:32" json:"sender_id,omitempty"`

	// Content 메시지 본문
	Content string `gorm:"type:text;not null" json:"content"`

	// Attachments 첨부 URL 목록 (선택)
	Attachments AttachmentList `gorm:"type:text" json:"attachments,omitempty"`

	// IsRead 관리자 읽음 여부
	IsRead bool `gorm:"default:false" json:"is_read"`

	// CreatedAt 생성 시각
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 테이블명 지정
func (Message) TableName() string {
	return "messages"
}
