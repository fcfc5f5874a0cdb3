// Package model 은 데이터베이스 테이블에 대응하는 구조체를 정의한다
package model

import (
	"time"
)

// ChatbotSetting 챗봇 설정 행
// chatbot_settings 테이블에 대응한다
// key/value 행으로 저장하되, 서비스 레이어에서 타입이 있는 구조체로 변환해 사용한다
type ChatbotSetting struct {
	// ID 자동 증가 기본키
	ID int64 `gorm:"primaryKey" json:"id"`

	// SettingKey 설정 키 (greeting, farewell, categories 등)
	SettingKey string `gorm:"size:50;uniqueIndex;not null" json:"setting_key"`

	// SettingValue 설정 값 (categories 는 JSON 배열 문자열)
	SettingValue string `gorm:"type:text;not null" json:"setting_value"`

	// UpdatedBy 마지막 수정자 ID
	UpdatedBy *string `gorm:"size:32" json:"updated_by,omitempty"`

	// UpdatedAt 갱신 시각
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 테이블명 지정
func (ChatbotSetting) TableName() string {
	return "chatbot_settings"
}
