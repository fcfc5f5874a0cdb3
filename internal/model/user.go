// Package model 은 데이터베이스 테이블에 대응하는 구조체를 정의한다
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// 사용자 역할 상수
const (
	RoleCustomer = "customer" // 고객
	RoleAdmin    = "admin"    // 관리자(상담원)
)

// User 사용자 모델
// users 테이블에 대응한다
// 고객과 관리자를 role 로 구분해 한 테이블에 저장한다
type User struct {
	// ID 사용자 고유 식별자 (uuid hex)
	ID string `gorm:"primaryKey;size:32" json:"id"`

	// Email 로그인에 사용하는 이메일, 전역 유일
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`

	// PasswordHash 비밀번호의 bcrypt 해시
	// 평문 비밀번호는 절대 저장하지 않는다
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// Name 표시 이름
	Name string `gorm:"size:100;not null" json:"name"`

	// Role 역할: customer / admin
	Role string `gorm:"size:20;not null;index" json:"role"`

	// CreatedAt 생성 시각, GORM 이 자동으로 채운다
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// UpdatedAt 갱신 시각, GORM 이 자동으로 갱신한다
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 테이블명 지정
func (User) TableName() string {
	return "users"
}

// NewID 는 세션/메시지 등에서 사용하는 32자 uuid hex 식별자를 생성한다
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
