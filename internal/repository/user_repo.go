// Package repository 는 데이터 접근 계층의 구현을 제공한다
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"support-chat-server/internal/model"
)

// UserRepository 사용자 데이터 접근 계층
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 는 UserRepository 인스턴스를 생성한다
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 새 사용자를 생성한다
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 는 ID 로 사용자를 조회한다
// 파라미터:
//   - ctx: 컨텍스트
//   - id: 사용자 ID
//
// 반환:
//   - *model.User: 사용자 객체, 없으면 nil
//   - error: 데이터베이스 에러
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmailAndRole 은 이메일과 역할로 사용자를 조회한다
// 로그인에서 사용한다 (같은 이메일이 고객/관리자로 따로 존재할 수 있다)
// 반환:
//   - *model.User: 사용자 객체, 없으면 nil
//   - error: 데이터베이스 에러
func (r *UserRepository) GetByEmailAndRole(ctx context.Context, email, role string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND role = ?", email, role).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
