// Package repository 는 데이터 접근 계층의 구현을 제공한다
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"support-chat-server/internal/model"
)

// SessionRepository 상담 세션 데이터 접근 계층
// 세션과 세션 메타데이터 관련 모든 데이터베이스 연산을 담당한다
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 는 SessionRepository 인스턴스를 생성한다
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// WithTx 는 트랜잭션에 바인딩된 복사본을 반환한다
// 한 턴의 쓰기 작업(메시지 삽입 + 상태 전이 + 메타데이터 갱신)을
// 하나의 원자적 단위로 묶을 때 사용한다
func (r *SessionRepository) WithTx(tx *gorm.DB) *SessionRepository {
	return &SessionRepository{db: tx}
}

// Create 새 세션을 생성한다
// 파라미터:
//   - ctx: 컨텍스트
//   - session: 세션 객체, StartedAt 은 자동으로 채워진다
//
// 반환:
//   - error: 데이터베이스 에러
func (r *SessionRepository) Create(ctx context.Context, session *model.ChatSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByID 는 ID 로 세션을 조회한다
// 반환:
//   - *model.ChatSession: 세션 객체, 없으면 nil
//   - error: 데이터베이스 에러
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// GetByIDWithCustomer 는 세션과 고객 정보를 함께 조회한다
// 관리자 목록/요약 화면에서 고객 이메일을 표시할 때 사용한다
func (r *SessionRepository) GetByIDWithCustomer(ctx context.Context, id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.WithContext(ctx).Preload("Customer").Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// GetOpenByCustomerID 는 고객의 진행 중(active/pending) 세션을 조회한다
// 가장 최근에 시작한 세션 하나만 반환한다
// 반환:
//   - *model.ChatSession: 열린 세션, 없으면 nil
//   - error: 데이터베이스 에러
func (r *SessionRepository) GetOpenByCustomerID(ctx context.Context, customerID string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID,
			[]string{model.SessionStatusActive, model.SessionStatusPending}).
		Order("started_at DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// ListByStatus 는 상태별 세션 목록을 조회한다 (고객, 메타데이터 포함)
// 관리자 콘솔의 active / pending / completed 탭에서 사용한다
// completed 는 종료 시각 역순, 나머지는 시작 시각 역순으로 정렬한다
func (r *SessionRepository) ListByStatus(ctx context.Context, status string) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Metadata").
		Where("status = ?", status)
	if status == model.SessionStatusCompleted {
		query = query.Order("completed_at DESC")
	} else {
		query = query.Order("started_at DESC")
	}
	err := query.Find(&sessions).Error
	return sessions, err
}

// CountByStatus 는 상태별 세션 수를 반환한다
func (r *SessionRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// UpdateFields 는 세션의 일부 필드를 갱신한다
// 상태 전이는 항상 이 메서드를 통해 명시적 필드 맵으로 기록한다
// 파라미터:
//   - ctx: 컨텍스트
//   - id: 세션 ID
//   - fields: 갱신할 필드 맵 (예: {"status": "pending", "pending_at": now})
//
// 반환:
//   - error: 데이터베이스 에러
func (r *SessionRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// ==================== 세션 메타데이터 ====================

// CreateMetadata 세션 메타데이터를 생성한다
// 세션 생성과 같은 트랜잭션 안에서 호출한다
func (r *SessionRepository) CreateMetadata(ctx context.Context, meta *model.SessionMetadata) error {
	return r.db.WithContext(ctx).Create(meta).Error
}

// GetMetadata 는 세션 메타데이터를 조회한다
// 반환:
//   - *model.SessionMetadata: 메타데이터, 없으면 nil
//   - error: 데이터베이스 에러
func (r *SessionRepository) GetMetadata(ctx context.Context, sessionID string) (*model.SessionMetadata, error) {
	var meta model.SessionMetadata
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

// UpdateMetadataFields 는 메타데이터의 일부 필드를 갱신한다
func (r *SessionRepository) UpdateMetadataFields(ctx context.Context, sessionID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.SessionMetadata{}).
		Where("session_id = ?", sessionID).
		Updates(fields).Error
}

// IncrementUnread 는 읽지 않은 고객 메시지 수를 1 증가시킨다
// 고객 메시지 1건당 정확히 한 번 호출된다
func (r *SessionRepository) IncrementUnread(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&model.SessionMetadata{}).
		Where("session_id = ?", sessionID).
		UpdateColumn("unread_count", gorm.Expr("unread_count + 1")).Error
}

// ResetUnread 는 읽지 않은 메시지 수를 0 으로 리셋한다
// 관리자의 명시적 읽음 처리에서만 호출된다
func (r *SessionRepository) ResetUnread(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&model.SessionMetadata{}).
		Where("session_id = ?", sessionID).
		UpdateColumn("unread_count", 0).Error
}
