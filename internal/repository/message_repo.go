package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"support-chat-server/internal/model"
)

// MessageRepository 메시지 데이터 접근 계층
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 는 MessageRepository 인스턴스를 생성한다
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// WithTx 는 트랜잭션에 바인딩된 복사본을 반환한다
func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{db: tx}
}

// Create 새 메시지를 생성한다
// 파라미터:
//   - ctx: 컨텍스트
//   - message: 메시지 객체, CreatedAt 은 자동으로 채워진다
//
// 반환:
//   - error: 데이터베이스 에러
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// GetBySessionID 는 세션의 전체 메시지를 시간순(오름차순)으로 조회한다
// 대화 기록 화면과 결정 파이프라인의 대화 맥락 구성에 사용한다
func (r *MessageRepository) GetBySessionID(ctx context.Context, sessionID string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// GetLastAgentMessage 는 세션의 마지막 상담원 메시지를 조회한다
// 종료 요약의 폴백 소재로 사용한다
// 반환:
//   - *model.Message: 마지막 상담원 메시지, 없으면 nil
//   - error: 데이터베이스 에러
func (r *MessageRepository) GetLastAgentMessage(ctx context.Context, sessionID string) (*model.Message, error) {
	var message model.Message
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND sender_type = ?", sessionID, model.SenderTypeAgent).
		Order("created_at DESC").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// MarkUserMessagesRead 는 세션의 읽지 않은 고객 메시지를 모두 읽음 처리한다
// 관리자가 대화 기록을 열람할 때 unread 리셋과 함께 호출된다
func (r *MessageRepository) MarkUserMessagesRead(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("session_id = ? AND sender_type = ? AND is_read = ?",
			sessionID, model.SenderTypeUser, false).
		Update("is_read", true).Error
}

// CountBySessionID 는 세션의 메시지 개수를 반환한다
func (r *MessageRepository) CountBySessionID(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
