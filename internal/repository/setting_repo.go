package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"support-chat-server/internal/model"
)

// SettingRepository 챗봇 설정 데이터 접근 계층
type SettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 는 SettingRepository 인스턴스를 생성한다
func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetAll 은 전체 설정 행을 조회한다
// 서비스 레이어에서 기본값과 병합해 타입이 있는 설정 구조체로 변환한다
func (r *SettingRepository) GetAll(ctx context.Context) ([]model.ChatbotSetting, error) {
	var settings []model.ChatbotSetting
	err := r.db.WithContext(ctx).Find(&settings).Error
	return settings, err
}

// Upsert 는 설정 키를 삽입하거나 값을 갱신한다
// 파라미터:
//   - ctx: 컨텍스트
//   - key: 설정 키
//   - value: 설정 값 (문자열 직렬화 완료 상태)
//   - updatedBy: 수정한 관리자 ID
func (r *SettingRepository) Upsert(ctx context.Context, key, value string, updatedBy *string) error {
	setting := model.ChatbotSetting{
		SettingKey:   key,
		SettingValue: value,
		UpdatedBy:    updatedBy,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_by", "updated_at"}),
		}).
		Create(&setting).Error
}
