package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"support-chat-server/internal/model"
	"support-chat-server/internal/repository"
)

// ActiveChatItem 관리자 콘솔의 진행 중 상담 목록 항목
type ActiveChatItem struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	Category     string     `json:"category"`
	LastMessage  string     `json:"last_message"`
	Timestamp    *time.Time `json:"timestamp"`
	Status       string     `json:"status"` // 담당 주체: ai / agent
	Unread       int        `json:"unread"`
}

// PendingChatItem 처리 대기 상담 목록 항목
type PendingChatItem struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Category     string `json:"category"`
	Issue        string `json:"issue"`
	WaitTime     int    `json:"wait_time"` // 대기 경과(분)
	Priority     string `json:"priority"`
}

// CompletedChatItem 종료된 상담 목록 항목
type CompletedChatItem struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	Category     string     `json:"category"`
	HandledBy    string     `json:"handled_by"` // AI / 상담원
	Duration     int        `json:"duration"`
	CompletedAt  *time.Time `json:"completed_at"`
	Summary      string     `json:"summary"`
	MessageCount int        `json:"message_count"`
}

// AdminSummary 관리자용 세션 요약
type AdminSummary struct {
	CoreSummary   string            `json:"core_summary"`
	CurrentIssues []string          `json:"current_issues"`
	CustomerInfo  AdminCustomerInfo `json:"customer_info"`
}

// AdminCustomerInfo 요약에 포함되는 고객 정보
type AdminCustomerInfo struct {
	Email     string    `json:"email"`
	StartedAt time.Time `json:"started_at"`
}

// AdminService 관리자 콘솔의 목록/요약 조회를 담당한다
type AdminService struct {
	sessionRepo *repository.SessionRepository
	messageRepo *repository.MessageRepository
}

// NewAdminService 는 AdminService 인스턴스를 생성한다
func NewAdminService(sessionRepo *repository.SessionRepository, messageRepo *repository.MessageRepository) *AdminService {
	return &AdminService{sessionRepo: sessionRepo, messageRepo: messageRepo}
}

// matchCategorySearch 는 카테고리/검색어 필터를 적용한다
// search 는 고객 이메일에 대한 부분 일치(대소문자 무시)다
func matchCategorySearch(category, search, sessionCategory, customerName string) bool {
	if category != "" && category != "all" && sessionCategory != category {
		return false
	}
	if search != "" && !strings.Contains(strings.ToLower(customerName), strings.ToLower(search)) {
		return false
	}
	return true
}

func sessionCategory(session *model.ChatSession) string {
	if session.Category != nil && *session.Category != "" {
		return *session.Category
	}
	return ""
}

func customerEmail(session *model.ChatSession) string {
	if session.Customer != nil {
		return session.Customer.Email
	}
	return ""
}

// ListActiveChats 는 진행 중 상담 목록을 조회한다
func (s *AdminService) ListActiveChats(ctx context.Context, category, search string) ([]ActiveChatItem, error) {
	sessions, err := s.sessionRepo.ListByStatus(ctx, model.SessionStatusActive)
	if err != nil {
		return nil, err
	}

	chats := make([]ActiveChatItem, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		name := customerEmail(session)
		if !matchCategorySearch(category, strings.TrimSpace(search), sessionCategory(session), name) {
			continue
		}

		item := ActiveChatItem{
			ID:           session.ID,
			CustomerID:   session.CustomerID,
			CustomerName: name,
			Category:     sessionCategory(session),
			Status:       session.HandlerType,
		}
		if item.Category == "" {
			item.Category = "미분류"
		}
		if session.Metadata != nil {
			if session.Metadata.LastMessage != nil {
				item.LastMessage = *session.Metadata.LastMessage
			}
			item.Timestamp = session.Metadata.LastMessageAt
			item.Unread = session.Metadata.UnreadCount
		}
		chats = append(chats, item)
	}
	return chats, nil
}

// ListPendingChats 는 처리 대기 상담 목록을 조회한다
// wait_time 은 pending 전환 시점부터의 경과(분)다
func (s *AdminService) ListPendingChats(ctx context.Context, category, search string) ([]PendingChatItem, error) {
	sessions, err := s.sessionRepo.ListByStatus(ctx, model.SessionStatusPending)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	chats := make([]PendingChatItem, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		name := customerEmail(session)
		if !matchCategorySearch(category, strings.TrimSpace(search), sessionCategory(session), name) {
			continue
		}

		item := PendingChatItem{
			ID:           session.ID,
			CustomerID:   session.CustomerID,
			CustomerName: name,
			Category:     sessionCategory(session),
			Issue:        "사람 개입이 필요합니다.",
			Priority:     model.PriorityMedium,
		}
		if item.Category == "" {
			item.Category = "미분류"
		}
		if session.PendingAt != nil {
			item.WaitTime = durationMinutes(*session.PendingAt, now)
		}
		if session.Metadata != nil {
			if session.Metadata.LastMessage != nil && *session.Metadata.LastMessage != "" {
				item.Issue = *session.Metadata.LastMessage
			}
			if session.Metadata.Priority != "" {
				item.Priority = session.Metadata.Priority
			}
		}
		chats = append(chats, item)
	}
	return chats, nil
}

// ListCompletedChats 는 종료된 상담 목록을 조회한다
// 파라미터:
//   - handler: all / AI / 상담원
//   - dateRange: all / today / week / month
func (s *AdminService) ListCompletedChats(ctx context.Context, category, handler, dateRange, search string) ([]CompletedChatItem, error) {
	sessions, err := s.sessionRepo.ListByStatus(ctx, model.SessionStatusCompleted)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var cutoff *time.Time
	switch dateRange {
	case "today":
		t := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		cutoff = &t
	case "week":
		t := now.AddDate(0, 0, -7)
		cutoff = &t
	case "month":
		t := now.AddDate(0, 0, -30)
		cutoff = &t
	}

	chats := make([]CompletedChatItem, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		name := customerEmail(session)
		if !matchCategorySearch(category, strings.TrimSpace(search), sessionCategory(session), name) {
			continue
		}

		handledBy := "상담원"
		if session.HandlerType == model.HandlerTypeAI {
			handledBy = "AI"
		}
		if handler != "" && handler != "all" && handler != handledBy {
			continue
		}
		if cutoff != nil && (session.CompletedAt == nil || session.CompletedAt.Before(*cutoff)) {
			continue
		}

		item := CompletedChatItem{
			ID:           session.ID,
			CustomerID:   session.CustomerID,
			CustomerName: name,
			Category:     sessionCategory(session),
			HandledBy:    handledBy,
			CompletedAt:  session.CompletedAt,
		}
		if item.Category == "" {
			item.Category = "미분류"
		}
		if session.DurationMinutes != nil {
			item.Duration = *session.DurationMinutes
		}
		if session.Summary != nil {
			item.Summary = *session.Summary
		}
		if count, err := s.messageRepo.CountBySessionID(ctx, session.ID); err == nil {
			item.MessageCount = int(count)
		}
		chats = append(chats, item)
	}
	return chats, nil
}

// GetSummary 는 관리자용 세션 요약을 만든다
// 카테고리 기반 휴리스틱으로 핵심 요약과 확인 이슈 목록을 구성한다
func (s *AdminService) GetSummary(ctx context.Context, sessionID string) (*AdminSummary, error) {
	session, err := s.sessionRepo.GetByIDWithCustomer(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	category := sessionCategory(session)
	if category == "" {
		category = "미분류"
	}

	issues := []string{}
	switch category {
	case "주문 문의":
		issues = append(issues, "주문번호 미확인")
	case "환불 요청":
		issues = append(issues, "구매일/주문번호 확인 필요")
	}

	messages, err := s.messageRepo.GetBySessionID(ctx, sessionID)
	if err == nil {
		for i := len(messages) - 1; i >= 0; i-- {
			if messages[i].SenderType == model.SenderTypeUser {
				if strings.Contains(messages[i].Content, "오류") {
					issues = append(issues, "오류 내용 확인 필요")
				}
				break
			}
		}
	}

	return &AdminSummary{
		CoreSummary:   fmt.Sprintf("고객이 '%s' 관련 문의를 하고 있습니다.", category),
		CurrentIssues: issues,
		CustomerInfo: AdminCustomerInfo{
			Email:     customerEmail(session),
			StartedAt: session.StartedAt,
		},
	}, nil
}
