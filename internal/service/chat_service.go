package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"support-chat-server/internal/model"
	"support-chat-server/internal/repository"
)

// Notifier 실시간 팬아웃 인터페이스 (ws.Hub 가 구현)
// requiredBucket 이 비어 있으면 구독 버킷과 무관하게 모든 관리자에게 보낸다
type Notifier interface {
	SendToUser(userID string, eventType string, data interface{})
	BroadcastToAdmins(eventType string, data interface{}, requiredBucket string)
}

// 팬아웃 이벤트 타입
const (
	EventNewMessage         = "new_message"
	EventCustomerMessage    = "customer_message"
	EventUnreadCountUpdated = "unread_count_updated"
	EventSessionStatus      = "session_status_changed"
	EventSessionCompleted   = "session_completed"
	EventNewChatSession     = "new_chat_session"
	EventAgentConnected     = "agent_connected"
)

// PendingCounter 관리자 뱃지용 대기 상담 카운터 (cache.RedisCache 가 구현)
type PendingCounter interface {
	IncrPendingCount(ctx context.Context) error
	DecrPendingCount(ctx context.Context) error
	GetPendingCount(ctx context.Context) (int64, error)
}

// ChatService 상담 세션의 상태 기계와 메시지 흐름을 담당한다
// 세션 단위 락으로 같은 세션의 턴 처리를 직렬화한다
type ChatService struct {
	db          *gorm.DB
	sessionRepo *repository.SessionRepository
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository
	settings    *SettingsService
	engine      *DecisionEngine
	summaries   *SummaryService
	notifier    Notifier
	cache       PendingCounter

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewChatService 는 ChatService 인스턴스를 생성한다
func NewChatService(
	db *gorm.DB,
	sessionRepo *repository.SessionRepository,
	messageRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	settings *SettingsService,
	engine *DecisionEngine,
	summaries *SummaryService,
	notifier Notifier,
	pendingCounter PendingCounter,
) *ChatService {
	return &ChatService{
		db:          db,
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		settings:    settings,
		engine:      engine,
		summaries:   summaries,
		notifier:    notifier,
		cache:       pendingCounter,
		locks:       make(map[string]*sync.Mutex),
	}
}

// sessionLock 은 세션별 뮤텍스를 반환한다
// 같은 세션의 로드-결정-기록-팬아웃이 겹치지 않게 한다
func (s *ChatService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// authorizeSessionAccess 는 세션 접근 권한을 확인한다
// 고객은 자기 세션만, 관리자는 모든 세션에 접근할 수 있다
func authorizeSessionAccess(session *model.ChatSession, userID, role string) error {
	if session == nil {
		return ErrSessionNotFound
	}
	if role == model.RoleCustomer && session.CustomerID != userID {
		return ErrNoPermission
	}
	return nil
}

// ensureOpen 은 상태 전환이 가능한 세션인지 확인한다
// 종료된 세션은 어떤 전환도 다시 허용하지 않는다
func ensureOpen(session *model.ChatSession) error {
	if session == nil {
		return ErrSessionNotFound
	}
	if session.IsCompleted() {
		return ErrSessionCompleted
	}
	return nil
}

// GetOrCreateSession 은 고객의 열린 세션을 반환하고, 없으면 새로 만든다
// 새 세션에는 인사말 메시지가 함께 생성된다
// 반환:
//   - *model.ChatSession: 세션
//   - []model.Message: 세션의 전체 메시지
//   - error: 데이터베이스 에러
func (s *ChatService) GetOrCreateSession(ctx context.Context, customerID string) (*model.ChatSession, []model.Message, error) {
	session, err := s.sessionRepo.GetOpenByCustomerID(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if session != nil {
		messages, err := s.messageRepo.GetBySessionID(ctx, session.ID)
		if err != nil {
			return nil, nil, err
		}
		return session, messages, nil
	}

	settings := s.settings.Get(ctx)
	now := time.Now().UTC()
	session = &model.ChatSession{
		ID:          model.NewID(),
		CustomerID:  customerID,
		Status:      model.SessionStatusActive,
		HandlerType: model.HandlerTypeAI,
		StartedAt:   now,
	}
	greeting := &model.Message{
		ID:         model.NewID(),
		SessionID:  session.ID,
		SenderType: model.SenderTypeAI,
		Content:    settings.Greeting,
		IsRead:     true,
		CreatedAt:  now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		sessionTx := s.sessionRepo.WithTx(tx)
		if err := sessionTx.Create(ctx, session); err != nil {
			return err
		}
		meta := &model.SessionMetadata{
			SessionID:     session.ID,
			LastMessage:   &settings.Greeting,
			LastMessageAt: &now,
			UnreadCount:   0,
			Priority:      model.PriorityMedium,
		}
		if err := sessionTx.CreateMetadata(ctx, meta); err != nil {
			return err
		}
		return s.messageRepo.WithTx(tx).Create(ctx, greeting)
	})
	if err != nil {
		return nil, nil, err
	}
	return session, []model.Message{*greeting}, nil
}

// SendMessage 는 한 턴을 처리한다
// 발신자 메시지를 기록하고, AI 담당의 활성 세션이면 결정 파이프라인을 돌려
// 응답/상태 전환(pending/completed)까지 수행한다
// 파라미터:
//   - senderID: 발신자 ID
//   - senderRole: customer / admin
//
// 반환:
//   - *model.Message: 기록된 발신자 메시지
//   - error: ErrSessionNotFound / ErrSessionCompleted / ErrNoPermission / ErrEmptyContent
func (s *ChatService) SendMessage(ctx context.Context, sessionID, senderID, senderRole, content string, attachments []string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSessionAccess(session, senderID, senderRole); err != nil {
		return nil, err
	}
	if err := ensureOpen(session); err != nil {
		return nil, err
	}

	senderType := model.SenderTypeAgent
	if senderRole == model.RoleCustomer {
		senderType = model.SenderTypeUser
	}

	now := time.Now().UTC()
	message := &model.Message{
		ID:          model.NewID(),
		SessionID:   sessionID,
		SenderType:  senderType,
		SenderID:    &senderID,
		Content:     content,
		Attachments: attachments,
		IsRead:      false,
		CreatedAt:   now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.messageRepo.WithTx(tx).Create(ctx, message); err != nil {
			return err
		}
		sessionTx := s.sessionRepo.WithTx(tx)
		if err := sessionTx.UpdateMetadataFields(ctx, sessionID, map[string]interface{}{
			"last_message":    content,
			"last_message_at": now,
		}); err != nil {
			return err
		}
		if senderType == model.SenderTypeUser {
			return sessionTx.IncrementUnread(ctx, sessionID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SendToUser(session.CustomerID, EventNewMessage,
		map[string]interface{}{"message": message})
	s.notifier.BroadcastToAdmins(EventNewMessage,
		map[string]interface{}{"session_id": sessionID, "message": message}, session.Status)

	if senderType == model.SenderTypeUser {
		s.notifier.BroadcastToAdmins(EventCustomerMessage,
			map[string]interface{}{"session_id": sessionID, "message": message}, session.Status)
		if meta, err := s.sessionRepo.GetMetadata(ctx, sessionID); err == nil && meta != nil {
			s.notifier.BroadcastToAdmins(EventUnreadCountUpdated,
				map[string]interface{}{"session_id": sessionID, "unread_count": meta.UnreadCount}, session.Status)
		}
	}

	// 상담원 메시지는 여기서 종료. pending 상태에서도 AI 는 추가 응답하지 않는다
	if senderType == model.SenderTypeAgent ||
		session.HandlerType == model.HandlerTypeAgent ||
		session.Status != model.SessionStatusActive {
		return message, nil
	}

	s.runDecisionTurn(ctx, session, message, content)
	return message, nil
}

// runDecisionTurn 은 고객 발화에 대한 결정을 수행하고 결과를 기록/팬아웃한다
// 생성형 호출은 세션 락 안에서, DB 쓰기 트랜잭션 밖에서 실행한다
func (s *ChatService) runDecisionTurn(ctx context.Context, session *model.ChatSession, userMessage *model.Message, content string) {
	settings := s.settings.Get(ctx)

	messages, err := s.messageRepo.GetBySessionID(ctx, session.ID)
	if err != nil {
		log.Printf("대화 기록 조회 실패 session_id=%s: %v", session.ID, err)
		return
	}

	// 방금 기록한 발화는 UserMessage 로 따로 전달하므로 대화 목록에서 제외한다
	conversation := make([]ConversationTurn, 0, len(messages))
	for _, m := range messages {
		if m.ID == userMessage.ID {
			continue
		}
		conversation = append(conversation, ConversationTurn{SenderType: m.SenderType, Content: m.Content})
	}

	adminInstruction := ""
	if lastAgent, err := s.messageRepo.GetLastAgentMessage(ctx, session.ID); err == nil && lastAgent != nil {
		adminInstruction = lastAgent.Content
	}

	customerProfile := "id=" + session.CustomerID
	if customer, err := s.userRepo.GetByID(ctx, session.CustomerID); err == nil && customer != nil {
		customerProfile = fmt.Sprintf("id=%s, email=%s, name=%s", customer.ID, customer.Email, customer.Name)
	}

	decision := s.engine.Decide(ctx, &DecisionInput{
		SessionID:        session.ID,
		UserMessage:      content,
		Conversation:     conversation,
		CurrentCategory:  session.Category,
		Settings:         settings,
		AdminInstruction: adminInstruction,
		CustomerID:       session.CustomerID,
		CustomerProfile:  customerProfile,
	})

	full := append(append([]ConversationTurn{}, conversation...),
		ConversationTurn{SenderType: model.SenderTypeUser, Content: content})

	toPending := decision.NeedsHuman && session.Status != model.SessionStatusPending
	pendingSummary := ""
	if toPending {
		pendingSummary = s.summaries.BuildPendingSummary(ctx, full)
	}
	completedSummary := ""
	if decision.Complete {
		if decision.Summary != nil && strings.TrimSpace(*decision.Summary) != "" {
			completedSummary = strings.TrimSpace(*decision.Summary)
		} else {
			completedSummary = s.summaries.BuildCompletedSummary(ctx, full, settings)
		}
	}

	now := time.Now().UTC()
	aiMessage := &model.Message{
		ID:         model.NewID(),
		SessionID:  session.ID,
		SenderType: model.SenderTypeAI,
		Content:    decision.Response,
		IsRead:     true,
		CreatedAt:  now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		sessionTx := s.sessionRepo.WithTx(tx)

		if decision.Category != nil &&
			(session.Category == nil || *session.Category != *decision.Category) {
			if err := sessionTx.UpdateFields(ctx, session.ID, map[string]interface{}{
				"category": *decision.Category,
			}); err != nil {
				return err
			}
		}

		if toPending {
			fields := map[string]interface{}{
				"status":     model.SessionStatusPending,
				"pending_at": now,
			}
			if pendingSummary != "" {
				fields["summary"] = pendingSummary
			}
			if err := sessionTx.UpdateFields(ctx, session.ID, fields); err != nil {
				return err
			}
		}

		if decision.Complete {
			if err := sessionTx.UpdateFields(ctx, session.ID, map[string]interface{}{
				"status":           model.SessionStatusCompleted,
				"completed_at":     now,
				"duration_minutes": durationMinutes(session.StartedAt, now),
				"summary":          completedSummary,
			}); err != nil {
				return err
			}
		}

		if err := s.messageRepo.WithTx(tx).Create(ctx, aiMessage); err != nil {
			return err
		}
		return sessionTx.UpdateMetadataFields(ctx, session.ID, map[string]interface{}{
			"last_message":    decision.Response,
			"last_message_at": now,
		})
	})
	if err != nil {
		log.Printf("결정 결과 기록 실패 session_id=%s: %v", session.ID, err)
		return
	}

	if toPending {
		if s.cache != nil {
			if err := s.cache.IncrPendingCount(ctx); err != nil {
				log.Printf("대기 카운터 증가 실패: %v", err)
			}
		}
		s.notifier.BroadcastToAdmins(EventSessionStatus, map[string]interface{}{
			"session_id":   session.ID,
			"status":       model.SessionStatusPending,
			"handler_type": model.HandlerTypeAI,
		}, "")

		customerName := ""
		if customer, err := s.userRepo.GetByID(ctx, session.CustomerID); err == nil && customer != nil {
			customerName = customer.Email
		}
		category := ""
		if decision.Category != nil {
			category = *decision.Category
		} else if session.Category != nil {
			category = *session.Category
		}
		s.notifier.BroadcastToAdmins(EventNewChatSession, map[string]interface{}{
			"session": map[string]interface{}{
				"id":            session.ID,
				"customer_name": customerName,
				"category":      category,
				"started_at":    session.StartedAt,
			},
		}, model.SessionStatusPending)
	}

	if decision.Complete {
		s.notifier.SendToUser(session.CustomerID, EventSessionCompleted, map[string]interface{}{
			"session_id": session.ID,
			"message":    decision.Response,
		})
		s.notifier.BroadcastToAdmins(EventSessionStatus, map[string]interface{}{
			"session_id":   session.ID,
			"status":       model.SessionStatusCompleted,
			"handler_type": model.HandlerTypeAI,
		}, "")
		return
	}

	nextBucket := model.SessionStatusActive
	if toPending {
		nextBucket = model.SessionStatusPending
	}
	s.notifier.SendToUser(session.CustomerID, EventNewMessage,
		map[string]interface{}{"message": aiMessage})
	s.notifier.BroadcastToAdmins(EventNewMessage,
		map[string]interface{}{"session_id": session.ID, "message": aiMessage}, nextBucket)
}

// ListMessages 는 세션의 대화 기록을 조회한다
// 관리자 열람 시 읽지 않은 고객 메시지를 읽음 처리하고 unread 를 리셋한다
func (s *ChatService) ListMessages(ctx context.Context, sessionID, userID, role string) ([]model.Message, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSessionAccess(session, userID, role); err != nil {
		return nil, err
	}

	if role == model.RoleAdmin {
		if err := s.sessionRepo.ResetUnread(ctx, sessionID); err != nil {
			return nil, err
		}
		if err := s.messageRepo.MarkUserMessagesRead(ctx, sessionID); err != nil {
			return nil, err
		}
		s.notifier.BroadcastToAdmins(EventUnreadCountUpdated,
			map[string]interface{}{"session_id": sessionID, "unread_count": 0}, session.Status)
	}
	return s.messageRepo.GetBySessionID(ctx, sessionID)
}

// Takeover 는 관리자가 세션을 직접 담당하도록 전환한다
// pending 세션이면 active 로 복귀시키고 이후 AI 응답을 멈춘다
func (s *ChatService) Takeover(ctx context.Context, sessionID, agentID string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := ensureOpen(session); err != nil {
		return err
	}

	wasPending := session.Status == model.SessionStatusPending
	err = s.sessionRepo.UpdateFields(ctx, sessionID, map[string]interface{}{
		"handler_type":      model.HandlerTypeAgent,
		"assigned_agent_id": agentID,
		"status":            model.SessionStatusActive,
		"pending_at":        nil,
	})
	if err != nil {
		return err
	}

	if wasPending && s.cache != nil {
		if err := s.cache.DecrPendingCount(ctx); err != nil {
			log.Printf("대기 카운터 감소 실패: %v", err)
		}
	}

	s.notifier.SendToUser(session.CustomerID, EventAgentConnected, map[string]interface{}{
		"session_id": sessionID,
		"message":    "상담원이 연결되었습니다.",
	})
	s.notifier.BroadcastToAdmins(EventSessionStatus, map[string]interface{}{
		"session_id":   sessionID,
		"status":       model.SessionStatusActive,
		"handler_type": model.HandlerTypeAgent,
	}, "")
	return nil
}

// ProvideInfo 는 대기 중인 세션에 관리자 지침을 내려 AI 응대로 복귀시킨다
// 지침은 상담원 메시지로 함께 기록되어 이후 턴에서도 지침 조회에 걸린다
// 지침을 반영한 응답을 결정 파이프라인으로 생성해 고객에게 전달한다
// 반환:
//   - *model.Message: 고객에게 보낸 AI 메시지
func (s *ChatService) ProvideInfo(ctx context.Context, sessionID, agentID, info string) (*model.Message, error) {
	info = strings.TrimSpace(info)
	if info == "" {
		return nil, ErrEmptyContent
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ensureOpen(session); err != nil {
		return nil, err
	}

	wasPending := session.Status == model.SessionStatusPending
	settings := s.settings.Get(ctx)

	messages, err := s.messageRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	conversation := make([]ConversationTurn, 0, len(messages))
	lastUser := ""
	for _, m := range messages {
		conversation = append(conversation, ConversationTurn{SenderType: m.SenderType, Content: m.Content})
		if m.SenderType == model.SenderTypeUser {
			lastUser = m.Content
		}
	}
	// 고객 발화가 없는 세션이면 지침 자체를 응대 대상으로 쓴다
	if lastUser == "" {
		lastUser = info
	}

	decision := s.engine.Decide(ctx, &DecisionInput{
		SessionID:        sessionID,
		UserMessage:      lastUser,
		Conversation:     conversation,
		CurrentCategory:  session.Category,
		Settings:         settings,
		AdminInstruction: info,
		CustomerID:       session.CustomerID,
	})

	completedSummary := ""
	if decision.Complete {
		if decision.Summary != nil && strings.TrimSpace(*decision.Summary) != "" {
			completedSummary = strings.TrimSpace(*decision.Summary)
		} else {
			completedSummary = s.summaries.BuildCompletedSummary(ctx, conversation, settings)
		}
	}

	now := time.Now().UTC()
	instruction, aiMessage := buildInstructionTurn(sessionID, agentID, info, decision.Response, now)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		sessionTx := s.sessionRepo.WithTx(tx)
		fields := map[string]interface{}{
			"status":       model.SessionStatusActive,
			"handler_type": model.HandlerTypeAI,
			"pending_at":   nil,
		}
		if decision.Complete {
			fields["status"] = model.SessionStatusCompleted
			fields["completed_at"] = now
			fields["duration_minutes"] = durationMinutes(session.StartedAt, now)
			fields["summary"] = completedSummary
		}
		if err := sessionTx.UpdateFields(ctx, sessionID, fields); err != nil {
			return err
		}
		messageTx := s.messageRepo.WithTx(tx)
		if err := messageTx.Create(ctx, instruction); err != nil {
			return err
		}
		if err := messageTx.Create(ctx, aiMessage); err != nil {
			return err
		}
		return sessionTx.UpdateMetadataFields(ctx, sessionID, map[string]interface{}{
			"last_message":    decision.Response,
			"last_message_at": aiMessage.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	if wasPending && s.cache != nil {
		if err := s.cache.DecrPendingCount(ctx); err != nil {
			log.Printf("대기 카운터 감소 실패: %v", err)
		}
	}

	if decision.Complete {
		s.notifier.SendToUser(session.CustomerID, EventSessionCompleted, map[string]interface{}{
			"session_id": sessionID,
			"message":    decision.Response,
		})
		s.notifier.BroadcastToAdmins(EventSessionStatus, map[string]interface{}{
			"session_id":   sessionID,
			"status":       model.SessionStatusCompleted,
			"handler_type": model.HandlerTypeAI,
		}, "")
		return aiMessage, nil
	}

	s.notifier.SendToUser(session.CustomerID, EventNewMessage,
		map[string]interface{}{"message": aiMessage})
	s.notifier.BroadcastToAdmins(EventSessionStatus, map[string]interface{}{
		"session_id":   sessionID,
		"status":       model.SessionStatusActive,
		"handler_type": model.HandlerTypeAI,
	}, "")
	return aiMessage, nil
}

// Complete 는 관리자가 세션을 수동 종료한다
// summary 가 비어 있으면 요약기로 생성한다
func (s *ChatService) Complete(ctx context.Context, sessionID, summary string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := ensureOpen(session); err != nil {
		return err
	}

	wasPending := session.Status == model.SessionStatusPending
	settings := s.settings.Get(ctx)

	summary = strings.TrimSpace(summary)
	if summary == "" {
		messages, err := s.messageRepo.GetBySessionID(ctx, sessionID)
		if err == nil {
			conversation := make([]ConversationTurn, 0, len(messages))
			for _, m := range messages {
				conversation = append(conversation, ConversationTurn{SenderType: m.SenderType, Content: m.Content})
			}
			summary = s.summaries.BuildCompletedSummary(ctx, conversation, settings)
		} else {
			summary = "상담이 종료되었습니다."
		}
	}

	now := time.Now().UTC()
	farewell := &model.Message{
		ID:         model.NewID(),
		SessionID:  sessionID,
		SenderType: model.SenderTypeAI,
		Content:    settings.Farewell,
		IsRead:     true,
		CreatedAt:  now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		sessionTx := s.sessionRepo.WithTx(tx)
		if err := sessionTx.UpdateFields(ctx, sessionID, map[string]interface{}{
			"status":           model.SessionStatusCompleted,
			"completed_at":     now,
			"duration_minutes": durationMinutes(session.StartedAt, now),
			"summary":          summary,
		}); err != nil {
			return err
		}
		if err := s.messageRepo.WithTx(tx).Create(ctx, farewell); err != nil {
			return err
		}
		return sessionTx.UpdateMetadataFields(ctx, sessionID, map[string]interface{}{
			"last_message":    settings.Farewell,
			"last_message_at": now,
		})
	})
	if err != nil {
		return err
	}

	if wasPending && s.cache != nil {
		if err := s.cache.DecrPendingCount(ctx); err != nil {
			log.Printf("대기 카운터 감소 실패: %v", err)
		}
	}

	s.notifier.SendToUser(session.CustomerID, EventSessionCompleted, map[string]interface{}{
		"session_id": sessionID,
		"message":    settings.Farewell,
	})
	s.notifier.BroadcastToAdmins(EventSessionStatus, map[string]interface{}{
		"session_id":   sessionID,
		"status":       model.SessionStatusCompleted,
		"handler_type": session.HandlerType,
	}, "")
	return nil
}

// buildInstructionTurn 은 관리자 지침 메시지와 그에 따른 AI 응답 메시지 쌍을 만든다
// 지침은 상담원 메시지로 남아 다음 턴의 지침 조회(GetLastAgentMessage)에 걸린다
// 같은 시각이면 정렬이 불안정해지므로 응답은 1ms 뒤 시각을 쓴다
func buildInstructionTurn(sessionID, agentID, info, reply string, now time.Time) (*model.Message, *model.Message) {
	instruction := &model.Message{
		ID:         model.NewID(),
		SessionID:  sessionID,
		SenderType: model.SenderTypeAgent,
		SenderID:   &agentID,
		Content:    info,
		IsRead:     true,
		CreatedAt:  now,
	}
	aiMessage := &model.Message{
		ID:         model.NewID(),
		SessionID:  sessionID,
		SenderType: model.SenderTypeAI,
		Content:    reply,
		IsRead:     true,
		CreatedAt:  now.Add(time.Millisecond),
	}
	return instruction, aiMessage
}

// GetSessionByID 는 접근 권한을 확인하고 세션을 반환한다
// 첨부 업로드 등 세션 소유 확인이 필요한 곳에서 사용한다
func (s *ChatService) GetSessionByID(ctx context.Context, sessionID, userID, role string) (*model.ChatSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSessionAccess(session, userID, role); err != nil {
		return nil, err
	}
	return session, nil
}

// PendingCount 는 관리자 뱃지에 쓰는 대기 상담 수를 반환한다
// 카운터를 읽지 못하면 DB 집계로 폴백한다
func (s *ChatService) PendingCount(ctx context.Context) (int64, error) {
	if s.cache != nil {
		if count, err := s.cache.GetPendingCount(ctx); err == nil {
			return count, nil
		}
	}
	return s.sessionRepo.CountByStatus(ctx, model.SessionStatusPending)
}

// durationMinutes 는 상담 시간(분)을 계산한다
// 시계 역행 등으로 음수가 나오면 0 으로 보정한다
func durationMinutes(startedAt, completedAt time.Time) int {
	minutes := int(completedAt.Sub(startedAt).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}
