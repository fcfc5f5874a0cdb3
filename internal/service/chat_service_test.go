package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"support-chat-server/internal/model"
)

// fakePendingCounter 대기 카운터 테스트 대역
type fakePendingCounter struct {
	count int64
}

func (f *fakePendingCounter) IncrPendingCount(context.Context) error { f.count++; return nil }
func (f *fakePendingCounter) DecrPendingCount(context.Context) error { f.count--; return nil }
func (f *fakePendingCounter) GetPendingCount(context.Context) (int64, error) {
	return f.count, nil
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	if got := durationMinutes(start, start.Add(25*time.Minute)); got != 25 {
		t.Errorf("durationMinutes = %d, want 25", got)
	}
	if got := durationMinutes(start, start.Add(90*time.Second)); got != 1 {
		t.Errorf("durationMinutes = %d, want 1", got)
	}
	// 시계 역행 시 0 으로 고정한다
	if got := durationMinutes(start, start.Add(-time.Hour)); got != 0 {
		t.Errorf("durationMinutes = %d, want 0", got)
	}
}

func TestEnsureOpen(t *testing.T) {
	if err := ensureOpen(nil); err != ErrSessionNotFound {
		t.Errorf("ensureOpen(nil) = %v, want ErrSessionNotFound", err)
	}
	// 종료된 세션은 다시 전환될 수 없다
	completed := &model.ChatSession{Status: model.SessionStatusCompleted}
	if err := ensureOpen(completed); err != ErrSessionCompleted {
		t.Errorf("ensureOpen(completed) = %v, want ErrSessionCompleted", err)
	}
	for _, status := range []string{model.SessionStatusActive, model.SessionStatusPending} {
		if err := ensureOpen(&model.ChatSession{Status: status}); err != nil {
			t.Errorf("ensureOpen(%s) = %v", status, err)
		}
	}
}

func TestAuthorizeSessionAccess(t *testing.T) {
	session := &model.ChatSession{CustomerID: "u1"}

	if err := authorizeSessionAccess(nil, "u1", model.RoleCustomer); err != ErrSessionNotFound {
		t.Errorf("nil 세션: err = %v, want ErrSessionNotFound", err)
	}
	if err := authorizeSessionAccess(session, "u1", model.RoleCustomer); err != nil {
		t.Errorf("본인 세션: err = %v", err)
	}
	if err := authorizeSessionAccess(session, "u2", model.RoleCustomer); err != ErrNoPermission {
		t.Errorf("남의 세션: err = %v, want ErrNoPermission", err)
	}
	// 관리자는 모든 세션에 접근할 수 있다
	if err := authorizeSessionAccess(session, "a1", model.RoleAdmin); err != nil {
		t.Errorf("관리자 접근: err = %v", err)
	}
}

func TestSessionLockSerializesSameSession(t *testing.T) {
	s := &ChatService{locks: make(map[string]*sync.Mutex)}

	if s.sessionLock("s1") != s.sessionLock("s1") {
		t.Error("같은 세션인데 다른 락을 반환했다")
	}
	if s.sessionLock("s1") == s.sessionLock("s2") {
		t.Error("다른 세션인데 같은 락을 반환했다")
	}

	// 같은 세션 락을 잡은 고루틴은 임계 구역에 하나씩만 들어간다
	var inCritical int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock := s.sessionLock("s1")
			lock.Lock()
			defer lock.Unlock()
			if atomic.AddInt32(&inCritical, 1) != 1 {
				t.Error("같은 세션의 턴 처리가 동시에 진행됐다")
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inCritical, -1)
		}()
	}
	wg.Wait()
}

func TestBuildInstructionTurn(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	instruction, reply := buildInstructionTurn("s1", "a1", "재고 확인 완료, 내일 출고 예정", "내일 출고될 예정입니다.", now)

	// 지침은 상담원 메시지로 남아 다음 턴의 지침 조회에 걸려야 한다
	if instruction.SenderType != model.SenderTypeAgent {
		t.Errorf("instruction.SenderType = %q", instruction.SenderType)
	}
	if instruction.SenderID == nil || *instruction.SenderID != "a1" {
		t.Errorf("instruction.SenderID = %v", instruction.SenderID)
	}
	if instruction.Content != "재고 확인 완료, 내일 출고 예정" {
		t.Errorf("instruction.Content = %q", instruction.Content)
	}

	if reply.SenderType != model.SenderTypeAI {
		t.Errorf("reply.SenderType = %q", reply.SenderType)
	}
	// 시간순 조회에서 지침이 응답보다 먼저 와야 한다
	if !instruction.CreatedAt.Before(reply.CreatedAt) {
		t.Errorf("지침(%v)이 응답(%v)보다 앞서지 않는다", instruction.CreatedAt, reply.CreatedAt)
	}
	if instruction.SessionID != "s1" || reply.SessionID != "s1" {
		t.Error("SessionID 가 일치하지 않는다")
	}
}

func TestPendingCountReadsCounter(t *testing.T) {
	counter := &fakePendingCounter{}
	s := &ChatService{cache: counter}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.cache.IncrPendingCount(ctx); err != nil {
			t.Fatalf("IncrPendingCount() error = %v", err)
		}
	}
	if err := s.cache.DecrPendingCount(ctx); err != nil {
		t.Fatalf("DecrPendingCount() error = %v", err)
	}

	count, err := s.PendingCount(ctx)
	if err != nil {
		t.Fatalf("PendingCount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("PendingCount() = %d, want 2", count)
	}
}
