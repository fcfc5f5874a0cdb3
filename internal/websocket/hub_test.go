package websocket

import (
	"encoding/json"
	"testing"

	"support-chat-server/internal/model"
)

// newTestClient 는 실제 연결 없이 클라이언트를 만든다
// SendEvent 는 send 채널에만 쓰므로 conn 이 nil 이어도 안전하다
func newTestClient(hub *Hub, userID, role string) *Client {
	return NewClient(hub, nil, userID, role)
}

// recvEvent 는 클라이언트 송신 버퍼에서 이벤트 하나를 꺼낸다
func recvEvent(t *testing.T, c *Client) *Event {
	t.Helper()
	select {
	case data := <-c.send:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("이벤트 파싱 실패: %v", err)
		}
		return &event
	default:
		t.Fatal("수신된 이벤트가 없다")
		return nil
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("이벤트가 오면 안 되는데 수신됨: %s", data)
	default:
	}
}

func TestSendToUserReachesAllConnections(t *testing.T) {
	hub := NewHub()

	// 같은 고객의 두 연결 (탭 두 개)
	c1 := newTestClient(hub, "u1", model.RoleCustomer)
	c2 := newTestClient(hub, "u1", model.RoleCustomer)
	other := newTestClient(hub, "u2", model.RoleCustomer)
	hub.registerClient(c1)
	hub.registerClient(c2)
	hub.registerClient(other)

	hub.SendToUser("u1", EventNewMessage, map[string]string{"content": "hi"})

	for _, c := range []*Client{c1, c2} {
		event := recvEvent(t, c)
		if event.Type != EventNewMessage {
			t.Errorf("event.Type = %q", event.Type)
		}
	}
	assertNoEvent(t, other)
}

func TestBroadcastToAdminsBucketFiltering(t *testing.T) {
	hub := NewHub()

	subscribed := newTestClient(hub, "a1", model.RoleAdmin)
	unsubscribed := newTestClient(hub, "a2", model.RoleAdmin)
	customer := newTestClient(hub, "u1", model.RoleCustomer)
	hub.registerClient(subscribed)
	hub.registerClient(unsubscribed)
	hub.registerClient(customer)

	hub.Subscribe(subscribed, model.SessionStatusPending)

	// pending 버킷 이벤트는 구독한 관리자에게만 간다
	hub.BroadcastToAdmins(EventNewChatSession, map[string]string{"session_id": "s1"}, model.SessionStatusPending)
	if event := recvEvent(t, subscribed); event.Type != EventNewChatSession {
		t.Errorf("event.Type = %q", event.Type)
	}
	assertNoEvent(t, unsubscribed)
	assertNoEvent(t, customer)

	// 버킷 미지정 이벤트는 모든 관리자에게 간다
	hub.BroadcastToAdmins(EventSessionStatus, map[string]string{"session_id": "s1"}, "")
	recvEvent(t, subscribed)
	recvEvent(t, unsubscribed)
	assertNoEvent(t, customer)
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub := NewHub()

	admin := newTestClient(hub, "a1", model.RoleAdmin)
	hub.registerClient(admin)
	hub.unregisterClient(admin)

	if hub.OnlineUserCount() != 0 {
		t.Errorf("OnlineUserCount = %d", hub.OnlineUserCount())
	}
	hub.BroadcastToAdmins(EventSessionStatus, nil, "")
	// 해제된 클라이언트의 send 채널은 닫혀 있다
	if _, ok := <-admin.send; ok {
		t.Error("해제 후에도 send 채널이 열려 있다")
	}

	// 같은 클라이언트 중복 해제는 무해해야 한다
	hub.unregisterClient(admin)
}

func TestHandleEventSubscribeChats(t *testing.T) {
	hub := NewHub()
	admin := newTestClient(hub, "a1", model.RoleAdmin)
	customer := newTestClient(hub, "u1", model.RoleCustomer)
	hub.registerClient(admin)
	hub.registerClient(customer)

	admin.handleEvent(&Event{
		Type: EventSubscribeChats,
		Data: map[string]interface{}{"chat_type": "pending"},
	})
	// 유효하지 않은 버킷은 무시한다
	admin.handleEvent(&Event{
		Type: EventSubscribeChats,
		Data: map[string]interface{}{"chat_type": "everything"},
	})
	// 고객의 구독 요청은 무시한다
	customer.handleEvent(&Event{
		Type: EventSubscribeChats,
		Data: map[string]interface{}{"chat_type": "pending"},
	})

	hub.BroadcastToAdmins(EventNewChatSession, nil, model.SessionStatusPending)
	recvEvent(t, admin)
	assertNoEvent(t, customer)

	hub.BroadcastToAdmins(EventNewChatSession, nil, "everything")
	assertNoEvent(t, admin)
}

func TestHandleEventUnknownTypeRepliesError(t *testing.T) {
	hub := NewHub()
	customer := newTestClient(hub, "u1", model.RoleCustomer)
	hub.registerClient(customer)

	customer.handleEvent(&Event{Type: "who_knows"})

	event := recvEvent(t, customer)
	if event.Type != EventError {
		t.Errorf("event.Type = %q", event.Type)
	}
}

func TestHandleEventAck(t *testing.T) {
	hub := NewHub()
	admin := newTestClient(hub, "a1", model.RoleAdmin)
	customer := newTestClient(hub, "u1", model.RoleCustomer)
	hub.registerClient(admin)
	hub.registerClient(customer)

	admin.handleEvent(&Event{Type: EventAgentMessage, Data: map[string]interface{}{"content": "안내"}})
	if event := recvEvent(t, admin); event.Type != EventAck {
		t.Errorf("event.Type = %q", event.Type)
	}

	customer.handleEvent(&Event{Type: EventSendMessage, Data: map[string]interface{}{"content": "질문"}})
	if event := recvEvent(t, customer); event.Type != EventAck {
		t.Errorf("event.Type = %q", event.Type)
	}

	// 역할이 맞지 않으면 ACK 가 없다
	customer.handleEvent(&Event{Type: EventAgentMessage})
	assertNoEvent(t, customer)
}
