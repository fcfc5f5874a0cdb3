package websocket

import (
	"log"
	"sync"

	"support-chat-server/internal/model"
)

// Hub 는 WebSocket 연결의 중앙 관리자다
// 담당:
// 1. 전체 클라이언트 연결 관리
// 2. 사용자별 전송 / 관리자 버킷 브로드캐스트
// 3. 관리자 구독 버킷 관리
type Hub struct {
	// 사용자별 연결 집합: userID -> set[*Client]
	// 한 사용자가 여러 탭/기기로 접속할 수 있다
	userClients map[string]map[*Client]struct{}

	// 관리자 연결 집합
	adminClients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub 는 Hub 인스턴스를 생성한다
func NewHub() *Hub {
	return &Hub{
		userClients:  make(map[string]map[*Client]struct{}),
		adminClients: make(map[*Client]struct{}),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
	}
}

// Run 은 Hub 의 메인 루프를 실행한다
// 별도 고루틴에서 실행해야 한다
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Register 클라이언트를 등록한다 (외부 호출용)
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트를 해제한다 (외부 호출용)
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.userClients[client.userID] == nil {
		h.userClients[client.userID] = make(map[*Client]struct{})
	}
	h.userClients[client.userID][client] = struct{}{}
	if client.role == model.RoleAdmin {
		h.adminClients[client] = struct{}{}
	}
	log.Printf("WebSocket client registered: userID=%s role=%s", client.userID, client.role)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.userClients[client.userID]; ok {
		if _, exists := clients[client]; !exists {
			return
		}
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userClients, client.userID)
		}
	}
	delete(h.adminClients, client)
	client.Close()
	log.Printf("WebSocket client unregistered: userID=%s role=%s", client.userID, client.role)
}

// Subscribe 는 관리자 클라이언트에 구독 버킷을 추가한다
func (h *Hub) Subscribe(client *Client, chatType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.subscriptions[chatType] = struct{}{}
}

// SendToUser 는 사용자의 모든 연결에 이벤트를 보낸다
// service.Notifier 구현
func (h *Hub) SendToUser(userID string, eventType string, data interface{}) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.userClients[userID]))
	for client := range h.userClients[userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	event := NewEvent(eventType, data)
	for _, client := range targets {
		client.SendEvent(event)
	}
}

// BroadcastToAdmins 는 관리자들에게 이벤트를 브로드캐스트한다
// requiredBucket 이 비어 있지 않으면 해당 버킷을 구독한 관리자에게만 보낸다
// service.Notifier 구현
func (h *Hub) BroadcastToAdmins(eventType string, data interface{}, requiredBucket string) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.adminClients))
	for client := range h.adminClients {
		if requiredBucket != "" {
			if _, ok := client.subscriptions[requiredBucket]; !ok {
				continue
			}
		}
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	event := NewEvent(eventType, data)
	for _, client := range targets {
		client.SendEvent(event)
	}
}

// OnlineUserCount 는 현재 연결된 사용자 수를 반환한다
func (h *Hub) OnlineUserCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients)
}
