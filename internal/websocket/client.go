package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"support-chat-server/internal/model"
)

// 연결 설정 상수
const (
	// 쓰기 타임아웃
	writeWait = 10 * time.Second

	// Pong 응답 대기 타임아웃
	pongWait = 60 * time.Second

	// Ping 전송 간격 (pongWait 보다 짧아야 한다)
	pingPeriod = (pongWait * 9) / 10

	// 메시지 최대 크기 (64KB, 채팅 이벤트에는 충분)
	maxMessageSize = 64 * 1024
)

// Client 하나의 WebSocket 연결을 나타낸다
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // 송신 버퍼 채널

	userID string
	role   string // customer / admin

	// 관리자의 구독 버킷 (active / pending / completed)
	// hub.mu 로 보호된다
	subscriptions map[string]struct{}

	closeOnce sync.Once
}

// NewClient 는 클라이언트를 생성한다
func NewClient(hub *Hub, conn *websocket.Conn, userID, role string) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, 256),
		userID:        userID,
		role:          role,
		subscriptions: make(map[string]struct{}),
	}
}

// ReadPump 은 WebSocket 메시지를 읽는 고루틴이다
// 연결마다 하나씩 실행되며, 수신 이벤트를 처리한다
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(messageBytes, &event); err != nil {
			log.Printf("Failed to parse event: %v", err)
			continue
		}

		c.handleEvent(&event)
	}
}

// WritePump 은 send 채널의 메시지를 WebSocket 에 쓰는 고루틴이다
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent 는 클라이언트에게 이벤트를 보낸다
// 버퍼가 가득 차면 끊긴 클라이언트로 보고 이벤트를 버린다 (논블로킹)
func (c *Client) SendEvent(event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		log.Printf("Client send buffer full, dropping event: userID=%s", c.userID)
		return nil
	}
}

// handleEvent 는 수신 이벤트를 처리한다
func (c *Client) handleEvent(event *Event) {
	data, _ := event.Data.(map[string]interface{})

	switch event.Type {
	case EventSubscribeChats:
		// 관리자: 상태 버킷 구독 (active / pending / completed)
		if c.role != model.RoleAdmin {
			return
		}
		chatType, _ := data["chat_type"].(string)
		switch chatType {
		case model.SessionStatusActive, model.SessionStatusPending, model.SessionStatusCompleted:
			c.hub.Subscribe(c, chatType)
		}

	case EventTyping:
		// 현재는 서버에서 중계하지 않는다

	case EventAgentMessage:
		// 메시지 저장은 REST 로 통일, 여기서는 최소 ACK 만 제공
		if c.role == model.RoleAdmin {
			c.SendEvent(NewEvent(EventAck, &AckData{OK: true}))
		}

	case EventSendMessage:
		if c.role == model.RoleCustomer {
			c.SendEvent(NewEvent(EventAck, &AckData{OK: true}))
		}

	default:
		c.SendEvent(NewEvent(EventError, &ErrorData{Message: "지원하지 않는 이벤트입니다."}))
	}
}

// Close 는 클라이언트 연결을 닫는다
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
