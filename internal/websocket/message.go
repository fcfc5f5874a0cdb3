// Package websocket 은 WebSocket 실시간 통신 기능을 제공한다
// 고객 채팅 화면과 관리자 콘솔의 실시간 팬아웃을 구현한다
package websocket

// 이벤트 타입 상수
const (
	// 서버 → 클라이언트
	EventNewMessage         = "new_message"            // 새 메시지
	EventCustomerMessage    = "customer_message"       // 고객 메시지 (관리자 뱃지용)
	EventUnreadCountUpdated = "unread_count_updated"   // 읽지 않은 수 갱신
	EventSessionStatus      = "session_status_changed" // 세션 상태 전환
	EventSessionCompleted   = "session_completed"      // 상담 종료
	EventNewChatSession     = "new_chat_session"       // 새 대기 세션
	EventAgentConnected     = "agent_connected"        // 상담원 연결됨
	EventAck                = "ack"                    // 수신 확인
	EventError              = "error"                  // 에러

	// 클라이언트 → 서버
	EventSubscribeChats = "subscribe_chats" // 관리자: 상태 버킷 구독
	EventTyping         = "typing"          // 입력 중 표시 (현재 서버는 중계하지 않음)
	EventAgentMessage   = "agent_message"   // 관리자 메시지 (저장은 REST 로 통일)
	EventSendMessage    = "send_message"    // 고객 메시지 (저장은 REST 로 통일)
)

// Event WebSocket 이벤트 구조
// 모든 송수신 이벤트가 이 통일된 구조를 사용한다
type Event struct {
	Type string      `json:"type"`           // 이벤트 타입
	Data interface{} `json:"data,omitempty"` // 이벤트 데이터
}

// NewEvent 는 이벤트를 생성한다
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{Type: eventType, Data: data}
}

// ErrorData 에러 이벤트의 데이터
type ErrorData struct {
	Message string `json:"message"`
}

// AckData 수신 확인 이벤트의 데이터
type AckData struct {
	OK bool `json:"ok"`
}
