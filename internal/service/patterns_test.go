package service

import "testing"

func TestLooksLikeOrderNumber(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"주문번호는 ORD-2025-0001 입니다", true},
		{"ord 2025 12 로 주문했어요", true},
		{"20250001234 건이요", true},
		{"주문번호를 모르겠어요", false},
		{"1234 번이요", false}, // 8자리 미만 숫자는 주문번호로 보지 않는다
	}
	for _, tt := range tests {
		if got := LooksLikeOrderNumber(tt.text); got != tt.want {
			t.Errorf("LooksLikeOrderNumber(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestRefundInfoComplete(t *testing.T) {
	// 주문번호만 있는 경우: 미완성
	conv := []ConversationTurn{
		{SenderType: "user", Content: "환불하고 싶어요"},
		{SenderType: "ai", Content: "주문번호를 알려주세요."},
		{SenderType: "user", Content: "ORD-2025-0001 이요"},
	}
	if refundInfoComplete(conv) {
		t.Error("사유 없이 refundInfoComplete = true")
	}

	// 주문번호 + 사유: 완성
	conv = append(conv, ConversationTurn{SenderType: "user", Content: "불량이라서요"})
	if !refundInfoComplete(conv) {
		t.Error("주문번호와 사유가 모두 있는데 refundInfoComplete = false")
	}
}

func TestUserSaysNoMore(t *testing.T) {
	tests := []struct {
		name string
		conv []ConversationTurn
		want bool
	}{
		{
			name: "고객이 더 없다고 함",
			conv: []ConversationTurn{
				{SenderType: "ai", Content: "더 도와드릴 것이 있을까요?"},
				{SenderType: "user", Content: "없습니다, 감사합니다"},
			},
			want: true,
		},
		{
			name: "괜찮다는 표현",
			conv: []ConversationTurn{
				{SenderType: "user", Content: "괜찮아요 이제 됐어요"},
			},
			want: true,
		},
		{
			name: "영어 표현",
			conv: []ConversationTurn{
				{SenderType: "user", Content: "No more questions"},
			},
			want: true,
		},
		{
			name: "마지막 발화가 고객이 아님",
			conv: []ConversationTurn{
				{SenderType: "user", Content: "없습니다"},
				{SenderType: "ai", Content: "감사합니다."},
			},
			want: false,
		},
		{
			name: "종결 의사 없음",
			conv: []ConversationTurn{
				{SenderType: "user", Content: "배송은 언제 오나요?"},
			},
			want: false,
		},
		{
			name: "빈 대화",
			conv: nil,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userSaysNoMore(tt.conv); got != tt.want {
				t.Errorf("userSaysNoMore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStripWaitMessage(t *testing.T) {
	in := "환불 사유를 먼저 알려주세요. 확인 후 5분 이내 답변드리겠습니다."
	got := stripWaitMessage(in, 5)
	if got != "환불 사유를 먼저 알려주세요." {
		t.Errorf("stripWaitMessage() = %q", got)
	}

	// 다른 분 수의 안내는 건드리지 않는다
	in = "확인 후 10분 이내 답변드리겠습니다."
	if got := stripWaitMessage(in, 5); got != in {
		t.Errorf("stripWaitMessage() 가 무관한 문장을 제거했다: %q", got)
	}
}

func TestContainsAnyCaseInsensitive(t *testing.T) {
	if !containsAny("정말 최악이에요", complaintKeywords) {
		t.Error("불만 키워드를 찾지 못했다")
	}
	if containsAny("배송 문의드립니다", complaintKeywords) {
		t.Error("불만 키워드가 없는데 true")
	}
}
