package service

import (
	"strings"
	"testing"
)

func TestClassifyCategory(t *testing.T) {
	categories := DefaultChatSettings().Categories

	tests := []struct {
		message string
		want    string
	}{
		{"환불하고 싶어요", "환불 요청"},
		{"주문 취소할게요", "환불 요청"},
		{"배송이 언제 오나요", "주문 문의"},
		{"택배가 안 와요", "주문 문의"},
		{"로그인이 안 돼요", "기술 지원"},
		{"에러가 나요", "기술 지원"},
		{"비밀번호를 잊었어요", "계정 관리"},
		{"안녕하세요", "주문 문의"}, // 무매칭이면 첫 카테고리
	}
	for _, tt := range tests {
		if got := ClassifyCategory(tt.message, categories); got != tt.want {
			t.Errorf("ClassifyCategory(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestClassifyCategoryWithoutConfiguredList(t *testing.T) {
	if got := ClassifyCategory("아무 말", nil); got != "기타" {
		t.Errorf("빈 카테고리 목록에서 ClassifyCategory = %q, want 기타", got)
	}
	// 키워드가 매칭돼도 설정 목록에 없으면 첫 카테고리로 대체한다
	if got := ClassifyCategory("환불해주세요", []string{"일반 문의"}); got != "일반 문의" {
		t.Errorf("ClassifyCategory = %q, want 일반 문의", got)
	}
}

func TestNeedsHumanIntervention(t *testing.T) {
	needs, reason := needsHumanIntervention("환불해주세요", "환불 요청", "")
	if !needs || !strings.Contains(reason, "환불 요청") {
		t.Errorf("환불 카테고리인데 needs=%v reason=%q", needs, reason)
	}

	needs, reason = needsHumanIntervention("정말 화나네요", "주문 문의", "")
	if !needs || !strings.Contains(reason, "불만") {
		t.Errorf("불만 표현인데 needs=%v reason=%q", needs, reason)
	}

	needs, _ = needsHumanIntervention("배송 언제 오나요", "주문 문의", "")
	if needs {
		t.Error("일반 문의인데 needs_human=true")
	}
}

func TestProcessByRules(t *testing.T) {
	settings := DefaultChatSettings()

	// 사람 개입이 필요한 경우: 대기 안내 + wait/reason 이 채워진다
	result := ProcessByRules("환불해주세요", settings)
	if result.Category != "환불 요청" {
		t.Errorf("Category = %q", result.Category)
	}
	if !result.NeedsHuman {
		t.Error("환불 요청인데 NeedsHuman = false")
	}
	if result.WaitTimeMinutes == nil || *result.WaitTimeMinutes != settings.ResponseWaitTime {
		t.Errorf("WaitTimeMinutes = %v", result.WaitTimeMinutes)
	}
	if result.Reason == nil {
		t.Error("Reason 이 비어 있다")
	}
	if !strings.Contains(result.Response, "5분 이내") {
		t.Errorf("대기 안내가 없다: %q", result.Response)
	}

	// 일반 문의: 카테고리별 고정 응답
	result = ProcessByRules("배송 조회하고 싶어요", settings)
	if result.NeedsHuman {
		t.Error("주문 문의인데 NeedsHuman = true")
	}
	if result.WaitTimeMinutes != nil || result.Reason != nil {
		t.Error("개입 불필요인데 WaitTimeMinutes/Reason 이 채워졌다")
	}
	if !strings.Contains(result.Response, "주문번호") {
		t.Errorf("주문 문의 응답이 아니다: %q", result.Response)
	}
}
