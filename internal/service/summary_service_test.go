package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"support-chat-server/internal/gpt"
)

func TestBuildPendingSummaryWithoutUserTurns(t *testing.T) {
	s := NewSummaryService(nil)
	got := s.BuildPendingSummary(context.Background(), []ConversationTurn{
		{SenderType: "ai", Content: "안녕하세요!"},
	})
	if got != "사용자 문의가 아직 입력되지 않았습니다." {
		t.Errorf("BuildPendingSummary() = %q", got)
	}
}

func TestBuildPendingSummaryFallbackIsLastUserMessage(t *testing.T) {
	s := NewSummaryService(nil)
	got := s.BuildPendingSummary(context.Background(), []ConversationTurn{
		{SenderType: "user", Content: "환불하고 싶어요"},
		{SenderType: "ai", Content: "사유를 알려주세요."},
		{SenderType: "user", Content: "불량이에요"},
	})
	if got != "불량이에요" {
		t.Errorf("BuildPendingSummary() = %q", got)
	}
}

func TestBuildPendingSummaryUsesGenerativeResult(t *testing.T) {
	fake := &fakeGpt{responses: []*gpt.ChatResult{
		textResult(`{"summary":"고객이 불량으로 환불을 요청함","action_items":["주문번호 확인"]}`),
	}}
	s := NewSummaryService(fake)
	got := s.BuildPendingSummary(context.Background(), []ConversationTurn{
		{SenderType: "user", Content: "불량이라 환불하고 싶어요"},
	})
	if !strings.Contains(got, "환불을 요청함") {
		t.Errorf("요약이 반영되지 않았다: %q", got)
	}
	if !strings.Contains(got, "- 주문번호 확인") {
		t.Errorf("action_items 가 bullet 로 붙지 않았다: %q", got)
	}
}

func TestBuildPendingSummaryFallsBackOnError(t *testing.T) {
	fake := &fakeGpt{errs: []error{errors.New("timeout")}}
	s := NewSummaryService(fake)
	got := s.BuildPendingSummary(context.Background(), []ConversationTurn{
		{SenderType: "user", Content: "배송이 안 와요"},
	})
	if got != "배송이 안 와요" {
		t.Errorf("폴백이 마지막 사용자 발화가 아니다: %q", got)
	}
}

func TestBuildCompletedSummary(t *testing.T) {
	// gpt 미설정 시 고정 폴백
	s := NewSummaryService(nil)
	got := s.BuildCompletedSummary(context.Background(), nil, DefaultChatSettings())
	if got != "상담이 종료되었습니다." {
		t.Errorf("BuildCompletedSummary() = %q", got)
	}

	// 생성형 결과 사용
	fake := &fakeGpt{responses: []*gpt.ChatResult{
		textResult(`{"summary":"배송 문의 해결 후 종료"}`),
	}}
	s = NewSummaryService(fake)
	got = s.BuildCompletedSummary(context.Background(), []ConversationTurn{
		{SenderType: "user", Content: "배송 문의드려요"},
	}, DefaultChatSettings())
	if got != "배송 문의 해결 후 종료" {
		t.Errorf("BuildCompletedSummary() = %q", got)
	}
}
