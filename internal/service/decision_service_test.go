package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"support-chat-server/internal/gpt"
	"support-chat-server/internal/model"
)

// fakeGpt 는 준비된 응답을 순서대로 돌려주는 GptCaller 구현이다
type fakeGpt struct {
	responses []*gpt.ChatResult
	errs      []error
	calls     int
	lastTools []gpt.Tool
}

func (f *fakeGpt) ChatWithTools(_ context.Context, _ []gpt.ChatMessage, tools []gpt.Tool, _ int) (*gpt.ChatResult, error) {
	f.lastTools = tools
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return nil, errors.New("준비된 응답 없음")
}

// fakeOrders 는 고정 주문을 돌려주는 OrderLookup 구현이다
type fakeOrders struct {
	byNumber map[string]*model.Order
	recent   []model.Order
}

func (f *fakeOrders) GetByNumber(_ context.Context, orderNumber string) (*model.Order, error) {
	return f.byNumber[orderNumber], nil
}

func (f *fakeOrders) ListRecentByCustomer(_ context.Context, _ string, _ int) ([]model.Order, error) {
	return f.recent, nil
}

func textResult(s string) *gpt.ChatResult {
	return &gpt.ChatResult{Text: s}
}

func baseInput() *DecisionInput {
	return &DecisionInput{
		SessionID:   "s1",
		UserMessage: "배송이 언제 오나요?",
		Settings:    DefaultChatSettings(),
		CustomerID:  "c1",
	}
}

func TestDecideFallsBackToRulesOnError(t *testing.T) {
	engine := NewDecisionEngine(&fakeGpt{errs: []error{errors.New("timeout")}}, &fakeOrders{})

	input := baseInput()
	input.UserMessage = "환불해주세요"
	decision := engine.Decide(context.Background(), input)

	if decision.Category == nil || *decision.Category != "환불 요청" {
		t.Errorf("폴백 카테고리 = %v", decision.Category)
	}
	if !decision.NeedsHuman {
		t.Error("폴백 환불 건인데 NeedsHuman = false")
	}
	// 규칙 폴백은 절대 세션을 종료하지 않는다
	if decision.Complete {
		t.Error("폴백 결정이 Complete = true")
	}
}

func TestDecideWithoutGptUsesRules(t *testing.T) {
	engine := NewDecisionEngine(nil, &fakeOrders{})
	decision := engine.Decide(context.Background(), baseInput())
	if decision.Category == nil || *decision.Category != "주문 문의" {
		t.Errorf("Category = %v", decision.Category)
	}
}

func TestDecideGenerativeBasic(t *testing.T) {
	engine := NewDecisionEngine(&fakeGpt{responses: []*gpt.ChatResult{
		textResult(`{"category":"주문 문의","needs_human":false,"response":"주문번호를 알려주세요.","complete":false}`),
	}}, &fakeOrders{})

	decision := engine.Decide(context.Background(), baseInput())
	if decision.Category == nil || *decision.Category != "주문 문의" {
		t.Errorf("Category = %v", decision.Category)
	}
	if decision.NeedsHuman || decision.Complete {
		t.Errorf("NeedsHuman=%v Complete=%v", decision.NeedsHuman, decision.Complete)
	}
	if decision.Response != "주문번호를 알려주세요." {
		t.Errorf("Response = %q", decision.Response)
	}
}

func TestDecideRejectsUnknownCategory(t *testing.T) {
	engine := NewDecisionEngine(&fakeGpt{responses: []*gpt.ChatResult{
		textResult(`{"category":"없는 카테고리","needs_human":false,"response":"안내드립니다."}`),
	}}, &fakeOrders{})

	decision := engine.Decide(context.Background(), baseInput())
	if decision.Category != nil {
		t.Errorf("목록에 없는 카테고리가 통과됐다: %v", *decision.Category)
	}
}

func TestRefundGateBlocksPendingUntilInfoComplete(t *testing.T) {
	// 주문번호/사유 확보 전: pending 전환이 취소되고 대기 안내가 제거된다
	engine := NewDecisionEngine(&fakeGpt{responses: []*gpt.ChatResult{
		textResult(`{"category":"환불 요청","needs_human":true,"response":"환불 사유를 알려주세요. 확인 후 5분 이내 답변드리겠습니다.","reason":"환불 요청"}`),
	}}, &fakeOrders{})

	input := baseInput()
	input.UserMessage = "환불하고 싶어요"
	decision := engine.Decide(context.Background(), input)

	if decision.NeedsHuman {
		t.Error("정보 확보 전인데 NeedsHuman = true")
	}
	if decision.Reason != nil || decision.Summary != nil {
		t.Error("게이트 취소 후에도 Reason/Summary 가 남아 있다")
	}
	if strings.Contains(decision.Response, "5분 이내") {
		t.Errorf("대기 안내가 제거되지 않았다: %q", decision.Response)
	}
}

func TestRefundGateAllowsPendingWithOrderAndReason(t *testing.T) {
	engine := NewDecisionEngine(&fakeGpt{responses: []*gpt.ChatResult{
		textResult(`{"category":"환불 요청","needs_human":true,"response":"접수하겠습니다.","reason":"환불 접수"}`),
	}}, &fakeOrders{})

	input := baseInput()
	input.Conversation = []ConversationTurn{
		{SenderType: "user", Content: "환불하고 싶어요"},
		{SenderType: "ai", Content: "주문번호와 사유를 알려주세요."},
	}
	input.UserMessage = "주문번호 ORD-2025-0001, 불량이라 환불 요청합니다"
	decision := engine.Decide(context.Background(), input)

	if !decision.NeedsHuman {
		t.Error("정보가 모두 확보됐는데 NeedsHuman = false")
	}
	// 대기 안내 문장이 자동으로 덧붙는다
	if !strings.Contains(decision.Response, "5분 이내") {
		t.Errorf("대기 안내가 없다: %q", decision.Response)
	}
	if decision.WaitTimeMinutes == nil || *decision.WaitTimeMinutes != 5 {
		t.Errorf("WaitTimeMinutes = %v", decision.WaitTimeMinutes)
	}
}

func TestClosureGateCompletesWithFarewell(t *testing.T) {
	engine := NewDecisionEngine(&fakeGpt{responses: []*gpt.ChatResult{
		textResult(`{"category":"주문 문의","needs_human":false,"response":"더 도와드릴까요?","complete":false}`),
	}}, &fakeOrders{})

	input := baseInput()
	input.UserMessage = "아니요 더 없습니다"
	decision := engine.Decide(context.Background(), input)

	if !decision.Complete {
		t.Error("종결 의사를 밝혔는데 Complete = false")
	}
	if decision.Response != DefaultChatSettings().Farewell {
		t.Errorf("작별 인사가 아니다: %q", decision.Response)
	}
	if decision.NeedsHuman {
		t.Error("종결 시 NeedsHuman = true")
	}
}

func TestCompleteRequiresClosureFromCustomer(t *testing.T) {
	// 모델이 complete=true 를 내도 고객의 종결 의사 없이는 무효다
	engine := NewDecisionEngine(&fakeGpt{responses: []*gpt.ChatResult{
		textResult(`{"category":"주문 문의","needs_human":false,"response":"안내를 마칩니다.","complete":true}`),
	}}, &fakeOrders{})

	decision := engine.Decide(context.Background(), baseInput())
	if decision.Complete {
		t.Error("고객의 종결 의사 없이 Complete = true")
	}
}

func TestAutoCloseDisabledSuppressesComplete(t *testing.T) {
	engine := NewDecisionEngine(&fakeGpt{responses: []*gpt.ChatResult{
		textResult(`{"category":"주문 문의","needs_human":false,"response":"감사합니다.","complete":true}`),
	}}, &fakeOrders{})

	input := baseInput()
	input.UserMessage = "없습니다"
	input.Settings = DefaultChatSettings()
	input.Settings.AutoClose = false
	decision := engine.Decide(context.Background(), input)

	if decision.Complete {
		t.Error("auto_close=false 인데 Complete = true")
	}
}

func TestAdminInstructionSuppressesPending(t *testing.T) {
	engine := NewDecisionEngine(&fakeGpt{responses: []*gpt.ChatResult{
		textResult(`{"category":"주문 문의","needs_human":true,"response":"안내드립니다.","reason":"재확인"}`),
	}}, &fakeOrders{})

	input := baseInput()
	input.AdminInstruction = "재고 확인 완료, 내일 출고 예정이라고 안내할 것"
	decision := engine.Decide(context.Background(), input)

	if decision.NeedsHuman {
		t.Error("관리자 지침이 있는데 다시 NeedsHuman = true")
	}
}

func TestDecideGenerativeToolRoundTrip(t *testing.T) {
	fake := &fakeGpt{responses: []*gpt.ChatResult{
		{ToolCalls: []gpt.ToolCall{{
			ID:   "call_1",
			Type: "function",
			Function: gpt.ToolCallFunction{
				Name:      "get_order_by_number",
				Arguments: `{"order_number":"ORD-2025-0001"}`,
			},
		}}},
		textResult(`{"category":"주문 문의","needs_human":false,"response":"배송 중입니다."}`),
	}}
	orders := &fakeOrders{byNumber: map[string]*model.Order{
		"ORD-2025-0001": {OrderNumber: "ORD-2025-0001", ShippingStatus: model.ShippingStatusShipped},
	}}
	engine := NewDecisionEngine(fake, orders)

	decision := engine.Decide(context.Background(), baseInput())
	if fake.calls != 2 {
		t.Errorf("호출 횟수 = %d, want 2", fake.calls)
	}
	if decision.Response != "배송 중입니다." {
		t.Errorf("Response = %q", decision.Response)
	}
}

func TestRunToolReturnsErrorPayload(t *testing.T) {
	engine := NewDecisionEngine(nil, &fakeOrders{})
	result := engine.runTool(context.Background(), gpt.ToolCall{
		Function: gpt.ToolCallFunction{Name: "get_order_by_number", Arguments: `{"order_number":"ORD-9999-1"}`},
	}, "c1")
	if !strings.Contains(result, `"ok":false`) {
		t.Errorf("도구 실패가 에러 payload 로 돌아오지 않았다: %s", result)
	}
}

func TestDecodeDecisionAcceptsEtcCategory(t *testing.T) {
	decision := decodeDecision(map[string]interface{}{
		"category": "기타",
		"response": "확인했습니다.",
	}, DefaultChatSettings().Categories)
	if decision.Category == nil || *decision.Category != "기타" {
		t.Errorf("기타 카테고리가 거부됐다: %v", decision.Category)
	}
}
