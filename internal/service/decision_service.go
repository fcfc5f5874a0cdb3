package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"support-chat-server/internal/gpt"
	"support-chat-server/internal/model"
)

// Decision 한 턴에 대한 결정 결과
// 다음 응답, 상태 전환(pending/complete), 카테고리 갱신을 담는다
type Decision struct {
	Category        *string // 분류된 카테고리, 갱신 불필요 시 nil
	NeedsHuman      bool    // pending 전환 여부
	Response        string  // 고객에게 보낼 응답
	WaitTimeMinutes *int    // pending 시 안내한 대기 시간(분)
	Reason          *string // needs_human 판단 이유
	Complete        bool    // 세션 자동 종료 여부
	Summary         *string // pending/complete 시 관리자용 요약
}

// DecisionInput 결정 파이프라인 입력
type DecisionInput struct {
	SessionID        string
	UserMessage      string             // 최신 고객 발화
	Conversation     []ConversationTurn // 최신 발화 이전까지의 대화 기록
	CurrentCategory  *string
	Settings         *ChatSettings
	AdminInstruction string // 관리자 지침, 없으면 빈 문자열
	CustomerID       string
	CustomerProfile  string
}

// GptCaller 생성형 어댑터 인터페이스 (*gpt.Client 가 구현)
type GptCaller interface {
	ChatWithTools(ctx context.Context, messages []gpt.ChatMessage, tools []gpt.Tool, maxOutputTokens int) (*gpt.ChatResult, error)
}

// OrderLookup 결정 파이프라인의 함수 호출이 사용하는 주문 조회 인터페이스
type OrderLookup interface {
	GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	ListRecentByCustomer(ctx context.Context, customerID string, limit int) ([]model.Order, error)
}

// DecisionEngine 은 다음 응답/상태 전환을 결정한다
// 생성형 경로(GPT)를 우선 시도하고, 실패하면 규칙 엔진으로 폴백한다
// 생성형 결과에는 가드레일(카테고리 검증, 환불 게이트, 종결 게이트)을 적용한다
type DecisionEngine struct {
	gpt    GptCaller
	orders OrderLookup
}

// NewDecisionEngine 은 DecisionEngine 인스턴스를 생성한다
// gptClient 가 nil 이면 항상 규칙 엔진으로 처리한다
func NewDecisionEngine(gptClient GptCaller, orders OrderLookup) *DecisionEngine {
	return &DecisionEngine{gpt: gptClient, orders: orders}
}

// Decide 는 한 턴을 결정한다
// 생성형 경로의 모든 실패(전송, 파싱, 빈 응답)는 규칙 폴백으로 흡수되므로
// 이 메서드는 에러를 반환하지 않는다
func (e *DecisionEngine) Decide(ctx context.Context, input *DecisionInput) *Decision {
	if e.gpt != nil {
		decision, err := e.decideGenerative(ctx, input)
		if err == nil {
			return decision
		}
		log.Printf("[AI] engine=fallback session_id=%s reason=%v", input.SessionID, err)
	}
	return e.decideByRules(input)
}

// decideByRules 는 규칙 엔진으로 결정한다
// 규칙 경로는 절대 complete/summary 를 만들지 않는다
func (e *DecisionEngine) decideByRules(input *DecisionInput) *Decision {
	rule := ProcessByRules(input.UserMessage, input.Settings)
	return &Decision{
		Category:        &rule.Category,
		NeedsHuman:      rule.NeedsHuman,
		Response:        rule.Response,
		WaitTimeMinutes: rule.WaitTimeMinutes,
		Reason:          rule.Reason,
		Complete:        false,
		Summary:         nil,
	}
}

// decideGenerative 는 생성형 어댑터로 결정하고 가드레일을 적용한다
func (e *DecisionEngine) decideGenerative(ctx context.Context, input *DecisionInput) (*Decision, error) {
	settings := input.Settings
	system := buildSystemPrompt(settings.ResponseWaitTime)
	user := buildUserPrompt(input)

	messages := []gpt.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	tools := orderToolDefs()

	resp, err := e.gpt.ChatWithTools(ctx, messages, tools, 700)
	if err != nil {
		return nil, err
	}

	// 함수 호출이 있으면 도구 결과를 붙여 한 번 더 호출한다 (최대 1라운드)
	rawText := resp.Text
	if len(resp.ToolCalls) > 0 {
		followUp := append(messages, gpt.ChatMessage{
			Role:      "assistant",
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		for _, tc := range resp.ToolCalls {
			result := e.runTool(ctx, tc, input.CustomerID)
			followUp = append(followUp, gpt.ChatMessage{
				Role:       "tool",
				ToolCallID: tc.ID,
				Content:    result,
			})
		}
		resp2, err := e.gpt.ChatWithTools(ctx, followUp, tools, 700)
		if err != nil {
			return nil, err
		}
		if resp2.Text != "" {
			rawText = resp2.Text
		}
	}

	data, err := gpt.ParseJSONObject(rawText)
	if err != nil {
		return nil, err
	}

	decision := decodeDecision(data, settings.Categories)
	if decision.Response == "" {
		return nil, fmt.Errorf("생성형 응답(response)이 비어 있습니다")
	}

	applyGuardrails(decision, input)
	return decision, nil
}

// decodeDecision 은 모델 출력 JSON 을 Decision 으로 변환한다
// 설정된 카테고리 목록에 없는 값("기타" 제외)은 버린다
func decodeDecision(data map[string]interface{}, categories []string) *Decision {
	decision := &Decision{}

	if raw, ok := data["category"].(string); ok {
		category := strings.TrimSpace(raw)
		if category != "" && (category == "기타" || containsString(categories, category)) {
			decision.Category = &category
		}
	}
	decision.NeedsHuman = asBool(data["needs_human"])
	if raw, ok := data["response"].(string); ok {
		decision.Response = strings.TrimSpace(raw)
	}
	if raw, ok := data["reason"].(string); ok {
		if reason := strings.TrimSpace(raw); reason != "" {
			decision.Reason = &reason
		}
	}
	decision.Complete = asBool(data["complete"])
	if raw, ok := data["summary"].(string); ok {
		if summary := strings.TrimSpace(raw); summary != "" {
			decision.Summary = &summary
		}
	}
	return decision
}

// applyGuardrails 는 생성형 결정에 결정론적 가드레일을 적용한다
// 적용 순서가 동작을 결정하므로 바꾸지 않는다:
//  1. 관리자 지침이 있으면 재대기(pending) 금지
//  2. 환불 게이트: 주문번호+사유 확보 전에는 pending 금지, 대기 안내 문구 제거
//  3. 종결 게이트: 고객이 "더 없다"고 하면 작별 인사로 즉시 종료
//  4. complete 는 종결 게이트 통과 시에만 유효
//  5. pending 시 대기 안내 문장이 없으면 덧붙인다
//  6. auto_close=false 면 자동 종료 무효
func applyGuardrails(decision *Decision, input *DecisionInput) {
	settings := input.Settings
	waitTime := settings.ResponseWaitTime

	if input.AdminInstruction != "" {
		decision.NeedsHuman = false
		decision.Reason = nil
	}

	// 환불/종결 판정은 최신 발화까지 포함한 대화로 한다
	full := append(append([]ConversationTurn{}, input.Conversation...),
		ConversationTurn{SenderType: "user", Content: input.UserMessage})

	effectiveCategory := ""
	if decision.Category != nil {
		effectiveCategory = *decision.Category
	} else if input.CurrentCategory != nil {
		effectiveCategory = *input.CurrentCategory
	}
	if effectiveCategory == "환불 요청" && decision.NeedsHuman && !refundInfoComplete(full) {
		decision.NeedsHuman = false
		decision.Reason = nil
		decision.Summary = nil
		decision.Response = stripWaitMessage(decision.Response, waitTime)
	}

	saysNoMore := userSaysNoMore(full)
	if saysNoMore {
		decision.Complete = true
		decision.NeedsHuman = false
		decision.Reason = nil
		decision.Response = settings.Farewell
	}
	if decision.Complete {
		decision.Complete = saysNoMore
	}

	if decision.NeedsHuman {
		marker := fmt.Sprintf("%d분 이내", waitTime)
		if !strings.Contains(decision.Response, marker) {
			decision.Response = strings.TrimSpace(
				decision.Response + fmt.Sprintf("\n\n확인 후 %d분 이내 답변드리겠습니다.", waitTime))
		}
		wait := waitTime
		decision.WaitTimeMinutes = &wait
	} else {
		decision.WaitTimeMinutes = nil
	}

	decision.Complete = decision.Complete && settings.AutoClose
}

// ==================== 프롬프트 ====================

func buildSystemPrompt(waitTime int) string {
	return fmt.Sprintf(`너는 한국어 고객 상담 채팅을 처리하는 상담 어시스턴트다.
중요 규칙:
  같은 말 반복하지 말고 절대 길게 답변하지 않는다. 고객에게 'AI', '상담원' 등 주체를 드러내지 말고, 자연스럽고 친절하게 상담 톤으로 답변한다.
  제공한 정보 외에 모르는 내용은 절대 억지로라도 묻지 않고, 답하지 않는다.(이러한 부분이 사람이 필요한 상황)
  필요한 정보만 알려준다. 응답 기준을 참고하되, 정책 전문을 길게 나열하지 말고 요약/적용해준다.
  첫 대화에서 카테고리를 하나 선택한다. 가능한 값은 categories 중 하나(없으면 '기타').
  대화 도중 초기에 설정한 카테고리와 달라지면 카테고리를 갱신한다.
  환불/취소/반품과 같이 직접 처리하지 못하고 사람이 처리해야 하는 응대인 경우 또는 사내 정책에 따른 사유인 경우:
    바로 처리 대기(pending)로 넘기지 말고, 먼저 반드시 필요한 정보(주문번호, 환불/반품 사유, 구매 시점/수령 여부 등)를 질문해서 확보한다.
    (정보가 필요 없을 때도 있을 수 있다는 점을 유의하고, 이미 제공한 정보는 반복 요청하지 않는다.)
  필요한 정보가 모두 확보된 뒤에만 needs_human=true로 설정한다.
- needs_human=true인 경우 고객에게 반드시 아래 문장을 포함해 안내한다:
  '확인 후 %d분 이내 답변드리겠습니다.'
- admin_instruction이 비어있지 않으면, 이는 사람이 내려준 최신 지침이다. 이 내용을 기반으로 고객에게 자연스럽게 안내하되, 그대로 복붙하지 말고 핵심만 반영해 답변한다. 이미 해결/안내가 끝났다면 추가 질문 없이 짧게 마무리한다.
  정책에 대한 질문이 들어오면, 한 번에 모든 정책을 알려주지 않는다.
  auto_close가 true이고 상담이 확실히 마무리된 경우에만 complete=true로 설정한다.
  추가로 도울 필요가 없냐고 물어보고 고객이 없다고 했을 때 대화 종료.
- 출력은 반드시 JSON만. 다른 텍스트 금지.
출력 스키마:
{
  "category": "카테고리 문자열",
  "needs_human": true|false,
  "response": "고객에게 보낼 응답",
  "reason": "needs_human 판단 이유(선택)",
  "complete": true|false,
  "summary": "pending/complete 시 관리자용 요약(선택)"
}
`, waitTime)
}

func buildUserPrompt(input *DecisionInput) string {
	settings := input.Settings
	currentCategory := ""
	if input.CurrentCategory != nil {
		currentCategory = *input.CurrentCategory
	}
	return fmt.Sprintf(
		"categories: %s\ncurrent_category: %s\nresponse_guidelines:\n%s\n\nhuman_intervention_rules:\n%s\n\ncustomer_profile:\n%s\n\nauto_close: %t\nadmin_instruction: %s\n\nconversation:\n%s\n\nlatest_user_message:\n%s\n",
		strings.Join(settings.Categories, ", "),
		currentCategory,
		settings.CompanyPolicy,
		settings.HumanInterventionRules,
		strings.TrimSpace(input.CustomerProfile),
		settings.AutoClose,
		strings.TrimSpace(input.AdminInstruction),
		formatConversation(input.Conversation, input.UserMessage),
		strings.TrimSpace(input.UserMessage),
	)
}

// formatConversation 은 대화를 프롬프트용 텍스트로 만든다
// 고객에게는 AI/상담원 구분이 없어야 하므로 둘 다 '상담'으로 표기한다
func formatConversation(conversation []ConversationTurn, latestUserMessage string) string {
	var lines []string
	appendTurn := func(senderType, content string) {
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		prefix := "상담"
		if senderType == "user" {
			prefix = "고객"
		}
		lines = append(lines, prefix+": "+content)
	}
	for _, t := range conversation {
		appendTurn(t.SenderType, t.Content)
	}
	appendTurn("user", latestUserMessage)
	return strings.Join(lines, "\n")
}

// ==================== 함수 호출 도구 ====================

func orderToolDefs() []gpt.Tool {
	return []gpt.Tool{
		{
			Type: "function",
			Function: gpt.ToolFunction{
				Name:        "get_order_by_number",
				Description: "주문번호로 단일 주문 정보를 조회한다.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"order_number": map[string]interface{}{
							"type":        "string",
							"description": "주문번호(예: ORD-2025-0001)",
						},
					},
					"required": []string{"order_number"},
				},
			},
		},
		{
			Type: "function",
			Function: gpt.ToolFunction{
				Name:        "list_recent_orders",
				Description: "특정 고객의 최근 주문을 조회한다.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"customer_id": map[string]interface{}{
							"type":        "string",
							"description": "주문자 ID (미지정 시 현재 고객)",
						},
						"limit": map[string]interface{}{
							"type":        "integer",
							"description": "가져올 최대 개수 (기본 5)",
							"minimum":     1,
							"maximum":     20,
						},
					},
				},
			},
		},
	}
}

// runTool 은 모델이 요청한 함수 호출을 실행하고 결과를 JSON 문자열로 반환한다
// 실패는 에러가 아니라 {"ok": false, "message": ...} 로 모델에게 돌려준다
func (e *DecisionEngine) runTool(ctx context.Context, tc gpt.ToolCall, defaultCustomerID string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
		args = map[string]interface{}{}
	}

	switch tc.Function.Name {
	case "get_order_by_number":
		orderNumber := strings.TrimSpace(asString(args["order_number"]))
		if orderNumber == "" {
			return toolError("order_number가 비어 있습니다.")
		}
		order, err := e.orders.GetByNumber(ctx, orderNumber)
		if err != nil || order == nil {
			return toolError("주문을 찾을 수 없습니다.")
		}
		return toolOK(map[string]interface{}{"order": order})

	case "list_recent_orders":
		customerID := strings.TrimSpace(asString(args["customer_id"]))
		if customerID == "" {
			customerID = defaultCustomerID
		}
		if customerID == "" {
			return toolError("customer_id가 필요합니다.")
		}
		limit := 5
		if raw, ok := args["limit"].(float64); ok {
			limit = int(raw)
		}
		orders, err := e.orders.ListRecentByCustomer(ctx, customerID, limit)
		if err != nil {
			return toolError("주문 조회에 실패했습니다.")
		}
		return toolOK(map[string]interface{}{"orders": orders})
	}

	return toolError("알 수 없는 함수 호출: " + tc.Function.Name)
}

func toolOK(fields map[string]interface{}) string {
	fields["ok"] = true
	data, _ := json.Marshal(fields)
	return string(data)
}

func toolError(message string) string {
	data, _ := json.Marshal(map[string]interface{}{"ok": false, "message": message})
	return string(data)
}

// ==================== 헬퍼 ====================

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func asBool(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	}
	return false
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
