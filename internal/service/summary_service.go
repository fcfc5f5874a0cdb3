package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"support-chat-server/internal/gpt"
)

// SummaryService 관리자용 상담 요약을 생성한다
// 생성형 경로가 실패하면 항상 결정론적 폴백 텍스트를 반환하므로 에러가 없다
type SummaryService struct {
	gpt GptCaller
}

// NewSummaryService 는 SummaryService 인스턴스를 생성한다
// gptClient 가 nil 이면 항상 폴백 텍스트를 사용한다
func NewSummaryService(gptClient GptCaller) *SummaryService {
	return &SummaryService{gpt: gptClient}
}

// BuildPendingSummary 는 처리 대기 전환 시 관리자에게 보여줄 요약을 만든다
// 항상 전용 요약기로 생성한다 (결정 모델이 summary 에 넣은 값은 신뢰하지 않는다)
// 파라미터:
//   - ctx: 컨텍스트
//   - conversation: 최신 발화까지 포함한 전체 대화
func (s *SummaryService) BuildPendingSummary(ctx context.Context, conversation []ConversationTurn) string {
	userOnly := make([]string, 0, len(conversation))
	lastUser := ""
	for _, t := range conversation {
		content := strings.TrimSpace(t.Content)
		if t.SenderType == "user" && content != "" {
			userOnly = append(userOnly, content)
			lastUser = content
		}
	}

	// 사용자 발화가 전혀 없으면 생성형 호출 없이 안내만 반환
	if len(userOnly) == 0 {
		return "사용자 문의가 아직 입력되지 않았습니다."
	}

	fallback := lastUser
	if fallback == "" {
		fallback = "관리자 확인이 필요합니다."
	}
	if s.gpt == nil {
		return fallback
	}

	system := "너는 관리자에게 전달할 '처리 대기' 요약을 작성한다.\n" +
		"- 반드시 '사용자 발화'를 기준으로 요약한다. 상담원/AI 발화는 참고만 한다.\n" +
		"- 최근 사용자 메시지에 담긴 구체적 문제를 첫 문장에 넣고, 필요하면 이전 사용자 발화를 보태어 2~3문장으로 요약한다.\n" +
		"- 인사/상담 의사 표현만 반복하지 말고, 구체적 문제를 summary에 포함한다.\n" +
		"- 정책/매장 안내 등 템플릿성 문구는 요약에 넣지 않는다.\n" +
		"- action_items는 대화에서 실제로 언급된 추가 확인 사항이 있을 때만 bullet로 적고, 없으면 빈 배열로 둔다.\n" +
		"- JSON만 출력.\n" +
		"출력 스키마:\n{\n  \"summary\": \"요약(2~3문장)\",\n  \"action_items\": [\"확인할 것1\",\"확인할 것2\"]\n}\n"
	user := fmt.Sprintf(
		"대화 내용:\n%s\n사용자 발화만 모아둔 목록:\n%s\n위 대화를 근거로 작성하고, 불필요한 정책 나열은 넣지 말 것.\nsummary에는 최신 사용자 메시지에서 언급한 구체적 요청/문제를 반드시 포함하고, 상담원/AI가 말한 내용은 참고만 할 것.\n",
		formatConversation(conversation, ""),
		strings.Join(userOnly, "\n"),
	)

	data, err := s.callJSON(ctx, system, user, 500)
	if err != nil {
		log.Printf("[SUMMARY] engine=fallback kind=pending reason=%v", err)
		return fallback
	}

	summary := strings.TrimSpace(asString(data["summary"]))
	if summary == "" {
		summary = fallback
	}
	if items, ok := data["action_items"].([]interface{}); ok {
		bullets := make([]string, 0, len(items))
		for _, item := range items {
			if text := strings.TrimSpace(asString(item)); text != "" {
				bullets = append(bullets, "- "+text)
			}
			if len(bullets) >= 10 {
				break
			}
		}
		if len(bullets) > 0 {
			summary = summary + "\n" + strings.Join(bullets, "\n")
		}
	}
	return strings.TrimSpace(summary)
}

// BuildCompletedSummary 는 상담 종료 시 저장할 요약을 만든다
func (s *SummaryService) BuildCompletedSummary(ctx context.Context, conversation []ConversationTurn, settings *ChatSettings) string {
	const fallback = "상담이 종료되었습니다."
	if s.gpt == nil {
		return fallback
	}

	system := "너는 상담 종료 요약을 작성한다.\n" +
		"대화 전체를 보고, 핵심을 3~6줄 내로 요약해라.\n" +
		"반드시 JSON만 출력하라.\n" +
		"출력 스키마:\n{ \"summary\": \"요약 텍스트(여러 줄 가능)\" }\n"
	user := fmt.Sprintf("응답 기준:\n%s\n\n대화 내용:\n%s\n",
		settings.CompanyPolicy, formatConversation(conversation, ""))

	data, err := s.callJSON(ctx, system, user, 700)
	if err != nil {
		log.Printf("[SUMMARY] engine=fallback kind=completed reason=%v", err)
		return fallback
	}
	if summary := strings.TrimSpace(asString(data["summary"])); summary != "" {
		return summary
	}
	return fallback
}

// callJSON 은 도구 없이 한 번 호출하고 JSON object 를 복구한다
func (s *SummaryService) callJSON(ctx context.Context, system, user string, maxTokens int) (map[string]interface{}, error) {
	resp, err := s.gpt.ChatWithTools(ctx, []gpt.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, nil, maxTokens)
	if err != nil {
		return nil, err
	}
	return gpt.ParseJSONObject(resp.Text)
}
