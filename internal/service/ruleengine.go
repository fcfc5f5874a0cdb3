package service

import "fmt"

// RuleResult 규칙 엔진의 판정 결과
type RuleResult struct {
	Category        string
	NeedsHuman      bool
	Response        string
	WaitTimeMinutes *int
	Reason          *string
}

// ClassifyCategory 는 키워드 기반으로 문의 카테고리를 분류한다
// 설정된 카테고리 목록에 없는 분류 결과는 첫 번째 카테고리로 대체한다
func ClassifyCategory(message string, categories []string) string {
	pick := func(want string) string {
		for _, c := range categories {
			if c == want {
				return want
			}
		}
		if len(categories) > 0 {
			return categories[0]
		}
		return "기타"
	}

	switch {
	case containsAny(message, []string{"환불", "취소", "반품"}):
		return pick("환불 요청")
	case containsAny(message, []string{"배송", "도착", "주문", "택배"}):
		return pick("주문 문의")
	case containsAny(message, []string{"로그인", "오류", "에러", "버그", "안 돼", "안돼"}):
		return pick("기술 지원")
	case containsAny(message, []string{"비밀번호", "계정", "가입", "인증"}):
		return pick("계정 관리")
	}
	if len(categories) > 0 {
		return categories[0]
	}
	return "기타"
}

// needsHumanIntervention 은 사람 개입 필요 여부를 판정한다
// 환불 요청 카테고리와 고객 불만 표현은 무조건 개입 대상이다
// rulesText 는 현재 참고용으로만 받는다 (생성형 경로에서 프롬프트에 사용)
func needsHumanIntervention(message, category, rulesText string) (bool, string) {
	_ = rulesText
	if category == "환불 요청" {
		return true, "환불 요청으로 사람 개입이 필요합니다."
	}
	if containsAny(message, complaintKeywords) {
		return true, "고객 불만 표현으로 사람 개입이 필요합니다."
	}
	return false, ""
}

// generateRuleResponse 는 카테고리별 고정 응답을 생성한다
func generateRuleResponse(category string, companyPolicy string, needsHuman bool, waitTime int) string {
	if needsHuman {
		return fmt.Sprintf("말씀해주신 내용은 확인 후 %d분 이내에 답변드리겠습니다. 잠시만 기다려주세요.", waitTime)
	}
	switch category {
	case "주문 문의":
		return "주문번호를 알려주시면 배송 상태를 확인해드리겠습니다."
	case "기술 지원":
		return "불편을 드려 죄송합니다. 사용 중인 기기/브라우저와 오류 메시지를 알려주시면 빠르게 도와드릴게요."
	case "계정 관리":
		return "계정 관련 확인을 위해 가입 이메일과 본인 확인 정보를 알려주세요."
	case "환불 요청":
		return fmt.Sprintf("환불 정책은 아래와 같습니다:\n%s\n구매일과 주문번호를 알려주시면 확인해드릴게요.", companyPolicy)
	}
	return "문의 내용을 확인했습니다. 추가로 필요한 정보가 있으신가요?"
}

// ProcessByRules 는 규칙 기반으로 한 턴을 처리한다
// 생성형 경로가 실패했을 때의 폴백이며, 어떤 입력에도 실패하지 않는다
func ProcessByRules(message string, settings *ChatSettings) *RuleResult {
	category := ClassifyCategory(message, settings.Categories)
	needsHuman, reason := needsHumanIntervention(message, category, settings.HumanInterventionRules)
	response := generateRuleResponse(category, settings.CompanyPolicy, needsHuman, settings.ResponseWaitTime)

	result := &RuleResult{
		Category:   category,
		NeedsHuman: needsHuman,
		Response:   response,
	}
	if needsHuman {
		wait := settings.ResponseWaitTime
		result.WaitTimeMinutes = &wait
		result.Reason = &reason
	}
	return result
}
