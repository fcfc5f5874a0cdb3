package service

import (
	"regexp"
	"strconv"
	"strings"
)

// 가드레일 판정에 쓰는 패턴/키워드 테이블
// 결정 파이프라인과 규칙 엔진이 공유한다

// 주문번호 패턴: ORD-2025-0001 류 또는 8자리 이상 숫자열
var (
	orderNumberCodePattern  = regexp.MustCompile(`\bORD[- ]?\d{4}[- ]?\d+\b`)
	orderNumberDigitPattern = regexp.MustCompile(`\b\d{8,}\b`)
)

// 환불 사유로 인정하는 키워드
var refundReasonKeywords = []string{
	"사유", "이유", "하자", "불량", "변심", "오배송", "파손", "반품", "취소",
}

// 고객의 종결 의사 표현 패턴 (단순 부정 "아니요"는 제외)
var closingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`이상\s*없(습니다|어요|다)`),
	regexp.MustCompile(`더\s*없(습니다|어요|다)`),
	regexp.MustCompile(`없(습니다|어요|다)`),
	regexp.MustCompile(`괜찮(습니다|아요|다)`),
	regexp.MustCompile(`끝입니다`),
	regexp.MustCompile(`끝이에요`),
	regexp.MustCompile(`끝`),
	regexp.MustCompile(`됐습니다`),
	regexp.MustCompile(`됐어요`),
	regexp.MustCompile(`no more`),
	regexp.MustCompile(`no thanks`),
}

// 고객 불만 표현 키워드
var complaintKeywords = []string{"불만", "화나", "최악", "환불해", "신고"}

// containsAny 는 텍스트에 키워드 중 하나라도 포함되는지 확인한다 (대소문자 무시)
func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// LooksLikeOrderNumber 는 텍스트에 주문번호로 보이는 토큰이 있는지 확인한다
func LooksLikeOrderNumber(text string) bool {
	if orderNumberCodePattern.MatchString(strings.ToUpper(text)) {
		return true
	}
	return orderNumberDigitPattern.MatchString(text)
}

// ConversationTurn 결정 파이프라인이 보는 대화의 한 턴
type ConversationTurn struct {
	SenderType string
	Content    string
}

// refundInfoComplete 는 환불 처리에 필요한 최소 정보(주문번호+사유)가
// 대화에서 확보됐는지 확인한다
// 확보 전에는 환불 건을 처리 대기(pending)로 넘기지 않는다
func refundInfoComplete(conversation []ConversationTurn) bool {
	var b strings.Builder
	for _, t := range conversation {
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	text := b.String()
	return LooksLikeOrderNumber(text) && containsAny(text, refundReasonKeywords)
}

// userSaysNoMore 는 마지막 발화가 고객이며 "더 이상 없음"을 명시했는지 확인한다
func userSaysNoMore(conversation []ConversationTurn) bool {
	if len(conversation) == 0 {
		return false
	}
	last := conversation[len(conversation)-1]
	if last.SenderType != "user" {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(last.Content))
	if text == "" {
		return false
	}
	for _, pat := range closingPatterns {
		if pat.MatchString(text) {
			return true
		}
	}
	return false
}

// stripWaitMessage 는 응답에서 "확인 후 N분 이내 답변드리겠습니다" 안내를 제거한다
// 환불 가드레일이 pending 전환을 취소할 때 사용한다
func stripWaitMessage(text string, waitMinutes int) string {
	pat := regexp.MustCompile(`\s*확인\s*후\s*` + strconv.Itoa(waitMinutes) + `\s*분\s*이내\s*답변드리겠습니다\.?\s*`)
	return strings.TrimSpace(pat.ReplaceAllString(text, "\n"))
}
