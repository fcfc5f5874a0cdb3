// Package gpt 는 OpenAI 호환 Chat Completions API 클라이언트를 제공한다
// 함수 호출(tools) 지원, 파라미터 비호환 재시도, 응답 JSON 복구를 담당한다
package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"support-chat-server/internal/config"
)

// Error GPT API 호출 실패를 나타내는 타입
// 결정 파이프라인은 이 에러를 받으면 규칙 엔진 폴백으로 전환한다
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "gpt: " + e.Message
}

func newError(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// ChatMessage Chat Completions 메시지
// Role 이 tool 이면 ToolCallID 가 필수다
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolFunction 함수 호출 도구의 스펙
type ToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Tool Chat Completions 의 tools 항목
type Tool struct {
	Type     string       `json:"type"` // 항상 "function"
	Function ToolFunction `json:"function"`
}

// ToolCall 모델이 요청한 함수 호출
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction 함수 호출의 이름과 인자
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON 문자열
}

// ChatResult 한 번의 호출 결과
// Text 와 ToolCalls 둘 다 빌 수는 없다 (빈 응답은 에러)
type ChatResult struct {
	Text      string
	ToolCalls []ToolCall
}

// Client OpenAI 호환 API 클라이언트
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewClient 는 Client 인스턴스를 생성한다
// 파라미터:
//   - cfg: GPT 설정 (API Key, Base URL, 모델, 타임아웃)
func NewClient(cfg *config.GPTConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Model 은 설정된 모델명을 반환한다
func (c *Client) Model() string {
	return c.model
}

// ChatWithTools 는 Chat Completions 를 호출한다 (함수 호출 지원)
// 최신 모델의 max_completion_tokens 를 우선 사용하고,
// 미지원 에러가 오면 max_tokens 로 바꿔 한 번 재시도한다
// 파라미터:
//   - ctx: 컨텍스트
//   - messages: 대화 메시지 목록
//   - tools: 함수 호출 도구 목록, 없으면 nil
//   - maxOutputTokens: 출력 토큰 상한
//
// 반환:
//   - *ChatResult: 응답 텍스트와 함수 호출 목록
//   - error: *Error (전송 실패 / 비 2xx / 에러 페이로드 / 빈 응답)
func (c *Client) ChatWithTools(ctx context.Context, messages []ChatMessage, tools []Tool, maxOutputTokens int) (*ChatResult, error) {
	if c.apiKey == "" {
		return nil, newError("API Key 가 설정되어 있지 않습니다")
	}

	body := map[string]interface{}{
		"model":                 c.model,
		"messages":              messages,
		"max_completion_tokens": maxOutputTokens,
	}
	if len(tools) > 0 {
		body["tools"] = tools
		body["tool_choice"] = "auto"
	}

	payload, err := c.postJSON(ctx, body)
	if err != nil {
		// 구형 엔드포인트는 max_completion_tokens 를 거부한다
		if strings.Contains(err.Error(), "max_completion_tokens") {
			delete(body, "max_completion_tokens")
			body["max_tokens"] = maxOutputTokens
			payload, err = c.postJSON(ctx, body)
		}
		if err != nil {
			return nil, err
		}
	}

	return extractResult(payload)
}

// completionPayload Chat Completions 응답의 디코딩 대상
type completionPayload struct {
	Choices []struct {
		Message struct {
			Content   string     `json:"content"`
			ToolCalls []ToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// postJSON 은 요청 본문을 POST 하고 응답을 디코딩한다
func (c *Client) postJSON(ctx context.Context, body map[string]interface{}) (*completionPayload, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, newError("요청 직렬화 실패: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, newError("요청 생성 실패: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newError("API 호출 실패: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError("응답 읽기 실패: %v", err)
	}

	var payload completionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, newError("응답 JSON 파싱 실패: %v", err)
	}
	if payload.Error != nil && payload.Error.Message != "" {
		return nil, newError("API error payload: %s", payload.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := string(raw)
		if len(preview) > 500 {
			preview = preview[:500]
		}
		return nil, newError("HTTP %d: %s", resp.StatusCode, preview)
	}
	return &payload, nil
}

// extractResult 는 응답에서 텍스트와 함수 호출을 추출한다
func extractResult(payload *completionPayload) (*ChatResult, error) {
	if len(payload.Choices) == 0 {
		return nil, newError("응답이 비어 있습니다")
	}

	msg := payload.Choices[0].Message
	calls := make([]ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		if tc.Type != "function" || tc.Function.Name == "" {
			continue
		}
		calls = append(calls, tc)
	}

	content := strings.TrimSpace(msg.Content)
	if content == "" && len(calls) == 0 {
		return nil, newError("응답이 비어 있습니다")
	}
	return &ChatResult{Text: content, ToolCalls: calls}, nil
}
