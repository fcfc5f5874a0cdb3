package gpt

import (
	"encoding/json"
	"regexp"
	"strings"
)

// 코드블록 안의 JSON object 를 찾는다 (```json { ... } ```)
var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ParseJSONObject 는 모델 출력 텍스트에서 JSON object 를 복구한다
// 모델이 JSON 만 출력하도록 유도하지만 실패할 수 있으므로 세 단계로 시도한다:
//  1. 전체 텍스트를 그대로 파싱
//  2. 코드블록(```json ... ```) 안의 내용을 파싱
//  3. 텍스트에서 첫 번째 균형 잡힌 JSON object 를 찾아 파싱
//
// 반환:
//   - map[string]interface{}: 파싱된 객체
//   - error: *Error (어떤 방법으로도 복구 실패)
func ParseJSONObject(text string) (map[string]interface{}, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, newError("응답이 비어 있습니다")
	}

	// 1) 그대로 파싱
	if obj := tryUnmarshalObject(text); obj != nil {
		return obj, nil
	}

	// 2) 코드블록 제거
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		if obj := tryUnmarshalObject(m[1]); obj != nil {
			return obj, nil
		}
	}

	// 3) 첫 JSON object 복구
	if candidate := extractFirstJSONObject(text); candidate != "" {
		if obj := tryUnmarshalObject(candidate); obj != nil {
			return obj, nil
		}
	}

	return nil, newError("JSON 응답 파싱에 실패했습니다")
}

func tryUnmarshalObject(s string) map[string]interface{} {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return obj
}

// extractFirstJSONObject 는 텍스트에서 첫 번째 균형 잡힌 {} 블록을 찾는다
// 문자열 리터럴 내부의 중괄호와 이스케이프를 건너뛴다
func extractFirstJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inStr := false
	escape := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inStr {
			if escape {
				escape = false
				continue
			}
			switch ch {
			case '\\':
				escape = true
			case '"':
				inStr = false
			}
			continue
		}
		switch ch {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
