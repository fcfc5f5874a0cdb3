package gpt

import "testing"

func TestParseJSONObjectRaw(t *testing.T) {
	obj, err := ParseJSONObject(`{"category":"주문 문의","needs_human":false}`)
	if err != nil {
		t.Fatalf("ParseJSONObject() error = %v", err)
	}
	if obj["category"] != "주문 문의" {
		t.Errorf("category = %v", obj["category"])
	}
}

func TestParseJSONObjectFenced(t *testing.T) {
	text := "결과는 다음과 같습니다:\n```json\n{\"response\": \"안내드립니다.\"}\n```\n감사합니다."
	obj, err := ParseJSONObject(text)
	if err != nil {
		t.Fatalf("ParseJSONObject() error = %v", err)
	}
	if obj["response"] != "안내드립니다." {
		t.Errorf("response = %v", obj["response"])
	}
}

func TestParseJSONObjectEmbedded(t *testing.T) {
	// 앞뒤 잡음 속에서 첫 번째 균형 잡힌 object 를 복구한다
	text := `모델 출력: {"a": {"b": "중괄호 } 포함 \" 문자열"}, "ok": true} 끝`
	obj, err := ParseJSONObject(text)
	if err != nil {
		t.Fatalf("ParseJSONObject() error = %v", err)
	}
	if obj["ok"] != true {
		t.Errorf("ok = %v", obj["ok"])
	}
}

func TestParseJSONObjectFailure(t *testing.T) {
	for _, text := range []string{"", "JSON 이 아닌 텍스트", "{깨진 json"} {
		if _, err := ParseJSONObject(text); err == nil {
			t.Errorf("ParseJSONObject(%q) 가 에러를 반환하지 않았다", text)
		}
	}
}
