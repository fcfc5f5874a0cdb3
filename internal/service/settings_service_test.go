package service

import (
	"reflect"
	"testing"

	"support-chat-server/internal/model"
)

func TestFoldSettings(t *testing.T) {
	rows := []model.ChatbotSetting{
		{SettingKey: "greeting", SettingValue: "어서오세요"},
		{SettingKey: "categories", SettingValue: `["일반 문의","환불 요청"]`},
		{SettingKey: "response_wait_time", SettingValue: "10"},
		{SettingKey: "auto_close", SettingValue: "false"},
	}

	settings := foldSettings(rows)
	if settings.Greeting != "어서오세요" {
		t.Errorf("Greeting = %q", settings.Greeting)
	}
	if !reflect.DeepEqual(settings.Categories, []string{"일반 문의", "환불 요청"}) {
		t.Errorf("Categories = %v", settings.Categories)
	}
	if settings.ResponseWaitTime != 10 {
		t.Errorf("ResponseWaitTime = %d", settings.ResponseWaitTime)
	}
	if settings.AutoClose {
		t.Error("AutoClose = true")
	}
	// 저장되지 않은 항목은 기본값 유지
	if settings.Farewell != DefaultChatSettings().Farewell {
		t.Errorf("Farewell = %q", settings.Farewell)
	}
}

func TestFoldSettingsIgnoresBrokenRows(t *testing.T) {
	rows := []model.ChatbotSetting{
		{SettingKey: "categories", SettingValue: "json 아님"},
		{SettingKey: "response_wait_time", SettingValue: "abc"},
	}
	settings := foldSettings(rows)
	if !reflect.DeepEqual(settings.Categories, DefaultChatSettings().Categories) {
		t.Errorf("깨진 categories 가 기본값으로 대체되지 않았다: %v", settings.Categories)
	}
	if settings.ResponseWaitTime != 5 {
		t.Errorf("깨진 wait_time 이 기본값으로 대체되지 않았다: %d", settings.ResponseWaitTime)
	}
}

func TestSanitizeSettings(t *testing.T) {
	settings := &ChatSettings{
		ResponseWaitTime: -1,
		Categories:       nil,
	}
	sanitizeSettings(settings)
	if settings.ResponseWaitTime != 5 {
		t.Errorf("ResponseWaitTime = %d", settings.ResponseWaitTime)
	}
	if len(settings.Categories) == 0 {
		t.Error("Categories 가 비어 있다")
	}
	if settings.Greeting == "" || settings.Farewell == "" {
		t.Error("빈 인사말이 기본값으로 대체되지 않았다")
	}
}

func TestParseBoolish(t *testing.T) {
	truthy := []string{"1", "true", "TRUE", " yes ", "Y"}
	for _, v := range truthy {
		if !parseBoolish(v) {
			t.Errorf("parseBoolish(%q) = false", v)
		}
	}
	falsy := []string{"0", "false", "no", "", "아니오"}
	for _, v := range falsy {
		if parseBoolish(v) {
			t.Errorf("parseBoolish(%q) = true", v)
		}
	}
}
