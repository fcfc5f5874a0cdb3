// Package service 는 비즈니스 로직 계층을 제공한다
package service

import "errors"

// 비즈니스 에러 정의
// 핸들러에서 errors.Is 로 판별해 대응하는 HTTP 응답으로 변환한다
var (
	ErrUserNotFound     = errors.New("사용자를 찾을 수 없습니다")
	ErrPasswordWrong    = errors.New("비밀번호가 일치하지 않습니다")
	ErrSessionNotFound  = errors.New("세션을 찾을 수 없습니다")
	ErrSessionCompleted = errors.New("이미 종료된 상담입니다")
	ErrNoPermission     = errors.New("권한이 없습니다")
	ErrEmptyContent     = errors.New("메시지 내용이 비어 있습니다")
	ErrOrderNotFound    = errors.New("주문을 찾을 수 없습니다")
	ErrInvalidStatus    = errors.New("유효하지 않은 상태 값입니다")
)
