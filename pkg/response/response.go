// Package response 는 통일된 HTTP 응답 포맷을 제공한다
// 모든 API 가 동일한 응답 구조를 사용해 프런트엔드 처리를 단순화한다
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 통일 응답 구조
// code: 비즈니스 상태 코드 (0 은 성공)
// message: 안내 메시지
// data: 응답 데이터
type Response struct {
	Code    int         `json:"code"`           // 비즈니스 상태 코드
	Message string      `json:"message"`        // 안내 메시지
	Data    interface{} `json:"data,omitempty"` // 응답 데이터 (선택)
}

// 비즈니스 상태 코드 정의
const (
	CodeSuccess          = 0    // 성공
	CodeBadRequest       = 1000 // 요청 파라미터 오류
	CodeUnauthorized     = 1001 // 미인증
	CodeForbidden        = 1002 // 접근 금지
	CodeNotFound         = 1003 // 리소스 없음
	CodeInternalError    = 1004 // 서버 내부 오류
	CodeUserNotFound     = 1102 // 사용자 없음
	CodePasswordWrong    = 1103 // 비밀번호 오류
	CodeSessionNotFound  = 1301 // 세션 없음
	CodeSessionCompleted = 1302 // 이미 종료된 세션
	CodeOrderNotFound    = 1401 // 주문 없음
)

// Success 성공 응답을 반환한다
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 성공 응답을 반환한다 (커스텀 메시지)
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Error 에러 응답을 반환한다
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, Response{
		Code:    httpCode,
		Message: message,
	})
}

// ErrorWithCode 에러 응답을 반환한다 (비즈니스 상태 코드 포함)
func ErrorWithCode(c *gin.Context, httpCode, bizCode int, message string) {
	c.JSON(httpCode, Response{
		Code:    bizCode,
		Message: message,
	})
}

// BadRequest 400 에러를 반환한다 (요청 파라미터 오류)
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    CodeBadRequest,
		Message: message,
	})
}

// Unauthorized 401 에러를 반환한다 (미인증)
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{
		Code:    CodeUnauthorized,
		Message: message,
	})
}

// Forbidden 403 에러를 반환한다 (접근 금지)
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Response{
		Code:    CodeForbidden,
		Message: message,
	})
}

// NotFound 404 에러를 반환한다 (리소스 없음)
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeNotFound,
		Message: message,
	})
}

// InternalError 500 에러를 반환한다 (서버 내부 오류)
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Response{
		Code:    CodeInternalError,
		Message: message,
	})
}

// SessionNotFound 세션 없음 에러를 반환한다
func SessionNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeSessionNotFound,
		Message: "세션을 찾을 수 없습니다.",
	})
}

// SessionCompleted 이미 종료된 세션 에러를 반환한다
func SessionCompleted(c *gin.Context) {
	c.JSON(http.StatusConflict, Response{
		Code:    CodeSessionCompleted,
		Message: "이미 종료된 상담입니다.",
	})
}

// OrderNotFound 주문 없음 에러를 반환한다
func OrderNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeOrderNotFound,
		Message: "주문을 찾을 수 없습니다.",
	})
}

// Created 201 생성 성공 응답을 반환한다
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "created",
		Data:    data,
	})
}
