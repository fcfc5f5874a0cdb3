package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggerMiddleware 는 요청 로깅 미들웨어를 생성한다
// 메서드, 경로, 상태 코드, 소요 시간을 기록한다
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		logLine := statusTag(statusCode) + " | " +
			latency.Truncate(time.Microsecond).String() + " | " +
			clientIP + " | " +
			method + " | " +
			path
		if errorMessage != "" {
			logLine += " | " + errorMessage
		}

		switch {
		case statusCode >= 500:
			log.Printf("[ERROR] %s", logLine)
		case statusCode >= 400:
			log.Printf("[WARN] %s", logLine)
		default:
			log.Printf("[INFO] %s", logLine)
		}
	}
}

// statusTag 는 상태 코드의 로그 태그를 만든다
func statusTag(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "[" + itoa(code) + " OK]"
	case code >= 300 && code < 400:
		return "[" + itoa(code) + " REDIRECT]"
	case code >= 400 && code < 500:
		return "[" + itoa(code) + " CLIENT_ERR]"
	default:
		return "[" + itoa(code) + " SERVER_ERR]"
	}
}

func itoa(code int) string {
	// 상태 코드는 3자리 양수뿐이라 strconv 대신 단순 변환으로 충분하다
	digits := [3]byte{
		byte('0' + code/100%10),
		byte('0' + code/10%10),
		byte('0' + code%10),
	}
	return string(digits[:])
}

// RecoveryMiddleware 는 panic 복구 미들웨어를 생성한다
// 핸들러의 panic 을 잡아 프로세스 종료를 막는다
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] %v", err)
				c.AbortWithStatusJSON(500, gin.H{
					"code":    500,
					"message": "서버 내부 오류가 발생했습니다.",
				})
			}
		}()

		c.Next()
	}
}
