// Package config 는 애플리케이션 설정의 로드와 관리를 담당한다
// viper 를 사용해 YAML 설정 파일과 환경 변수 오버라이드를 지원한다
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 는 애플리케이션 루트 설정 구조체
// 모든 하위 설정 모듈을 포함한다
type Config struct {
	Server ServerConfig `mapstructure:"server"` // 서버 설정
	MySQL  MySQLConfig  `mapstructure:"mysql"`  // MySQL 설정
	Redis  RedisConfig  `mapstructure:"redis"`  // Redis 설정
	JWT    JWTConfig    `mapstructure:"jwt"`    // JWT 설정
	Log    LogConfig    `mapstructure:"log"`    // 로그 설정
	GPT    GPTConfig    `mapstructure:"gpt"`    // 생성형 백엔드 설정
}

// ServerConfig 서버 관련 설정
type ServerConfig struct {
	Port int      `mapstructure:"port"` // 리스닝 포트, 기본 8080
	Mode string   `mapstructure:"mode"` // 실행 모드: debug / release
	CORS []string `mapstructure:"cors"` // CORS 허용 오리진
}

// MySQLConfig MySQL 데이터베이스 연결 설정
type MySQLConfig struct {
	Host         string `mapstructure:"host"`           // 데이터베이스 호스트
	Port         int    `mapstructure:"port"`           // 데이터베이스 포트
	Username     string `mapstructure:"username"`       // 사용자명
	Password     string `mapstructure:"password"`       // 비밀번호
	Database     string `mapstructure:"database"`       // 데이터베이스 이름
	Charset      string `mapstructure:"charset"`        // 문자셋
	MaxIdleConns int    `mapstructure:"max_idle_conns"` // 최대 유휴 커넥션 수
	MaxOpenConns int    `mapstructure:"max_open_conns"` // 최대 오픈 커넥션 수
	MaxLifetime  int    `mapstructure:"max_lifetime"`   // 커넥션 최대 수명(초)
}

// RedisConfig Redis 연결 설정
type RedisConfig struct {
	Host     string `mapstructure:"host"`      // Redis 호스트
	Port     int    `mapstructure:"port"`      // Redis 포트
	Username string `mapstructure:"username"`  // Redis 사용자명(클라우드 환경용)
	Password string `mapstructure:"password"`  // Redis 비밀번호
	DB       int    `mapstructure:"db"`        // 데이터베이스 인덱스 (0-15)
	PoolSize int    `mapstructure:"pool_size"` // 커넥션 풀 크기
}

// JWTConfig JWT 인증 설정
type JWTConfig struct {
	Secret       string        `mapstructure:"secret"`        // 서명 키, 최소 32자
	AccessExpire time.Duration `mapstructure:"access_expire"` // Access Token 만료 시간
}

// LogConfig 로그 설정
type LogConfig struct {
	Level  string `mapstructure:"level"`  // 로그 레벨: debug/info/warn/error
	Format string `mapstructure:"format"` // 로그 포맷: json/text
}

// GPTConfig 생성형 텍스트 백엔드 설정
// OpenAI 호환 chat completions 엔드포인트를 가정한다
type GPTConfig struct {
	APIKey  string        `mapstructure:"api_key"`  // API Key (비어 있으면 규칙 기반으로만 동작)
	BaseURL string        `mapstructure:"base_url"` // API base URL
	Model   string        `mapstructure:"model"`    // 모델 이름
	Timeout time.Duration `mapstructure:"timeout"`  // 호출 타임아웃
}

// Load 는 지정한 경로에서 설정 파일을 로드한다
// 환경 변수 오버라이드를 지원한다
// 파라미터:
//   - configPath: 설정 파일 디렉터리 경로 (예: "./configs")
//
// 반환:
//   - *Config: 설정 객체
//   - error: 로드 실패 시 에러
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// 환경 변수 활성화
	// 환경 변수의 _ 를 설정 키의 . 으로 매핑한다
	// 예: MYSQL_HOST -> mysql.host
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVariables(v)

	// 설정 파일에 없는 항목은 기본값을 사용한다
	setDefaults(v)

	// 설정 파일이 없으면 기본값과 환경 변수만으로 동작한다
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindEnvVariables 환경 변수를 설정 항목에 바인딩한다
func bindEnvVariables(v *viper.Viper) {
	// 서버 설정
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// MySQL 설정
	v.BindEnv("mysql.host", "MYSQL_HOST")
	v.BindEnv("mysql.port", "MYSQL_PORT")
	v.BindEnv("mysql.username", "MYSQL_USERNAME")
	v.BindEnv("mysql.password", "MYSQL_PASSWORD")
	v.BindEnv("mysql.database", "MYSQL_DATABASE")

	// Redis 설정
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.username", "REDIS_USERNAME")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT 설정
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// GPT 설정
	v.BindEnv("gpt.api_key", "GPT_API_KEY")
	v.BindEnv("gpt.base_url", "GPT_BASE_URL")
	v.BindEnv("gpt.model", "GPT_MODEL")
}

// setDefaults 설정 항목의 기본값을 지정한다
func setDefaults(v *viper.Viper) {
	// 서버 기본값
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors", []string{"http://localhost:3000", "http://localhost:5173"})

	// MySQL 기본값
	v.SetDefault("mysql.host", "localhost")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.charset", "utf8mb4")
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.max_open_conns", 100)
	v.SetDefault("mysql.max_lifetime", 3600)

	// Redis 기본값
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 100)

	// JWT 기본값
	v.SetDefault("jwt.access_expire", "168h")

	// 로그 기본값
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// GPT 기본값
	v.SetDefault("gpt.base_url", "https://api.openai.com/v1")
	v.SetDefault("gpt.model", "gpt-5-mini")
	v.SetDefault("gpt.timeout", "30s")
}
