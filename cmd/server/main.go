// Package main 은 상담 채팅 서버의 진입점이다
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"support-chat-server/internal/cache"
	"support-chat-server/internal/config"
	"support-chat-server/internal/gpt"
	"support-chat-server/internal/handler"
	"support-chat-server/internal/middleware"
	"support-chat-server/internal/model"
	"support-chat-server/internal/repository"
	"support-chat-server/internal/service"
	"support-chat-server/internal/websocket"
	"support-chat-server/pkg/jwt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// 설정 로드
	cfg, err := config.Load("./configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 데이터베이스 초기화
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}

	// 테이블 자동 마이그레이션
	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis 초기화
	redisCache, err := cache.NewRedisCache(cfg)
	if err != nil {
		log.Fatalf("Failed to init redis: %v", err)
	}

	// JWT 서비스 초기화
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpire)

	// Repository 레이어 초기화
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// 생성형 백엔드 클라이언트
	// API Key 가 없으면 규칙 기반으로만 동작한다
	var gptCaller service.GptCaller
	if cfg.GPT.APIKey != "" {
		gptCaller = gpt.NewClient(&cfg.GPT)
		log.Printf("GPT backend enabled: model=%s", cfg.GPT.Model)
	} else {
		log.Println("GPT backend disabled, rule engine only")
	}

	// WebSocket Hub 초기화
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Service 레이어 초기화
	authService := service.NewAuthService(userRepo, jwtService, redisCache)
	settingsService := service.NewSettingsService(settingRepo, redisCache)
	orderService := service.NewOrderService(orderRepo)
	decisionEngine := service.NewDecisionEngine(gptCaller, orderRepo)
	summaryService := service.NewSummaryService(gptCaller)
	chatService := service.NewChatService(
		db,
		sessionRepo,
		messageRepo,
		userRepo,
		settingsService,
		decisionEngine,
		summaryService,
		wsHub,
		redisCache,
	)
	adminService := service.NewAdminService(sessionRepo, messageRepo)

	// Handler 레이어 초기화
	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	adminHandler := handler.NewAdminHandler(adminService, chatService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	orderHandler := handler.NewOrderHandler(orderService)
	wsHandler := websocket.NewHandler(wsHub, jwtService)

	// Gin 모드 설정
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Gin 엔진 생성
	router := gin.New()

	// 전역 미들웨어
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggerMiddleware())
	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORS) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORS
	}
	router.Use(middleware.CORSMiddleware(corsConfig))

	// 라우트 등록
	registerRoutes(router, jwtService, redisCache,
		authHandler, chatHandler, adminHandler, settingsHandler, orderHandler, wsHandler)

	// HTTP 서버 생성
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // 생성형 호출이 포함된 요청을 고려한다
	}

	// 별도 고루틴에서 서버 시작
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// 우아한 종료
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := redisCache.Close(); err != nil {
		log.Printf("Failed to close redis: %v", err)
	}

	log.Println("Server exited")
}

// initDatabase 데이터베이스 연결을 초기화한다
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.MySQL.Username,
		cfg.MySQL.Password,
		cfg.MySQL.Host,
		cfg.MySQL.Port,
		cfg.MySQL.Database,
		cfg.MySQL.Charset,
	)

	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 커넥션 풀 설정
	sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MySQL.MaxLifetime) * time.Second)

	log.Println("Database connected successfully")
	return db, nil
}

// autoMigrate 테이블을 자동 마이그레이션한다
func autoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&model.User{},
		&model.ChatSession{},
		&model.SessionMetadata{},
		&model.Message{},
		&model.Order{},
		&model.ChatbotSetting{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// registerRoutes 모든 라우트를 등록한다
func registerRoutes(
	router *gin.Engine,
	jwtService *jwt.JWTService,
	redisCache *cache.RedisCache,
	authHandler *handler.AuthHandler,
	chatHandler *handler.ChatHandler,
	adminHandler *handler.AdminHandler,
	settingsHandler *handler.SettingsHandler,
	orderHandler *handler.OrderHandler,
	wsHandler *websocket.Handler,
) {
	// 헬스 체크
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 업로드 파일 정적 서빙
	router.Static("/uploads", "./uploads")

	api := router.Group("/api")

	// 인증 (로그인은 비인증)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.AuthMiddleware(jwtService, redisCache), authHandler.Logout)
		auth.GET("/me", middleware.AuthMiddleware(jwtService, redisCache), authHandler.Me)
	}

	// 상담 채팅 (로그인 필요)
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtService, redisCache))
	{
		chatHandler.RegisterRoutes(authed)
		orderHandler.RegisterRoutes(authed)
	}

	// 관리자 전용
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtService, redisCache), middleware.RequireAdmin())
	{
		adminHandler.RegisterRoutes(admin)
		settingsHandler.RegisterRoutes(admin)
	}

	// WebSocket (token 은 query 로 검증)
	wsHandler.RegisterRoutes(router)
}
