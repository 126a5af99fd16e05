package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Krimson/fatigue-guard/internal/cognitive"
	"github.com/Krimson/fatigue-guard/internal/config"
	"github.com/Krimson/fatigue-guard/internal/eligibility"
	"github.com/Krimson/fatigue-guard/internal/event"
	"github.com/Krimson/fatigue-guard/internal/handler"
	"github.com/Krimson/fatigue-guard/internal/repository"
	"github.com/Krimson/fatigue-guard/internal/service"
	"github.com/Krimson/fatigue-guard/internal/session"
	"github.com/Krimson/fatigue-guard/internal/vision"
	"github.com/Krimson/fatigue-guard/internal/websocket"

	_ "github.com/Krimson/fatigue-guard/docs" // Swagger docs
)

// @title Fatigue Guard API
// @version 1.0
// @description API мониторинга усталости и когнитивного тестирования лётного экипажа.
// @description
// @description ## Описание
// @description Сервис анализирует видеозаписи экипажа через пайплайн распознавания усталости,
// @description проводит когнитивные тесты с одноразовыми сессиями и проверяет допуск к полёту.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http

func main() {
	cfg := config.Load()

	ctx := context.Background()

	// PostgreSQL
	repo, err := repository.NewPostgresRepoFromDSN(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[FATAL] PostgreSQL unavailable: %v", err)
	}
	defer repo.Close()
	log.Printf("[INFO] Connected to PostgreSQL")

	// Redis: хранилище активных тестовых сессий
	sessionTTL := cfg.TestTimeLimit + cfg.SessionGrace
	var store session.Store
	redisStore, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, sessionTTL)
	if err != nil {
		log.Printf("[WARN] Redis unavailable, falling back to in-memory sessions: %v", err)
		memStore := session.NewMemoryStore(sessionTTL)
		defer memStore.Stop()
		store = memStore
	} else {
		defer redisStore.Close()
		store = redisStore
		log.Printf("[INFO] Connected to Redis")
	}

	// RabbitMQ: публикация событий опциональна
	var publisher *event.Publisher
	if cfg.RabbitMQURL != "" {
		publisher, err = event.NewPublisher(cfg.RabbitMQURL, cfg.ExchangeName)
		if err != nil {
			log.Printf("[WARN] RabbitMQ unavailable, events disabled: %v", err)
		} else {
			defer publisher.Close()
		}
	}

	// Inference sidecar: недоступная модель — фатальная ошибка
	locator := vision.NewHTTPFaceLocator(cfg.DetectorURL, cfg.MinDetectionConfidence)
	classifier, err := vision.NewHTTPFrameClassifier(ctx, cfg.ClassifierURL)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// WebSocket hub для трансляции хода анализа
	hub := websocket.NewHub()
	go hub.Run()

	generator := cognitive.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))

	var sessionPublisher session.EventPublisher
	var analysisPublisher service.EventPublisher
	if publisher != nil {
		sessionPublisher = publisher
		analysisPublisher = publisher
	}

	manager := session.NewManager(store, generator, repo, sessionPublisher, session.Config{
		QuestionCount:       cfg.QuestionCount,
		LegacyQuestionCount: cfg.LegacyQuestionCount,
		TimeLimit:           cfg.TestTimeLimit,
		CooldownWindow:      cfg.CooldownWindow,
	})

	analysisService := service.NewAnalysisService(cfg, locator, classifier, repo, analysisPublisher, hub)
	checker := eligibility.NewChecker(repo)

	httpHandler := handler.NewHTTPHandler(analysisService, manager, checker, repo)

	router := mux.NewRouter()
	httpHandler.RegisterRoutes(router)

	router.HandleFunc("/ws/analysis", hub.HandleWebSocket)

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      enableCORS(router),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[INFO] HTTP server starting on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("[INFO] Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("[FATAL] Server forced to shutdown: %v", err)
	}

	log.Printf("[INFO] Server exited gracefully")
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			return
		}

		next.ServeHTTP(w, r)
	})
}
