package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Krimson/fatigue-guard/internal/cognitive"
	"github.com/Krimson/fatigue-guard/internal/repository"
)

// Repository — персистентная история тестов, нужная менеджеру сессий
type Repository interface {
	SaveTestResult(ctx context.Context, rec *repository.TestRecord) error
	GetTestResult(ctx context.Context, id string) (*repository.TestRecord, error)
	LastTestTime(ctx context.Context, employeeID, testType string) (time.Time, error)
}

// EventPublisher уведомляет внешние системы о завершённых тестах
type EventPublisher interface {
	PublishTestCompleted(ctx context.Context, rec *repository.TestRecord) error
}

// Config задаёт параметры жизненного цикла сессий
type Config struct {
	QuestionCount       int
	LegacyQuestionCount int
	TimeLimit           time.Duration
	CooldownWindow      time.Duration
}

// Manager управляет жизненным циклом тестовых сессий:
// создание с проверкой паузы, единственная сдача, оценка, сохранение
type Manager struct {
	store     Store
	generator *cognitive.Generator
	cooldown  *cognitive.CooldownPolicy
	repo      Repository
	publisher EventPublisher
	cfg       Config

	// clock подменяется в тестах
	clock func() time.Time
}

// NewManager создаёт менеджер сессий. publisher может быть nil.
func NewManager(store Store, generator *cognitive.Generator, repo Repository, publisher EventPublisher, cfg Config) *Manager {
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = 10
	}
	if cfg.LegacyQuestionCount <= 0 {
		cfg.LegacyQuestionCount = 5
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = 300 * time.Second
	}
	if cfg.CooldownWindow <= 0 {
		cfg.CooldownWindow = 600 * time.Second
	}

	return &Manager{
		store:     store,
		generator: generator,
		cooldown:  cognitive.NewCooldownPolicy(cfg.CooldownWindow),
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		clock:     time.Now,
	}
}

// Create открывает новую сессию теста.
// Неизвестный тип теста и активная пауза отклоняются до генерации вопросов.
func (m *Manager) Create(ctx context.Context, employeeID, testType string, legacy bool) (*StartedSession, error) {
	if !cognitive.ValidTestType(testType) {
		return nil, fmt.Errorf("%w: %q", cognitive.ErrInvalidTestType, testType)
	}

	lastTaken, err := m.repo.LastTestTime(ctx, employeeID, testType)
	if err != nil {
		return nil, fmt.Errorf("check test history: %w", err)
	}
	if err := m.cooldown.Check(lastTaken); err != nil {
		return nil, err
	}

	count := m.cfg.QuestionCount
	if legacy {
		count = m.cfg.LegacyQuestionCount
	}

	items, err := m.generator.Generate(testType, count)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		TestType:   testType,
		Items:      items,
		CreatedAt:  m.clock(),
		TimeLimit:  m.cfg.TimeLimit,
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	log.Printf("[INFO] [SESSION] Created: id=%s employee=%s type=%s questions=%d",
		sess.ID, employeeID, testType, len(items))

	return &StartedSession{
		SessionID:        sess.ID,
		TestType:         testType,
		TimeLimitSeconds: int(m.cfg.TimeLimit.Seconds()),
		Questions:        cognitive.ProjectItems(items),
	}, nil
}

// Submit принимает ответы по сессии и возвращает итог без поэлементного
// разбора: эталонные ответы не должны попадать в ответ на сдачу.
// Сессия изымается ровно один раз: повторная сдача получает
// ErrSessionNotFound. Сдача после дедлайна изымает сессию, но
// отклоняется с ErrSessionExpired.
func (m *Manager) Submit(ctx context.Context, sessionID string, answers map[string]string, timings map[string]float64) (*Summary, error) {
	sess, err := m.store.Consume(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := m.clock()
	if now.After(sess.ExpiresAt()) {
		log.Printf("[WARN] [SESSION] Expired submission: id=%s deadline=%s", sessionID, sess.ExpiresAt().Format(time.RFC3339))
		return nil, fmt.Errorf("%w: %s", ErrSessionExpired, sessionID)
	}

	result := cognitive.Score(sess.Items, answers, timings)

	rec := &repository.TestRecord{
		ID:          uuid.New().String(),
		EmployeeID:  sess.EmployeeID,
		TestType:    sess.TestType,
		Score:       result.Score,
		Correct:     result.Correct,
		Total:       result.Total,
		Mistakes:    result.Mistakes,
		Details:     result.Details,
		CooldownEnd: now.Add(m.cfg.CooldownWindow),
		CompletedAt: now,
	}

	if err := m.repo.SaveTestResult(ctx, rec); err != nil {
		return nil, fmt.Errorf("save test result: %w", err)
	}

	if m.publisher != nil {
		if err := m.publisher.PublishTestCompleted(ctx, rec); err != nil {
			log.Printf("[ERROR] [SESSION] Failed to publish test event: %v", err)
		}
	}

	log.Printf("[INFO] [SESSION] Submitted: id=%s employee=%s score=%.1f mistakes=%d",
		sessionID, sess.EmployeeID, result.Score, len(result.Mistakes))

	return &Summary{
		TestID:      rec.ID,
		Score:       rec.Score,
		Correct:     rec.Correct,
		Total:       rec.Total,
		CooldownEnd: rec.CooldownEnd,
	}, nil
}

// Result возвращает сохранённый результат теста
func (m *Manager) Result(ctx context.Context, id string) (*repository.TestRecord, error) {
	return m.repo.GetTestResult(ctx, id)
}
