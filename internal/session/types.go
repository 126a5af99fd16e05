package session

import (
	"time"

	"github.com/Krimson/fatigue-guard/internal/cognitive"
)

// Session — активная попытка прохождения когнитивного теста.
// Эталонные ответы живут только здесь, на сервере.
type Session struct {
	ID         string           `json:"id"`
	EmployeeID string           `json:"employee_id"`
	TestType   string           `json:"test_type"`
	Items      []cognitive.Item `json:"items"`
	CreatedAt  time.Time        `json:"created_at"`
	TimeLimit  time.Duration    `json:"time_limit"`
}

// ExpiresAt возвращает дедлайн сдачи теста
func (s *Session) ExpiresAt() time.Time {
	return s.CreatedAt.Add(s.TimeLimit)
}

// StartedSession — ответ на создание сессии, без эталонных ответов
type StartedSession struct {
	SessionID        string                 `json:"session_id"`
	TestType         string                 `json:"test_type"`
	TimeLimitSeconds int                    `json:"time_limit"`
	Questions        []cognitive.ClientItem `json:"questions"`
}

// Summary — итог сдачи теста без поэлементного разбора.
// Эталонные ответы и список ошибок доступны только через запрос результата.
type Summary struct {
	TestID      string    `json:"test_id"`
	Score       float64   `json:"score"`
	Correct     int       `json:"correct_answers"`
	Total       int       `json:"total_questions"`
	CooldownEnd time.Time `json:"cooldown_end"`
}
