package cognitive

import (
	"fmt"
	"time"
)

// CooldownError возвращается при попытке начать тест до истечения паузы
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("test cooldown active, retry after %s", e.RetryAfter.Round(time.Second))
}

// CooldownPolicy ограничивает частоту прохождения тестов одного типа
type CooldownPolicy struct {
	Window time.Duration

	// Clock подменяется в тестах
	Clock func() time.Time
}

// NewCooldownPolicy создаёт политику с окном window
func NewCooldownPolicy(window time.Duration) *CooldownPolicy {
	return &CooldownPolicy{
		Window: window,
		Clock:  time.Now,
	}
}

// Check проверяет, можно ли начинать тест, если последний такой тест
// был завершён в lastTaken. Нулевое время означает отсутствие истории.
func (p *CooldownPolicy) Check(lastTaken time.Time) error {
	if lastTaken.IsZero() {
		return nil
	}

	elapsed := p.Clock().Sub(lastTaken)
	if elapsed < p.Window {
		return &CooldownError{RetryAfter: p.Window - elapsed}
	}
	return nil
}

// NextAllowed возвращает момент, с которого тест снова доступен
func (p *CooldownPolicy) NextAllowed(lastTaken time.Time) time.Time {
	if lastTaken.IsZero() {
		return p.Clock()
	}
	return lastTaken.Add(p.Window)
}
