package session

import (
	"context"
	"errors"
)

var (
	// ErrSessionNotFound возвращается для неизвестной или уже использованной сессии
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired возвращается при сдаче теста после дедлайна
	ErrSessionExpired = errors.New("session expired")
)

// Store хранит активные сессии тестов.
// Consume атомарно изымает сессию: повторный вызов для того же id
// возвращает ErrSessionNotFound, сколько бы клиентов ни соревновалось.
type Store interface {
	Save(ctx context.Context, sess *Session) error
	Consume(ctx context.Context, id string) (*Session, error)
}
