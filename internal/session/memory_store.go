package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// MemoryStore хранит активные сессии в памяти процесса.
// Подходит для одного экземпляра сервера и для тестов.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	// clock подменяется в тестах
	clock func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore создаёт in-memory хранилище. Сессии старше ttl
// удаляются фоновой уборкой.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    time.Now,
		stopChan: make(chan struct{}),
	}

	go s.janitor()
	return s
}

// Save сохраняет сессию
func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	return nil
}

// Consume атомарно изымает сессию из хранилища
func (s *MemoryStore) Consume(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)

	// брошенная сессия, пережившая TTL, равносильна отсутствующей
	if s.ttl > 0 && s.clock().Sub(sess.CreatedAt) > s.ttl {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Len возвращает число активных сессий
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Stop останавливает фоновую уборку
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

func (s *MemoryStore) janitor() {
	if s.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[INFO] [SESSION] Swept %d abandoned sessions", removed)
	}
}
