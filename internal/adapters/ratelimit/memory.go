// Package ratelimit implementa accounts.AttemptLimiter: ventana fija de intentos fallidos por clave.
package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// Memory guarda los contadores en proceso. Sirve para dev y tests; con varias réplicas usar Redis.
type Memory struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	now    func() time.Time
	byKey  map[string]window
}

func NewMemory(maxAttempts int, win time.Duration) *Memory {
	return &Memory{
		max:    maxAttempts,
		window: win,
		now:    time.Now,
		byKey:  make(map[string]window),
	}
}

func (m *Memory) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.current(normalizeKey(key))
	if !ok {
		return true, nil
	}
	return w.count < m.max, nil
}

func (m *Memory) Fail(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key = normalizeKey(key)
	w, ok := m.current(key)
	if !ok {
		w = window{resetAt: m.now().Add(m.window)}
	}
	w.count++
	m.byKey[key] = w
	return nil
}

func (m *Memory) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byKey, normalizeKey(key))
	return nil
}

// current devuelve la ventana vigente; las vencidas se descartan.
func (m *Memory) current(key string) (window, bool) {
	w, ok := m.byKey[key]
	if !ok {
		return window{}, false
	}
	if !m.now().Before(w.resetAt) {
		delete(m.byKey, key)
		return window{}, false
	}
	return w, true
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
