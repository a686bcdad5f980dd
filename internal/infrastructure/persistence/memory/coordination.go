package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

// SessionStore 进程内的会话存储和Token黑名单(未配置Redis时使用)
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[uint]expiring[map[string]string]
	blacklist map[string]time.Time
	now       func() time.Time
}

type expiring[T any] struct {
	value     T
	expiresAt time.Time
}

// NewSessionStore 创建会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[uint]expiring[map[string]string]),
		blacklist: make(map[string]time.Time),
		now:       time.Now,
	}
}

func (s *SessionStore) SaveSession(_ context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make(map[string]string, len(sessionData))
	for k, v := range sessionData {
		data[k] = toString(v)
	}
	s.sessions[userID] = expiring[map[string]string]{value: data, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, userID uint) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[userID]
	if !ok || !e.expiresAt.After(s.now()) {
		delete(s.sessions, userID)
		return nil, apperrors.ErrUnauthorized
	}
	out := make(map[string]string, len(e.value))
	for k, v := range e.value {
		out[k] = v
	}
	return out, nil
}

func (s *SessionStore) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *SessionStore) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.blacklist {
		if !exp.After(now) {
			delete(s.blacklist, k)
		}
	}
	s.blacklist[token] = now.Add(ttl)
	return nil
}

func (s *SessionStore) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.blacklist[token]
	return ok && exp.After(s.now()), nil
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// JobLock 进程内的任务锁,只在单实例部署时使用
type JobLock struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

// NewJobLock 创建任务锁
func NewJobLock() *JobLock {
	return &JobLock{held: make(map[string]time.Time), now: time.Now}
}

// TryLock 与Redis实现语义相同:已被持有且未过期时返回false
func (l *JobLock) TryLock(_ context.Context, name string, ttl time.Duration) (bool, func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if exp, ok := l.held[name]; ok && exp.After(now) {
		return false, func() {}, nil
	}
	expiry := now.Add(ttl)
	l.held[name] = expiry

	return true, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[name].Equal(expiry) {
			delete(l.held, name)
		}
	}, nil
}
