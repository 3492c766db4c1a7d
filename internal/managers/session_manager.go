package managers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"bookstore-server/internal/config"
)

// Session is the server-side state of one login. The status flags are
// snapshotted at login time and feed the capability checks.
type Session struct {
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	IsStaff     bool   `json:"isStaff"`
	IsSuperuser bool   `json:"isSuperuser"`
}

// SessionMgr keeps login sessions in a revocable store. Deleting a session
// is what makes "logout" real despite stateless JWTs: the auth middleware
// rejects any token whose session no longer exists.
type SessionMgr interface {
	CreateSession(ctx context.Context, session Session) (string, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// SessionManager is the redis-backed implementation of SessionMgr.
type SessionManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	return client, nil
}

// NewSessionManager creates a SessionManager with the given session TTL.
func NewSessionManager(client *redis.Client, ttl time.Duration) SessionMgr {
	log.Info("Initializing session manager")
	return &SessionManager{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// CreateSession stores a new session and returns its id.
func (sm *SessionManager) CreateSession(ctx context.Context, session Session) (string, error) {
	sessionID := uuid.New().String()

	payload, err := json.Marshal(&session)
	if err != nil {
		return "", err
	}

	if err := sm.client.Set(ctx, sessionKey(sessionID), payload, sm.ttl).Err(); err != nil {
		return "", err
	}

	return sessionID, nil
}

// GetSession loads a session; a missing or expired session returns nil.
func (sm *SessionManager) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	payload, err := sm.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session := &Session{}
	if err := json.Unmarshal([]byte(payload), session); err != nil {
		return nil, err
	}

	return session, nil
}

// DeleteSession ends a session immediately.
func (sm *SessionManager) DeleteSession(ctx context.Context, sessionID string) error {
	return sm.client.Del(ctx, sessionKey(sessionID)).Err()
}
