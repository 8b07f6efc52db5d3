package session

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/agentmart/agentmart-backend/pkg/config"
	redisclient "github.com/agentmart/agentmart-backend/pkg/redis"
)

type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s, ok := value.(string); ok {
		m.values[key] = s
		return nil
	}
	return errors.New("unexpected value type")
}

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", redislib.Nil
}

func (m *memStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

type memKeyer struct{}

func (memKeyer) AccessSessionKey(accessID string) string {
	return "am:session:access:" + accessID
}

func newTestManager(store *memStore) *Manager {
	return &Manager{store: store, keyer: memKeyer{}, ttl: time.Hour}
}

func TestNewManagerValidatesTTLs(t *testing.T) {
	_, err := NewManager(nil, config.JWTConfig{RefreshTokenTTLMinutes: 60, ExpirationMinutes: 15})
	if err == nil {
		t.Fatal("expected error for nil client")
	}
	_, err = NewManager(&redisclient.Client{}, config.JWTConfig{RefreshTokenTTLMinutes: 10, ExpirationMinutes: 15})
	if err == nil {
		t.Fatal("expected error when refresh ttl does not exceed access ttl")
	}
}

func TestRotateIssuesNewPairAndDropsOld(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	accessID := NewAccessID()
	token, err := m.Generate(ctx, accessID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	newAccessID, newToken, err := m.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if newAccessID == accessID {
		t.Fatal("expected a fresh access id")
	}
	if newToken == token {
		t.Fatal("expected a fresh refresh token")
	}
	if _, ok := store.values[m.keyer.AccessSessionKey(accessID)]; ok {
		t.Fatal("old session key should be deleted")
	}
	if stored := store.values[m.keyer.AccessSessionKey(newAccessID)]; stored != newToken {
		t.Fatalf("new session not stored, got %q", stored)
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	accessID := NewAccessID()
	if _, err := m.Generate(ctx, accessID); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, _, err := m.Rotate(ctx, accessID, "forged"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken got %v", err)
	}
}

func TestRotateReplayFails(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	accessID := NewAccessID()
	token, err := m.Generate(ctx, accessID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, _, err := m.Rotate(ctx, accessID, token); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	if _, _, err := m.Rotate(ctx, accessID, token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken on replay got %v", err)
	}
}

func TestHasSessionReportsLiveAndRevoked(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store)
	ctx := context.Background()

	accessID := NewAccessID()
	if _, err := m.Generate(ctx, accessID); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	ok, err := m.HasSession(ctx, accessID)
	if err != nil || !ok {
		t.Fatalf("expected live session, got ok=%v err=%v", ok, err)
	}

	if err := m.Revoke(ctx, accessID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	ok, err = m.HasSession(ctx, accessID)
	if err != nil || ok {
		t.Fatalf("expected revoked session, got ok=%v err=%v", ok, err)
	}
}
