package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

type prefixKeyer struct{}

func (prefixKeyer) AccessSessionKey(accessID string) string { return "gm:session:access:" + accessID }

func testManager(store *fakeStore) *Manager {
	return &Manager{store: store, keyer: prefixKeyer{}, ttl: time.Hour}
}

func TestGenerateAndHasSession(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := testManager(store)

	accessID := NewAccessID()
	token, err := m.Generate(context.Background(), accessID)
	if err != nil {
		t.Fatalf("unexpected generate error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a refresh token")
	}

	ok, err := m.HasSession(context.Background(), accessID)
	if err != nil || !ok {
		t.Fatalf("expected live session, got ok=%v err=%v", ok, err)
	}

	ok, err = m.HasSession(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("expected no session, got ok=%v err=%v", ok, err)
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := testManager(store)

	accessID := NewAccessID()
	token, err := m.Generate(context.Background(), accessID)
	if err != nil {
		t.Fatalf("unexpected generate error: %v", err)
	}

	newID, newToken, err := m.Rotate(context.Background(), accessID, token)
	if err != nil {
		t.Fatalf("unexpected rotate error: %v", err)
	}
	if newID == accessID || newToken == token {
		t.Fatal("rotation must issue a fresh pair")
	}

	if ok, _ := m.HasSession(context.Background(), accessID); ok {
		t.Fatal("old session should be revoked after rotation")
	}
	if ok, _ := m.HasSession(context.Background(), newID); !ok {
		t.Fatal("new session should be live after rotation")
	}
}

func TestRotateRejectsMismatchedToken(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := testManager(store)

	accessID := NewAccessID()
	if _, err := m.Generate(context.Background(), accessID); err != nil {
		t.Fatalf("unexpected generate error: %v", err)
	}

	if _, _, err := m.Rotate(context.Background(), accessID, "forged"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	m := testManager(store)

	accessID := NewAccessID()
	if _, err := m.Generate(context.Background(), accessID); err != nil {
		t.Fatalf("unexpected generate error: %v", err)
	}
	if err := m.Revoke(context.Background(), accessID); err != nil {
		t.Fatalf("unexpected revoke error: %v", err)
	}
	if ok, _ := m.HasSession(context.Background(), accessID); ok {
		t.Fatal("session should be gone after revoke")
	}
}
