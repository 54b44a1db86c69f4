package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"gamevault/internal/kvstore"
)

func newTestManager(ttl time.Duration) (*Manager, kvstore.Store) {
	store := kvstore.NewMemory()
	return NewManager(store, ttl), store
}

func TestCreateThenLoad(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Hour)

	created, err := m.Create(ctx, "user-7")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	loaded, err := m.Load(ctx, created.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatalf("Load returned absent for a fresh session")
	}
	if loaded.PrincipalID != "user-7" {
		t.Fatalf("PrincipalID: got %q, want %q", loaded.PrincipalID, "user-7")
	}
	if len(loaded.CSRFTokens) != 0 {
		t.Fatalf("fresh session has CSRF tokens: %v", loaded.CSRFTokens)
	}
	if loaded.Anonymous() {
		t.Fatalf("session with principal reported anonymous")
	}
}

func TestLoadAbsent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Hour)

	s, err := m.Load(ctx, "never-created")
	if err != nil {
		t.Fatalf("Load of missing session errored: %v", err)
	}
	if s != nil {
		t.Fatalf("Load of missing session returned %+v", s)
	}
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(time.Hour)

	store.Set(ctx, "session:broken", "%%%", time.Hour, false)

	_, err := m.Load(ctx, "broken")
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("got %v, want ErrCorrupt", err)
	}
}

func TestSaveResetsTTL(t *testing.T) {
	ctx := context.Background()
	ttl := 10 * time.Minute
	m, store := newTestManager(ttl)

	s, err := m.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Shrink the remaining lifetime, then save and confirm it is back
	// at the full configured TTL.
	if ok, _ := store.Expire(ctx, "session:"+s.ID, time.Minute); !ok {
		t.Fatalf("Expire on live session failed")
	}

	s.Data["k"] = "v"
	if err := m.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	remaining, err := store.TTL(ctx, "session:"+s.ID)
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if remaining < ttl-10*time.Second || remaining > ttl {
		t.Fatalf("TTL after save: got %v, want ~%v", remaining, ttl)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Hour)

	s, _ := m.Create(ctx, "user-1")

	if err := m.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(ctx, s.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	loaded, err := m.Load(ctx, s.ID)
	if err != nil || loaded != nil {
		t.Fatalf("Load after Delete: got (%v, %v), want (nil, nil)", loaded, err)
	}
}

func TestExpiredSessionLoadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(20 * time.Millisecond)

	s, _ := m.Create(ctx, "user-1")

	time.Sleep(40 * time.Millisecond)

	loaded, err := m.Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load after expiry errored: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expired session still visible")
	}
}

func TestIssueCSRFTokenPersists(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Hour)

	s, _ := m.Create(ctx, "user-1")

	token, err := m.IssueCSRFToken(ctx, s)
	if err != nil {
		t.Fatalf("IssueCSRFToken: %v", err)
	}

	loaded, err := m.Load(ctx, s.ID)
	if err != nil || loaded == nil {
		t.Fatalf("Load: (%v, %v)", loaded, err)
	}
	if !loaded.HasCSRFToken(token) {
		t.Fatalf("issued token not present after reload")
	}
	if loaded.HasCSRFToken("other") {
		t.Fatalf("foreign token accepted")
	}
}

func TestDeleteAllForPrincipal(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Hour)

	first, _ := m.Create(ctx, "user-9")
	second, _ := m.Create(ctx, "user-9")
	other, _ := m.Create(ctx, "user-10")

	if err := m.DeleteAllForPrincipal(ctx, "user-9"); err != nil {
		t.Fatalf("DeleteAllForPrincipal: %v", err)
	}

	for _, id := range []string{first.ID, second.ID} {
		if s, _ := m.Load(ctx, id); s != nil {
			t.Fatalf("session %s survived revocation", id)
		}
	}

	if s, _ := m.Load(ctx, other.ID); s == nil {
		t.Fatalf("unrelated principal's session was revoked")
	}
}

func TestActiveSessionIDs(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(time.Hour)

	s, _ := m.Create(ctx, "user-1")

	ids, err := m.ActiveSessionIDs(ctx)
	if err != nil {
		t.Fatalf("ActiveSessionIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != s.ID {
		t.Fatalf("got %v, want [%s]", ids, s.ID)
	}
}

// saddFailStore breaks only the index write, leaving the blob path
// intact.
type saddFailStore struct {
	kvstore.Store
}

func (f *saddFailStore) SAdd(ctx context.Context, key string, members ...string) (int64, error) {
	return 0, errors.New("index write refused")
}

func TestCreateRollsBackOnIndexFailure(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	m := NewManager(&saddFailStore{Store: store}, time.Hour)

	s, err := m.Create(ctx, "user-1")
	if err == nil {
		t.Fatalf("Create succeeded despite index failure: %+v", s)
	}

	// No orphaned blob may remain: it would be live yet invisible to
	// DeleteAllForPrincipal.
	keys, scanErr := store.Scan(ctx, "session:*")
	if scanErr != nil {
		t.Fatalf("Scan: %v", scanErr)
	}
	if len(keys) != 0 {
		t.Fatalf("orphaned session blobs left behind: %v", keys)
	}
}
