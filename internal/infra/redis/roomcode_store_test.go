package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RoomCodeStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRoomCodeStore(client, time.Hour), mr
}

func TestRoomCodeStorePutAndGet(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	rc := domain.RoomCode{
		Code:        "AB12CD",
		CategoryKey: "biologia",
		ExpiresAt:   time.Now().Add(5 * time.Minute).UTC(),
	}
	if err := store.Put(ctx, rc); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists("room:code:AB12CD") {
		t.Fatalf("expected redis key to be set")
	}

	got, err := store.Get(ctx, "AB12CD")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CategoryKey != "biologia" || !got.ExpiresAt.Equal(rc.ExpiresAt) {
		t.Fatalf("row mismatch: %+v", got)
	}
}

func TestRoomCodeStoreMissingIsNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	if _, err := store.Get(context.Background(), "ZZZZZZ"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Rows outlive the logical expiry so a lapsed code still reads back with its
// record and can be reported as expired rather than unknown.
func TestRoomCodeStoreRetainsExpiredRows(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	past := time.Now().Add(-time.Minute).UTC()
	rc := domain.RoomCode{Code: "OLD123", CategoryKey: "biologia", ExpiresAt: past}
	if err := store.Put(ctx, rc); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "OLD123")
	if err != nil {
		t.Fatalf("expected lapsed row readable, got %v", err)
	}
	if !got.Expired(time.Now()) {
		t.Fatalf("expected row to read as expired")
	}

	// Once the retention window passes, the row disappears for good.
	mr.FastForward(2 * time.Hour)
	if _, err := store.Get(ctx, "OLD123"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after retention, got %v", err)
	}
}
